package assistant

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oiorda/orda/core"
	"github.com/oiorda/orda/core/i18n"
)

type fakeModel struct {
	system   string
	messages []Message
	reply    string
	err      error
}

func (m *fakeModel) Generate(_ context.Context, system string, messages []Message) (string, error) {
	m.system = system
	m.messages = messages
	return m.reply, m.err
}

type fakeDigester struct {
	digest string
	err    error
}

func (d fakeDigester) Digest(context.Context, int, i18n.Lang, int) (string, error) {
	return d.digest, d.err
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) Debug(msg string, _ ...interface{}) { l.Println(msg) }
func (l stdLogger) Info(msg string, _ ...interface{})  { l.Println(msg) }
func (l stdLogger) Warn(msg string, _ ...interface{})  { l.Println(msg) }
func (l stdLogger) Error(msg string, _ ...interface{}) { l.Println(msg) }
func (l stdLogger) Fatal(msg string, _ ...interface{}) { l.Println(msg) }

func newService(model Model, digests Digester, historyLimit int) *Service {
	conf := core.NewTestConfig()
	conf.Assistant.Enabled = true
	conf.Assistant.HistoryLimit = historyLimit
	return NewService(model, digests, stdLogger{log.New(io.Discard, "", 0)}, conf)
}

func TestService_Reply(t *testing.T) {
	ctx := context.Background()

	t.Run("offline without model", func(t *testing.T) {
		svc := newService(nil, fakeDigester{}, 10)
		reply, err := svc.Reply(ctx, 1, i18n.EN, ChatRequest{Question: "How am I doing?"})
		require.NoError(t, err)
		assert.True(t, reply.Offline)
		assert.Equal(t, OfflineReply(i18n.EN), reply.Content)
	})

	t.Run("offline when disabled", func(t *testing.T) {
		model := &fakeModel{reply: "hello"}
		conf := core.NewTestConfig()
		conf.Assistant.Enabled = false
		svc := NewService(model, fakeDigester{}, stdLogger{log.New(io.Discard, "", 0)}, conf)
		reply, err := svc.Reply(ctx, 1, i18n.KK, ChatRequest{Question: "Сәлем"})
		require.NoError(t, err)
		assert.True(t, reply.Offline)
		assert.Equal(t, OfflineReply(i18n.KK), reply.Content)
		assert.Empty(t, model.messages)
	})

	t.Run("request language wins", func(t *testing.T) {
		svc := newService(nil, fakeDigester{}, 10)
		reply, err := svc.Reply(ctx, 1, i18n.EN, ChatRequest{Lang: "RU", Question: "Привет"})
		require.NoError(t, err)
		assert.Equal(t, OfflineReply(i18n.RU), reply.Content)
	})

	t.Run("blank question", func(t *testing.T) {
		svc := newService(nil, fakeDigester{}, 10)
		_, err := svc.Reply(ctx, 1, i18n.EN, ChatRequest{Question: "   "})
		assert.Error(t, err)
	})

	t.Run("digest in system prompt", func(t *testing.T) {
		model := &fakeModel{reply: "Try talking to your teacher."}
		svc := newService(model, fakeDigester{digest: "Recent results: MBTI: INTJ"}, 10)
		reply, err := svc.Reply(ctx, 1, i18n.EN, ChatRequest{Question: "What next?"})
		require.NoError(t, err)
		assert.False(t, reply.Offline)
		assert.Equal(t, "Try talking to your teacher.", reply.Content)
		assert.True(t, strings.HasPrefix(model.system, "You are a caring school counselor"))
		assert.Contains(t, model.system, "\nRecent results: MBTI: INTJ\n")
		assert.Equal(t, []Message{{Role: RoleUser, Content: "What next?"}}, model.messages)
	})

	t.Run("history truncated", func(t *testing.T) {
		model := &fakeModel{reply: "ok"}
		svc := newService(model, fakeDigester{}, 2)
		history := []Message{
			{Role: RoleUser, Content: "one"},
			{Role: RoleAssistant, Content: "two"},
			{Role: RoleUser, Content: "three"},
		}
		_, err := svc.Reply(ctx, 1, i18n.RU, ChatRequest{History: history, Question: "four"})
		require.NoError(t, err)
		assert.Equal(t, []Message{
			{Role: RoleAssistant, Content: "two"},
			{Role: RoleUser, Content: "three"},
			{Role: RoleUser, Content: "four"},
		}, model.messages)
	})

	t.Run("model failure falls back", func(t *testing.T) {
		model := &fakeModel{err: errors.New("quota exceeded")}
		svc := newService(model, fakeDigester{}, 10)
		reply, err := svc.Reply(ctx, 1, i18n.RU, ChatRequest{Question: "Привет"})
		require.NoError(t, err)
		assert.True(t, reply.Offline)
		assert.Equal(t, OfflineReply(i18n.RU), reply.Content)
	})

	t.Run("digest failure", func(t *testing.T) {
		model := &fakeModel{reply: "ok"}
		svc := newService(model, fakeDigester{err: errors.New("db down")}, 10)
		_, err := svc.Reply(ctx, 1, i18n.RU, ChatRequest{Question: "Привет"})
		assert.Error(t, err)
	})
}

func TestSystemPrompt(t *testing.T) {
	for _, lang := range i18n.Langs {
		t.Run(string(lang), func(t *testing.T) {
			prompt := SystemPrompt(lang, "PROFILE")
			assert.Contains(t, prompt, "\nPROFILE\n")
			assert.NotContains(t, prompt, "{0}")
		})
	}
}
