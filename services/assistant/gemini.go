package assistantsvc

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/api/option"

	"github.com/oiorda/orda/core"
	"github.com/oiorda/orda/core/assistant"
)

// GeminiModel generates assistant replies with Google Gemini.
type GeminiModel struct {
	client    *genai.Client
	modelName string
	maxTokens int32
}

var _ assistant.Model = (*GeminiModel)(nil)

// NewGeminiModel returns a Gemini backed model, or assistant.ErrOffline when no API key is configured.
func NewGeminiModel(ctx context.Context, conf *core.Config) (*GeminiModel, error) {
	if conf.Assistant.APIKey == "" {
		return nil, assistant.ErrOffline
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(conf.Assistant.APIKey))
	if err != nil {
		return nil, errors.Wrap(err, "creating Gemini client")
	}
	return &GeminiModel{
		client:    client,
		modelName: conf.Assistant.Model,
		maxTokens: int32(conf.Assistant.MaxTokens),
	}, nil
}

func (m *GeminiModel) Generate(ctx context.Context, system string, messages []assistant.Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no message to answer")
	}

	model := m.client.GenerativeModel(m.modelName)
	model.SetTemperature(0.4)
	if m.maxTokens > 0 {
		model.SetMaxOutputTokens(m.maxTokens)
	}
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	chat := model.StartChat()
	last := messages[len(messages)-1]
	for _, msg := range messages[:len(messages)-1] {
		chat.History = append(chat.History, &genai.Content{
			Role:  geminiRole(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	resp, err := chat.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", errors.Wrap(err, "generating content")
	}
	return extractText(resp)
}

func (m *GeminiModel) Close() error {
	return m.client.Close()
}

func geminiRole(role string) string {
	if role == assistant.RoleAssistant {
		return "model"
	}
	return "user"
}

// extractText joins the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", errors.New("no text parts in response")
	}
	return strings.TrimSpace(strings.Join(parts, "")), nil
}
