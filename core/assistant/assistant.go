// Package assistant answers the questions of learners with a text generation model,
// using a digest of their latest results as context.
package assistant

import (
	"context"

	"github.com/pkg/errors"

	"github.com/oiorda/orda/core"
	"github.com/oiorda/orda/core/i18n"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var ErrOffline = errors.New("assistant is offline")

type (
	Message struct {
		Role    string `json:"role" validate:"required,oneof=user assistant"`
		Content string `json:"content" validate:"required,notblank,max=4000"`
	}

	// Model generates the next assistant message of a conversation.
	Model interface {
		Generate(ctx context.Context, system string, messages []Message) (string, error)
	}

	// Digester summarizes the results of a learner.
	Digester interface {
		Digest(ctx context.Context, userID int, lang i18n.Lang, limit int) (string, error)
	}

	ChatRequest struct {
		Lang     string    `json:"lang" validate:"omitempty,lang"`
		History  []Message `json:"history" validate:"omitempty,dive"`
		Question string    `json:"question" validate:"required,notblank,max=4000"`
	}

	Reply struct {
		Content string `json:"content"`
		Offline bool   `json:"offline,omitempty"`
	}

	Service struct {
		model        Model
		digests      Digester
		logger       core.Logger
		historyLimit int
	}
)

func (cr *ChatRequest) Validate() error {
	cr.Question = core.CleanString(cr.Question)
	cr.Lang = core.CleanString(cr.Lang, true /* lower */)
	return core.Validate.Struct(cr)
}

// NewService returns the assistant service. A nil model keeps the assistant offline.
func NewService(model Model, digests Digester, logger core.Logger, conf *core.Config) *Service {
	if !conf.Assistant.Enabled {
		model = nil
	}
	return &Service{
		model:        model,
		digests:      digests,
		logger:       logger,
		historyLimit: conf.Assistant.HistoryLimit,
	}
}

// SystemPrompt is the instruction given to the model, around the results digest of the learner.
func SystemPrompt(lang i18n.Lang, digest string) string {
	return i18n.T(lang, "assistant.system", digest)
}

// OfflineReply is the answer given when no model is reachable.
func OfflineReply(lang i18n.Lang) string {
	return i18n.T(lang, "assistant.offline")
}

// Reply answers the question of a learner.
// Only the last historyLimit messages of the history are sent to the model.
func (svc *Service) Reply(ctx context.Context, userID int, lang i18n.Lang, req ChatRequest) (Reply, error) {
	if err := req.Validate(); err != nil {
		return Reply{}, err
	}
	if req.Lang != "" {
		lang = i18n.Normalize(req.Lang)
	}
	if svc.model == nil {
		return Reply{Content: OfflineReply(lang), Offline: true}, nil
	}

	digest, err := svc.digests.Digest(ctx, userID, lang, 0)
	if err != nil {
		return Reply{}, errors.Wrap(err, "building results digest")
	}

	history := req.History
	if svc.historyLimit > 0 && len(history) > svc.historyLimit {
		history = history[len(history)-svc.historyLimit:]
	}
	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: req.Question})

	content, err := svc.model.Generate(ctx, SystemPrompt(lang, digest), messages)
	if err != nil {
		if errors.Cause(err) != ErrOffline {
			svc.logger.Error("assistant generation failed", errors.Wrap(err, "generating reply"), map[string]interface{}{"user": userID})
		}
		return Reply{Content: OfflineReply(lang), Offline: true}, nil
	}
	return Reply{Content: content}, nil
}
