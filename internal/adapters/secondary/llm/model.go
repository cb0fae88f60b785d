// Package llm adapts a hosted chat model to the planner's ContentModel port.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// ChatContentModel implements ports.ContentModel on top of an eino
// ChatModel. The underlying model is built once and reused across requests.
type ChatContentModel struct {
	chatModel model.ChatModel
}

// NewOpenAIContentModel builds a content model backed by the OpenAI chat
// completions API (or any OpenAI-compatible endpoint via BaseURL). The API
// key is read from the environment variable named in the config and is never
// persisted.
func NewOpenAIContentModel(ctx context.Context, cfg entities.PlannerConfig) (*ChatContentModel, error) {
	keyEnv := cfg.APIKeyEnv
	if keyEnv == "" {
		keyEnv = "OPENAI_API_KEY"
	}

	apiKey := os.Getenv(keyEnv)
	if apiKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("environment variable %s is not set", keyEnv)
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.GetTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating chat model: %w", err)
	}

	return &ChatContentModel{chatModel: chatModel}, nil
}

// NewChatContentModel wraps an existing eino ChatModel.
func NewChatContentModel(chatModel model.ChatModel) *ChatContentModel {
	return &ChatContentModel{chatModel: chatModel}
}

// Complete implements ports.ContentModel.
func (m *ChatContentModel) Complete(ctx context.Context, system, user string) (string, error) {
	msgs := []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: user},
	}

	resp, err := m.chatModel.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("model generate: %w", err)
	}
	if resp == nil || resp.Content == "" {
		return "", errors.New("model returned empty response")
	}

	return resp.Content, nil
}
