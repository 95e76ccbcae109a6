// Package deepseek talks to OpenAI-compatible chat endpoints (DeepSeek,
// OpenRouter and similar) through github.com/sashabaranov/go-openai.
package deepseek

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"promptify/api/internal/llm"
)

const DefaultBaseURL = "https://api.deepseek.com/v1"

type Engine struct {
	APIKey  string
	Model   string
	BaseURL string
}

func New(key, model, baseURL string) *Engine {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Engine{
		APIKey:  strings.TrimSpace(key),
		Model:   strings.TrimSpace(model),
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

func (e *Engine) Name() string     { return "deepseek" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Generate(ctx context.Context, instruction string) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("DEEPSEEK_API_KEY not set: %w", llm.ErrUnavailable)
	}
	cfg := openai.DefaultConfig(e.APIKey)
	cfg.BaseURL = e.BaseURL
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: instruction},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		var reqErr *openai.RequestError
		switch {
		case errors.As(err, &apiErr):
			return "", llm.NewUpstreamError(e.Name(), apiErr.HTTPStatusCode, apiErr.Message)
		case errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0:
			return "", llm.NewUpstreamError(e.Name(), reqErr.HTTPStatusCode, string(reqErr.Body))
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("deepseek: empty choices: %w", llm.ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
