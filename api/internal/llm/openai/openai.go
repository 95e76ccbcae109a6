// Package openai calls the OpenAI chat completions API through the official
// openai-go SDK.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"promptify/api/internal/llm"
)

type Engine struct {
	APIKey  string
	Model   string
	BaseURL string
}

func New(key, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(key),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string     { return "gpt" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Generate(ctx context.Context, instruction string) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set: %w", llm.ErrUnavailable)
	}
	// single attempt; the caller decides about fallbacks
	opts := []option.RequestOption{option.WithAPIKey(e.APIKey), option.WithMaxRetries(0)}
	if e.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(e.BaseURL))
	}
	client := oai.NewClient(opts...)

	resp, err := client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model:    oai.ChatModel(e.Model),
		Messages: []oai.ChatCompletionMessageParamUnion{oai.UserMessage(instruction)},
	})
	if err != nil {
		var apiErr *oai.Error
		if errors.As(err, &apiErr) {
			return "", llm.NewUpstreamError(e.Name(), apiErr.StatusCode, apiErr.Error())
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices: %w", llm.ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
