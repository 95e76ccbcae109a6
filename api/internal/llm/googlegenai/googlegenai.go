// Package googlegenai calls Gemini through the google.golang.org/genai SDK.
package googlegenai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"promptify/api/internal/llm"
)

type Engine struct {
	APIKey  string
	Model   string
	BaseURL string
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string     { return "genai" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Generate(ctx context.Context, instruction string) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY is empty: %w", llm.ErrUnavailable)
	}
	cfg := &genai.ClientConfig{
		APIKey:  e.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if e.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: e.BaseURL}
	}
	cl, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	resp, err := cl.Models.GenerateContent(ctx, e.Model, genai.Text(instruction), nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", llm.NewUpstreamError(e.Name(), apiErr.Code, fmt.Sprintf("%s: %s %v", apiErr.Status, apiErr.Message, apiErr.Details))
		}
		return "", err
	}
	out := resp.Text()
	if strings.TrimSpace(out) == "" {
		return "", llm.ErrEmptyResponse
	}
	return out, nil
}
