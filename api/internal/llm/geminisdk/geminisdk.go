// Package geminisdk calls Gemini through github.com/google/generative-ai-go.
package geminisdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"

	"promptify/api/internal/llm"
)

type Engine struct {
	APIKey string
	Model  string
	opts   []option.ClientOption
}

func New(apiKey, model string, opts ...option.ClientOption) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
		opts:   opts,
	}
}

func (e *Engine) Name() string     { return "gemini-sdk" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Generate(ctx context.Context, instruction string) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY is empty: %w", llm.ErrUnavailable)
	}
	cl, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(e.APIKey)}, e.opts...)...)
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	resp, err := m.GenerateContent(ctx, genai.Text(instruction))
	if err != nil {
		return "", mapError(e.Name(), err)
	}
	out := firstText(resp)
	if strings.TrimSpace(out) == "" {
		return "", llm.ErrEmptyResponse
	}
	return out, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

var grpcToHTTP = map[codes.Code]int{
	codes.Unauthenticated:   http.StatusUnauthorized,
	codes.PermissionDenied:  http.StatusForbidden,
	codes.ResourceExhausted: http.StatusTooManyRequests,
	codes.NotFound:          http.StatusNotFound,
	codes.InvalidArgument:   http.StatusBadRequest,
	codes.Unavailable:       http.StatusServiceUnavailable,
}

// mapError turns Google API errors into *llm.UpstreamError. Anything else is
// returned unchanged.
func mapError(provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	ae, ok := apierror.FromError(err)
	if !ok {
		return err
	}
	status := ae.HTTPCode()
	if status <= 0 {
		code := ae.GRPCStatus().Code()
		if code == codes.DeadlineExceeded {
			return context.DeadlineExceeded
		}
		if status, ok = grpcToHTTP[code]; !ok {
			status = http.StatusInternalServerError
		}
	}
	body := ae.Error()
	if r := ae.Reason(); r != "" {
		body = r + ": " + body
	}
	return llm.NewUpstreamError(provider, status, body)
}
