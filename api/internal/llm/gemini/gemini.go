package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"promptify/api/internal/llm"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Engine calls the Gemini generateContent REST endpoint.
type Engine struct {
	APIKey  string
	Model   string
	BaseURL string
	httpc   *http.Client
}

func New(key, model string) *Engine {
	return &Engine{
		APIKey:  strings.TrimSpace(key),
		Model:   strings.TrimSpace(model),
		BaseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

// WithHTTPClient overrides the internal HTTP client.
func (e *Engine) WithHTTPClient(c *http.Client) *Engine {
	if c != nil {
		e.httpc = c
	}
	return e
}

// WithBaseURL points the engine at another API root.
func (e *Engine) WithBaseURL(u string) *Engine {
	if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
		e.BaseURL = u
	}
	return e
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type request struct {
	Contents []content `json:"contents"`
}

func (e *Engine) Generate(ctx context.Context, instruction string) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY is empty: %w", llm.ErrUnavailable)
	}
	payload, err := json.Marshal(request{Contents: []content{{Parts: []part{{Text: instruction}}}}})
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", e.BaseURL, url.PathEscape(e.Model), url.QueryEscape(e.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", scrub(err, e.APIKey)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", llm.NewUpstreamError(e.Name(), resp.StatusCode, string(body))
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text")
	if !text.Exists() {
		if reason := gjson.GetBytes(body, "promptFeedback.blockReason").String(); reason != "" {
			return "", fmt.Errorf("gemini: prompt blocked (%s): %w", reason, llm.ErrEmptyResponse)
		}
		return "", llm.ErrEmptyResponse
	}
	return text.String(), nil
}

// scrub keeps the API key out of *url.Error messages, which embed the URL.
func scrub(err error, key string) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = strings.ReplaceAll(ue.URL, url.QueryEscape(key), "REDACTED")
	}
	return err
}
