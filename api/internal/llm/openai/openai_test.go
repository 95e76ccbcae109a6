package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptify/api/internal/llm"
)

func newEngine(t *testing.T, status int, body string, calls *atomic.Int32) *Engine {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			assert.Equal(t, "gpt-4o-mini", req.Model)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	e := New("k", "gpt-4o-mini")
	e.BaseURL = srv.URL + "/"
	return e
}

func TestGenerate(t *testing.T) {
	var calls atomic.Int32
	e := newEngine(t, http.StatusOK, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
		"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"answer"}}]}`, &calls)

	out, err := e.Generate(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "answer", out)
	assert.EqualValues(t, 1, calls.Load())
}

func TestGenerateStatus(t *testing.T) {
	tests := []struct {
		status int
		kind   llm.Kind
	}{
		{http.StatusTooManyRequests, llm.KindRateLimit},
		{http.StatusUnauthorized, llm.KindAuth},
		{http.StatusNotFound, llm.KindNotFound},
	}
	for _, tt := range tests {
		var calls atomic.Int32
		e := newEngine(t, tt.status, `{"error":{"message":"nope","type":"invalid_request_error"}}`, &calls)
		_, err := e.Generate(context.Background(), "x")

		var ue *llm.UpstreamError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, tt.kind, ue.Kind)
		assert.EqualValues(t, 1, calls.Load(), "no retries")
	}
}

func TestGenerateNoKey(t *testing.T) {
	_, err := New("", "gpt-4o-mini").Generate(context.Background(), "x")
	require.ErrorIs(t, err, llm.ErrUnavailable)
}
