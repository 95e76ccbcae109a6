package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"promptify/api/internal/util"
)

var (
	// ErrUnavailable means no credential is configured for the provider.
	ErrUnavailable = errors.New("upstream model is not configured")
	// ErrTimeout means the call did not finish within the configured timeout.
	ErrTimeout = errors.New("upstream model timed out")
	// ErrEmptyResponse means the provider answered without any text.
	ErrEmptyResponse = errors.New("upstream model returned no text")
)

// Kind classifies non-2xx upstream responses.
type Kind string

const (
	KindAuth      Kind = "auth"
	KindRateLimit Kind = "rate_limit"
	KindNotFound  Kind = "not_found"
	KindOther     Kind = "other"
)

// UpstreamError is a non-2xx answer from the provider.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
	Kind       Kind
}

// NewUpstreamError classifies status and body into an UpstreamError.
func NewUpstreamError(provider string, status int, body string) *UpstreamError {
	return &UpstreamError{
		Provider:   provider,
		StatusCode: status,
		Body:       body,
		Kind:       classify(status, body),
	}
}

func classify(status int, body string) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusTooManyRequests:
		return KindRateLimit
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest:
		// Gemini reports a bad key as 400 INVALID_ARGUMENT.
		if strings.Contains(body, "API_KEY_INVALID") || strings.Contains(body, "API key not valid") {
			return KindAuth
		}
	}
	return KindOther
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case KindAuth:
		return fmt.Sprintf("%s: authentication failed (HTTP %d): the API key is missing, invalid or not permitted", e.Provider, e.StatusCode)
	case KindRateLimit:
		return fmt.Sprintf("%s: rate limit exceeded (HTTP %d): too many requests, try again later", e.Provider, e.StatusCode)
	case KindNotFound:
		return fmt.Sprintf("%s: model or endpoint not found (HTTP %d): check the configured model name", e.Provider, e.StatusCode)
	default:
		return fmt.Sprintf("%s: upstream returned HTTP %d: %s", e.Provider, e.StatusCode, util.Short(e.Body))
	}
}

// KindOf returns a short machine-readable label for err.
func KindOf(err error) string {
	var ue *UpstreamError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ue):
		return string(ue.Kind)
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	default:
		return "transport"
	}
}
