package geminisdk

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"promptify/api/internal/llm"
)

func TestGenerateNoKey(t *testing.T) {
	e := New(" ", "gemini-1.5-flash-latest")
	assert.Equal(t, "gemini-sdk", e.Name())
	_, err := e.Generate(context.Background(), "x")
	require.ErrorIs(t, err, llm.ErrUnavailable)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		code int
		kind llm.Kind
	}{
		{http.StatusTooManyRequests, llm.KindRateLimit},
		{http.StatusNotFound, llm.KindNotFound},
		{http.StatusForbidden, llm.KindAuth},
		{http.StatusInternalServerError, llm.KindOther},
	}
	for _, tt := range tests {
		ae, ok := apierror.ParseError(&googleapi.Error{Code: tt.code, Message: "boom"}, true)
		require.True(t, ok)

		var ue *llm.UpstreamError
		require.ErrorAs(t, mapError("gemini-sdk", ae), &ue)
		assert.Equal(t, tt.kind, ue.Kind)
		assert.Equal(t, tt.code, ue.StatusCode)
	}

	plain := errors.New("dial tcp")
	assert.Same(t, plain, mapError("gemini-sdk", plain))
	assert.ErrorIs(t, mapError("gemini-sdk", context.DeadlineExceeded), context.DeadlineExceeded)
}

func TestFirstText(t *testing.T) {
	assert.Equal(t, "", firstText(nil))
}
