package handle

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"promptify/api/internal/generate"
	"promptify/api/internal/render"
)

type GenerateRequest struct {
	UserText string `json:"userText"`
	Action   string `json:"action"`
	Context  string `json:"context"`
	Text1    string `json:"text1"`
	Text2    string `json:"text2"`
	// Format "html" adds a rendered copy of direct responses.
	Format  string `json:"format"`
	LLMName string `json:"llm_name"`
}

type directBody struct {
	Kind     string `json:"kind"`
	Action   string `json:"action"`
	Response string `json:"response"`
	HTML     string `json:"html,omitempty"`
}

func (h *Handle) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	// An empty body is a request without userText.
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.Timeout)
	defer cancel()

	res, err := h.gen.Generate(ctx, generate.Request{
		UserText: req.UserText,
		Action:   req.Action,
		Context:  req.Context,
		Text1:    req.Text1,
		Text2:    req.Text2,
		Provider: req.LLMName,
	})
	if err != nil {
		h.writeGenerateError(w, err)
		return
	}

	switch v := res.(type) {
	case generate.PromptPair:
		writeJSON(w, http.StatusOK, v)
	case generate.DirectResponse:
		body := directBody{Kind: "direct", Action: string(v.Action), Response: v.Text}
		if strings.EqualFold(req.Format, "html") {
			html, err := render.HTML(v.Text)
			if err != nil {
				h.log.Warn("render html failed", zap.Error(err))
			}
			body.HTML = html
		}
		writeJSON(w, http.StatusOK, body)
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "unexpected result"})
	}
}

func (h *Handle) writeGenerateError(w http.ResponseWriter, err error) {
	var ve *generate.ValidationError
	var uf *generate.UpstreamFailure
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Message})
	case errors.As(err, &uf):
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to get AI response.",
			"details": uf.Err.Error(),
			"kind":    uf.Kind(),
		})
	default:
		h.log.Error("generate failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to generate text from AI.",
			"details": err.Error(),
			"kind":    "internal",
		})
	}
}
