package handle

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"promptify/api/internal/auth"
	"promptify/api/internal/store"
)

type ctxKey int

const userKey ctxKey = iota

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*store.User, bool) {
	u, ok := ctx.Value(userKey).(*store.User)
	return u, ok
}

type authFail struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type authOK struct {
	Success bool        `json:"success"`
	Token   string      `json:"token,omitempty"`
	User    *store.User `json:"user"`
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func (h *Handle) authReady(w http.ResponseWriter) bool {
	if h.opts.Auth == nil {
		writeJSON(w, http.StatusServiceUnavailable, authFail{Error: "authentication is not configured"})
		return false
	}
	return true
}

func (h *Handle) writeAuthError(w http.ResponseWriter, err error) {
	var ie *auth.InputError
	switch {
	case errors.As(err, &ie):
		writeJSON(w, http.StatusBadRequest, authFail{Error: ie.Message})
	case errors.Is(err, auth.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, authFail{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, authFail{Error: err.Error()})
	default:
		h.log.Error("auth failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, authFail{Error: "internal error"})
	}
}

func (h *Handle) Signup(w http.ResponseWriter, r *http.Request) {
	if !h.authReady(w) {
		return
	}
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, authFail{Error: "bad json: " + err.Error()})
		return
	}
	sess, err := h.opts.Auth.Signup(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authOK{Success: true, Token: sess.Token, User: sess.User})
}

func (h *Handle) Login(w http.ResponseWriter, r *http.Request) {
	if !h.authReady(w) {
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, authFail{Error: "bad json: " + err.Error()})
		return
	}
	sess, err := h.opts.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authOK{Success: true, Token: sess.Token, User: sess.User})
}

func (h *Handle) Google(w http.ResponseWriter, r *http.Request) {
	if !h.authReady(w) {
		return
	}
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, authFail{Error: "bad json: " + err.Error()})
		return
	}
	sess, err := h.opts.Auth.Google(r.Context(), req.IDToken)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authOK{Success: true, Token: sess.Token, User: sess.User})
}

func (h *Handle) Verify(w http.ResponseWriter, r *http.Request) {
	if !h.authReady(w) {
		return
	}
	tok := bearer(r)
	if tok == "" {
		writeJSON(w, http.StatusUnauthorized, authFail{Error: "missing bearer token"})
		return
	}
	u, err := h.opts.Auth.Verify(r.Context(), tok)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authOK{Success: true, User: u})
}

func (h *Handle) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.opts.Auth == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "authentication is not configured"})
			return
		}
		tok := bearer(r)
		if tok == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required."})
			return
		}
		u, err := h.opts.Auth.Verify(r.Context(), tok)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required."})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}
