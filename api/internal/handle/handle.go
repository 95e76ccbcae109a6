package handle

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"promptify/api/internal/auth"
	"promptify/api/internal/generate"
)

// maxBody caps request bodies.
const maxBody = 1 << 20

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	// Auth enables /api/auth; nil answers 503 there.
	Auth        *auth.Service
	DB          Pinger
	RequireAuth bool
	CORSOrigins []string
	// Timeout bounds a whole /generate request.
	Timeout time.Duration
	Log     *zap.Logger
}

type Handle struct {
	gen  *generate.Service
	opts Options
	log  *zap.Logger
}

func New(gen *generate.Service, opts Options) *Handle {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 70 * time.Second
	}
	return &Handle{gen: gen, opts: opts, log: opts.Log}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v)
}

func (h *Handle) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Backend is running."})
}

func (h *Handle) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if h.opts.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.opts.DB.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db: not ok\n" + err.Error()))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
