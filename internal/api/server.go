package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kjannette/cryptochat/internal/chat"
	"github.com/kjannette/cryptochat/internal/registry"
	"github.com/kjannette/cryptochat/internal/session"
)

const maxBodyBytes = 16 << 10

// HealthCheck reports "up" or a "down: ..." description for one dependency.
type HealthCheck func(ctx context.Context) string

type Options struct {
	Port       int
	APIKey     string
	CORSOrigin string
	Logger     *slog.Logger
	// Checks are reported by /health under their map key.
	Checks map[string]HealthCheck
}

type Server struct {
	bot        *chat.Bot
	reg        *registry.Registry
	store      session.Store
	locks      *session.Locks
	checks     map[string]HealthCheck
	logger     *slog.Logger
	httpServer *http.Server
	apiKey     string
}

func NewServer(bot *chat.Bot, reg *registry.Registry, store session.Store, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		bot:    bot,
		reg:    reg,
		store:  store,
		locks:  session.NewLocks(),
		checks: opts.Checks,
		logger: logger,
		apiKey: opts.APIKey,
	}

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", opts.Port),
		Handler:     s.Handler(opts.CORSOrigin),
		ReadTimeout: 10 * time.Second,
		// Turns wait on upstream APIs and the language model.
		WriteTimeout: 3 * time.Minute,
	}

	return s
}

// Handler returns the full middleware-wrapped router.
func (s *Server) Handler(corsOrigin string) http.Handler {
	mux := http.NewServeMux()

	// Session routes
	mux.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /v1/sessions/{id}/messages", s.handleListMessages)
	mux.HandleFunc("POST /v1/sessions/{id}/messages", s.handlePostMessage)

	// Registry
	mux.HandleFunc("GET /v1/assets", s.handleAssets)

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.logMiddleware(s.authMiddleware(corsMiddleware(mux, corsOrigin)))
}

func (s *Server) Start() error {
	fmt.Printf("[API] Chat API server started on http://localhost%s\n", s.httpServer.Addr)
	fmt.Printf("[API] Health check: http://localhost%s/health\n", s.httpServer.Addr)
	if s.apiKey != "" {
		fmt.Println("[API] Authentication: enabled (Bearer token)")
	} else {
		fmt.Println("[API] Authentication: disabled (no API_KEY configured)")
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
