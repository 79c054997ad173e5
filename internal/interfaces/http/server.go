package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/aiboxlab/aibox/internal/analyzer"
	"github.com/aiboxlab/aibox/internal/config"
	"github.com/aiboxlab/aibox/internal/session"
)

// Analyzer is what the analyze route needs from the facade.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string, opts analyzer.Options) analyzer.Result
}

// Server exposes the analyzer and the session manager as a small JSON
// API. Tokens travel as a bearer header or the aibox_session cookie;
// the wire token format survives both unchanged.
type Server struct {
	router   *mux.Router
	server   *http.Server
	sessions *session.Manager
	analyzer Analyzer
	log      zerolog.Logger
}

func NewServer(cfg config.ServerConfig, sessions *session.Manager, an Analyzer, log zerolog.Logger) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		sessions: sessions,
		analyzer: an,
		log:      log.With().Str("component", "http").Logger(),
	}

	s.router.Use(requestIDMiddleware, s.loggingMiddleware, metricsMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	v1.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	v1.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	v1.Handle("/analyze/{ticker}", s.requireSession(http.HandlerFunc(s.handleAnalyze))).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout.Std(),
		WriteTimeout: cfg.WriteTimeout.Std(),
		IdleTimeout:  cfg.IdleTimeout.Std(),
	}
	return s
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

const sessionCookie = "aibox_session"

// tokenFromRequest pulls the session token from the Authorization
// bearer header first, then the session cookie.
func tokenFromRequest(r *http.Request) string {
	const bearer = "Bearer "
	if auth := r.Header.Get("Authorization"); len(auth) > len(bearer) && auth[:len(bearer)] == bearer {
		return auth[len(bearer):]
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// requireSession gates a route on a valid, unexpired session token.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		userID := s.sessions.UserFromToken(token)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "missing or invalid session token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID)))
	})
}

type userKey struct{}

func withUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

func userFrom(ctx context.Context) string {
	if v, ok := ctx.Value(userKey{}).(string); ok {
		return v
	}
	return ""
}

func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
