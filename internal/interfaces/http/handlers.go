package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/aiboxlab/aibox/internal/analyzer"
	"github.com/aiboxlab/aibox/internal/domain/scoring"
	"github.com/aiboxlab/aibox/internal/metrics"
	"github.com/aiboxlab/aibox/internal/session"
)

type loginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
	Expires int64  `json:"expires_at,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed login body")
		return
	}

	token, err := s.sessions.Login(req.UserID, req.Password)
	if err != nil {
		var authErr *session.AuthError
		switch {
		case errors.Is(err, session.ErrCredentialsMissing):
			metrics.LoginsTotal.WithLabelValues("denied").Inc()
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &authErr):
			metrics.LoginsTotal.WithLabelValues("denied").Inc()
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
			s.log.Error().Err(err).Msg("login failed")
			writeError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	setSessionCookie(w, token, s.sessions.TTL())
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, UserID: req.UserID})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	old := tokenFromRequest(r)
	fresh, err := s.sessions.Refresh(old)
	if err != nil {
		s.log.Error().Err(err).Msg("refresh failed")
		writeError(w, http.StatusInternalServerError, "refresh failed")
		return
	}
	if fresh == "" {
		writeError(w, http.StatusUnauthorized, "token invalid or expired")
		return
	}
	setSessionCookie(w, fresh, s.sessions.TTL())
	writeJSON(w, http.StatusOK, tokenResponse{Token: fresh, UserID: s.sessions.UserFromToken(fresh)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Revoke(tokenFromRequest(r)); err != nil {
		s.log.Error().Err(err).Msg("revoke failed")
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	setSessionCookie(w, "", -time.Second)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	q := r.URL.Query()

	opts := analyzer.Options{
		Period:            q.Get("period"),
		ApplyFundamentals: q.Get("fundamentals") == "true",
	}
	if strat := q.Get("strategy"); strat != "" {
		opts.Strategy = scoring.Strategy(strat)
	}

	start := time.Now()
	res := s.analyzer.Analyze(r.Context(), ticker, opts)
	metrics.RecordAnalysis(res.ErrorType, time.Since(start).Seconds())

	s.log.Debug().Str("user", userFrom(r.Context())).Str("ticker", ticker).
		Bool("success", res.Success).Msg("analyze request")

	// A failed analysis is still a 200 with a structured result body:
	// the error taxonomy is part of the contract, not transport state.
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
