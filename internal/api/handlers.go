package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/playtest.report/internal/db"
	"github.com/banshee-data/playtest.report/internal/httputil"
)

// requestTimeout bounds every store query issued by a handler.
const requestTimeout = 10 * time.Second

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"status": "ok"})
}

// listSessions handles GET /api/sessions?limit=N (default 50, newest first).
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httputil.BadRequest(w, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	sessions, err := s.db.ListSessions(ctx, limit)
	if err != nil {
		httputil.InternalServerError(w, "failed to list sessions")
		return
	}

	out := make([]*db.Session, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, s.convertSessionSpeeds(session))
	}
	httputil.WriteJSONOK(w, out)
}

// sessionRoutes dispatches /api/sessions/{id} and its sub-resources.
func (s *Server) sessionRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	sessionID, sub, _ := strings.Cut(rest, "/")
	if sessionID == "" {
		httputil.BadRequest(w, "missing session id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	switch sub {
	case "":
		s.getSession(ctx, w, sessionID)
	case "anomalies":
		s.getSessionAnomalies(ctx, w, sessionID)
	case "inputs":
		s.getSessionInputs(ctx, w, sessionID)
	default:
		httputil.NotFound(w, "unknown session resource")
	}
}

func (s *Server) getSession(ctx context.Context, w http.ResponseWriter, sessionID string) {
	session, err := s.db.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			httputil.NotFound(w, "session not found")
			return
		}
		httputil.InternalServerError(w, "failed to get session")
		return
	}
	httputil.WriteJSONOK(w, s.convertSessionSpeeds(session))
}

func (s *Server) getSessionAnomalies(ctx context.Context, w http.ResponseWriter, sessionID string) {
	if _, err := s.db.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			httputil.NotFound(w, "session not found")
			return
		}
		httputil.InternalServerError(w, "failed to get session")
		return
	}

	anomalies, err := s.db.SessionAnomalies(ctx, sessionID)
	if err != nil {
		httputil.InternalServerError(w, "failed to get anomalies")
		return
	}
	httputil.WriteJSONOK(w, anomalies)
}

func (s *Server) getSessionInputs(ctx context.Context, w http.ResponseWriter, sessionID string) {
	if _, err := s.db.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			httputil.NotFound(w, "session not found")
			return
		}
		httputil.InternalServerError(w, "failed to get session")
		return
	}

	activity, err := s.db.SessionInputActivity(ctx, sessionID)
	if err != nil {
		httputil.InternalServerError(w, "failed to get input activity")
		return
	}
	httputil.WriteJSONOK(w, activity)
}
