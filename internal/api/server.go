// Package api serves stored play-test session analyses over HTTP. The API is
// read-only: sessions are written by the batch CLI, never ingested live.
package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/playtest.report/internal/db"
	"github.com/banshee-data/playtest.report/internal/units"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db    *db.DB
	units string
}

// NewServer wires the read API over the session store. units selects the
// display unit applied to speed fields in responses; stored values stay in
// native units per second.
func NewServer(database *db.DB, displayUnits string) *Server {
	return &Server{
		db:    database,
		units: displayUnits,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/healthz", s.healthz)
	mux.HandleFunc("/api/sessions", s.listSessions)
	mux.HandleFunc("/api/sessions/", s.sessionRoutes)
	return mux
}

// convertSessionSpeeds applies display unit conversion to a session's speed
// fields. Distances and durations are never converted.
func (s *Server) convertSessionSpeeds(session *db.Session) *db.Session {
	converted := *session
	converted.MaxSpeed = units.ConvertSpeed(session.MaxSpeed, s.units)
	converted.AvgSpeed = units.ConvertSpeed(session.AvgSpeed, s.units)
	converted.MaxHorizontalSpeed = units.ConvertSpeed(session.MaxHorizontalSpeed, s.units)
	converted.AvgHorizontalSpeed = units.ConvertSpeed(session.AvgHorizontalSpeed, s.units)
	return &converted
}
