package api

import (
	"context"
	"net/http"
	"time"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.health(ctx); err != nil {
			s.log.ErrorContext(r.Context(), "health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "unhealthy")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// handleSchedulerStatus reports per-task scheduler state and aggregate
// counters for operational dashboards. Task names and failure details
// are internal, so the endpoint answers only to allowlisted operators
// and plays dead for everyone else.
func (s *Server) handleSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if _, allowed := s.operators[c.TelegramID]; !allowed {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": s.sched.Snapshot(),
		"stats": s.sched.GetStats(),
	})
}
