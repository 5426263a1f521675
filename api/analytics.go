package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// AnalyticsPool caches workspace funnel snapshots. Short TTL keeps the
// dashboard near-live without a count query per view.
const AnalyticsPool = "analytics"

// ActivityCounter is the repository subset behind the analytics endpoint.
type ActivityCounter interface {
	CountProspectsInPeriod(ctx context.Context, orgID uuid.UUID, from, to time.Time) (map[string]int, error)
	CountNotificationsSentInPeriod(ctx context.Context, orgID uuid.UUID, from, to time.Time) (int, error)
}

// funnelSnapshot is a 30-day activity overview for a workspace.
type funnelSnapshot struct {
	From          time.Time      `json:"from"`
	To            time.Time      `json:"to"`
	Prospects     map[string]int `json:"prospects"`
	Notifications int            `json:"notifications_sent"`
}

// handleAnalytics returns prospect counts per funnel status and delivered
// notification totals over the trailing 30 days.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := s.memberScope(w, r)
	if !ok {
		return
	}

	key := fmt.Sprintf("funnel:%s", orgID)
	if cached, found := s.pools.Get(AnalyticsPool, key); found {
		if snap, isSnap := cached.(funnelSnapshot); isSnap {
			writeJSON(w, http.StatusOK, snap)
			return
		}
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)

	prospects, err := s.activity.CountProspectsInPeriod(r.Context(), orgID, from, to)
	if err != nil {
		s.log.ErrorContext(r.Context(), "funnel counts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load analytics")
		return
	}
	sent, err := s.activity.CountNotificationsSentInPeriod(r.Context(), orgID, from, to)
	if err != nil {
		s.log.ErrorContext(r.Context(), "notification counts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load analytics")
		return
	}

	snap := funnelSnapshot{From: from, To: to, Prospects: prospects, Notifications: sent}
	s.pools.Set(AnalyticsPool, key, snap)
	writeJSON(w, http.StatusOK, snap)
}
