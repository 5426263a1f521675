package api

import (
	"net/http"

	"github.com/dmitrymomot/apexhub/storage/postgres"
)

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := s.memberScope(w, r)
	if !ok {
		return
	}

	kind := r.PathValue("kind")
	switch kind {
	case postgres.ReportDaily, postgres.ReportWeekly, postgres.ReportMonthly:
	default:
		writeError(w, http.StatusBadRequest, "kind must be daily, weekly or monthly")
		return
	}

	reports, err := s.reports.ListReports(r.Context(), orgID, kind)
	if err != nil {
		s.log.ErrorContext(r.Context(), "report list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load reports")
		return
	}

	writeJSON(w, http.StatusOK, reports)
}
