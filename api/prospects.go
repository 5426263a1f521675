package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/apexhub/apps/leadagent"
)

func (s *Server) handleListProspects(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := s.memberScope(w, r)
	if !ok {
		return
	}

	prospects, err := s.leads.ListProspects(r.Context(), orgID)
	if err != nil {
		s.log.ErrorContext(r.Context(), "prospect list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load prospects")
		return
	}

	writeJSON(w, http.StatusOK, prospects)
}

func (s *Server) handleCreateProspect(w http.ResponseWriter, r *http.Request) {
	orgID, accountID, ok := s.memberScope(w, r)
	if !ok {
		return
	}

	var req struct {
		BusinessName string `json:"business_name"`
		ContactNotes string `json:"contact_notes"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := s.leads.CreateProspect(r.Context(), orgID, accountID, req.BusinessName, req.ContactNotes)
	if err != nil {
		if errors.Is(err, leadagent.ErrInvalidProspect) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.ErrorContext(r.Context(), "prospect creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create prospect")
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProspectStatus(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := s.memberScope(w, r)
	if !ok {
		return
	}
	prospectID, err := pathUUID(r, "prospectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.leads.UpdateStatus(r.Context(), orgID, prospectID, strings.TrimSpace(req.Status)); err != nil {
		switch {
		case errors.Is(err, leadagent.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, leadagent.ErrProspectNotFound):
			writeError(w, http.StatusNotFound, "prospect not found")
		default:
			s.log.ErrorContext(r.Context(), "status update failed", "error", err)
			writeError(w, http.StatusInternalServerError, "could not update status")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": prospectID, "status": req.Status})
}

func (s *Server) handleGenerateInsight(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := s.memberScope(w, r)
	if !ok {
		return
	}
	prospectID, err := pathUUID(r, "prospectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	insight, err := s.leads.GenerateInsight(r.Context(), orgID, prospectID)
	if err != nil {
		if errors.Is(err, leadagent.ErrProspectNotFound) {
			writeError(w, http.StatusNotFound, "prospect not found")
			return
		}
		s.log.ErrorContext(r.Context(), "insight generation failed", "error", err)
		writeError(w, http.StatusBadGateway, "could not generate insight")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": prospectID, "insight": insight})
}
