package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/apexhub/core/authz"
	"github.com/dmitrymomot/apexhub/storage/postgres"
)

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := s.memberScope(w, r)
	if !ok {
		return
	}

	if cached, found := s.pools.Get(OrgPool, membersKey(orgID)); found {
		if members, isList := cached.([]postgres.Member); isList {
			writeJSON(w, http.StatusOK, members)
			return
		}
	}

	members, err := s.dir.ListMembers(r.Context(), orgID)
	if err != nil {
		s.log.ErrorContext(r.Context(), "member list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load members")
		return
	}

	s.pools.Set(OrgPool, membersKey(orgID), members)
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) handleUpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	orgID, accountID, ok := s.adminScope(w, r)
	if !ok {
		return
	}
	target, err := pathUUID(r, "accountID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Role authz.Role `json:"role"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Role != authz.RoleAdmin && req.Role != authz.RoleMember {
		writeError(w, http.StatusBadRequest, "role must be admin or member")
		return
	}
	// Admins cannot demote themselves; that could leave the workspace
	// without an admin.
	if target == accountID {
		writeError(w, http.StatusConflict, "cannot change own role")
		return
	}

	if err := s.dir.UpdateMemberRole(r.Context(), target, orgID, req.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "member not found")
			return
		}
		s.log.ErrorContext(r.Context(), "role update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not update role")
		return
	}

	s.auth.InvalidateMembership(target, orgID)
	s.pools.Delete(OrgPool, membersKey(orgID))

	writeJSON(w, http.StatusOK, map[string]any{"account_id": target, "role": req.Role})
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	orgID, accountID, ok := s.adminScope(w, r)
	if !ok {
		return
	}
	target, err := pathUUID(r, "accountID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if target == accountID {
		writeError(w, http.StatusConflict, "cannot remove yourself")
		return
	}

	if err := s.dir.RemoveMember(r.Context(), target, orgID); err != nil {
		s.log.ErrorContext(r.Context(), "member removal failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not remove member")
		return
	}

	s.auth.InvalidateMembership(target, orgID)
	s.pools.Delete(OrgPool, membersKey(orgID))

	w.WriteHeader(http.StatusNoContent)
}

// adminScope parses the org path param and verifies the caller is an admin.
// On failure it writes the response and returns ok=false.
func (s *Server) adminScope(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	orgID, err := pathUUID(r, "orgID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return uuid.Nil, uuid.Nil, false
	}
	c, found := claims(r)
	if !found {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	accountID, err := s.auth.RequireAdmin(r.Context(), c.TelegramID, orgID)
	if err != nil {
		status, msg := authStatus(err)
		writeError(w, status, msg)
		return uuid.Nil, uuid.Nil, false
	}
	return orgID, accountID, true
}
