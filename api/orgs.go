package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/apexhub/core/authz"
	"github.com/dmitrymomot/apexhub/pkg/qrcode"
	"github.com/dmitrymomot/apexhub/storage/postgres"
)

func orgKey(orgID uuid.UUID) string     { return fmt.Sprintf("org:%s", orgID) }
func membersKey(orgID uuid.UUID) string { return fmt.Sprintf("members:%s", orgID) }

func (s *Server) handleCreateOrg(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	accountID, err := s.auth.ResolveAccount(r.Context(), c.TelegramID)
	if err != nil {
		status, msg := authStatus(err)
		writeError(w, status, msg)
		return
	}

	org, err := s.dir.CreateOrg(r.Context(), req.Name, accountID)
	if err != nil {
		s.log.ErrorContext(r.Context(), "workspace creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create workspace")
		return
	}

	writeJSON(w, http.StatusCreated, org)
}

func (s *Server) handleGetOrg(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := s.memberScope(w, r)
	if !ok {
		return
	}

	if cached, found := s.pools.Get(OrgPool, orgKey(orgID)); found {
		if org, isOrg := cached.(*postgres.Org); isOrg {
			writeJSON(w, http.StatusOK, org)
			return
		}
	}

	org, err := s.dir.GetOrg(r.Context(), orgID)
	if err != nil {
		s.log.ErrorContext(r.Context(), "workspace lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load workspace")
		return
	}
	if org == nil {
		writeError(w, http.StatusNotFound, "workspace not found")
		return
	}

	s.pools.Set(OrgPool, orgKey(orgID), org)
	writeJSON(w, http.StatusOK, org)
}

// handleUpdateOrg lets admins set the workspace contact email used for
// report delivery. An empty value clears it and stops the emails.
func (s *Server) handleUpdateOrg(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathUUID(r, "orgID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, ok := claims(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if _, err := s.auth.RequireAdmin(r.Context(), c.TelegramID, orgID); err != nil {
		status, msg := authStatus(err)
		writeError(w, status, msg)
		return
	}

	var req struct {
		ContactEmail string `json:"contact_email"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ContactEmail = strings.TrimSpace(req.ContactEmail)
	if req.ContactEmail != "" {
		if _, err := mail.ParseAddress(req.ContactEmail); err != nil {
			writeError(w, http.StatusBadRequest, "invalid contact email")
			return
		}
	}

	if err := s.dir.UpdateOrgContactEmail(r.Context(), orgID, req.ContactEmail); err != nil {
		s.log.ErrorContext(r.Context(), "contact email update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not update workspace")
		return
	}

	s.pools.Delete(OrgPool, orgKey(orgID))
	writeJSON(w, http.StatusOK, map[string]any{"contact_email": req.ContactEmail})
}

// handleJoinOrg adds the caller to the workspace behind an invite code with
// the member role.
func (s *Server) handleJoinOrg(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		InviteCode string `json:"invite_code"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.InviteCode = strings.TrimSpace(strings.TrimPrefix(req.InviteCode, "inv_"))
	if req.InviteCode == "" {
		writeError(w, http.StatusBadRequest, "invite_code is required")
		return
	}

	accountID, err := s.auth.ResolveAccount(r.Context(), c.TelegramID)
	if err != nil {
		status, msg := authStatus(err)
		writeError(w, status, msg)
		return
	}

	org, err := s.dir.GetOrgByInviteCode(r.Context(), req.InviteCode)
	if err != nil {
		s.log.ErrorContext(r.Context(), "invite lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not resolve invite")
		return
	}
	if org == nil {
		writeError(w, http.StatusNotFound, "invite not found")
		return
	}

	if err := s.dir.AddMember(r.Context(), accountID, org.ID, authz.RoleMember); err != nil {
		if errors.Is(err, postgres.ErrDuplicate) {
			writeError(w, http.StatusConflict, "already a member")
			return
		}
		s.log.ErrorContext(r.Context(), "join failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not join workspace")
		return
	}

	s.auth.InvalidateMembership(accountID, org.ID)
	s.pools.Delete(OrgPool, membersKey(org.ID))

	writeJSON(w, http.StatusOK, org)
}

// handleInviteQR renders the workspace invite as a QR code PNG encoding a
// Mini App deep link.
func (s *Server) handleInviteQR(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := s.memberScope(w, r)
	if !ok {
		return
	}

	org, err := s.dir.GetOrg(r.Context(), orgID)
	if err != nil || org == nil {
		writeError(w, http.StatusNotFound, "workspace not found")
		return
	}

	link := fmt.Sprintf("https://t.me/%s?startapp=inv_%s", s.botName, org.InviteCode)
	png, err := qrcode.Generate(link, qrcode.DefaultSize)
	if err != nil {
		s.log.ErrorContext(r.Context(), "invite qr generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not render invite")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// memberScope parses the org path param and verifies the caller's
// membership. On failure it writes the response and returns ok=false.
func (s *Server) memberScope(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	orgID, err := pathUUID(r, "orgID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return uuid.Nil, uuid.Nil, false
	}
	c, ok := claims(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	accountID, _, err := s.auth.RequireMember(r.Context(), c.TelegramID, orgID)
	if err != nil {
		status, msg := authStatus(err)
		writeError(w, status, msg)
		return uuid.Nil, uuid.Nil, false
	}
	return orgID, accountID, true
}
