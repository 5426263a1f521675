package api

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/apexhub/core/authz"
	"github.com/dmitrymomot/apexhub/core/tma"
	"github.com/dmitrymomot/apexhub/middleware"
)

// claims returns the verified Mini App identity set by the auth middleware.
func claims(r *http.Request) (tma.Claims, bool) {
	return middleware.GetClaims(r.Context())
}

// authStatus maps authorization failures to HTTP statuses. Store failures
// stay 500; identity and membership failures must not leak which is which
// beyond the status code.
func authStatus(err error) (int, string) {
	switch {
	case errors.Is(err, authz.ErrUnknownIdentity):
		return http.StatusUnauthorized, "unknown identity"
	case errors.Is(err, authz.ErrNotAMember), errors.Is(err, authz.ErrInsufficientRole):
		return http.StatusForbidden, "forbidden"
	default:
		return http.StatusInternalServerError, "authorization unavailable"
	}
}

// handleSession upserts the account for the verified Telegram identity and
// returns its internal profile. Clients call it once after opening the Mini
// App so later requests resolve through the auth cache.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	acc, err := s.dir.UpsertAccount(r.Context(), authz.Account{
		TelegramID: c.TelegramID,
		FullName:   c.DisplayName(),
		Username:   c.Username,
		PhotoURL:   c.PhotoURL,
	})
	if err != nil {
		s.log.ErrorContext(r.Context(), "account upsert failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not establish session")
		return
	}

	// The profile may have changed; drop the stale identity mapping.
	s.auth.InvalidateAccount(c.TelegramID)

	writeJSON(w, http.StatusOK, map[string]any{
		"account_id":  acc.ID,
		"telegram_id": acc.TelegramID,
		"full_name":   acc.FullName,
		"username":    acc.Username,
		"photo_url":   acc.PhotoURL,
	})
}
