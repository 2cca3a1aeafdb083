package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/SatyaTirumalasetty/fractOwn-sub001/internal/auth/service"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/httpx"
	"github.com/SatyaTirumalasetty/fractOwn-sub001/pkg/slogx"
)

// SessionHandler handles session introspection and logout.
type SessionHandler struct {
	SessionService *service.SessionService
}

// bearerToken extracts the raw token from the Authorization header. The
// authn middleware has already validated it by the time a handler runs.
func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
}

// HandleGet handles GET /v1/session
//
//	@Summary		Validate the current session
//	@Description	Returns the subject behind the bearer token. Missing, expired and
//	@Description	revoked tokens all produce the same 401.
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	SessionResponse
//	@Failure		401	{object}	ErrorResponse	"Invalid or missing session token"
//	@Router			/v1/session [get].
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject, err := h.SessionService.Validate(ctx, bearerToken(r))
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "The session is not valid")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, SessionResponse{
		SubjectID:   subject.SubjectID,
		SubjectType: subject.SubjectType,
		ExpiresAt:   subject.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// HandleLogout handles POST /v1/logout
//
//	@Summary		Log out
//	@Description	Revokes the current session token. Logging out an already-dead token
//	@Description	still succeeds.
//	@Tags			Session
//	@Security		BearerAuth
//	@Success		204	"Session revoked"
//	@Failure		401	{object}	ErrorResponse	"Invalid or missing session token"
//	@Router			/v1/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.SessionService.Revoke(ctx, bearerToken(r)); err != nil {
		log.Error("failed to revoke session", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to revoke session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
