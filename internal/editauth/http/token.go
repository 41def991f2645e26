package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/editauth/internal/editauth/domain"
	"github.com/aussiebroadwan/editauth/internal/editauth/service"
	"github.com/aussiebroadwan/editauth/pkg/authsdk"
	"github.com/aussiebroadwan/editauth/pkg/httpx"
	"github.com/aussiebroadwan/editauth/pkg/slogx"
)

// EditTokenHandler serves GET /auth/_perm/{recordId}.
type EditTokenHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Issue an edit token
//	@Description	Asks the metadata service whether the caller may update the record and, if so, returns an HS256 token for them.
//	@Description	The record id may contain slashes (e.g. ark:/88434/mds2-1234).
//	@Tags			Auth
//	@Produce		json
//	@Security		RemoteUser
//	@Param			recordId	path		string				true	"Record identifier"
//	@Success		200			{object}	authsdk.UserToken	"userId, token"
//	@Failure		400			{object}	authsdk.APIError	"invalid_request"
//	@Failure		401			{object}	authsdk.APIError	"unauthenticated"
//	@Failure		403			{object}	authsdk.APIError	"access_denied"
//	@Failure		429			{object}	authsdk.APIError	"rate_limit_exceeded"
//	@Failure		500			{object}	authsdk.APIError	"server_error"
//	@Failure		503			{object}	authsdk.APIError	"temporarily_unavailable"
//	@Header			200			{string}	Cache-Control		"no-store"
//	@Router			/auth/_perm/{recordId} [get].
func (h *EditTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		authsdk.ErrUnauthenticated.WriteError(w)
		return
	}

	token, err := h.TokenService.Issue(ctx, userID, r.PathValue("recordId"))
	if err != nil {
		slogx.FromContext(ctx).Debug("edit token not issued", "error", err)
		issueError(err).WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, token)
}

// issueError maps an Issue failure onto the API error returned to the
// caller. Causes are not leaked beyond the error code.
func issueError(err error) *authsdk.APIError {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return authsdk.ErrAccessDenied
	case errors.Is(err, domain.ErrInvalidIdentifier):
		return authsdk.ErrInvalidRequest
	case errors.Is(err, domain.ErrServiceUnavailable):
		return authsdk.ErrTemporarilyUnavailable
	default:
		return authsdk.ErrServerError
	}
}
