package http

import (
	"net/http"

	"github.com/aussiebroadwan/editauth/pkg/authsdk"
	"github.com/aussiebroadwan/editauth/pkg/httpx"
)

// UsernameHandler godoc
//
//	@Summary		Current user
//	@Description	Returns the user id the SSO proxy forwarded for this request
//	@Tags			Auth
//	@Produce		json
//	@Security		RemoteUser
//	@Success		200	{object}	authsdk.UsernameResponse	"userId"
//	@Failure		401	{object}	authsdk.APIError			"unauthenticated"
//	@Router			/auth/username [get].
func UsernameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := httpx.UserIDFromContext(r.Context())
		if !ok {
			authsdk.ErrUnauthenticated.WriteError(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, authsdk.UsernameResponse{UserID: userID})
	}
}
