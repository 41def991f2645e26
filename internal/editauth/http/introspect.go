package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/editauth/pkg/authsdk"
	"github.com/aussiebroadwan/editauth/pkg/httpx"
	"github.com/aussiebroadwan/editauth/pkg/jwtx"
	"github.com/aussiebroadwan/editauth/pkg/slogx"
)

// IntrospectHandler serves POST /auth/introspect, modelled on RFC7662.
// It verifies the provided edit token and returns metadata about it.
type IntrospectHandler struct {
	Verifier jwtx.Verifier
}

// ServeHTTP godoc
//
//	@Summary		Edit token introspection
//	@Description	Verifies an edit token issued by this service and returns its claims (RFC 7662 style)
//	@Tags			Auth
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			token	formData	string							true	"The token to introspect"
//	@Success		200		{object}	authsdk.IntrospectionResponse	"Token introspection result"
//	@Failure		400		{object}	authsdk.APIError				"invalid_request"
//	@Header			200		{string}	Cache-Control					"no-store"
//	@Router			/auth/introspect [post].
func (h *IntrospectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest,
			"content-type must be application/x-www-form-urlencoded").WriteError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "invalid form body").WriteError(w)
		return
	}

	token := r.PostForm.Get("token")
	if token == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	// Signature, algorithm, expiry and APP tag are all checked here
	claims, err := h.Verifier.Verify(token)
	if err != nil {
		log.Debug("token verification failed during introspection", "error", err)

		// Per RFC7662, return active=false without revealing why
		httpx.WriteJSON(w, http.StatusOK, authsdk.IntrospectionResponse{Active: false})
		return
	}

	response := authsdk.IntrospectionResponse{
		Active: true,
		Sub:    claims.Subject,
		Jti:    claims.ID,
		App:    claims.App,
	}
	if claims.ExpiresAt != nil {
		response.Exp = claims.ExpiresAt.Unix()
	}
	if claims.IssuedAt != nil {
		response.Iat = claims.IssuedAt.Unix()
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
