package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/editauth/pkg/slogx"
)

// TrustedIdentity reads the authenticated user id from a header set by the
// SSO layer in front of us and stores it in the request context. Requests
// without it are rejected with 401.
//
// The header is only trustworthy when the service is reachable exclusively
// through that layer, which must strip any client-supplied copy.
func TrustedIdentity(header string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(header))
			if userID == "" {
				slogx.FromContext(r.Context()).Warn("request without authenticated identity", "header", header)
				writeError(w, http.StatusUnauthorized, "unauthenticated", "no authenticated user on request")
				return
			}

			ctx := ContextWithUserID(r.Context(), userID)
			ctx = slogx.WithUser(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
