package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/editauth/internal/editauth/domain"
	"github.com/aussiebroadwan/editauth/internal/editauth/service"
	"github.com/aussiebroadwan/editauth/pkg/authsdk"
	"github.com/aussiebroadwan/editauth/pkg/cryptox"
	"github.com/aussiebroadwan/editauth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "testsecret"
	userHeader = "X-Remote-User"
)

type checkerFunc func(ctx context.Context, userID, recordID string) (bool, error)

func (f checkerFunc) Check(ctx context.Context, userID, recordID string) (bool, error) {
	return f(ctx, userID, recordID)
}

func newTestRouter(t *testing.T, checker service.PermissionChecker) *Router {
	t.Helper()

	signer, err := jwtx.NewSignerHS256(cryptox.NewSecret(testSecret))
	require.NoError(t, err)

	verifier := jwtx.NewCommonHS256(jwtx.NewVerifierHS256(cryptox.NewSecret(testSecret), jwtx.DefaultAppTag, 0))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := NewRouter(signer, verifier, userHeader, "https://mds.example/midas/", "test", logger)
	r.TokenService = &service.TokenService{
		Checker: checker,
		Signer:  signer,
		TTL:     jwtx.DefaultEditTokenTTL,
		AppTag:  jwtx.DefaultAppTag,
	}
	r.ApplyRoutes()
	return r
}

func allowAll() service.PermissionChecker {
	return checkerFunc(func(context.Context, string, string) (bool, error) { return true, nil })
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) authsdk.APIError {
	t.Helper()
	var body authsdk.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestEditTokenIssued(t *testing.T) {
	t.Parallel()

	var gotUser, gotRecord string
	r := newTestRouter(t, checkerFunc(func(_ context.Context, userID, recordID string) (bool, error) {
		gotUser, gotRecord = userID, recordID
		return true, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/_perm/ark:/88434/mds2-1234", nil)
	req.Header.Set(userHeader, "bob")
	rec := do(t, r, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	require.Equal(t, "bob", gotUser)
	require.Equal(t, "ark:/88434/mds2-1234", gotRecord)

	var tok authsdk.UserToken
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tok))
	require.Equal(t, "bob", tok.UserID)

	claims, err := jwtx.NewVerifierHS256(cryptox.NewSecret(testSecret), jwtx.DefaultAppTag, 0).Verify(tok.Token)
	require.NoError(t, err)
	require.Equal(t, "bob", claims.Subject)
}

func TestEditTokenErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		checker service.PermissionChecker
		status  int
		code    string
	}{
		{
			name:    "denied",
			checker: checkerFunc(func(context.Context, string, string) (bool, error) { return false, nil }),
			status:  http.StatusForbidden,
			code:    authsdk.ErrorCodeAccessDenied,
		},
		{
			name: "service unavailable",
			checker: checkerFunc(func(context.Context, string, string) (bool, error) {
				return false, domain.ErrServiceUnavailable
			}),
			status: http.StatusServiceUnavailable,
			code:   authsdk.ErrorCodeTemporarilyUnavailable,
		},
		{
			name: "other failure",
			checker: checkerFunc(func(context.Context, string, string) (bool, error) {
				return false, errors.New("boom")
			}),
			status: http.StatusInternalServerError,
			code:   authsdk.ErrorCodeServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRouter(t, tt.checker)

			req := httptest.NewRequest(http.MethodGet, "/auth/_perm/rec001", nil)
			req.Header.Set(userHeader, "bob")
			rec := do(t, r, req)

			require.Equal(t, tt.status, rec.Code)
			body := decodeAPIError(t, rec)
			require.Equal(t, tt.code, body.Code)
			require.NotContains(t, rec.Body.String(), "boom")
		})
	}
}

func TestEditTokenMissingRecord(t *testing.T) {
	t.Parallel()

	called := false
	r := newTestRouter(t, checkerFunc(func(context.Context, string, string) (bool, error) {
		called = true
		return true, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/_perm/", nil)
	req.Header.Set(userHeader, "bob")
	rec := do(t, r, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, authsdk.ErrorCodeInvalidRequest, decodeAPIError(t, rec).Code)
	require.False(t, called)
}

func TestEditTokenRequiresIdentity(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, allowAll())

	rec := do(t, r, httptest.NewRequest(http.MethodGet, "/auth/_perm/rec001", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, authsdk.ErrorCodeUnauthenticated, decodeAPIError(t, rec).Code)
}

func TestEditTokenRateLimited(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, allowAll())

	var last int
	for range 50 {
		req := httptest.NewRequest(http.MethodGet, "/auth/_perm/rec001", nil)
		req.Header.Set(userHeader, "bob")
		last = do(t, r, req).Code
		if last == http.StatusTooManyRequests {
			break
		}
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}

func TestUsername(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, allowAll())

	req := httptest.NewRequest(http.MethodGet, "/auth/username", nil)
	req.Header.Set(userHeader, "alice")
	rec := do(t, r, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body authsdk.UsernameResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "alice", body.UserID)

	rec = do(t, r, httptest.NewRequest(http.MethodGet, "/auth/username", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func introspect(t *testing.T, h http.Handler, token string) authsdk.IntrospectionResponse {
	t.Helper()

	form := url.Values{"token": {token}}
	req := httptest.NewRequest(http.MethodPost, "/auth/introspect", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body authsdk.IntrospectionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestIntrospect(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, allowAll())

	ut, err := r.TokenService.Issue(context.Background(), "bob", "rec001")
	require.NoError(t, err)

	t.Run("active", func(t *testing.T) {
		body := introspect(t, r, ut.Token)
		require.True(t, body.Active)
		require.Equal(t, "bob", body.Sub)
		require.Equal(t, jwtx.DefaultAppTag, body.App)
		require.NotEmpty(t, body.Jti)
		require.Equal(t, int64(jwtx.DefaultEditTokenTTL/time.Second), body.Exp-body.Iat)
	})

	t.Run("wrong secret is inactive", func(t *testing.T) {
		other, err := jwtx.NewSignerHS256(cryptox.NewSecret("another-secret"))
		require.NoError(t, err)
		claims, err := jwtx.NewEditClaims("bob", jwtx.DefaultAppTag, time.Minute, time.Now())
		require.NoError(t, err)
		token, err := other.Sign(claims)
		require.NoError(t, err)

		body := introspect(t, r, token)
		require.False(t, body.Active)
		require.Empty(t, body.Sub)
	})

	t.Run("garbage is inactive", func(t *testing.T) {
		require.False(t, introspect(t, r, "not-a-jwt").Active)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/introspect", strings.NewReader(""))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := do(t, r, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/introspect", strings.NewReader(`{"token":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := do(t, r, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, allowAll())

	rec := do(t, r, httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var live authsdk.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&live))
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	rec = do(t, r, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var ready authsdk.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ready))
	require.Equal(t, "ok", ready.Checks.Signer)
	require.Equal(t, "ok", ready.Checks.PermissionService)
}

func TestReadyzDegraded(t *testing.T) {
	t.Parallel()

	h := ReadyzHandler(time.Now(), "test", nil, "")
	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var ready authsdk.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ready))
	require.Equal(t, "degraded", ready.Status)
	require.Contains(t, ready.Checks.Signer, "error")
	require.Contains(t, ready.Checks.PermissionService, "error")
}

func TestIssueErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want *authsdk.APIError
	}{
		{domain.ErrUnauthorized, authsdk.ErrAccessDenied},
		{errors.Join(domain.ErrTokenGenerationFailed, domain.ErrInvalidIdentifier), authsdk.ErrInvalidRequest},
		{errors.Join(domain.ErrTokenGenerationFailed, domain.ErrServiceUnavailable), authsdk.ErrTemporarilyUnavailable},
		{domain.ErrTokenGenerationFailed, authsdk.ErrServerError},
		{errors.New("anything"), authsdk.ErrServerError},
	}

	for _, tt := range tests {
		require.Same(t, tt.want, issueError(tt.err), "error %v", tt.err)
	}
}
