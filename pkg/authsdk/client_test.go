package authsdk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/editauth/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestEditToken(t *testing.T) {
	t.Parallel()

	var gotPath, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotUser = r.Header.Get(DefaultUserHeader)
		httpx.WriteJSON(w, http.StatusOK, UserToken{UserID: gotUser, Token: "a.b.c"})
	}))
	t.Cleanup(srv.Close)

	client := NewSDKClient(srv.URL + "/")

	tok, err := client.EditToken(context.Background(), "bob", "ark:/88434/mds2-1234")
	require.NoError(t, err)
	require.Equal(t, "bob", tok.UserID)
	require.Equal(t, "a.b.c", tok.Token)
	require.Equal(t, "/auth/_perm/ark:/88434/mds2-1234", gotPath)
	require.Equal(t, "bob", gotUser)
}

func TestEditTokenErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want *APIError
	}{
		{"denied", ErrAccessDenied},
		{"unavailable", ErrTemporarilyUnavailable},
		{"server error", ErrServerError},
		{"bad request", ErrInvalidRequest},
		{"unauthenticated", ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.want.WriteError(w)
			}))
			t.Cleanup(srv.Close)

			_, err := NewSDKClient(srv.URL).EditToken(context.Background(), "bob", "rec001")
			require.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, tt.want.Description, apiErr.Description)
		})
	}
}

func TestParseErrorFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	t.Cleanup(srv.Close)

	_, err := NewSDKClient(srv.URL).EditToken(context.Background(), "bob", "rec001")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, ErrorCodeServerError, apiErr.Code)
}

func TestIntrospect(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, IntrospectionResponse{
			Active: r.Method == http.MethodPost && r.PostFormValue("token") == "good",
		})
	}))
	t.Cleanup(srv.Close)

	client := NewSDKClient(srv.URL)

	info, err := client.Introspect(context.Background(), "good")
	require.NoError(t, err)
	require.True(t, info.Active)

	info, err = client.Introspect(context.Background(), "bad")
	require.NoError(t, err)
	require.False(t, info.Active)
}

func TestUsernameCustomHeader(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, UsernameResponse{UserID: r.Header.Get("X-Forwarded-User")})
	}))
	t.Cleanup(srv.Close)

	client := NewSDKClient(srv.URL)
	client.UserHeader = "X-Forwarded-User"

	user, err := client.Username(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", user)
}

func TestAPIErrorIs(t *testing.T) {
	t.Parallel()

	custom := NewAPIError(http.StatusForbidden, ErrorCodeAccessDenied, "nope")
	require.ErrorIs(t, custom, ErrAccessDenied)
	require.NotErrorIs(t, custom, ErrServerError)
	require.Equal(t, "access_denied: nope", custom.Error())
}
