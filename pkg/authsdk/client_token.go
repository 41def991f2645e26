package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// EditToken requests an edit token for recordID on behalf of userID.
// A denial comes back as an *APIError matching ErrAccessDenied.
func (c *SDKClient) EditToken(ctx context.Context, userID, recordID string) (*UserToken, error) {
	path := "/auth/_perm/" + (&url.URL{Path: strings.TrimPrefix(recordID, "/")}).EscapedPath()

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, c.userHeaders(userID))
	if err != nil {
		return nil, err
	}

	var token UserToken
	if err := decodeJSON(resp, &token, http.StatusOK); err != nil {
		return nil, err
	}

	return &token, nil
}

// Username returns the user id the service sees for userID's requests.
func (c *SDKClient) Username(ctx context.Context, userID string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/auth/username", nil, c.userHeaders(userID))
	if err != nil {
		return "", err
	}

	var out UsernameResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}

	return out.UserID, nil
}

// Introspect asks the service whether token is a live edit token it issued.
func (c *SDKClient) Introspect(ctx context.Context, token string) (*IntrospectionResponse, error) {
	form := url.Values{}
	form.Set("token", token)

	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/introspect",
		strings.NewReader(form.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	)
	if err != nil {
		return nil, err
	}

	var out IntrospectionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *SDKClient) userHeaders(userID string) map[string]string {
	if userID == "" {
		return nil
	}
	header := c.UserHeader
	if header == "" {
		header = DefaultUserHeader
	}
	return map[string]string{header: userID}
}
