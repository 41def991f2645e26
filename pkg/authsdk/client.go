package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// DefaultUserHeader is the header the SSO proxy uses to pass the
// authenticated user id to the service.
const DefaultUserHeader = "X-Remote-User"

// SDKClient is a client for the edit token service.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// UserHeader is the identity header sent on user-scoped calls. It
	// mirrors what the SSO proxy would set and is meant for trusted callers
	// and tests sitting behind that proxy.
	UserHeader string
}

// NewSDKClient creates a new client for the service at baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserHeader: DefaultUserHeader,
	}
}
