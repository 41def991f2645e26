package authsdk

// ============================================================================
// Token Types
// ============================================================================

// UserToken is returned by GET /auth/_perm/{recordId}: the caller's user id
// and an HS256 edit token for the record.
type UserToken struct {
	UserID string `json:"userId" example:"bob"`
	Token  string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// UsernameResponse is returned by GET /auth/username.
type UsernameResponse struct {
	UserID string `json:"userId" example:"bob"`
}

// IntrospectionResponse represents the RFC7662-style introspection response.
// When a token is inactive, only the Active field will be false and other
// fields will be empty.
type IntrospectionResponse struct {
	Active bool `json:"active"`

	// Optional fields (only present when active=true)
	Sub string `json:"sub,omitempty" example:"bob"`
	Exp int64  `json:"exp,omitempty" example:"1760787000"`
	Iat int64  `json:"iat,omitempty" example:"1760779800"`
	Jti string `json:"jti,omitempty" example:"01JA8Z3Q9W5K2M7V4R6T8Y0XCB"`
	App string `json:"app,omitempty" example:"SAMPLE"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the components /readyz looks at.
type HealthChecks struct {
	// Signer indicates the JWT signing capability status
	Signer string `json:"signer"`

	// PermissionService indicates whether the metadata service is configured.
	// It is not dialled, a readiness probe must not depend on another team's
	// uptime.
	PermissionService string `json:"permission_service"`
}
