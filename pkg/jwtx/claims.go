package jwtx

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/editauth/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultEditTokenTTL is how long an edit token stays valid. Editors get
	// a two hour window on a record before they need to ask again.
	DefaultEditTokenTTL = 120 * time.Minute

	// DefaultAppTag is the value of the "APP" claim consumers check for.
	DefaultAppTag = "SAMPLE"
)

// Claims are the edit-token claims. Registered claims carry the subject
// (the authenticated user) and the expiry, App tags which application the
// token was minted for.
type Claims struct {
	jwt.RegisteredClaims

	App string `json:"APP,omitempty"`
}

// NewEditClaims builds the claims for a single edit token. The subject is
// always the caller-supplied user id and exp is always now+ttl. It fails
// only when now cannot be stamped into the jti.
func NewEditClaims(subject, app string, ttl time.Duration, now time.Time) (Claims, error) {
	jti, err := idx.NewAt(now)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: jti: %w", ErrInvalidClaim, err)
	}

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti.String(),
		},
		App: app,
	}, nil
}

// Validate checks the claims are well formed enough to sign.
func (c *Claims) Validate() error {
	if c.Subject == "" {
		return ErrInvalidClaim
	}
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if c.IssuedAt != nil && !c.ExpiresAt.After(c.IssuedAt.Time) {
		return ErrInvalidClaim
	}
	return nil
}

// ValidateApp checks the APP claim matches the expected tag.
func (c *Claims) ValidateApp(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.App != expected {
		return ErrAppTag
	}

	return nil
}
