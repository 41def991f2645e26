package jwtx

import (
	"fmt"

	"github.com/aussiebroadwan/editauth/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// HS256Signer implements the Signer interface using HMAC with SHA-256.
type HS256Signer struct {
	secret cryptox.Secret
}

func newHS256Signer(secret cryptox.Secret) (*HS256Signer, error) {
	if secret.IsZero() {
		return nil, ErrEmptySecret
	}
	return &HS256Signer{secret: secret}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign checks the claims and turns them into a compact signed JWT.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	if err := claims.Validate(); err != nil {
		return "", err
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret.Bytes())
	if err != nil {
		// jwt errors never include the key, safe to wrap
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Validate does a quick sanity check that we actually have a key.
func (s *HS256Signer) Validate() error {
	if s == nil || s.secret.IsZero() {
		return ErrEmptySecret
	}
	return nil
}
