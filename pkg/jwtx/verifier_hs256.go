package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/editauth/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// HS256Verifier validates edit tokens signed with a shared HMAC secret.
type HS256Verifier struct {
	secret cryptox.Secret
	app    string
	leeway time.Duration
}

// NewVerifierHS256 creates a verifier for tokens signed with secret. An empty
// app skips the APP claim check.
func NewVerifierHS256(secret cryptox.Secret, app string, leeway time.Duration) *HS256Verifier {
	return &HS256Verifier{secret: secret, app: app, leeway: leeway}
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *HS256Verifier) Verify(tokenStr string) (*Claims, error) {
	if v.secret.IsZero() {
		return nil, ErrEmptySecret
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrAlgMismatch
		}
		return v.secret.Bytes(), nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaim
	}

	if err := claims.ValidateApp(v.app); err != nil {
		return nil, err
	}

	return claims, nil
}

// classifyParseError maps golang-jwt errors onto our sentinels so callers
// don't need to import jwt to tell an expired token from a forged one.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	default:
		return fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	}
}
