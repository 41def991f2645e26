package jwtx

import "github.com/aussiebroadwan/editauth/pkg/cryptox"

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
	Validate() error
}

// NewSignerHS256 creates an HMAC-SHA256 signer over a shared secret.
func NewSignerHS256(secret cryptox.Secret) (Signer, error) {
	return newHS256Signer(secret)
}
