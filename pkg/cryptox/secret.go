package cryptox

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Redacted is what a Secret prints as, wherever it ends up.
const Redacted = "[REDACTED]"

// Secret holds a shared secret such as the HS256 signing key or the bearer
// value sent to the permission service. The zero value is an empty secret.
//
// A Secret is immutable once created. Every formatting path (fmt verbs,
// slog, encoding/json) yields Redacted, so handing a config struct to a
// logger can't leak it. Reveal is the only way to get the raw value out.
type Secret struct {
	value string
}

// NewSecret wraps a raw secret value.
func NewSecret(raw string) Secret {
	return Secret{value: raw}
}

// Reveal returns the raw secret. Call sites should be limited to the signer
// and the outbound Authorization header.
func (s Secret) Reveal() string { return s.value }

// Bytes returns a fresh copy of the secret as a byte slice, so callers can't
// mutate the shared value.
func (s Secret) Bytes() []byte { return []byte(s.value) }

// IsZero reports whether the secret is empty.
func (s Secret) IsZero() bool { return s.value == "" }

// Equal compares against a raw candidate in constant time.
func (s Secret) Equal(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(s.value), []byte(candidate)) == 1
}

func (s Secret) String() string   { return Redacted }
func (s Secret) GoString() string { return Redacted }

// Format covers %v, %+v, %#v, %s, %q, %x and friends.
func (s Secret) Format(f fmt.State, _ rune) {
	_, _ = fmt.Fprint(f, Redacted)
}

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(Redacted)
}

// MarshalJSON implements json.Marshaler.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(Redacted)
}
