package idx

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a ULID in canonical string form. We use these for request ids in
// the access log and for the "jti" claim of every edit token we mint.
type ID string

// Zero represents the zero value ID, don't use this unless its a placeholder.
const Zero ID = ""

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

var (
	mu      sync.Mutex
	once    sync.Once
	entropy *ulid.MonotonicEntropy
)

// ErrTimeRange reports a time a ULID cannot carry: before the Unix epoch or
// past the 48-bit millisecond limit.
var ErrTimeRange = errors.New("idx: time out of ulid range")

// New returns a new lexicographically sortable ID using the current time in
// UTC. Safe for concurrent use by request handlers.
func New() ID {
	id, err := NewAt(time.Now().UTC())
	if err != nil {
		panic(err) // the wall clock is always in range
	}
	return id
}

// NewAt generates an ID at the provided time. Callers with an injected
// clock must handle ErrTimeRange.
func NewAt(t time.Time) (ID, error) {
	if t.Before(time.Unix(0, 0)) || t.After(ulid.Time(ulid.MaxTime())) {
		return Zero, ErrTimeRange
	}

	once.Do(func() {
		entropy = ulid.Monotonic(rand.Reader, 0)
	})

	mu.Lock()
	defer mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return Zero, fmt.Errorf("%w: %w", ErrTimeRange, err)
	}

	return ID(u.String()), nil
}

// Parse parses a ULID string into an ID and validates its form.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalid
	}

	if _, err := ulid.ParseStrict(s); err != nil {
		return Zero, ErrInvalid
	}

	return ID(s), nil
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id == Zero }

// String returns the canonical string form.
func (id ID) String() string { return string(id) }

// Time extracts the embedded UTC timestamp. Zero or invalid IDs give the
// zero time.
func (id ID) Time() time.Time {
	if id.IsZero() {
		return time.Time{}
	}

	u, err := ulid.ParseStrict(id.String())
	if err != nil {
		return time.Time{}
	}

	return ulid.Time(u.Time())
}
