package permission

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/editauth/internal/editauth/domain"
	"github.com/aussiebroadwan/editauth/pkg/cryptox"
	"github.com/aussiebroadwan/editauth/pkg/slogx"
	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultAuthHeader is the header the metadata service reads the bearer
	// secret from. It is not "Authorization", the service has always used
	// this name.
	DefaultAuthHeader = "Authorized"

	DefaultTimeout   = 5 * time.Second
	DefaultRetryWait = 200 * time.Millisecond

	updatePath = "/_perm/update/"

	// Permission responses are tiny, only drain this much so the connection
	// can be reused.
	maxDrainBytes = 4 << 10
)

// Config configures the HTTP permission checker.
type Config struct {
	BaseURL    string         // Required: metadata service base, e.g. https://mds.example/midas/
	Secret     cryptox.Secret // Required: bearer secret sent in AuthHeader
	AuthHeader string         // Optional: default "Authorized"
	Timeout    time.Duration  // Optional: per-attempt timeout (default: 5s)
	Retries    int            // Optional: extra attempts on transport failure (default: 0)
	RetryWait  time.Duration  // Optional: initial backoff between attempts (default: 200ms)

	// HTTPClient overrides the client built from Timeout. Mostly for tests.
	// Its redirect policy is replaced, redirects are never followed.
	HTTPClient *http.Client
}

// HTTPChecker asks the metadata service whether a user may update a record.
// It holds no mutable state and is safe for concurrent use.
type HTTPChecker struct {
	baseURL   string
	secret    cryptox.Secret
	header    string
	retries   int
	retryWait time.Duration
	client    *http.Client
}

// NewHTTPChecker validates cfg and applies defaults.
func NewHTTPChecker(cfg Config) (*HTTPChecker, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("permission: base URL is required")
	}

	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("permission: invalid base URL %q", base)
	}
	if cfg.Secret.IsZero() {
		return nil, fmt.Errorf("permission: secret is required")
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("permission: retries must not be negative, got %d", cfg.Retries)
	}

	c := &HTTPChecker{
		baseURL:   strings.TrimSuffix(base, "/") + "/",
		secret:    cfg.Secret,
		header:    cfg.AuthHeader,
		retries:   cfg.Retries,
		retryWait: cfg.RetryWait,
		client:    cfg.HTTPClient,
	}

	if c.header == "" {
		c.header = DefaultAuthHeader
	}
	if c.retryWait <= 0 {
		c.retryWait = DefaultRetryWait
	}
	if c.client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.client = &http.Client{Timeout: timeout}
	} else {
		// Copy so the caller's client keeps its own redirect policy
		client := *c.client
		c.client = &client
	}
	c.client.CheckRedirect = noRedirects

	return c, nil
}

// noRedirects returns a 3xx to Decide unfollowed, so the secret header never
// leaves the configured host.
func noRedirects(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// Decide maps a completed response status onto a permission decision. Only
// 2xx grants; every other status, 5xx included, is a plain "no".
func Decide(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// URL builds {base}{recordID}/_perm/update/{userID}. Record ids keep their
// slashes (ark:/88434/...), the user id is a single segment.
func (c *HTTPChecker) URL(recordID, userID string) string {
	record := (&url.URL{Path: strings.TrimPrefix(recordID, "/")}).EscapedPath()
	return c.baseURL + record + updatePath + url.PathEscape(userID)
}

// Check makes one GET per attempt and reads only the status code. Any
// completed response is final. Transport failures are retried up to
// Retries times and then reported as domain.ErrServiceUnavailable.
func (c *HTTPChecker) Check(ctx context.Context, userID, recordID string) (bool, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(recordID) == "" {
		return false, domain.ErrInvalidIdentifier
	}

	log := slogx.FromContext(ctx)
	target := c.URL(recordID, userID)

	var (
		status   int
		attempts int
	)

	op := func() error {
		attempts++
		s, err := c.do(ctx, target)
		if err != nil {
			return err
		}
		status = s
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryWait
	b.MaxElapsedTime = 0 // bounded by retries, not wall time
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.retries)), ctx)

	notify := func(err error, wait time.Duration) {
		log.Warn("permission check attempt failed, retrying",
			slog.String("record_id", recordID),
			slog.Int("attempt", attempts),
			slog.Duration("wait", wait),
			slog.Any("error", err),
		)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		log.Error("permission service unreachable",
			slog.String("record_id", recordID),
			slog.String("user_id", userID),
			slog.Int("attempts", attempts),
			slog.Any("error", err),
		)
		return false, fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
	}

	allowed := Decide(status)
	log.Debug("permission check completed",
		slog.String("record_id", recordID),
		slog.String("user_id", userID),
		slog.Int("status", status),
		slog.Bool("allowed", allowed),
	)

	return allowed, nil
}

func (c *HTTPChecker) do(ctx context.Context, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set(c.header, "Bearer "+c.secret.Reveal())

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	return resp.StatusCode, nil
}
