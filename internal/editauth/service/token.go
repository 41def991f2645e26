package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/editauth/internal/editauth/domain"
	"github.com/aussiebroadwan/editauth/pkg/cryptox"
	"github.com/aussiebroadwan/editauth/pkg/jwtx"
	"github.com/aussiebroadwan/editauth/pkg/slogx"
)

// PermissionChecker answers "may userID edit recordID". A false result with
// a nil error is a denial; a non-nil error means nobody could tell.
type PermissionChecker interface {
	Check(ctx context.Context, userID, recordID string) (bool, error)
}

// TokenService mints edit tokens. All fields are set once at startup and
// only read afterwards, so a single instance serves concurrent requests.
type TokenService struct {
	Checker PermissionChecker
	Signer  jwtx.Signer
	TTL     time.Duration
	AppTag  string

	// Now defaults to time.Now, tests pin it.
	Now func() time.Time
}

// Issue checks with the permission service and, only if it grants, signs a
// token for userID that expires TTL from now.
//
// Failures:
//   - domain.ErrUnauthorized: the service said no.
//   - domain.ErrTokenGenerationFailed: the check errored (the cause, e.g.
//     domain.ErrServiceUnavailable, stays in the chain) or the claims could
//     not be built and signed.
func (s *TokenService) Issue(ctx context.Context, userID, recordID string) (*domain.UserToken, error) {
	l := slogx.FromContext(ctx)

	if strings.TrimSpace(userID) == "" || strings.TrimSpace(recordID) == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenGenerationFailed, domain.ErrInvalidIdentifier)
	}

	allowed, err := s.Checker.Check(ctx, userID, recordID)
	if err != nil {
		return nil, fmt.Errorf("%w: permission check: %w", domain.ErrTokenGenerationFailed, err)
	}
	if !allowed {
		l.Info("edit token refused", slog.String("user_id", userID), slog.String("record_id", recordID))
		return nil, domain.ErrUnauthorized
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	ttl := s.TTL
	if ttl == 0 {
		ttl = jwtx.DefaultEditTokenTTL
	}

	claims, err := jwtx.NewEditClaims(userID, s.AppTag, ttl, now)
	if err != nil {
		return nil, fmt.Errorf("%w: claims: %w", domain.ErrTokenGenerationFailed, err)
	}

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("%w: sign: %w", domain.ErrTokenGenerationFailed, err)
	}

	l.Info("edit token issued",
		slog.String("user_id", userID),
		slog.String("record_id", recordID),
		slog.String("jti", claims.ID),
		slog.String("token_fp", cryptox.FingerprintToken(token)),
		slog.Time("expires_at", claims.ExpiresAt.Time),
	)

	return &domain.UserToken{UserID: userID, Token: token}, nil
}
