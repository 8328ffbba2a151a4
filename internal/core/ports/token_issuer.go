package ports

import (
	"context"
	"time"

	"github.com/taskhive/projecthub/internal/core/domain"
)

// TokenPair is the access/refresh pair issued on login.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
	// SessionID ties both tokens to one logical session.
	SessionID string
}

// TokenIssuer mints opaque, signed, tamper-evident token pairs bound to a
// user identity. Implementations re-resolve the user against the store at
// issuance time, so a pair is only ever minted for a user that still exists;
// an unresolvable user yields domain.ErrUserNotFound.
type TokenIssuer interface {
	GenerateTokens(ctx context.Context, user *domain.User) (TokenPair, error)
}
