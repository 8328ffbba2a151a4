package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskhive/projecthub/internal/core/domain"
	"github.com/taskhive/projecthub/internal/core/ports"
)

const (
	// TokenTypeAccess and TokenTypeRefresh discriminate the two halves of a
	// pair so a refresh token can never pass the auth middleware.
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	defaultAccessTTL  = time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Claims is the JWT payload for both token types.
type Claims struct {
	Email     string `json:"email"`
	TokenType string `json:"typ"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// JWTIssuer implements ports.TokenIssuer with HS256-signed JWTs.
type JWTIssuer struct {
	users      ports.UserRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTIssuer builds an issuer. Non-positive TTLs fall back to the defaults
// (1h access, 7d refresh).
func NewJWTIssuer(users ports.UserRepository, secret string, accessTTL, refreshTTL time.Duration) *JWTIssuer {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &JWTIssuer{
		users:      users,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateTokens mints an access/refresh pair for the user. The user is
// re-fetched from the store first, so tokens are only issued for identities
// that still exist at issuance time, not just at an earlier lookup.
func (i *JWTIssuer) GenerateTokens(ctx context.Context, user *domain.User) (ports.TokenPair, error) {
	u, err := i.users.GetByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return ports.TokenPair{}, domain.ErrUserNotFound
		}
		return ports.TokenPair{}, err
	}

	sid := uuid.NewString()
	now := time.Now()

	access, accessExp, err := i.sign(u, sid, TokenTypeAccess, now, i.accessTTL)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, refreshExp, err := i.sign(u, sid, TokenTypeRefresh, now, i.refreshTTL)
	if err != nil {
		return ports.TokenPair{}, err
	}

	return ports.TokenPair{
		AccessToken:        access,
		AccessTokenExpiry:  accessExp,
		RefreshToken:       refresh,
		RefreshTokenExpiry: refreshExp,
		SessionID:          sid,
	}, nil
}

// ParseAccessToken validates an access token and returns its claims. Refresh
// tokens, expired tokens, and tokens signed with another key all fail.
func (i *JWTIssuer) ParseAccessToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, errors.New("not an access token")
	}
	return claims, nil
}

func (i *JWTIssuer) sign(u *domain.User, sid, typ string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Email:     u.Email,
		TokenType: typ,
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
