package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/projecthub/internal/core/domain"
	"github.com/taskhive/projecthub/internal/core/ports"
)

// SessionRecorder abstracts the session cache (Redis). Recording a session is
// best-effort: a cache failure never fails a login.
type SessionRecorder interface {
	Record(ctx context.Context, user *domain.User, sessionID string, expiry time.Time) error
}

type identityService struct {
	users    ports.UserRepository
	hasher   domain.PasswordHasher
	tokens   ports.TokenIssuer
	sessions SessionRecorder
	log      zerolog.Logger
}

// NewIdentityService returns an IdentityService implementation. sessions may
// be nil when no session cache is configured.
func NewIdentityService(
	users ports.UserRepository,
	hasher domain.PasswordHasher,
	tokens ports.TokenIssuer,
	sessions SessionRecorder,
	log zerolog.Logger,
) ports.IdentityService {
	return &identityService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		sessions: sessions,
		log:      log,
	}
}

// Register creates a new user after verifying email uniqueness. The pre-check
// is advisory only: a concurrent registration slipping past it is caught by
// the store's unique index and still surfaces as domain.ErrEmailTaken.
func (s *identityService) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	user, err := domain.NewUser(email, fullName)
	if err != nil {
		return nil, err
	}
	if err := user.SetPassword(password, s.hasher); err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return created, nil
}

// Login authenticates by email and password. An unknown email and a wrong
// password return the identical error so callers cannot probe which emails
// are registered.
func (s *identityService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password, s.hasher) {
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.GenerateTokens(ctx, user)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("token issuance failed")
		return nil, err
	}

	if s.sessions != nil {
		if rErr := s.sessions.Record(ctx, user, pair.SessionID, pair.RefreshTokenExpiry); rErr != nil {
			s.log.Warn().Err(rErr).Str("user_id", user.ID).Msg("failed to record session")
		}
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.LoginResult{
		Tokens: pair,
		User: ports.UserSummary{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName,
		},
	}, nil
}
