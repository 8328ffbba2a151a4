package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/projecthub/internal/core/domain"
	"github.com/taskhive/projecthub/internal/core/ports"
)

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "fake$" + password, nil }
func (fakeHasher) Verify(hash, password string) bool    { return hash == "fake$"+password }

type stubUserRepo struct {
	users map[string]*domain.User // keyed by id
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

type stubTokenIssuer struct {
	err    error
	issued []string // user ids tokens were issued for
}

func (s *stubTokenIssuer) GenerateTokens(_ context.Context, user *domain.User) (ports.TokenPair, error) {
	if s.err != nil {
		return ports.TokenPair{}, s.err
	}
	s.issued = append(s.issued, user.ID)
	now := time.Now()
	return ports.TokenPair{
		AccessToken:        "access-" + user.ID,
		AccessTokenExpiry:  now.Add(time.Hour),
		RefreshToken:       "refresh-" + user.ID,
		RefreshTokenExpiry: now.Add(7 * 24 * time.Hour),
		SessionID:          "sid-1",
	}, nil
}

type stubSessionRecorder struct {
	err      error
	recorded []string // session ids
}

func (s *stubSessionRecorder) Record(_ context.Context, _ *domain.User, sessionID string, _ time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.recorded = append(s.recorded, sessionID)
	return nil
}

func newIdentityService(repo *stubUserRepo, issuer *stubTokenIssuer, sessions SessionRecorder) ports.IdentityService {
	return NewIdentityService(repo, fakeHasher{}, issuer, sessions, zerolog.Nop())
}

func TestIdentityService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newIdentityService(repo, &stubTokenIssuer{}, nil)

	user, err := svc.Register(context.Background(), "Alice@Example.com", "password123", "Alice")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "password123" {
		t.Fatalf("expected password to be hashed, got %q", user.PasswordHash)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one persisted user, got %d", len(repo.users))
	}
}

func TestIdentityService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newIdentityService(repo, &stubTokenIssuer{}, nil)

	if _, err := svc.Register(context.Background(), "a@b.com", "password123", "Alice"); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	// same email, different case
	if _, err := svc.Register(context.Background(), "A@B.com", "password456", "Bob"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("duplicate registration must not persist, got %d users", len(repo.users))
	}
}

// racingUserRepo simulates a concurrent registration slipping past the
// uniqueness pre-check: the existence check sees nothing, but the store's
// unique index still rejects the insert.
type racingUserRepo struct {
	*stubUserRepo
}

func (r *racingUserRepo) ExistsByEmail(context.Context, string) (bool, error) {
	return false, nil
}

func TestIdentityService_Register_DuplicateRace(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewIdentityService(&racingUserRepo{repo}, fakeHasher{}, &stubTokenIssuer{}, nil, zerolog.Nop())

	if _, err := svc.Register(context.Background(), "a@b.com", "password123", "Alice"); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	// the pre-check sees nothing, the insert still collides
	if _, err := svc.Register(context.Background(), "a@b.com", "password456", "Bob"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken from the store, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("racing registration must not persist, got %d users", len(repo.users))
	}
}

func TestIdentityService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := newIdentityService(repo, &stubTokenIssuer{}, nil)

	if _, err := svc.Register(context.Background(), "bad-email", "password123", "Alice"); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for bad email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "a@b.com", "short", "Alice"); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for short password, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("invalid registrations must not persist")
	}
}

func TestIdentityService_Login_RoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	issuer := &stubTokenIssuer{}
	sessions := &stubSessionRecorder{}
	svc := newIdentityService(repo, issuer, sessions)

	user, err := svc.Register(context.Background(), "a@b.com", "password123", "Alice")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// email comparison is case-insensitive
	result, err := svc.Login(context.Background(), "A@B.com", "password123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatalf("expected non-empty token pair: %+v", result.Tokens)
	}
	if result.User.ID != user.ID || result.User.Email != "a@b.com" || result.User.FullName != "Alice" {
		t.Fatalf("unexpected user summary: %+v", result.User)
	}
	if len(issuer.issued) != 1 || issuer.issued[0] != user.ID {
		t.Fatalf("expected tokens issued for %s, got %v", user.ID, issuer.issued)
	}
	if len(sessions.recorded) != 1 {
		t.Fatalf("expected one recorded session, got %d", len(sessions.recorded))
	}
}

func TestIdentityService_Login_IndistinguishableFailures(t *testing.T) {
	repo := newStubUserRepo()
	svc := newIdentityService(repo, &stubTokenIssuer{}, nil)

	if _, err := svc.Register(context.Background(), "a@b.com", "password123", "Alice"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	_, wrongPass := svc.Login(context.Background(), "a@b.com", "wrongpass")
	_, noUser := svc.Login(context.Background(), "noone@nowhere.com", "x")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(noUser, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", noUser)
	}
	if wrongPass.Error() != noUser.Error() {
		t.Fatalf("failure messages must not reveal which case occurred: %q vs %q", wrongPass, noUser)
	}
}

func TestIdentityService_Login_SessionFailureIsNonFatal(t *testing.T) {
	repo := newStubUserRepo()
	sessions := &stubSessionRecorder{err: errors.New("redis down")}
	svc := newIdentityService(repo, &stubTokenIssuer{}, sessions)

	if _, err := svc.Register(context.Background(), "a@b.com", "password123", "Alice"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@b.com", "password123"); err != nil {
		t.Fatalf("login must succeed when session cache fails: %v", err)
	}
}

func TestIdentityService_Login_IssuerFailure(t *testing.T) {
	repo := newStubUserRepo()
	issuer := &stubTokenIssuer{err: domain.ErrUserNotFound}
	svc := newIdentityService(repo, issuer, nil)

	if _, err := svc.Register(context.Background(), "a@b.com", "password123", "Alice"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@b.com", "password123"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected issuer error to propagate, got %v", err)
	}
}
