package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskhive/projecthub/internal/core/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.users[u.ID] = u
	return u, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func testUser(t *testing.T) *domain.User {
	t.Helper()
	u, err := domain.NewUser("alice@example.com", "Alice")
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	return u
}

func TestJWTIssuer_GenerateTokens(t *testing.T) {
	user := testUser(t)
	issuer := NewJWTIssuer(newStubUserRepo(user), "secret", time.Hour, 7*24*time.Hour)

	pair, err := issuer.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("GenerateTokens returned error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected non-empty tokens: %+v", pair)
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatalf("access and refresh tokens must differ")
	}
	if pair.SessionID == "" {
		t.Fatalf("expected a session id")
	}
	if !pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry) {
		t.Fatalf("refresh token must outlive access token: %v vs %v",
			pair.RefreshTokenExpiry, pair.AccessTokenExpiry)
	}

	claims, err := issuer.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.Subject != user.ID {
		t.Fatalf("unexpected subject: %q", claims.Subject)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("unexpected email claim: %q", claims.Email)
	}
	if claims.SessionID != pair.SessionID {
		t.Fatalf("session id mismatch: %q vs %q", claims.SessionID, pair.SessionID)
	}
}

func TestJWTIssuer_GenerateTokens_UserGone(t *testing.T) {
	user := testUser(t)
	// the store no longer knows this user
	issuer := NewJWTIssuer(newStubUserRepo(), "secret", time.Hour, 7*24*time.Hour)

	if _, err := issuer.GenerateTokens(context.Background(), user); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestJWTIssuer_RefreshTokenRejectedAsAccess(t *testing.T) {
	user := testUser(t)
	issuer := NewJWTIssuer(newStubUserRepo(user), "secret", time.Hour, 7*24*time.Hour)

	pair, err := issuer.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("GenerateTokens returned error: %v", err)
	}
	if _, err := issuer.ParseAccessToken(pair.RefreshToken); err == nil {
		t.Fatalf("refresh token must not parse as access token")
	}
}

func TestJWTIssuer_WrongSecret(t *testing.T) {
	user := testUser(t)
	repo := newStubUserRepo(user)
	issuer := NewJWTIssuer(repo, "secret", time.Hour, 7*24*time.Hour)
	other := NewJWTIssuer(repo, "other-secret", time.Hour, 7*24*time.Hour)

	pair, err := issuer.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("GenerateTokens returned error: %v", err)
	}
	if _, err := other.ParseAccessToken(pair.AccessToken); err == nil {
		t.Fatalf("token signed with a different key must not parse")
	}
}

func TestJWTIssuer_ExpiredToken(t *testing.T) {
	user := testUser(t)
	issuer := NewJWTIssuer(newStubUserRepo(user), "secret", time.Millisecond, 7*24*time.Hour)

	pair, err := issuer.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("GenerateTokens returned error: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if _, err := issuer.ParseAccessToken(pair.AccessToken); err == nil {
		t.Fatalf("expired token must not parse")
	}
}
