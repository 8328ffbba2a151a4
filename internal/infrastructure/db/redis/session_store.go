package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskhive/projecthub/internal/core/domain"
)

// SessionStore records login sessions in Redis so operational tooling can see
// who is logged in and which session id their tokens carry.
// Key format: user:session:<user_id>
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Record stores the session hash and expires it together with the refresh
// token. A later login overwrites the previous session.
func (s *SessionStore) Record(ctx context.Context, user *domain.User, sessionID string, expiry time.Time) error {
	key := s.key(user.ID)
	fields := map[string]any{
		"user_id":   user.ID,
		"email":     user.Email,
		"sid":       sessionID,
		"logged_in": true,
		"issued_at": time.Now().UTC().Format(time.RFC3339Nano),
	}

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.ExpireAt(ctx, key, expiry)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(userID string) string {
	return "user:session:" + userID
}
