package ports

import (
	"context"

	"github.com/taskhive/projecthub/internal/core/domain"
)

// UserRepository defines the persistence boundary for user identity records.
// Emails handed to lookups are expected to be normalized already.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
