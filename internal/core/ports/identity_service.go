package ports

import (
	"context"

	"github.com/taskhive/projecthub/internal/core/domain"
)

// UserSummary is the minimal user view returned to callers. It deliberately
// carries no credential material.
type UserSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Tokens TokenPair
	User   UserSummary
}

// IdentityService defines the registration and login use cases.
type IdentityService interface {
	Register(ctx context.Context, email, password, fullName string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
