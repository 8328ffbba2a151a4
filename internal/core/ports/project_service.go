package ports

import (
	"context"

	"github.com/taskhive/projecthub/internal/core/domain"
)

// CreateProjectInput carries all data needed to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	OwnerID     string
}

// ProjectService defines use-case operations for projects.
type ProjectService interface {
	// CreateProject persists a project and its owner's ADMIN membership.
	CreateProject(ctx context.Context, input CreateProjectInput) (*domain.Project, error)

	// GetProject returns the project when the requester owns it or is a
	// member; otherwise domain.ErrForbidden.
	GetProject(ctx context.Context, projectID, requesterID string) (*domain.Project, error)
}
