package ports

import (
	"context"

	"github.com/taskhive/projecthub/internal/core/domain"
)

// ProjectRepository defines the persistence boundary for projects and their
// membership records.
type ProjectRepository interface {
	// CreateWithOwner persists the project and the owner's membership as a
	// single unit of work: if the membership write fails the project must not
	// remain behind.
	CreateWithOwner(ctx context.Context, project *domain.Project, owner *domain.ProjectMember) error

	// AddMember persists a membership. A second membership for the same
	// (project, user) pair yields domain.ErrAlreadyMember.
	AddMember(ctx context.Context, member *domain.ProjectMember) error

	FindByID(ctx context.Context, id string) (*domain.Project, error)

	// FindMember returns the membership linking user to project, or
	// domain.ErrProjectNotFound when no such membership exists.
	FindMember(ctx context.Context, projectID, userID string) (*domain.ProjectMember, error)
}
