package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskhive/projecthub/internal/core/domain"
	"github.com/taskhive/projecthub/internal/core/ports"
)

type projectService struct {
	projects ports.ProjectRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

// NewProjectService returns a ProjectService implementation.
func NewProjectService(projects ports.ProjectRepository, users ports.UserRepository, log zerolog.Logger) ports.ProjectService {
	return &projectService{projects: projects, users: users, log: log}
}

// CreateProject validates the owner and the project name before touching the
// store, then persists the project together with the owner's ADMIN membership
// in one unit of work.
func (s *projectService) CreateProject(ctx context.Context, input ports.CreateProjectInput) (*domain.Project, error) {
	project, err := domain.NewProject(input.Name, input.Description, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, input.OwnerID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("resolve owner: %w", err)
	}

	owner, err := domain.NewProjectMember(project.ID, input.OwnerID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.projects.CreateWithOwner(ctx, project, owner); err != nil {
		s.log.Error().Err(err).Str("owner_id", input.OwnerID).Msg("failed to create project")
		return nil, err
	}

	s.log.Info().
		Str("project_id", project.ID).
		Str("owner_id", input.OwnerID).
		Msg("project created")

	return project, nil
}

// GetProject enforces that the requester owns the project or holds a
// membership in it.
func (s *projectService) GetProject(ctx context.Context, projectID, requesterID string) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project.OwnerID != requesterID {
		if _, err := s.projects.FindMember(ctx, projectID, requesterID); err != nil {
			if errors.Is(err, domain.ErrProjectNotFound) {
				return nil, domain.ErrForbidden
			}
			return nil, err
		}
	}

	return project, nil
}
