package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const minProjectNameLength = 3

// Role is the part a user plays inside a project.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Project references its owner by id only; the User is a separate aggregate.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProject validates the name (trimmed, at least 3 characters) and stamps
// creation timestamps. The owner's existence is the service's concern.
func NewProject(name, description, ownerID string) (*Project, error) {
	name = strings.TrimSpace(name)
	if len(name) < minProjectNameLength {
		return nil, NewValidationError("name", "must be at least 3 characters")
	}

	now := time.Now().UTC()
	return &Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Equal reports identity equality by id.
func (p *Project) Equal(other *Project) bool {
	return other != nil && p.ID == other.ID
}

// ProjectMember links a user to a project with a role. The (project_id,
// user_id) pair is unique: one membership per user per project.
type ProjectMember struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}

// NewProjectMember rejects roles outside the enumerated set.
func NewProjectMember(projectID, userID string, role Role) (*ProjectMember, error) {
	if !role.Valid() {
		return nil, NewValidationError("role", "must be ADMIN or MEMBER")
	}
	return &ProjectMember{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	}, nil
}
