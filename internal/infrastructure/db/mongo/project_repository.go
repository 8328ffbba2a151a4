package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/projecthub/internal/core/domain"
)

const (
	collectionProjects = "projects"
	collectionMembers  = "project_members"
)

// ProjectRepository implements ports.ProjectRepository on MongoDB. Project
// and membership documents live in separate collections; CreateWithOwner
// writes both inside a multi-document transaction.
type ProjectRepository struct {
	db       *mongo.Database
	projects *mongo.Collection
	members  *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{
		db:       db,
		projects: db.Collection(collectionProjects),
		members:  db.Collection(collectionMembers),
	}
}

type projectDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	OwnerID     string    `bson:"owner_id"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type memberDoc struct {
	ID        string    `bson:"_id"`
	ProjectID string    `bson:"project_id"`
	UserID    string    `bson:"user_id"`
	Role      string    `bson:"role"`
	JoinedAt  time.Time `bson:"joined_at"`
}

func toProjectDoc(p *domain.Project) projectDoc {
	return projectDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d projectDoc) toEntity() *domain.Project {
	return &domain.Project{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     d.OwnerID,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func toMemberDoc(m *domain.ProjectMember) memberDoc {
	return memberDoc{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		JoinedAt:  m.JoinedAt,
	}
}

func (d memberDoc) toEntity() *domain.ProjectMember {
	return &domain.ProjectMember{
		ID:        d.ID,
		ProjectID: d.ProjectID,
		UserID:    d.UserID,
		Role:      domain.Role(d.Role),
		JoinedAt:  d.JoinedAt.UTC(),
	}
}

// CreateWithOwner inserts the project and the owner's membership inside one
// transaction, so a failed membership write rolls the project back instead of
// leaving an ownerless-but-present project behind.
func (r *ProjectRepository) CreateWithOwner(ctx context.Context, project *domain.Project, owner *domain.ProjectMember) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.projects.InsertOne(sc, toProjectDoc(project)); err != nil {
			return nil, fmt.Errorf("insert project: %w", err)
		}
		if _, err := r.members.InsertOne(sc, toMemberDoc(owner)); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrAlreadyMember
			}
			return nil, fmt.Errorf("insert owner membership: %w", err)
		}
		return nil, nil
	})
	return err
}

// AddMember inserts a membership. The unique (project_id, user_id) index
// enforces one membership per user per project.
func (r *ProjectRepository) AddMember(ctx context.Context, member *domain.ProjectMember) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.members.InsertOne(ctx, toMemberDoc(member)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyMember
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d projectDoc
	if err := r.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return d.toEntity(), nil
}

func (r *ProjectRepository) FindMember(ctx context.Context, projectID, userID string) (*domain.ProjectMember, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d memberDoc
	filter := bson.M{"project_id": projectID, "user_id": userID}
	if err := r.members.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return d.toEntity(), nil
}

// EnsureIndexes creates the membership uniqueness index and the owner lookup
// index. Memberships cascade with their project at the application level, so
// project_id is the leading key.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.projects.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}},
	}); err != nil {
		return err
	}

	_, err := r.members.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
