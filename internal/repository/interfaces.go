package repository

import (
	"context"

	"github.com/awsbudi/risk-tracker/internal/domain"
)

// TaskFilter narrows task listings. Zero-valued fields are ignored.
type TaskFilter struct {
	ProjectID    string
	AssigneeID   string
	OwnerGroupID string
	Kind         domain.TaskKind
	Status       domain.TaskStatus
	TopLevelOnly bool
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByCode(ctx context.Context, code string) (*domain.Project, error)
	GetByName(ctx context.Context, name string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	CodeExists(ctx context.Context, code string) (bool, error)
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	GetByCode(ctx context.Context, code string) (*domain.Task, error)
	List(ctx context.Context, f TaskFilter) ([]*domain.Task, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	CodeExists(ctx context.Context, code string) (bool, error)
}

type TemplateRepo interface {
	Create(ctx context.Context, t *domain.TaskTemplate) error
	GetByID(ctx context.Context, id int64) (*domain.TaskTemplate, error)
	List(ctx context.Context) ([]*domain.TaskTemplate, error)
	Delete(ctx context.Context, id int64) error
}

type GroupRepo interface {
	Create(ctx context.Context, g *domain.Group) error
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	GetByName(ctx context.Context, name string) (*domain.Group, error)
	List(ctx context.Context) ([]domain.Group, error)
}

type ActorRepo interface {
	Create(ctx context.Context, a *domain.Actor) error
	GetByID(ctx context.Context, id string) (*domain.Actor, error)
	GetByUsername(ctx context.Context, username string) (*domain.Actor, error)
	List(ctx context.Context) ([]*domain.Actor, error)
	Count(ctx context.Context) (int, error)
	AddMembership(ctx context.Context, actorID, groupID string) error
	Delete(ctx context.Context, id string) error
}

// CodeSequenceRepo hands out the sequence numbers behind generated codes.
// Callers run it inside the transaction that inserts the coded row.
type CodeSequenceRepo interface {
	NextProjectNumber(ctx context.Context) (int, error)
	NextTopLevelTaskNumber(ctx context.Context) (int, error)
	NextChildNumber(ctx context.Context, parentID string) (int, error)
}

type AuditRepo interface {
	Append(ctx context.Context, e *domain.AuditEntry) error
	ListByTarget(ctx context.Context, model, code string) ([]*domain.AuditEntry, error)
	List(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
}
