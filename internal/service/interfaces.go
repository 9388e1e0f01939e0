package service

import (
	"context"
	"time"

	"github.com/awsbudi/risk-tracker/internal/cascade"
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/repository"
)

type CreateProjectInput struct {
	Name         string
	Description  string
	PlanStart    time.Time
	PlanEnd      time.Time
	OwnerGroupID string
	Status       domain.ProjectStatus
}

// UpdateProjectInput changes only the non-nil fields.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	PlanStart   *time.Time
	PlanEnd     *time.Time
	ActualStart *time.Time
	ActualEnd   *time.Time
	Status      *domain.ProjectStatus
}

// ProjectService manages projects. key arguments accept a project code or ID.
type ProjectService interface {
	Create(ctx context.Context, actor *domain.Actor, in CreateProjectInput) (*domain.Project, error)
	Get(ctx context.Context, actor *domain.Actor, key string) (*domain.Project, error)
	List(ctx context.Context, actor *domain.Actor) ([]*domain.Project, error)
	Update(ctx context.Context, actor *domain.Actor, key string, in UpdateProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, actor *domain.Actor, key string) error
}

type CreateTaskInput struct {
	Name         string
	Kind         domain.TaskKind
	ProjectID    *string
	ParentID     *string
	DependsOnID  *string
	AssigneeID   *string
	RequestedBy  string
	PlanStart    time.Time
	PlanDue      time.Time
	OwnerGroupID string
	Status       domain.TaskStatus
	Progress     int
}

// RescheduleResult lists the tasks written by a reschedule, root first, and
// the dependents whose shift failed validation and kept their dates.
type RescheduleResult struct {
	Updated []*domain.Task
	Failed  []cascade.Failure
}

// TaskService manages tasks. key arguments accept a task code or ID.
type TaskService interface {
	Create(ctx context.Context, actor *domain.Actor, in CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, actor *domain.Actor, key string) (*domain.Task, error)
	UpdateProgress(ctx context.Context, actor *domain.Actor, key string, progress int) (*domain.Task, error)
	Reschedule(ctx context.Context, actor *domain.Actor, key string, newStart, newDue time.Time) (*RescheduleResult, error)
	Delete(ctx context.Context, actor *domain.Actor, key string) error
}

// InstanceError records a recurrence instance that could not be created.
type InstanceError struct {
	Code string
	Date time.Time
	Err  error
}

type GenerateResult struct {
	TemplateID int64
	Created    []*domain.Task
	Skipped    []string
	Failed     []InstanceError
}

// RecurrenceService materializes routine tasks from templates. A zero start
// or end selects the current month.
type RecurrenceService interface {
	Generate(ctx context.Context, templateID int64, start, end time.Time) (*GenerateResult, error)
	GenerateAll(ctx context.Context, start, end time.Time) ([]*GenerateResult, error)
}

type VisibilityService interface {
	ListTasks(ctx context.Context, actor *domain.Actor, f repository.TaskFilter) ([]*domain.Task, error)
	ListProjects(ctx context.Context, actor *domain.Actor) ([]*domain.Project, error)
}

type CreateTemplateInput struct {
	Name              string
	Description       string
	Frequency         domain.Frequency
	DefaultAssigneeID *string
	OwnerGroupID      string
}

type TemplateService interface {
	Create(ctx context.Context, actor *domain.Actor, in CreateTemplateInput) (*domain.TaskTemplate, error)
	Get(ctx context.Context, id int64) (*domain.TaskTemplate, error)
	List(ctx context.Context) ([]*domain.TaskTemplate, error)
	Delete(ctx context.Context, actor *domain.Actor, id int64) error
}

type CreateActorInput struct {
	Username  string
	FullName  string
	Role      *domain.Role
	Superuser bool
	Groups    []string
}

// ActorService manages accounts and groups. While no account exists, the
// acting user may be nil so the first account can be bootstrapped.
type ActorService interface {
	Create(ctx context.Context, by *domain.Actor, in CreateActorInput) (*domain.Actor, error)
	Get(ctx context.Context, username string) (*domain.Actor, error)
	List(ctx context.Context) ([]*domain.Actor, error)
	AddToGroup(ctx context.Context, by *domain.Actor, username, group string) (*domain.Actor, error)
	CreateGroup(ctx context.Context, by *domain.Actor, name string) (*domain.Group, error)
	ListGroups(ctx context.Context) ([]domain.Group, error)
}
