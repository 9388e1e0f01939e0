package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/domain"
)

var testCodeCounter atomic.Int64

// Monday is the default plan start used by fixtures.
var Monday = calendar.Date(2025, 2, 3)

func NewTestGroup(name string) *domain.Group {
	return &domain.Group{ID: uuid.New().String(), Name: name, CreatedAt: time.Now().UTC().Truncate(time.Second)}
}

// Actor options
type ActorOption func(*domain.Actor)

func WithRole(r domain.Role) ActorOption {
	return func(a *domain.Actor) { a.Role = &r }
}

func AsSuperuser() ActorOption {
	return func(a *domain.Actor) { a.Superuser = true }
}

func InGroups(groups ...*domain.Group) ActorOption {
	return func(a *domain.Actor) {
		for _, g := range groups {
			a.Groups = append(a.Groups, *g)
		}
	}
}

func NewTestActor(username string, opts ...ActorOption) *domain.Actor {
	a := &domain.Actor{
		ID:        uuid.New().String(),
		Username:  username,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectWindow(start, end time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.PlanStart, p.PlanEnd = start, end
	}
}

func WithProjectCode(code string) ProjectOption {
	return func(p *domain.Project) { p.Code = code }
}

func NewTestProject(groupID, name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:           uuid.New().String(),
		Code:         fmt.Sprintf("P-T%03d", testCodeCounter.Add(1)),
		Name:         name,
		PlanStart:    Monday,
		PlanEnd:      calendar.AddDays(Monday, 54),
		Status:       domain.ProjectRunning,
		OwnerGroupID: groupID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskCode(code string) TaskOption {
	return func(t *domain.Task) { t.Code = code }
}

func WithWindow(start, due time.Time) TaskOption {
	return func(t *domain.Task) {
		t.PlanStart, t.PlanDue = start, due
	}
}

func InProject(projectID string) TaskOption {
	return func(t *domain.Task) {
		t.Kind = domain.TaskKindProject
		t.ProjectID = &projectID
	}
}

func WithParent(parent *domain.Task) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &parent.ID
		t.Inherit(parent)
	}
}

func DependsOn(pred *domain.Task) TaskOption {
	return func(t *domain.Task) { t.DependsOnID = &pred.ID }
}

func AssignedTo(actorID string) TaskOption {
	return func(t *domain.Task) { t.AssigneeID = &actorID }
}

func WithStatus(s domain.TaskStatus, progress int) TaskOption {
	return func(t *domain.Task) {
		t.Status, t.Progress = s, progress
	}
}

// NewTestTask returns an ad-hoc task starting on Monday; options switch it
// to a project task, add links or change its dates.
func NewTestTask(groupID, name string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Task{
		ID:           uuid.New().String(),
		Code:         fmt.Sprintf("T-T%03d", testCodeCounter.Add(1)),
		Name:         name,
		Kind:         domain.TaskKindAdHoc,
		RequestedBy:  "test",
		PlanStart:    Monday,
		PlanDue:      calendar.AddDays(Monday, 2),
		Status:       domain.TaskTodo,
		OwnerGroupID: groupID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestTemplate(groupID, name string, freq domain.Frequency) *domain.TaskTemplate {
	return &domain.TaskTemplate{
		Name:         name,
		Frequency:    freq,
		OwnerGroupID: groupID,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}
