package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/awsbudi/risk-tracker/internal/access"
	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/repository"
)

var errNoActor = &domain.PermissionError{Action: "act", Reason: "no acting user"}

func requireActor(a *domain.Actor) error {
	if a == nil {
		return errNoActor
	}
	return nil
}

func loadPolicy(ctx context.Context, groups repository.GroupRepo, h access.Hierarchy) (*access.Policy, error) {
	all, err := groups.List(ctx)
	if err != nil {
		return nil, err
	}
	return access.NewPolicy(h, all), nil
}

// findTask resolves key as an ID first and then as a code.
func findTask(ctx context.Context, tasks repository.TaskRepo, key string) (*domain.Task, error) {
	t, err := tasks.GetByID(ctx, key)
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return tasks.GetByCode(ctx, key)
	}
	return t, err
}

func findProject(ctx context.Context, projects repository.ProjectRepo, key string) (*domain.Project, error) {
	p, err := projects.GetByID(ctx, key)
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return projects.GetByCode(ctx, key)
	}
	return p, err
}

func hiddenTask(t *domain.Task) error {
	return &domain.PermissionError{Action: "access task " + t.Code, Reason: "task belongs to another group"}
}

func hiddenProject(p *domain.Project) error {
	return &domain.PermissionError{Action: "access project " + p.Code, Reason: "project belongs to another group"}
}

// defaultGroup picks the explicit owner group or the actor's first group.
func defaultGroup(explicit string, actor *domain.Actor) string {
	if explicit != "" {
		return explicit
	}
	if g, ok := actor.PrimaryGroup(); ok {
		return g.ID
	}
	return ""
}

func describeWindow(t *domain.Task) string {
	return fmt.Sprintf("plan %s..%s", calendar.Format(t.PlanStart), calendar.Format(t.PlanDue))
}

func ownerGroupExists(ctx context.Context, groups repository.GroupRepo, id string) error {
	if id == "" {
		return nil
	}
	_, err := groups.GetByID(ctx, id)
	return err
}
