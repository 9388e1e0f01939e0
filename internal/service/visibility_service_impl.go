package service

import (
	"context"
	"time"

	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/repository"
)

type visibilityService struct {
	tasks    repository.TaskRepo
	projects repository.ProjectRepo
	groups   repository.GroupRepo
	opts     options
}

func NewVisibilityService(tasks repository.TaskRepo, projects repository.ProjectRepo, groups repository.GroupRepo, opts ...Option) VisibilityService {
	return &visibilityService{tasks: tasks, projects: projects, groups: groups, opts: buildOptions(opts)}
}

// ListTasks applies f in the store and then drops what the actor may not see.
func (s *visibilityService) ListTasks(ctx context.Context, actor *domain.Actor, f repository.TaskFilter) (out []*domain.Task, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.opts.observer, "list-tasks", startedAt, fields, &err)

	if err := requireActor(actor); err != nil {
		return nil, err
	}
	all, err := s.tasks.List(ctx, f)
	if err != nil {
		return nil, err
	}
	policy, err := loadPolicy(ctx, s.groups, s.opts.hierarchy)
	if err != nil {
		return nil, err
	}
	out = policy.VisibleTasks(actor, all)
	fields["total"] = len(all)
	fields["visible"] = len(out)
	return out, nil
}

func (s *visibilityService) ListProjects(ctx context.Context, actor *domain.Actor) (out []*domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.opts.observer, "list-projects", startedAt, fields, &err)

	if err := requireActor(actor); err != nil {
		return nil, err
	}
	all, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	policy, err := loadPolicy(ctx, s.groups, s.opts.hierarchy)
	if err != nil {
		return nil, err
	}
	out = policy.VisibleProjects(actor, all)
	fields["total"] = len(all)
	fields["visible"] = len(out)
	return out, nil
}
