package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/awsbudi/risk-tracker/internal/access"
	"github.com/awsbudi/risk-tracker/internal/db"
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	groups   repository.GroupRepo
	uow      db.UnitOfWork
	opts     options
}

func NewProjectService(projects repository.ProjectRepo, groups repository.GroupRepo, uow db.UnitOfWork, opts ...Option) ProjectService {
	return &projectService{projects: projects, groups: groups, uow: uow, opts: buildOptions(opts)}
}

func (s *projectService) Create(ctx context.Context, actor *domain.Actor, in CreateProjectInput) (p *domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"name": in.Name}
	defer observe(ctx, s.opts.observer, "create-project", startedAt, fields, &err)

	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := access.CanCreateProject(actor); err != nil {
		return nil, err
	}

	now := s.opts.now()
	createdBy := actor.ID
	p = &domain.Project{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		PlanStart:    in.PlanStart,
		PlanEnd:      in.PlanEnd,
		Status:       in.Status,
		OwnerGroupID: defaultGroup(in.OwnerGroupID, actor),
		CreatedBy:    &createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if p.Status == "" {
		p.Status = domain.ProjectRunning
	}
	if err := domain.NewValidationError(s.opts.validator.Project(p)); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := ownerGroupExists(ctx, repository.NewSQLiteGroupRepo(tx), p.OwnerGroupID); err != nil {
			return err
		}
		alloc := newCodeAllocator(tx)
		code, err := allocateWithRetry(ctx, alloc.project)
		if err != nil {
			return err
		}
		p.Code = code
		return repository.NewSQLiteProjectRepo(tx).Create(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	fields["code"] = p.Code
	s.opts.hooks.ProjectCreated(ctx, actor, p)
	return p, nil
}

func (s *projectService) Get(ctx context.Context, actor *domain.Actor, key string) (p *domain.Project, err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.opts.observer, "get-project", startedAt, map[string]any{"key": key}, &err)

	if err := requireActor(actor); err != nil {
		return nil, err
	}
	p, err = findProject(ctx, s.projects, key)
	if err != nil {
		return nil, err
	}
	policy, err := loadPolicy(ctx, s.groups, s.opts.hierarchy)
	if err != nil {
		return nil, err
	}
	if !policy.CanSeeProject(actor, p) {
		return nil, hiddenProject(p)
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, actor *domain.Actor) (out []*domain.Project, err error) {
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
	fields["count"] = len(out)
	return out, nil
}

func (s *projectService) Update(ctx context.Context, actor *domain.Actor, key string, in UpdateProjectInput) (p *domain.Project, err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.opts.observer, "update-project", startedAt, map[string]any{"key": key}, &err)

	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := access.CanUpdateProject(actor); err != nil {
		return nil, err
	}
	policy, err := loadPolicy(ctx, s.groups, s.opts.hierarchy)
	if err != nil {
		return nil, err
	}

	var changed []string
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		found, err := findProject(ctx, projects, key)
		if err != nil {
			return err
		}
		if !policy.CanSeeProject(actor, found) {
			return hiddenProject(found)
		}
		changed = applyProjectUpdate(found, in)
		found.UpdatedAt = s.opts.now()
		if err := domain.NewValidationError(s.opts.validator.Project(found)); err != nil {
			return err
		}
		p = found
		return projects.Update(ctx, found)
	})
	if err != nil {
		return nil, fmt.Errorf("updating project %s: %w", key, err)
	}
	s.opts.hooks.ProjectUpdated(ctx, actor, p, "changed "+strings.Join(changed, ", "))
	return p, nil
}

func applyProjectUpdate(p *domain.Project, in UpdateProjectInput) []string {
	var changed []string
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
		changed = append(changed, "name")
	}
	if in.Description != nil {
		p.Description = *in.Description
		changed = append(changed, "description")
	}
	if in.PlanStart != nil {
		p.PlanStart = *in.PlanStart
		changed = append(changed, "plan_start")
	}
	if in.PlanEnd != nil {
		p.PlanEnd = *in.PlanEnd
		changed = append(changed, "plan_end")
	}
	if in.ActualStart != nil {
		d := *in.ActualStart
		p.ActualStart = &d
		changed = append(changed, "actual_start")
	}
	if in.ActualEnd != nil {
		d := *in.ActualEnd
		p.ActualEnd = &d
		changed = append(changed, "actual_end")
	}
	if in.Status != nil {
		p.Status = *in.Status
		changed = append(changed, "status")
	}
	return changed
}

// Delete removes the project and, through the schema, every task in it.
func (s *projectService) Delete(ctx context.Context, actor *domain.Actor, key string) (err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.opts.observer, "delete-project", startedAt, map[string]any{"key": key}, &err)

	if err := requireActor(actor); err != nil {
		return err
	}
	if err := access.CanDelete(actor, "project"); err != nil {
		return err
	}
	policy, err := loadPolicy(ctx, s.groups, s.opts.hierarchy)
	if err != nil {
		return err
	}

	var p *domain.Project
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		found, err := findProject(ctx, projects, key)
		if err != nil {
			return err
		}
		if !policy.CanSeeProject(actor, found) {
			return hiddenProject(found)
		}
		p = found
		return projects.Delete(ctx, found.ID)
	})
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", key, err)
	}
	s.opts.hooks.ProjectDeleted(ctx, actor, p)
	return nil
}
