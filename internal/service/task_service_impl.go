package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/awsbudi/risk-tracker/internal/access"
	"github.com/awsbudi/risk-tracker/internal/cascade"
	"github.com/awsbudi/risk-tracker/internal/db"
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/repository"
	"github.com/awsbudi/risk-tracker/internal/validate"
	"github.com/google/uuid"
)

type taskService struct {
	tasks  repository.TaskRepo
	groups repository.GroupRepo
	uow    db.UnitOfWork
	opts   options
}

func NewTaskService(tasks repository.TaskRepo, groups repository.GroupRepo, uow db.UnitOfWork, opts ...Option) TaskService {
	return &taskService{tasks: tasks, groups: groups, uow: uow, opts: buildOptions(opts)}
}

// txRepos are the repositories bound to one transaction.
type txRepos struct {
	tasks    *repository.SQLiteTaskRepo
	projects *repository.SQLiteProjectRepo
	groups   *repository.SQLiteGroupRepo
	actors   *repository.SQLiteActorRepo
}

func newTxRepos(tx db.DBTX) txRepos {
	return txRepos{
		tasks:    repository.NewSQLiteTaskRepo(tx),
		projects: repository.NewSQLiteProjectRepo(tx),
		groups:   repository.NewSQLiteGroupRepo(tx),
		actors:   repository.NewSQLiteActorRepo(tx),
	}
}

// refs loads the records t points at.
func (r txRepos) refs(ctx context.Context, t *domain.Task) (validate.TaskRefs, error) {
	var refs validate.TaskRefs
	var err error
	if t.ProjectID != nil {
		if refs.Project, err = r.projects.GetByID(ctx, *t.ProjectID); err != nil {
			return refs, err
		}
	}
	if t.ParentID != nil {
		if refs.Parent, err = r.tasks.GetByID(ctx, *t.ParentID); err != nil {
			return refs, err
		}
	}
	if t.DependsOnID != nil {
		if refs.DependsOn, err = r.tasks.GetByID(ctx, *t.DependsOnID); err != nil {
			return refs, err
		}
	}
	return refs, nil
}

// findActor resolves key as an actor ID first and then as a username.
func (r txRepos) findActor(ctx context.Context, key string) (*domain.Actor, error) {
	a, err := r.actors.GetByID(ctx, key)
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return r.actors.GetByUsername(ctx, key)
	}
	return a, err
}

func (s *taskService) Create(ctx context.Context, actor *domain.Actor, in CreateTaskInput) (t *domain.Task, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"name": in.Name}
	defer observe(ctx, s.opts.observer, "create-task", startedAt, fields, &err)

	if err := requireActor(actor); err != nil {
		return nil, err
	}
	policy, err := loadPolicy(ctx, s.groups, s.opts.hierarchy)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	t = &domain.Task{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Kind:        in.Kind,
		RequestedBy: strings.TrimSpace(in.RequestedBy),
		PlanStart:   in.PlanStart,
		PlanDue:     in.PlanDue,
		Progress:    in.Progress,
		Status:      in.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Status == "" {
		t.Status = domain.TaskTodo
	}
	if t.Status == domain.TaskDone {
		t.MarkDone(s.opts.today())
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		var refs validate.TaskRefs

		if in.ParentID != nil {
			parent, err := findTask(ctx, r.tasks, *in.ParentID)
			if err != nil {
				return err
			}
			if !policy.CanSeeTask(actor, parent) {
				return hiddenTask(parent)
			}
			t.ParentID = &parent.ID
			t.Inherit(parent)
			refs.Parent = parent
		} else if in.ProjectID != nil {
			project, err := findProject(ctx, r.projects, *in.ProjectID)
			if err != nil {
				return err
			}
			if !policy.CanSeeProject(actor, project) {
				return hiddenProject(project)
			}
			t.ProjectID = &project.ID
		}
		t.NormalizeKind()
		if t.ProjectID != nil {
			project, err := r.projects.GetByID(ctx, *t.ProjectID)
			if err != nil {
				return err
			}
			refs.Project = project
		}

		if in.DependsOnID != nil {
			pred, err := findTask(ctx, r.tasks, *in.DependsOnID)
			if err != nil {
				return err
			}
			if !policy.CanSeeTask(actor, pred) {
				return hiddenTask(pred)
			}
			t.DependsOnID = &pred.ID
			refs.DependsOn = pred
		}
		if in.AssigneeID != nil {
			assignee, err := r.findActor(ctx, *in.AssigneeID)
			if err != nil {
				return err
			}
			t.AssigneeID = &assignee.ID
		}

		t.OwnerGroupID = in.OwnerGroupID
		if t.OwnerGroupID == "" && refs.Parent != nil {
			t.OwnerGroupID = refs.Parent.OwnerGroupID
		}
		t.OwnerGroupID = defaultGroup(t.OwnerGroupID, actor)
		if err := ownerGroupExists(ctx, r.groups, t.OwnerGroupID); err != nil {
			return err
		}

		if err := domain.NewValidationError(s.opts.validator.Task(t, refs)); err != nil {
			return err
		}

		alloc := newCodeAllocator(tx)
		code, err := allocateWithRetry(ctx, func(ctx context.Context) (string, error) {
			return alloc.task(ctx, refs.Parent)
		})
		if err != nil {
			return err
		}
		t.Code = code
		return r.tasks.Create(ctx, t)
	})
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	fields["code"] = t.Code
	s.opts.hooks.TaskCreated(ctx, actor, t)
	return t, nil
}

func (s *taskService) Get(ctx context.Context, actor *domain.Actor, key string) (t *domain.Task, err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.opts.observer, "get-task", startedAt, map[string]any{"key": key}, &err)

	if err := requireActor(actor); err != nil {
		return nil, err
	}
	t, err = findTask(ctx, s.tasks, key)
	if err != nil {
		return nil, err
	}
	policy, err := loadPolicy(ctx, s.groups, s.opts.hierarchy)
	if err != nil {
		return nil, err
	}
	if !policy.CanSeeTask(actor, t) {
		return nil, hiddenTask(t)
	}
	return t, nil
}

// UpdateProgress records progress and moves the status with it. The result
// is checked against every task rule before it is saved.
func (s *taskService) UpdateProgress(ctx context.Context, actor *domain.Actor, key string, progress int) (t *domain.Task, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"key": key, "progress": progress}
	defer observe(ctx, s.opts.observer, "update-progress", startedAt, fields, &err)

	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if progress < 0 || progress > 100 {
		return nil, &domain.ValidationError{Violations: []domain.Violation{{
			Field:   "progress",
			Code:    validate.CodeProgressRange,
			Message: fmt.Sprintf("progress %d must be between 0 and 100", progress),
		}}}
	}
	policy, err := loadPolicy(ctx, s.groups, s.opts.hierarchy)
	if err != nil {
		return nil, err
	}

	var details string
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		found, err := findTask(ctx, r.tasks, key)
		if err != nil {
			return err
		}
		if !policy.CanSeeTask(actor, found) {
			return hiddenTask(found)
		}
		if err := access.CanEditTask(actor, found); err != nil {
			return err
		}

		before, beforeStatus := found.Progress, found.Status
		found.ApplyProgress(progress, s.opts.today())
		found.UpdatedAt = s.opts.now()

		refs, err := r.refs(ctx, found)
		if err != nil {
			return err
		}
		if err := domain.NewValidationError(s.opts.validator.Task(found, refs)); err != nil {
			return err
		}
		details = fmt.Sprintf("progress %d -> %d, status %s -> %s", before, found.Progress, beforeStatus, found.Status)
		t = found
		return r.tasks.Update(ctx, found)
	})
	if err != nil {
		return nil, fmt.Errorf("updating progress of %s: %w", key, err)
	}
	fields["status"] = string(t.Status)
	s.opts.hooks.TaskUpdated(ctx, actor, t, details)
	return t, nil
}

// Reschedule moves one task and cascades the shift through its dependents
// in a single transaction. Dependents that cannot move, including Done
// tasks when the actor is not a superuser, are reported in Failed and keep
// their dates; a dependency cycle rolls everything back.
func (s *taskService) Reschedule(ctx context.Context, actor *domain.Actor, key string, newStart, newDue time.Time) (res *RescheduleResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"key": key}
	defer observe(ctx, s.opts.observer, "reschedule-task", startedAt, fields, &err)

	if err := requireActor(actor); err != nil {
		return nil, err
	}
	policy, err := loadPolicy(ctx, s.groups, s.opts.hierarchy)
	if err != nil {
		return nil, err
	}

	scheduler := cascade.NewScheduler(s.opts.validator, func(t *domain.Task) error {
		return access.CanShiftDependent(actor, t)
	})
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		root, err := findTask(ctx, r.tasks, key)
		if err != nil {
			return err
		}
		if !policy.CanSeeTask(actor, root) {
			return hiddenTask(root)
		}
		if err := access.CanReschedule(actor, root); err != nil {
			return err
		}

		tasks, err := r.tasks.List(ctx, repository.TaskFilter{})
		if err != nil {
			return err
		}
		projects, err := r.projects.List(ctx)
		if err != nil {
			return err
		}
		out, err := scheduler.Reschedule(cascade.NewGraph(tasks, projects), root.ID, newStart, newDue)
		if err != nil {
			return err
		}

		now := s.opts.now()
		for _, t := range out.Updated {
			t.UpdatedAt = now
			if err := r.tasks.Update(ctx, t); err != nil {
				return err
			}
		}
		res = &RescheduleResult{Updated: out.Updated, Failed: out.Failed}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rescheduling %s: %w", key, err)
	}
	fields["updated"] = len(res.Updated)
	fields["failed"] = len(res.Failed)
	for _, t := range res.Updated {
		s.opts.hooks.TaskUpdated(ctx, actor, t, "rescheduled to "+describeWindow(t))
	}
	return res, nil
}

// Delete hard-deletes the task. Children and dependents keep existing with
// their parent or predecessor link cleared.
func (s *taskService) Delete(ctx context.Context, actor *domain.Actor, key string) (err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.opts.observer, "delete-task", startedAt, map[string]any{"key": key}, &err)

	if err := requireActor(actor); err != nil {
		return err
	}
	if err := access.CanDelete(actor, "task"); err != nil {
		return err
	}
	policy, err := loadPolicy(ctx, s.groups, s.opts.hierarchy)
	if err != nil {
		return err
	}

	var t *domain.Task
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLiteTaskRepo(tx)
		found, err := findTask(ctx, tasks, key)
		if err != nil {
			return err
		}
		if !policy.CanSeeTask(actor, found) {
			return hiddenTask(found)
		}
		t = found
		return tasks.Delete(ctx, found.ID)
	})
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", key, err)
	}
	s.opts.hooks.TaskDeleted(ctx, actor, t)
	return nil
}
