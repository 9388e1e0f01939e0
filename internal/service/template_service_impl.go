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
	"github.com/awsbudi/risk-tracker/internal/validate"
)

type templateService struct {
	templates repository.TemplateRepo
	uow       db.UnitOfWork
	opts      options
}

func NewTemplateService(templates repository.TemplateRepo, uow db.UnitOfWork, opts ...Option) TemplateService {
	return &templateService{templates: templates, uow: uow, opts: buildOptions(opts)}
}

func checkTemplate(t *domain.TaskTemplate) error {
	var vs []domain.Violation
	if t.Name == "" {
		vs = append(vs, domain.Violation{Field: "name", Code: validate.CodeRequired, Message: "name is required"})
	}
	if !domain.ValidFrequencies[t.Frequency] {
		vs = append(vs, domain.Violation{
			Field:   "frequency",
			Code:    validate.CodeInvalidValue,
			Message: fmt.Sprintf("unknown frequency %q", t.Frequency),
		})
	}
	if t.OwnerGroupID == "" {
		vs = append(vs, domain.Violation{Field: "owner_group", Code: validate.CodeRequired, Message: "owner group is required"})
	}
	return domain.NewValidationError(vs)
}

func (s *templateService) Create(ctx context.Context, actor *domain.Actor, in CreateTemplateInput) (t *domain.TaskTemplate, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"name": in.Name, "frequency": string(in.Frequency)}
	defer observe(ctx, s.opts.observer, "create-template", startedAt, fields, &err)

	if err := requireActor(actor); err != nil {
		return nil, err
	}
	t = &domain.TaskTemplate{
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Frequency:    in.Frequency,
		OwnerGroupID: defaultGroup(in.OwnerGroupID, actor),
		CreatedAt:    s.opts.now(),
	}
	if err := checkTemplate(t); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if err := ownerGroupExists(ctx, r.groups, t.OwnerGroupID); err != nil {
			return err
		}
		if in.DefaultAssigneeID != nil {
			a, err := r.findActor(ctx, *in.DefaultAssigneeID)
			if err != nil {
				return err
			}
			t.DefaultAssigneeID = &a.ID
		}
		return repository.NewSQLiteTemplateRepo(tx).Create(ctx, t)
	})
	if err != nil {
		return nil, fmt.Errorf("creating template: %w", err)
	}
	fields["template_id"] = t.ID
	s.opts.hooks.TemplateCreated(ctx, actor, t)
	return t, nil
}

func (s *templateService) Get(ctx context.Context, id int64) (*domain.TaskTemplate, error) {
	return s.templates.GetByID(ctx, id)
}

func (s *templateService) List(ctx context.Context) ([]*domain.TaskTemplate, error) {
	return s.templates.List(ctx)
}

// Delete removes the template. Generated instances stay with their
// template link cleared.
func (s *templateService) Delete(ctx context.Context, actor *domain.Actor, id int64) (err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.opts.observer, "delete-template", startedAt, map[string]any{"template_id": id}, &err)

	if err := requireActor(actor); err != nil {
		return err
	}
	if err := access.CanManageTemplates(actor); err != nil {
		return err
	}
	var t *domain.TaskTemplate
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		templates := repository.NewSQLiteTemplateRepo(tx)
		found, err := templates.GetByID(ctx, id)
		if err != nil {
			return err
		}
		t = found
		return templates.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("deleting template %d: %w", id, err)
	}
	s.opts.hooks.TemplateDeleted(ctx, actor, t)
	return nil
}
