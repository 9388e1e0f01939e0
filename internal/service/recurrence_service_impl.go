package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/db"
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/recurrence"
	"github.com/awsbudi/risk-tracker/internal/repository"
	"github.com/awsbudi/risk-tracker/internal/validate"
	"github.com/google/uuid"
)

type recurrenceService struct {
	templates repository.TemplateRepo
	uow       db.UnitOfWork
	opts      options
}

func NewRecurrenceService(templates repository.TemplateRepo, uow db.UnitOfWork, opts ...Option) RecurrenceService {
	return &recurrenceService{templates: templates, uow: uow, opts: buildOptions(opts)}
}

// period resolves a zero bound to the edge of the current month.
func (s *recurrenceService) period(start, end time.Time) (time.Time, time.Time) {
	first, last := calendar.MonthPeriod(s.opts.today())
	if start.IsZero() {
		start = first
	}
	if end.IsZero() {
		end = last
	}
	return calendar.Day(start), calendar.Day(end)
}

func (s *recurrenceService) Generate(ctx context.Context, templateID int64, start, end time.Time) (res *GenerateResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"template_id": templateID}
	defer observe(ctx, s.opts.observer, "generate-routine", startedAt, fields, &err)

	tmpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	start, end = s.period(start, end)
	fields["from"] = calendar.Format(start)
	fields["to"] = calendar.Format(end)

	res, err = s.generate(ctx, tmpl, start, end)
	if err != nil {
		return nil, err
	}
	fields["created"] = len(res.Created)
	fields["skipped"] = len(res.Skipped)
	fields["failed"] = len(res.Failed)
	return res, nil
}

// GenerateAll runs every template over the same period. A template whose
// run cannot start is reported as a single failed instance on the first day.
func (s *recurrenceService) GenerateAll(ctx context.Context, start, end time.Time) (out []*GenerateResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.opts.observer, "generate-all-routines", startedAt, fields, &err)

	templates, err := s.templates.List(ctx)
	if err != nil {
		return nil, err
	}
	start, end = s.period(start, end)
	created := 0
	for _, tmpl := range templates {
		res, err := s.generate(ctx, tmpl, start, end)
		if err != nil {
			res = &GenerateResult{TemplateID: tmpl.ID, Failed: []InstanceError{{Date: start, Err: err}}}
		}
		created += len(res.Created)
		out = append(out, res)
	}
	fields["templates"] = len(templates)
	fields["created"] = created
	return out, nil
}

func (s *recurrenceService) generate(ctx context.Context, tmpl *domain.TaskTemplate, start, end time.Time) (*GenerateResult, error) {
	if end.Before(start) {
		return nil, &domain.ValidationError{Violations: []domain.Violation{{
			Field:   "period",
			Code:    validate.CodeDueBeforeStart,
			Message: fmt.Sprintf("period end %s is before start %s", calendar.Format(end), calendar.Format(start)),
		}}}
	}
	res := &GenerateResult{TemplateID: tmpl.ID}
	for _, d := range recurrence.Occurrences(start, end, tmpl.Frequency, s.opts.validator.Calendar) {
		t, created, err := s.createInstance(ctx, tmpl, d)
		switch {
		case err != nil:
			res.Failed = append(res.Failed, InstanceError{Code: t.Code, Date: d, Err: err})
		case !created:
			res.Skipped = append(res.Skipped, t.Code)
		default:
			res.Created = append(res.Created, t)
			s.opts.hooks.TaskCreated(ctx, nil, t)
		}
	}
	return res, nil
}

// createInstance inserts one routine task in its own transaction. It returns
// created=false when the instance already exists.
func (s *recurrenceService) createInstance(ctx context.Context, tmpl *domain.TaskTemplate, d time.Time) (*domain.Task, bool, error) {
	t := recurrence.NewInstance(tmpl, d)
	now := s.opts.now()
	t.ID = uuid.New().String()
	t.CreatedAt = now
	t.UpdatedAt = now

	created := false
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLiteTaskRepo(tx)
		exists, err := tasks.CodeExists(ctx, t.Code)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if err := domain.NewValidationError(s.opts.validator.Task(t, validate.TaskRefs{})); err != nil {
			return err
		}
		if err := tasks.Create(ctx, t); err != nil {
			return err
		}
		created = true
		return nil
	})
	var verr *domain.ValidationError
	if err != nil && !errors.As(err, &verr) {
		err = fmt.Errorf("creating %s: %w", t.Code, err)
	}
	return t, created, err
}
