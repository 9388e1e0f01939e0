package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/repository"
)

// Hooks receives post-commit notifications. Implementations must not fail
// the operation; the change is already committed when they run.
type Hooks interface {
	ProjectCreated(ctx context.Context, actor *domain.Actor, p *domain.Project)
	ProjectUpdated(ctx context.Context, actor *domain.Actor, p *domain.Project, details string)
	ProjectDeleted(ctx context.Context, actor *domain.Actor, p *domain.Project)
	TaskCreated(ctx context.Context, actor *domain.Actor, t *domain.Task)
	TaskUpdated(ctx context.Context, actor *domain.Actor, t *domain.Task, details string)
	TaskDeleted(ctx context.Context, actor *domain.Actor, t *domain.Task)
	TemplateCreated(ctx context.Context, actor *domain.Actor, t *domain.TaskTemplate)
	TemplateDeleted(ctx context.Context, actor *domain.Actor, t *domain.TaskTemplate)
	ActorCreated(ctx context.Context, by *domain.Actor, a *domain.Actor)
}

// NoopHooks ignores every notification.
type NoopHooks struct{}

func (NoopHooks) ProjectCreated(context.Context, *domain.Actor, *domain.Project) {}
func (NoopHooks) ProjectUpdated(context.Context, *domain.Actor, *domain.Project, string) {}
func (NoopHooks) ProjectDeleted(context.Context, *domain.Actor, *domain.Project) {}
func (NoopHooks) TaskCreated(context.Context, *domain.Actor, *domain.Task) {}
func (NoopHooks) TaskUpdated(context.Context, *domain.Actor, *domain.Task, string) {}
func (NoopHooks) TaskDeleted(context.Context, *domain.Actor, *domain.Task) {}
func (NoopHooks) TemplateCreated(context.Context, *domain.Actor, *domain.TaskTemplate) {}
func (NoopHooks) TemplateDeleted(context.Context, *domain.Actor, *domain.TaskTemplate) {}
func (NoopHooks) ActorCreated(context.Context, *domain.Actor, *domain.Actor) {}

// Audit target models.
const (
	AuditModelProject  = "Project"
	AuditModelTask     = "Task"
	AuditModelTemplate = "Template"
)

type auditHooks struct {
	NoopHooks
	entries repository.AuditRepo
	logger  *slog.Logger
}

// NewAuditHooks records project, task and template mutations in the audit
// log. Write failures are logged and otherwise ignored.
func NewAuditHooks(entries repository.AuditRepo, logger *slog.Logger) Hooks {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &auditHooks{entries: entries, logger: logger}
}

func (h *auditHooks) write(ctx context.Context, actor *domain.Actor, action domain.AuditAction, model, code, details string) {
	e := &domain.AuditEntry{Action: action, TargetModel: model, TargetCode: code, Details: details}
	if actor != nil {
		id := actor.ID
		e.ActorID = &id
	}
	if err := h.entries.Append(ctx, e); err != nil {
		h.logger.WarnContext(ctx, "audit_write_failed", "model", model, "code", code, "error", err.Error())
	}
}

func (h *auditHooks) ProjectCreated(ctx context.Context, actor *domain.Actor, p *domain.Project) {
	h.write(ctx, actor, domain.AuditCreate, AuditModelProject, p.Code, p.Name)
}

func (h *auditHooks) ProjectUpdated(ctx context.Context, actor *domain.Actor, p *domain.Project, details string) {
	h.write(ctx, actor, domain.AuditUpdate, AuditModelProject, p.Code, details)
}

func (h *auditHooks) ProjectDeleted(ctx context.Context, actor *domain.Actor, p *domain.Project) {
	h.write(ctx, actor, domain.AuditDelete, AuditModelProject, p.Code, p.Name)
}

func (h *auditHooks) TaskCreated(ctx context.Context, actor *domain.Actor, t *domain.Task) {
	h.write(ctx, actor, domain.AuditCreate, AuditModelTask, t.Code, t.Name)
}

func (h *auditHooks) TaskUpdated(ctx context.Context, actor *domain.Actor, t *domain.Task, details string) {
	h.write(ctx, actor, domain.AuditUpdate, AuditModelTask, t.Code, details)
}

func (h *auditHooks) TaskDeleted(ctx context.Context, actor *domain.Actor, t *domain.Task) {
	h.write(ctx, actor, domain.AuditDelete, AuditModelTask, t.Code, t.Name)
}

func (h *auditHooks) TemplateCreated(ctx context.Context, actor *domain.Actor, t *domain.TaskTemplate) {
	h.write(ctx, actor, domain.AuditCreate, AuditModelTemplate, fmt.Sprintf("%d", t.ID), t.Name)
}

func (h *auditHooks) TemplateDeleted(ctx context.Context, actor *domain.Actor, t *domain.TaskTemplate) {
	h.write(ctx, actor, domain.AuditDelete, AuditModelTemplate, fmt.Sprintf("%d", t.ID), t.Name)
}
