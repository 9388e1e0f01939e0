// Package validate checks projects and tasks against the planning rules:
// working-day starts, ordered plan windows, parent containment, dependency
// ordering and the progress/status coupling.
//
// Validators only report. Callers decide whether a violation aborts the
// operation.
package validate

import (
	"fmt"
	"strings"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/domain"
)

// Violation codes.
const (
	CodeRequired          = "required"
	CodeInvalidValue      = "invalid_value"
	CodeWeekendStart      = "weekend_start"
	CodeDueBeforeStart    = "due_before_start"
	CodeProgressRange     = "progress_range"
	CodeDoneIncomplete    = "done_incomplete"
	CodeCompleteNotClosed = "complete_not_closed"
	CodeProjectRequired   = "project_required"
	CodeProjectForbidden  = "project_forbidden"
	CodeRequesterRequired = "requester_required"
	CodeInheritance       = "parent_mismatch"
	CodeOutsideParent     = "outside_parent"
	CodeBeforeProject     = "before_project"
	CodeDependencyOrder   = "dependency_order"
	CodeSelfReference     = "self_reference"
)

// TaskRefs carries the records a task points at. Nil entries are skipped.
type TaskRefs struct {
	Project   *domain.Project
	Parent    *domain.Task
	DependsOn *domain.Task
}

type Validator struct {
	Calendar calendar.Policy
	Boundary Boundary
}

// New returns a validator; a nil policy falls back to the weekend calendar.
func New(cal calendar.Policy, boundary Boundary) *Validator {
	if cal == nil {
		cal = calendar.Default
	}
	if boundary == "" {
		boundary = BoundarySameDay
	}
	return &Validator{Calendar: cal, Boundary: boundary}
}

type collector []domain.Violation

func (c *collector) add(field, code, format string, args ...any) {
	*c = append(*c, domain.Violation{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

// Project checks a project's plan window and status.
func (v *Validator) Project(p *domain.Project) []domain.Violation {
	var out collector
	if strings.TrimSpace(p.Name) == "" {
		out.add("name", CodeRequired, "name is required")
	}
	if p.OwnerGroupID == "" {
		out.add("owner_group", CodeRequired, "owner group is required")
	}
	if !domain.ValidProjectStatuses[p.Status] {
		out.add("status", CodeInvalidValue, "unknown status %q", p.Status)
	}
	if p.PlanEnd.Before(p.PlanStart) {
		out.add("plan_end", CodeDueBeforeStart, "plan end %s is before plan start %s",
			calendar.Format(p.PlanEnd), calendar.Format(p.PlanStart))
	}
	if !v.Calendar.IsWorkingDay(p.PlanStart) {
		out.add("plan_start", CodeWeekendStart, "plan start %s (%s) is not a working day",
			calendar.Format(p.PlanStart), p.PlanStart.Weekday())
	}
	return out
}

// Task checks a task against its own fields and the records in refs.
func (v *Validator) Task(t *domain.Task, refs TaskRefs) []domain.Violation {
	var out collector
	v.taskFields(t, &out)
	v.taskDates(t, &out)
	v.taskProgress(t, &out)
	if refs.Project != nil {
		v.taskProject(t, refs.Project, &out)
	}
	if refs.Parent != nil {
		v.taskParent(t, refs.Parent, &out)
	}
	if refs.DependsOn != nil {
		v.taskDependency(t, refs.DependsOn, &out)
	}
	return out
}

// Dates checks only the rules a pure date shift can break: the working-day
// start, the ordered window and parent containment.
func (v *Validator) Dates(t *domain.Task, parent *domain.Task) []domain.Violation {
	var out collector
	v.taskDates(t, &out)
	if parent != nil {
		v.containment(t, parent, &out)
	}
	return out
}

// Children checks that each sub-task still fits inside parent's window.
// Violations are reported on the parent's "children" field.
func (v *Validator) Children(parent *domain.Task, children []*domain.Task) []domain.Violation {
	var out collector
	for _, c := range children {
		var one collector
		v.containment(c, parent, &one)
		for _, vi := range one {
			vi.Field = "children"
			vi.Message = c.Code + " " + vi.Message
			out = append(out, vi)
		}
	}
	return out
}

func (v *Validator) taskFields(t *domain.Task, out *collector) {
	if strings.TrimSpace(t.Name) == "" {
		out.add("name", CodeRequired, "name is required")
	}
	if t.OwnerGroupID == "" {
		out.add("owner_group", CodeRequired, "owner group is required")
	}
	if !domain.ValidTaskStatuses[t.Status] {
		out.add("status", CodeInvalidValue, "unknown status %q", t.Status)
	}
	switch t.Kind {
	case domain.TaskKindProject:
		if t.ProjectID == nil {
			out.add("project", CodeProjectRequired, "project tasks must belong to a project")
		}
	case domain.TaskKindRoutine, domain.TaskKindAdHoc:
		if t.ProjectID != nil {
			out.add("project", CodeProjectForbidden, "%s tasks cannot belong to a project", t.Kind)
		}
	default:
		out.add("kind", CodeInvalidValue, "unknown task kind %q", t.Kind)
	}
	if t.Kind == domain.TaskKindAdHoc && strings.TrimSpace(t.RequestedBy) == "" {
		out.add("requested_by", CodeRequesterRequired, "ad-hoc tasks need a requester")
	}
	if t.ID != "" && t.DependsOnID != nil && *t.DependsOnID == t.ID {
		out.add("depends_on", CodeSelfReference, "a task cannot depend on itself")
	}
	if t.ID != "" && t.ParentID != nil && *t.ParentID == t.ID {
		out.add("parent", CodeSelfReference, "a task cannot be its own parent")
	}
}

func (v *Validator) taskDates(t *domain.Task, out *collector) {
	if t.PlanDue.Before(t.PlanStart) {
		out.add("plan_due", CodeDueBeforeStart, "due date %s is before start date %s",
			calendar.Format(t.PlanDue), calendar.Format(t.PlanStart))
	}
	if !v.Calendar.IsWorkingDay(t.PlanStart) {
		out.add("plan_start", CodeWeekendStart, "start date %s (%s) is not a working day",
			calendar.Format(t.PlanStart), t.PlanStart.Weekday())
	}
}

func (v *Validator) taskProgress(t *domain.Task, out *collector) {
	if t.Progress < 0 || t.Progress > 100 {
		out.add("progress", CodeProgressRange, "progress %d must be between 0 and 100", t.Progress)
		return
	}
	if t.Status == domain.TaskDone && t.Progress != 100 {
		out.add("progress", CodeDoneIncomplete, "a done task must be at 100%% (got %d%%)", t.Progress)
	}
	if t.Progress == 100 {
		switch t.Status {
		case domain.TaskDone, domain.TaskOverdue, domain.TaskDropped:
		default:
			out.add("status", CodeCompleteNotClosed, "a task at 100%% must be done, overdue or dropped (got %s)", t.Status)
		}
	}
}

func (v *Validator) taskProject(t *domain.Task, p *domain.Project, out *collector) {
	if t.Kind != domain.TaskKindProject {
		return
	}
	if t.PlanStart.Before(p.PlanStart) {
		out.add("plan_start", CodeBeforeProject, "start date %s is before project %s starts (%s)",
			calendar.Format(t.PlanStart), p.Code, calendar.Format(p.PlanStart))
	}
}

func (v *Validator) taskParent(t *domain.Task, parent *domain.Task, out *collector) {
	if t.Kind != parent.Kind {
		out.add("kind", CodeInheritance, "kind %s differs from parent %s (%s)", t.Kind, parent.Code, parent.Kind)
	}
	if !sameRef(t.ProjectID, parent.ProjectID) {
		out.add("project", CodeInheritance, "project differs from parent %s", parent.Code)
	}
	v.containment(t, parent, out)
}

func (v *Validator) containment(t *domain.Task, parent *domain.Task, out *collector) {
	if t.PlanStart.Before(parent.PlanStart) {
		out.add("plan_start", CodeOutsideParent, "start date %s is before parent %s starts (%s)",
			calendar.Format(t.PlanStart), parent.Code, calendar.Format(parent.PlanStart))
	}
	if t.PlanDue.After(parent.PlanDue) {
		out.add("plan_due", CodeOutsideParent, "due date %s is after parent %s is due (%s)",
			calendar.Format(t.PlanDue), parent.Code, calendar.Format(parent.PlanDue))
	}
}

func (v *Validator) taskDependency(t *domain.Task, pred *domain.Task, out *collector) {
	if !v.Boundary.Satisfied(t.PlanStart, pred.PlanDue) {
		out.add("plan_start", CodeDependencyOrder, "start date %s must be %s %s, when %s is due",
			calendar.Format(t.PlanStart), v.Boundary.describe(), calendar.Format(pred.PlanDue), pred.Code)
	}
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
