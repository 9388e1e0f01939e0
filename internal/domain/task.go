package domain

import (
	"time"
)

// Task is a unit of planned work. Codes are hierarchical: T-004 is a
// top-level task and T-004.2 its second child.
type Task struct {
	ID           string
	Code         string
	Name         string
	Kind         TaskKind
	ProjectID    *string
	ParentID     *string
	DependsOnID  *string
	RequestedBy  string
	PlanStart    time.Time
	PlanDue      time.Time
	ActualStart  *time.Time
	ActualEnd    *time.Time
	AssigneeID   *string
	Progress     int
	Status       TaskStatus
	OwnerGroupID string
	TemplateID   *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsTopLevel reports whether the task has no parent.
func (t *Task) IsTopLevel() bool {
	return t.ParentID == nil
}

// IsAssignedTo reports whether actorID is the task's assignee.
func (t *Task) IsAssignedTo(actorID string) bool {
	return t.AssigneeID != nil && *t.AssigneeID == actorID
}

// DurationDays is the number of calendar days between plan start and due.
func (t *Task) DurationDays() int {
	return int(t.PlanDue.Sub(t.PlanStart).Hours() / 24)
}

// Inherit copies kind and project from the parent task.
func (t *Task) Inherit(parent *Task) {
	t.Kind = parent.Kind
	t.ProjectID = nil
	if parent.ProjectID != nil {
		id := *parent.ProjectID
		t.ProjectID = &id
	}
}

// NormalizeKind clears the project link for kinds that cannot carry one.
func (t *Task) NormalizeKind() {
	if t.Kind == TaskKindRoutine || t.Kind == TaskKindAdHoc {
		t.ProjectID = nil
	}
}

// MarkDone sets Done and stamps ActualEnd with today when it is empty.
func (t *Task) MarkDone(today time.Time) {
	t.Status = TaskDone
	if t.ActualEnd == nil {
		d := today
		t.ActualEnd = &d
	}
}

// ApplyProgress records a progress value and moves the status in step:
// 100 completes the task, 0 resets it to Todo, and anything in between
// starts a Todo task or reopens a Done one. Range checks are left to the
// validator.
func (t *Task) ApplyProgress(progress int, today time.Time) {
	t.Progress = progress
	switch {
	case progress == 100:
		t.MarkDone(today)
	case progress == 0:
		t.Status = TaskTodo
	case progress > 0 && progress < 100:
		if t.Status == TaskTodo || t.Status == TaskDone {
			t.Status = TaskInProgress
		}
	}
}

// Reschedule moves the plan window. The caller is responsible for
// validating the result and cascading it to dependents.
func (t *Task) Reschedule(start, due time.Time) {
	t.PlanStart = start
	t.PlanDue = due
}
