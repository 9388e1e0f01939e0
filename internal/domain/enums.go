package domain

import (
	"fmt"
	"strings"
)

type ProjectStatus string

const (
	ProjectRunning ProjectStatus = "running"
	ProjectOnHold  ProjectStatus = "on_hold"
	ProjectDropped ProjectStatus = "dropped"
	ProjectDone    ProjectStatus = "done"
)

type TaskKind string

const (
	TaskKindProject TaskKind = "project"
	TaskKindRoutine TaskKind = "routine"
	TaskKindAdHoc   TaskKind = "adhoc"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"
	TaskOverdue    TaskStatus = "overdue"
	TaskOnHold     TaskStatus = "on_hold"
	TaskDropped    TaskStatus = "dropped"
)

type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleLeader Role = "leader"
	RoleMember Role = "member"
)

type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// ValidProjectStatuses is the canonical set of accepted project statuses.
var ValidProjectStatuses = map[ProjectStatus]bool{
	ProjectRunning: true, ProjectOnHold: true, ProjectDropped: true, ProjectDone: true,
}

// ValidTaskStatuses is the canonical set of accepted task statuses.
var ValidTaskStatuses = map[TaskStatus]bool{
	TaskTodo: true, TaskInProgress: true, TaskReview: true, TaskDone: true,
	TaskOverdue: true, TaskOnHold: true, TaskDropped: true,
}

// ValidTaskKinds is the canonical set of accepted task kinds.
var ValidTaskKinds = map[TaskKind]bool{
	TaskKindProject: true, TaskKindRoutine: true, TaskKindAdHoc: true,
}

// ValidFrequencies is the canonical set of accepted template frequencies.
var ValidFrequencies = map[Frequency]bool{
	FrequencyDaily: true, FrequencyWeekly: true, FrequencyMonthly: true,
	FrequencyQuarterly: true, FrequencyYearly: true,
}

// ValidRoles is the canonical set of accepted roles.
var ValidRoles = map[Role]bool{
	RoleAdmin: true, RoleLeader: true, RoleMember: true,
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// ParseTaskKind accepts the canonical kind names plus "bau" and "ad_hoc".
func ParseTaskKind(s string) (TaskKind, error) {
	switch v := normalizeEnum(s); v {
	case "bau":
		return TaskKindRoutine, nil
	case "ad_hoc":
		return TaskKindAdHoc, nil
	default:
		if k := TaskKind(v); ValidTaskKinds[k] {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown task kind %q (want project, routine or adhoc)", s)
}

// ParseTaskStatus accepts status names case-insensitively; "drop" is an
// alias for dropped.
func ParseTaskStatus(s string) (TaskStatus, error) {
	v := normalizeEnum(s)
	if v == "drop" {
		return TaskDropped, nil
	}
	if st := TaskStatus(v); ValidTaskStatuses[st] {
		return st, nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

func ParseProjectStatus(s string) (ProjectStatus, error) {
	v := normalizeEnum(s)
	if v == "drop" {
		return ProjectDropped, nil
	}
	if st := ProjectStatus(v); ValidProjectStatuses[st] {
		return st, nil
	}
	return "", fmt.Errorf("unknown project status %q", s)
}

func ParseFrequency(s string) (Frequency, error) {
	if f := Frequency(normalizeEnum(s)); ValidFrequencies[f] {
		return f, nil
	}
	return "", fmt.Errorf("unknown frequency %q (want daily, weekly, monthly, quarterly or yearly)", s)
}

func ParseRole(s string) (Role, error) {
	if r := Role(normalizeEnum(s)); ValidRoles[r] {
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q (want admin, leader or member)", s)
}
