package access

import (
	"github.com/awsbudi/risk-tracker/internal/domain"
)

func deny(action, reason string) error {
	return &domain.PermissionError{Action: action, Reason: reason}
}

// CanCreateProject allows admins, leaders and superusers.
func CanCreateProject(a *domain.Actor) error {
	if a.Superuser || a.HasRole(domain.RoleAdmin, domain.RoleLeader) {
		return nil
	}
	return deny("create project", "only admins and leaders create projects")
}

func CanUpdateProject(a *domain.Actor) error {
	if a.Superuser || a.HasRole(domain.RoleAdmin) {
		return nil
	}
	return deny("update project", "only admins update projects")
}

// CanDelete covers projects, tasks and templates.
func CanDelete(a *domain.Actor, what string) error {
	if a.Superuser || a.HasRole(domain.RoleAdmin) {
		return nil
	}
	return deny("delete "+what, "only admins delete")
}

// CanEditTask applies the read-only rule for Done tasks and limits members
// to tasks assigned to them or unassigned.
func CanEditTask(a *domain.Actor, t *domain.Task) error {
	if a.Superuser {
		return nil
	}
	if t.Status == domain.TaskDone {
		return deny("edit task "+t.Code, "task is done")
	}
	if a.HasRole(domain.RoleAdmin, domain.RoleLeader) {
		return nil
	}
	if t.AssigneeID == nil || t.IsAssignedTo(a.ID) {
		return nil
	}
	return deny("edit task "+t.Code, "task is assigned to someone else")
}

// CanReschedule allows superusers, admins, leaders and the assignee.
func CanReschedule(a *domain.Actor, t *domain.Task) error {
	if a.Superuser {
		return nil
	}
	if t.Status == domain.TaskDone {
		return deny("reschedule task "+t.Code, "task is done")
	}
	if a.HasRole(domain.RoleAdmin, domain.RoleLeader) || t.IsAssignedTo(a.ID) {
		return nil
	}
	return deny("reschedule task "+t.Code, "only admins, leaders and the assignee change dates")
}

// CanShiftDependent applies the Done read-only rule to a task the cascade
// would push.
func CanShiftDependent(a *domain.Actor, t *domain.Task) error {
	if a.Superuser || t.Status != domain.TaskDone {
		return nil
	}
	return deny("move task "+t.Code, "task is done")
}

// CanManageTemplates allows admins and superusers to change or remove
// templates. Any member may create one.
func CanManageTemplates(a *domain.Actor) error {
	if a.Superuser || a.HasRole(domain.RoleAdmin) {
		return nil
	}
	return deny("manage templates", "only admins change templates")
}

// CanManageActors allows superusers to create accounts and groups.
func CanManageActors(a *domain.Actor) error {
	if a != nil && a.Superuser {
		return nil
	}
	return deny("manage accounts", "only superusers manage accounts and groups")
}
