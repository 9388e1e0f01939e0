package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awsbudi/risk-tracker/internal/domain"
)

var (
	riskMgmt = domain.Group{ID: "g-rm", Name: "Risk Management"}
	process  = domain.Group{ID: "g-rpc", Name: "RISK PROCESS CONTROL"}
	product  = domain.Group{ID: "g-rpd", Name: "RISK PRODUCT & DEVELOPMENT"}
	treasury = domain.Group{ID: "g-tr", Name: "TREASURY"}
	allGroup = []domain.Group{riskMgmt, process, product, treasury}
)

func role(r domain.Role) *domain.Role { return &r }
func ptr(s string) *string { return &s }

func task(code, group string, assignee *string, status domain.TaskStatus) *domain.Task {
	return &domain.Task{ID: code, Code: code, OwnerGroupID: group, AssigneeID: assignee, Status: status}
}

func TestAccessibleGroups_AdminExpandsHierarchy(t *testing.T) {
	p := NewPolicy(DefaultHierarchy(), allGroup)
	admin := &domain.Actor{ID: "u1", Role: role(domain.RoleAdmin), Groups: []domain.Group{riskMgmt}}

	got := p.AccessibleGroups(admin)
	assert.True(t, got["g-rm"])
	assert.True(t, got["g-rpc"])
	assert.True(t, got["g-rpd"])
	assert.False(t, got["g-tr"])
}

func TestAccessibleGroups_LeaderDoesNotExpand(t *testing.T) {
	p := NewPolicy(DefaultHierarchy(), allGroup)
	leader := &domain.Actor{ID: "u2", Role: role(domain.RoleLeader), Groups: []domain.Group{riskMgmt}}
	assert.Equal(t, map[string]bool{"g-rm": true}, p.AccessibleGroups(leader))
}

func TestAccessibleGroups_CustomHierarchy(t *testing.T) {
	p := NewPolicy(Hierarchy{"treasury": {"risk process control"}}, allGroup)
	admin := &domain.Actor{Role: role(domain.RoleAdmin), Groups: []domain.Group{treasury}}
	assert.Equal(t, map[string]bool{"g-tr": true, "g-rpc": true}, p.AccessibleGroups(admin))
}

func TestVisibleTasks(t *testing.T) {
	p := NewPolicy(nil, allGroup)
	member := &domain.Actor{ID: "u3", Groups: []domain.Group{process}}
	tasks := []*domain.Task{
		task("T-001", "g-rpc", nil, domain.TaskTodo),
		task("T-002", "g-tr", nil, domain.TaskTodo),
		task("T-003", "g-tr", ptr("u3"), domain.TaskTodo),
		task("T-004", "g-rm", nil, domain.TaskTodo),
	}

	var got []string
	for _, tk := range p.VisibleTasks(member, tasks) {
		got = append(got, tk.Code)
	}
	assert.Equal(t, []string{"T-001", "T-003"}, got)

	root := &domain.Actor{Superuser: true}
	assert.Len(t, p.VisibleTasks(root, tasks), 4)
}

func TestVisibleProjects_AssigneeDoesNotApply(t *testing.T) {
	p := NewPolicy(nil, allGroup)
	member := &domain.Actor{ID: "u3", Groups: []domain.Group{process}}
	projects := []*domain.Project{
		{Code: "P-001", OwnerGroupID: "g-rpc"},
		{Code: "P-002", OwnerGroupID: "g-tr"},
	}
	got := p.VisibleProjects(member, projects)
	require.Len(t, got, 1)
	assert.Equal(t, "P-001", got[0].Code)
	assert.True(t, p.CanSeeProject(member, projects[0]))
	assert.False(t, p.CanSeeProject(member, projects[1]))
}

func TestCanEditTask(t *testing.T) {
	member := &domain.Actor{ID: "u3"}
	leader := &domain.Actor{ID: "u2", Role: role(domain.RoleLeader)}
	root := &domain.Actor{ID: "u0", Superuser: true}

	assert.NoError(t, CanEditTask(member, task("T-001", "g", nil, domain.TaskTodo)))
	assert.NoError(t, CanEditTask(member, task("T-002", "g", ptr("u3"), domain.TaskInProgress)))
	assert.Error(t, CanEditTask(member, task("T-003", "g", ptr("u9"), domain.TaskTodo)))
	assert.NoError(t, CanEditTask(leader, task("T-003", "g", ptr("u9"), domain.TaskTodo)))

	done := task("T-004", "g", ptr("u3"), domain.TaskDone)
	err := CanEditTask(leader, done)
	var pe *domain.PermissionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "task is done", pe.Reason)
	assert.NoError(t, CanEditTask(root, done))
}

func TestCanReschedule(t *testing.T) {
	member := &domain.Actor{ID: "u3"}
	assert.NoError(t, CanReschedule(member, task("T-001", "g", ptr("u3"), domain.TaskTodo)))
	assert.Error(t, CanReschedule(member, task("T-002", "g", nil, domain.TaskTodo)))
	assert.NoError(t, CanReschedule(&domain.Actor{Role: role(domain.RoleAdmin)}, task("T-002", "g", nil, domain.TaskTodo)))
}

func TestCanShiftDependent(t *testing.T) {
	admin := &domain.Actor{ID: "u1", Role: role(domain.RoleAdmin)}
	root := &domain.Actor{ID: "u0", Superuser: true}
	done := &domain.Task{Code: "T-002", Status: domain.TaskDone}
	someone := "someone"
	open := &domain.Task{Code: "T-003", Status: domain.TaskInProgress, AssigneeID: &someone}

	var perr *domain.PermissionError
	require.ErrorAs(t, CanShiftDependent(admin, done), &perr)
	assert.Contains(t, perr.Action, "T-002")
	assert.NoError(t, CanShiftDependent(root, done))
	assert.NoError(t, CanShiftDependent(&domain.Actor{ID: "u3"}, open), "the cascade moves tasks owned by others")
}

func TestProjectAndDeleteRules(t *testing.T) {
	admin := &domain.Actor{Role: role(domain.RoleAdmin)}
	leader := &domain.Actor{Role: role(domain.RoleLeader)}
	member := &domain.Actor{}

	assert.NoError(t, CanCreateProject(leader))
	assert.Error(t, CanCreateProject(member))
	assert.NoError(t, CanUpdateProject(admin))
	assert.Error(t, CanUpdateProject(leader))
	assert.NoError(t, CanDelete(admin, "task"))
	assert.Error(t, CanDelete(leader, "task"))
	assert.Error(t, CanManageActors(nil))
	assert.Error(t, CanManageTemplates(leader))
}
