package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/testutil"
	"github.com/awsbudi/risk-tracker/internal/validate"
)

func TestCreateProject_SequentialCodes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.group(t, "RISK PROCESS CONTROL")
	leader := env.actor(t, "lead", testutil.WithRole(domain.RoleLeader), testutil.InGroups(g))
	svc := env.projectService()

	first, err := svc.Create(ctx, leader, CreateProjectInput{Name: " Model validation ", PlanStart: d(2, 3), PlanEnd: d(3, 28)})
	require.NoError(t, err)
	second, err := svc.Create(ctx, leader, CreateProjectInput{Name: "ICAAP", PlanStart: d(3, 3), PlanEnd: d(6, 30)})
	require.NoError(t, err)

	assert.Equal(t, "P-001", first.Code)
	assert.Equal(t, "P-002", second.Code)
	assert.Equal(t, "Model validation", first.Name)
	assert.Equal(t, domain.ProjectRunning, first.Status)
	assert.Equal(t, g.ID, first.OwnerGroupID)
	require.NotNil(t, first.CreatedBy)
	assert.Equal(t, leader.ID, *first.CreatedBy)

	stored, err := env.projects.GetByCode(ctx, "P-002")
	require.NoError(t, err)
	assert.Equal(t, second.ID, stored.ID)
}

func TestCreateProject_RulesAndPermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.group(t, "RISK PROCESS CONTROL")
	leader := env.actor(t, "lead", testutil.WithRole(domain.RoleLeader), testutil.InGroups(g))
	member := env.actor(t, "mia", testutil.InGroups(g))
	svc := env.projectService()

	_, err := svc.Create(ctx, member, CreateProjectInput{Name: "Nope", PlanStart: d(2, 3), PlanEnd: d(2, 28)})
	var perr *domain.PermissionError
	require.ErrorAs(t, err, &perr)

	_, err = svc.Create(ctx, leader, CreateProjectInput{Name: "Sunday", PlanStart: d(2, 9), PlanEnd: d(2, 28)})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(validate.CodeWeekendStart))

	_, err = svc.Create(ctx, leader, CreateProjectInput{Name: "Backwards", PlanStart: d(2, 10), PlanEnd: d(2, 3)})
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(validate.CodeDueBeforeStart))

	_, err = svc.Create(ctx, nil, CreateProjectInput{Name: "Anonymous", PlanStart: d(2, 3), PlanEnd: d(2, 28)})
	require.ErrorAs(t, err, &perr)
}

func TestUpdateProject_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.group(t, "RISK PROCESS CONTROL")
	admin := env.actor(t, "rina", testutil.WithRole(domain.RoleAdmin), testutil.InGroups(g))
	leader := env.actor(t, "lead", testutil.WithRole(domain.RoleLeader), testutil.InGroups(g))
	svc := env.projectService(WithHooks(NewAuditHooks(env.audit, nil)))

	p, err := svc.Create(ctx, leader, CreateProjectInput{Name: "Model validation", PlanStart: d(2, 3), PlanEnd: d(3, 28)})
	require.NoError(t, err)

	status := domain.ProjectOnHold
	_, err = svc.Update(ctx, leader, p.Code, UpdateProjectInput{Status: &status})
	var perr *domain.PermissionError
	require.ErrorAs(t, err, &perr)

	got, err := svc.Update(ctx, admin, p.Code, UpdateProjectInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectOnHold, got.Status)
	assert.Equal(t, "P-001", got.Code, "codes never change")

	entries, err := env.audit.ListByTarget(ctx, AuditModelProject, p.Code)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.AuditUpdate, entries[1].Action)
	assert.Equal(t, "changed status", entries[1].Details)

	sunday := d(2, 9)
	_, err = svc.Update(ctx, admin, p.Code, UpdateProjectInput{PlanStart: &sunday})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	stored, err := env.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, d(2, 3), stored.PlanStart)
}

func TestDeleteProject_CascadesToTasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.group(t, "RISK PROCESS CONTROL")
	admin := env.actor(t, "rina", testutil.WithRole(domain.RoleAdmin), testutil.InGroups(g))
	svc := env.projectService()

	p, err := svc.Create(ctx, admin, CreateProjectInput{Name: "Model validation", PlanStart: d(2, 3), PlanEnd: d(3, 28)})
	require.NoError(t, err)
	tk, err := env.taskService().Create(ctx, admin, CreateTaskInput{
		Name: "Collect data", Kind: domain.TaskKindProject, ProjectID: strPtr(p.Code),
		PlanStart: d(2, 3), PlanDue: d(2, 7),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, admin, p.Code))

	_, err = env.tasks.GetByID(ctx, tk.ID)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)

	_, err = svc.Get(ctx, admin, p.Code)
	require.ErrorAs(t, err, &nf)
}

func TestProjectVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	mine := env.group(t, "RISK PROCESS CONTROL")
	theirs := env.group(t, "TREASURY")
	leader := env.actor(t, "lead", testutil.WithRole(domain.RoleLeader), testutil.InGroups(mine))
	outsider := env.actor(t, "outsider", testutil.WithRole(domain.RoleLeader), testutil.InGroups(theirs))
	root := env.actor(t, "root", testutil.AsSuperuser())
	svc := env.projectService()

	p, err := svc.Create(ctx, leader, CreateProjectInput{Name: "Model validation", PlanStart: d(2, 3), PlanEnd: d(3, 28)})
	require.NoError(t, err)

	_, err = svc.Get(ctx, outsider, p.Code)
	var perr *domain.PermissionError
	require.ErrorAs(t, err, &perr)

	list, err := svc.List(ctx, outsider)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = svc.List(ctx, root)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
