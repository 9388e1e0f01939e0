package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/testutil"
)

func TestActorService_Bootstrap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewActorService(env.actors, env.groups, env.uow)

	g, err := svc.CreateGroup(ctx, nil, "RISK MANAGEMENT")
	require.NoError(t, err)

	root, err := svc.Create(ctx, nil, CreateActorInput{Username: "root", Superuser: true, Groups: []string{"risk management"}})
	require.NoError(t, err)
	require.Len(t, root.Groups, 1)
	assert.Equal(t, g.ID, root.Groups[0].ID)

	_, err = svc.Create(ctx, nil, CreateActorInput{Username: "intruder"})
	var perr *domain.PermissionError
	require.ErrorAs(t, err, &perr, "bootstrap closes once an account exists")

	_, err = svc.CreateGroup(ctx, nil, "SHADOW")
	require.ErrorAs(t, err, &perr)

	admin := domain.RoleAdmin
	rina, err := svc.Create(ctx, root, CreateActorInput{Username: "rina", FullName: "Rina S", Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, rina.EffectiveRole())

	got, err := svc.Get(ctx, "RINA")
	require.NoError(t, err)
	assert.Equal(t, rina.ID, got.ID)
}

func TestActorService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewActorService(env.actors, env.groups, env.uow)

	_, err := svc.Create(ctx, nil, CreateActorInput{Username: "  "})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	bogus := domain.Role("owner")
	_, err = svc.Create(ctx, nil, CreateActorInput{Username: "x", Role: &bogus})
	require.ErrorAs(t, err, &verr)

	_, err = svc.Create(ctx, nil, CreateActorInput{Username: "y", Groups: []string{"missing"}})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestActorService_AddToGroupIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.group(t, "RISK PROCESS CONTROL")
	root := env.actor(t, "root", testutil.AsSuperuser())
	env.actor(t, "mia")
	svc := NewActorService(env.actors, env.groups, env.uow)

	a, err := svc.AddToGroup(ctx, root, "mia", g.Name)
	require.NoError(t, err)
	require.Len(t, a.Groups, 1)

	a, err = svc.AddToGroup(ctx, root, "mia", g.Name)
	require.NoError(t, err)
	assert.Len(t, a.Groups, 1)

	stored, err := svc.Get(ctx, "mia")
	require.NoError(t, err)
	assert.Len(t, stored.Groups, 1)

	groups, err := svc.ListGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	_, err = svc.AddToGroup(ctx, a, "mia", g.Name)
	var perr *domain.PermissionError
	require.ErrorAs(t, err, &perr)
}

type actorHooks struct {
	NoopHooks
	created []string
}

func (h *actorHooks) ActorCreated(_ context.Context, _ *domain.Actor, a *domain.Actor) {
	h.created = append(h.created, a.Username)
}

func TestActorService_CreatedHook(t *testing.T) {
	env := newTestEnv(t)
	hooks := &actorHooks{}
	svc := NewActorService(env.actors, env.groups, env.uow, WithHooks(hooks))

	_, err := svc.Create(context.Background(), nil, CreateActorInput{Username: "root", Superuser: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"root"}, hooks.created)
}
