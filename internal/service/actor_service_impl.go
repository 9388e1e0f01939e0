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
	"github.com/google/uuid"
)

type actorService struct {
	actors repository.ActorRepo
	groups repository.GroupRepo
	uow    db.UnitOfWork
	opts   options
}

func NewActorService(actors repository.ActorRepo, groups repository.GroupRepo, uow db.UnitOfWork, opts ...Option) ActorService {
	return &actorService{actors: actors, groups: groups, uow: uow, opts: buildOptions(opts)}
}

// authorize lets superusers through and, while no account exists yet,
// anyone at all.
func authorize(ctx context.Context, actors *repository.SQLiteActorRepo, by *domain.Actor) error {
	n, err := actors.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	return access.CanManageActors(by)
}

func (s *actorService) Create(ctx context.Context, by *domain.Actor, in CreateActorInput) (a *domain.Actor, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"username": in.Username}
	defer observe(ctx, s.opts.observer, "create-actor", startedAt, fields, &err)

	a = &domain.Actor{
		ID:        uuid.New().String(),
		Username:  strings.TrimSpace(in.Username),
		FullName:  strings.TrimSpace(in.FullName),
		Role:      in.Role,
		Superuser: in.Superuser,
		CreatedAt: s.opts.now(),
	}
	if a.Username == "" {
		return nil, &domain.ValidationError{Violations: []domain.Violation{{
			Field: "username", Code: validate.CodeRequired, Message: "username is required",
		}}}
	}
	if a.Role != nil && !domain.ValidRoles[*a.Role] {
		return nil, &domain.ValidationError{Violations: []domain.Violation{{
			Field: "role", Code: validate.CodeInvalidValue, Message: fmt.Sprintf("unknown role %q", *a.Role),
		}}}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		actors := repository.NewSQLiteActorRepo(tx)
		groups := repository.NewSQLiteGroupRepo(tx)
		if err := authorize(ctx, actors, by); err != nil {
			return err
		}
		for _, name := range in.Groups {
			g, err := groups.GetByName(ctx, name)
			if err != nil {
				return err
			}
			a.Groups = append(a.Groups, *g)
		}
		return actors.Create(ctx, a)
	})
	if err != nil {
		return nil, fmt.Errorf("creating account %s: %w", in.Username, err)
	}
	s.opts.hooks.ActorCreated(ctx, by, a)
	return a, nil
}

func (s *actorService) Get(ctx context.Context, username string) (*domain.Actor, error) {
	return s.actors.GetByUsername(ctx, username)
}

func (s *actorService) List(ctx context.Context) ([]*domain.Actor, error) {
	return s.actors.List(ctx)
}

func (s *actorService) AddToGroup(ctx context.Context, by *domain.Actor, username, group string) (a *domain.Actor, err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.opts.observer, "join-group", startedAt, map[string]any{"username": username, "group": group}, &err)

	if err := access.CanManageActors(by); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		actors := repository.NewSQLiteActorRepo(tx)
		found, err := actors.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		g, err := repository.NewSQLiteGroupRepo(tx).GetByName(ctx, group)
		if err != nil {
			return err
		}
		if found.InGroup(g.ID) {
			a = found
			return nil
		}
		if err := actors.AddMembership(ctx, found.ID, g.ID); err != nil {
			return err
		}
		found.Groups = append(found.Groups, *g)
		a = found
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("adding %s to %s: %w", username, group, err)
	}
	return a, nil
}

func (s *actorService) CreateGroup(ctx context.Context, by *domain.Actor, name string) (g *domain.Group, err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.opts.observer, "create-group", startedAt, map[string]any{"name": name}, &err)

	g = &domain.Group{ID: uuid.New().String(), Name: strings.TrimSpace(name), CreatedAt: s.opts.now()}
	if g.Name == "" {
		return nil, &domain.ValidationError{Violations: []domain.Violation{{
			Field: "name", Code: validate.CodeRequired, Message: "group name is required",
		}}}
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := authorize(ctx, repository.NewSQLiteActorRepo(tx), by); err != nil {
			return err
		}
		return repository.NewSQLiteGroupRepo(tx).Create(ctx, g)
	})
	if err != nil {
		return nil, fmt.Errorf("creating group %s: %w", name, err)
	}
	return g, nil
}

func (s *actorService) ListGroups(ctx context.Context) ([]domain.Group, error) {
	return s.groups.List(ctx)
}
