package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/awsbudi/risk-tracker/internal/db"
	"github.com/awsbudi/risk-tracker/internal/domain"
)

// SQLiteGroupRepo implements GroupRepo using a SQLite database.
type SQLiteGroupRepo struct {
	db db.DBTX
}

func NewSQLiteGroupRepo(conn db.DBTX) *SQLiteGroupRepo {
	return &SQLiteGroupRepo{db: conn}
}

func (r *SQLiteGroupRepo) Create(ctx context.Context, g *domain.Group) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO org_groups (id, name, created_at) VALUES (?, ?, ?)`,
		g.ID, g.Name, g.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting group %s: %w", g.Name, err)
	}
	return nil
}

func (r *SQLiteGroupRepo) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	g, err := scanGroup(r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM org_groups WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "group", id)
	}
	return g, nil
}

// GetByName matches case-insensitively.
func (r *SQLiteGroupRepo) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	g, err := scanGroup(r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM org_groups WHERE name = ? COLLATE NOCASE`, name))
	if err != nil {
		return nil, notFound(err, "group", name)
	}
	return g, nil
}

func (r *SQLiteGroupRepo) List(ctx context.Context) ([]domain.Group, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM org_groups ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var out []domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning group row: %w", err)
		}
		out = append(out, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}
	return out, nil
}

func scanGroup(s scanner) (*domain.Group, error) {
	var g domain.Group
	var createdAt string
	if err := s.Scan(&g.ID, &g.Name, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if g.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// SQLiteActorRepo implements ActorRepo using a SQLite database. Actors are
// returned with their group memberships in join order.
type SQLiteActorRepo struct {
	db db.DBTX
}

func NewSQLiteActorRepo(conn db.DBTX) *SQLiteActorRepo {
	return &SQLiteActorRepo{db: conn}
}

const actorColumns = `id, username, full_name, role, superuser, created_at`

func (r *SQLiteActorRepo) Create(ctx context.Context, a *domain.Actor) error {
	var role any
	if a.Role != nil {
		role = string(*a.Role)
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO actors (`+actorColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Username, a.FullName, role, boolToInt(a.Superuser), a.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting actor %s: %w", a.Username, err)
	}
	for _, g := range a.Groups {
		if err := r.AddMembership(ctx, a.ID, g.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteActorRepo) GetByID(ctx context.Context, id string) (*domain.Actor, error) {
	return r.getOne(ctx, `SELECT `+actorColumns+` FROM actors WHERE id = ?`, id)
}

func (r *SQLiteActorRepo) GetByUsername(ctx context.Context, username string) (*domain.Actor, error) {
	return r.getOne(ctx, `SELECT `+actorColumns+` FROM actors WHERE username = ? COLLATE NOCASE`, username)
}

func (r *SQLiteActorRepo) getOne(ctx context.Context, query, key string) (*domain.Actor, error) {
	a, err := scanActor(r.db.QueryRowContext(ctx, query, key))
	if err != nil {
		return nil, notFound(err, "actor", key)
	}
	if a.Groups, err = r.groupsOf(ctx, a.ID); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *SQLiteActorRepo) List(ctx context.Context) ([]*domain.Actor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+actorColumns+` FROM actors ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("listing actors: %w", err)
	}
	var actors []*domain.Actor
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning actor row: %w", err)
		}
		actors = append(actors, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating actors: %w", err)
	}
	rows.Close()

	// Memberships are loaded after the cursor is closed; the in-memory
	// database has a single connection.
	for _, a := range actors {
		if a.Groups, err = r.groupsOf(ctx, a.ID); err != nil {
			return nil, err
		}
	}
	return actors, nil
}

func (r *SQLiteActorRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM actors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting actors: %w", err)
	}
	return n, nil
}

// AddMembership is a no-op when the actor already belongs to the group.
func (r *SQLiteActorRepo) AddMembership(ctx context.Context, actorID, groupID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO memberships (actor_id, group_id, joined_at) VALUES (?, ?, ?)`,
		actorID, groupID, nowUTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("adding actor %s to group %s: %w", actorID, groupID, err)
	}
	return nil
}

// Delete removes the actor. Records it created or was assigned keep their
// rows with the reference cleared.
func (r *SQLiteActorRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM actors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting actor: %w", err)
	}
	return requireAffected(res, "actor", id)
}

func (r *SQLiteActorRepo) groupsOf(ctx context.Context, actorID string) ([]domain.Group, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT g.id, g.name, g.created_at
		FROM memberships m JOIN org_groups g ON g.id = m.group_id
		WHERE m.actor_id = ?
		ORDER BY m.joined_at, m.rowid`, actorID)
	if err != nil {
		return nil, fmt.Errorf("listing groups of actor %s: %w", actorID, err)
	}
	defer rows.Close()

	var out []domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning membership row: %w", err)
		}
		out = append(out, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating memberships: %w", err)
	}
	return out, nil
}

func scanActor(s scanner) (*domain.Actor, error) {
	var a domain.Actor
	var role sql.NullString
	var superuser int
	var createdAt string
	if err := s.Scan(&a.ID, &a.Username, &a.FullName, &role, &superuser, &createdAt); err != nil {
		return nil, err
	}
	if role.Valid {
		r := domain.Role(role.String)
		a.Role = &r
	}
	a.Superuser = superuser != 0

	var err error
	if a.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	return &a, nil
}
