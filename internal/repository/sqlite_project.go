package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/awsbudi/risk-tracker/internal/db"
	"github.com/awsbudi/risk-tracker/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const projectColumns = `id, code, name, description, plan_start, plan_end, actual_start, actual_end,
	status, owner_group_id, created_by, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Code,
		p.Name,
		p.Description,
		p.PlanStart.Format(dateLayout),
		p.PlanEnd.Format(dateLayout),
		nullableTimeToString(p.ActualStart, dateLayout),
		nullableTimeToString(p.ActualEnd, dateLayout),
		string(p.Status),
		p.OwnerGroupID,
		nullableString(p.CreatedBy),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, "project", id)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) GetByCode(ctx context.Context, code string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE UPPER(code) = UPPER(?)`, code)
	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, "project", code)
	}
	return p, nil
}

// GetByName returns the oldest project with the given name.
func (r *SQLiteProjectRepo) GetByName(ctx context.Context, name string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE name = ? ORDER BY code LIMIT 1`, name)
	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, "project", name)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

// Update writes every mutable column. Code and creator never change.
func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, description = ?, plan_start = ?, plan_end = ?,
		actual_start = ?, actual_end = ?, status = ?, owner_group_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		p.PlanStart.Format(dateLayout),
		p.PlanEnd.Format(dateLayout),
		nullableTimeToString(p.ActualStart, dateLayout),
		nullableTimeToString(p.ActualEnd, dateLayout),
		string(p.Status),
		p.OwnerGroupID,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireAffected(res, "project", p.ID)
}

// Delete removes the project; its tasks go with it through ON DELETE CASCADE.
func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return requireAffected(res, "project", id)
}

func (r *SQLiteProjectRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	ok, err := exists(ctx, r.db, `SELECT COUNT(*) FROM projects WHERE code = ?`, code)
	if err != nil {
		return false, fmt.Errorf("checking project code %s: %w", code, err)
	}
	return ok, nil
}

func scanProject(s scanner) (*domain.Project, error) {
	var p domain.Project
	var planStart, planEnd, status, createdAt, updatedAt string
	var actualStart, actualEnd, createdBy sql.NullString

	err := s.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description,
		&planStart, &planEnd, &actualStart, &actualEnd,
		&status, &p.OwnerGroupID, &createdBy,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = domain.ProjectStatus(status)
	p.CreatedBy = stringPtr(createdBy)
	p.ActualStart = parseNullableTime(actualStart, dateLayout)
	p.ActualEnd = parseNullableTime(actualEnd, dateLayout)

	if p.PlanStart, err = parseDate("plan_start", planStart); err != nil {
		return nil, err
	}
	if p.PlanEnd, err = parseDate("plan_end", planEnd); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func requireAffected(res sql.Result, entity, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return &domain.NotFoundError{Entity: entity, Key: key}
	}
	return nil
}
