package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/awsbudi/risk-tracker/internal/db"
	"github.com/awsbudi/risk-tracker/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `id, code, name, kind, project_id, parent_id, depends_on_id, requested_by,
	plan_start, plan_due, actual_start, actual_end, assignee_id, progress, status,
	owner_group_id, template_id, created_at, updated_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Code,
		t.Name,
		string(t.Kind),
		nullableString(t.ProjectID),
		nullableString(t.ParentID),
		nullableString(t.DependsOnID),
		t.RequestedBy,
		t.PlanStart.Format(dateLayout),
		t.PlanDue.Format(dateLayout),
		nullableTimeToString(t.ActualStart, dateLayout),
		nullableTimeToString(t.ActualEnd, dateLayout),
		nullableString(t.AssigneeID),
		t.Progress,
		string(t.Status),
		t.OwnerGroupID,
		nullableInt64(t.TemplateID),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task %s: %w", t.Code, err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, notFound(err, "task", id)
	}
	return t, nil
}

func (r *SQLiteTaskRepo) GetByCode(ctx context.Context, code string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE UPPER(code) = UPPER(?)`, code)
	t, err := scanTask(row)
	if err != nil {
		return nil, notFound(err, "task", code)
	}
	return t, nil
}

// List returns tasks matching f ordered by code.
func (r *SQLiteTaskRepo) List(ctx context.Context, f TaskFilter) ([]*domain.Task, error) {
	var where []string
	var args []any
	if f.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, f.ProjectID)
	}
	if f.AssigneeID != "" {
		where = append(where, "assignee_id = ?")
		args = append(args, f.AssigneeID)
	}
	if f.OwnerGroupID != "" {
		where = append(where, "owner_group_id = ?")
		args = append(args, f.OwnerGroupID)
	}
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.TopLevelOnly {
		where = append(where, "parent_id IS NULL")
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY code"
	return r.query(ctx, query, args...)
}

func (r *SQLiteTaskRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE parent_id = ? ORDER BY code`, parentID)
}

func (r *SQLiteTaskRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// Update writes every mutable column. Code, kind lineage and template
// origin are fixed at creation.
func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET name = ?, project_id = ?, parent_id = ?, depends_on_id = ?,
		requested_by = ?, plan_start = ?, plan_due = ?, actual_start = ?, actual_end = ?,
		assignee_id = ?, progress = ?, status = ?, owner_group_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Name,
		nullableString(t.ProjectID),
		nullableString(t.ParentID),
		nullableString(t.DependsOnID),
		t.RequestedBy,
		t.PlanStart.Format(dateLayout),
		t.PlanDue.Format(dateLayout),
		nullableTimeToString(t.ActualStart, dateLayout),
		nullableTimeToString(t.ActualEnd, dateLayout),
		nullableString(t.AssigneeID),
		t.Progress,
		string(t.Status),
		t.OwnerGroupID,
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", t.Code, err)
	}
	return requireAffected(res, "task", t.ID)
}

// Delete hard-deletes the task. Children and dependents keep their rows
// with parent_id and depends_on_id set to NULL.
func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task", id)
}

func (r *SQLiteTaskRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	ok, err := exists(ctx, r.db, `SELECT COUNT(*) FROM tasks WHERE code = ?`, code)
	if err != nil {
		return false, fmt.Errorf("checking task code %s: %w", code, err)
	}
	return ok, nil
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var kind, status, planStart, planDue, createdAt, updatedAt string
	var projectID, parentID, dependsOnID, assigneeID, actualStart, actualEnd sql.NullString
	var templateID sql.NullInt64

	err := s.Scan(
		&t.ID, &t.Code, &t.Name, &kind,
		&projectID, &parentID, &dependsOnID, &t.RequestedBy,
		&planStart, &planDue, &actualStart, &actualEnd,
		&assigneeID, &t.Progress, &status,
		&t.OwnerGroupID, &templateID,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Kind = domain.TaskKind(kind)
	t.Status = domain.TaskStatus(status)
	t.ProjectID = stringPtr(projectID)
	t.ParentID = stringPtr(parentID)
	t.DependsOnID = stringPtr(dependsOnID)
	t.AssigneeID = stringPtr(assigneeID)
	t.TemplateID = int64Ptr(templateID)
	t.ActualStart = parseNullableTime(actualStart, dateLayout)
	t.ActualEnd = parseNullableTime(actualEnd, dateLayout)

	if t.PlanStart, err = parseDate("plan_start", planStart); err != nil {
		return nil, err
	}
	if t.PlanDue, err = parseDate("plan_due", planDue); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
