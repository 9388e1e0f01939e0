package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/awsbudi/risk-tracker/internal/db"
	"github.com/awsbudi/risk-tracker/internal/domain"
)

// SQLiteTemplateRepo implements TemplateRepo using a SQLite database.
type SQLiteTemplateRepo struct {
	db db.DBTX
}

func NewSQLiteTemplateRepo(conn db.DBTX) *SQLiteTemplateRepo {
	return &SQLiteTemplateRepo{db: conn}
}

const templateColumns = `id, name, description, frequency, default_assignee_id, owner_group_id, created_at`

// Create inserts the template and sets t.ID from the generated key.
func (r *SQLiteTemplateRepo) Create(ctx context.Context, t *domain.TaskTemplate) error {
	query := `INSERT INTO task_templates (name, description, frequency, default_assignee_id, owner_group_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		t.Name,
		t.Description,
		string(t.Frequency),
		nullableString(t.DefaultAssigneeID),
		t.OwnerGroupID,
		t.CreatedAt.Format(time.RFC3339),
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}
	return nil
}

func (r *SQLiteTemplateRepo) GetByID(ctx context.Context, id int64) (*domain.TaskTemplate, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM task_templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if err != nil {
		return nil, notFound(err, "template", strconv.FormatInt(id, 10))
	}
	return t, nil
}

func (r *SQLiteTemplateRepo) List(ctx context.Context) ([]*domain.TaskTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM task_templates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var out []*domain.TaskTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning template row: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating templates: %w", err)
	}
	return out, nil
}

// Delete removes the template. Instances already generated stay, with
// template_id cleared.
func (r *SQLiteTemplateRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	return requireAffected(res, "template", strconv.FormatInt(id, 10))
}

func scanTemplate(s scanner) (*domain.TaskTemplate, error) {
	var t domain.TaskTemplate
	var freq, createdAt string
	var assignee sql.NullString

	if err := s.Scan(&t.ID, &t.Name, &t.Description, &freq, &assignee, &t.OwnerGroupID, &createdAt); err != nil {
		return nil, err
	}
	t.Frequency = domain.Frequency(freq)
	t.DefaultAssigneeID = stringPtr(assignee)

	var err error
	if t.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}
