package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/awsbudi/risk-tracker/internal/db"
	"github.com/awsbudi/risk-tracker/internal/domain"
)

// SQLiteAuditRepo implements AuditRepo using a SQLite database.
type SQLiteAuditRepo struct {
	db db.DBTX
}

func NewSQLiteAuditRepo(conn db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: conn}
}

const auditColumns = `id, actor_id, action, target_model, target_code, details, created_at`

func (r *SQLiteAuditRepo) Append(ctx context.Context, e *domain.AuditEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = nowUTC()
	}
	err := r.db.QueryRowContext(ctx, `INSERT INTO audit_log (actor_id, action, target_model, target_code, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		nullableString(e.ActorID),
		string(e.Action),
		e.TargetModel,
		e.TargetCode,
		e.Details,
		e.CreatedAt.Format(time.RFC3339),
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}
	return nil
}

func (r *SQLiteAuditRepo) ListByTarget(ctx context.Context, model, code string) ([]*domain.AuditEntry, error) {
	return r.query(ctx, `SELECT `+auditColumns+` FROM audit_log
		WHERE target_model = ? AND target_code = ? ORDER BY id`, model, code)
}

// List returns the newest entries first.
func (r *SQLiteAuditRepo) List(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.query(ctx, `SELECT `+auditColumns+` FROM audit_log ORDER BY id DESC LIMIT ?`, limit)
}

func (r *SQLiteAuditRepo) query(ctx context.Context, query string, args ...any) ([]*domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var out []*domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var actorID sql.NullString
		var action, createdAt string
		if err := rows.Scan(&e.ID, &actorID, &action, &e.TargetModel, &e.TargetCode, &e.Details, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit row: %w", err)
		}
		e.ActorID = stringPtr(actorID)
		e.Action = domain.AuditAction(action)
		if e.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return out, nil
}
