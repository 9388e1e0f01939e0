package repository

import (
	"context"
	"fmt"

	"github.com/awsbudi/risk-tracker/internal/codes"
	"github.com/awsbudi/risk-tracker/internal/db"
)

// SQLiteCodeSequenceRepo allocates code numbers atomically using the
// code_sequences table. Each namespace is seeded from the current row count
// the first time it is used and only moves forward afterwards, so deleting
// rows never causes a code to be handed out twice.
type SQLiteCodeSequenceRepo struct {
	db db.DBTX
}

func NewSQLiteCodeSequenceRepo(conn db.DBTX) *SQLiteCodeSequenceRepo {
	return &SQLiteCodeSequenceRepo{db: conn}
}

func (r *SQLiteCodeSequenceRepo) NextProjectNumber(ctx context.Context) (int, error) {
	return r.next(ctx, codes.NamespaceProjects,
		`SELECT COUNT(*) + 1 FROM projects`)
}

// NextTopLevelTaskNumber seeds from top-level tasks that are not routine
// instances; BAU codes live outside the T-### namespace.
func (r *SQLiteCodeSequenceRepo) NextTopLevelTaskNumber(ctx context.Context) (int, error) {
	return r.next(ctx, codes.NamespaceTopLevelTasks,
		`SELECT COUNT(*) + 1 FROM tasks WHERE parent_id IS NULL AND template_id IS NULL`)
}

func (r *SQLiteCodeSequenceRepo) NextChildNumber(ctx context.Context, parentID string) (int, error) {
	return r.next(ctx, codes.ChildNamespace(parentID),
		`SELECT COUNT(*) + 1 FROM tasks WHERE parent_id = ?`, parentID)
}

func (r *SQLiteCodeSequenceRepo) next(ctx context.Context, namespace, seedQuery string, seedArgs ...any) (int, error) {
	seed := `INSERT OR IGNORE INTO code_sequences (namespace, next_value) SELECT ?, (` + seedQuery + `)`
	args := append([]any{namespace}, seedArgs...)
	if _, err := r.db.ExecContext(ctx, seed, args...); err != nil {
		return 0, fmt.Errorf("seeding code sequence %s: %w", namespace, err)
	}

	var n int
	alloc := `UPDATE code_sequences
		SET next_value = next_value + 1
		WHERE namespace = ?
		RETURNING next_value - 1`
	if err := r.db.QueryRowContext(ctx, alloc, namespace).Scan(&n); err != nil {
		return 0, fmt.Errorf("allocating from code sequence %s: %w", namespace, err)
	}
	return n, nil
}
