package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/awsbudi/risk-tracker/internal/db"
)

// FailOnNthExecUoW injects Err into the Nth write whose SQL starts with
// Prefix (case-insensitive, leading whitespace ignored). An empty Prefix
// counts every ExecContext call. QueryContext and QueryRowContext pass
// through, including INSERT ... RETURNING.
//
// The count restarts for each transaction.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	Prefix string
	FailOn int
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failingTx{DBTX: tx, uow: u}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failingTx struct {
	db.DBTX
	uow   *FailOnNthExecUoW
	count int
}

func (f *failingTx) trip(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	if !strings.HasPrefix(q, strings.ToUpper(f.uow.Prefix)) {
		return false
	}
	f.count++
	return f.count == f.uow.FailOn
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.trip(query) {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
