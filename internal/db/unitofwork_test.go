package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awsbudi/risk-tracker/internal/db"
)

func openUoW(t *testing.T) (*db.SQLiteUnitOfWork, func(key string) (int, bool)) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	read := func(key string) (int, bool) {
		var v int
		err := database.QueryRow(`SELECT next_value FROM code_sequences WHERE namespace = ?`, key).Scan(&v)
		return v, err == nil
	}
	return db.NewSQLiteUnitOfWork(database), read
}

func insertSeq(ctx context.Context, tx db.DBTX, key string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO code_sequences (namespace, next_value) VALUES (?, 1)`, key)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, read := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertSeq(ctx, tx, "commit")
	})
	require.NoError(t, err)

	v, found := read("commit")
	assert.True(t, found)
	assert.Equal(t, 1, v)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, read := openUoW(t)
	boom := errors.New("boom")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertSeq(ctx, tx, "rollback"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, found := read("rollback")
	assert.False(t, found)
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, read := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertSeq(ctx, tx, "panic")
			panic("unexpected")
		})
	})

	_, found := read("panic")
	assert.False(t, found)
}
