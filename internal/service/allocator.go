package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/awsbudi/risk-tracker/internal/codes"
	"github.com/awsbudi/risk-tracker/internal/db"
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/repository"
)

// codeAllocator turns sequence numbers into codes inside the creating
// transaction and refuses codes that are already taken.
type codeAllocator struct {
	seq      repository.CodeSequenceRepo
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
}

func newCodeAllocator(tx db.DBTX) *codeAllocator {
	return &codeAllocator{
		seq:      repository.NewSQLiteCodeSequenceRepo(tx),
		projects: repository.NewSQLiteProjectRepo(tx),
		tasks:    repository.NewSQLiteTaskRepo(tx),
	}
}

func (a *codeAllocator) project(ctx context.Context) (string, error) {
	n, err := a.seq.NextProjectNumber(ctx)
	if err != nil {
		return "", err
	}
	code := codes.Project(n)
	taken, err := a.projects.CodeExists(ctx, code)
	if err != nil {
		return "", err
	}
	if taken {
		return "", &domain.ConflictError{Code: code}
	}
	return code, nil
}

// task allocates T-### for a top-level task or {parent}.{k} for a child.
func (a *codeAllocator) task(ctx context.Context, parent *domain.Task) (string, error) {
	var code string
	if parent == nil {
		n, err := a.seq.NextTopLevelTaskNumber(ctx)
		if err != nil {
			return "", err
		}
		code = codes.TopLevelTask(n)
	} else {
		k, err := a.seq.NextChildNumber(ctx, parent.ID)
		if err != nil {
			return "", err
		}
		code = codes.ChildTask(parent.Code, k)
	}
	taken, err := a.tasks.CodeExists(ctx, code)
	if err != nil {
		return "", err
	}
	if taken {
		return "", &domain.ConflictError{Code: code}
	}
	return code, nil
}

// allocateWithRetry retries once on a conflict. The sequence has already
// advanced, so the second attempt yields the next number.
func allocateWithRetry(ctx context.Context, alloc func(context.Context) (string, error)) (string, error) {
	code, err := alloc(ctx)
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		code, err = alloc(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("allocating code: %w", err)
	}
	return code, nil
}
