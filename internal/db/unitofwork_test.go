package db_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/lessonsmith/internal/db"
)

func openTestUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func insertQuestion(ctx context.Context, tx db.DBTX, id string, position int) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO assessment_questions
		(question_id, lesson_id, position, question, options, correct_answer, created_at)
		VALUES (?, 'lesson_uow_1', ?, 'q', '[]', 0, '2025-01-01T00:00:00Z')`, id, position)
	return err
}

func countQuestions(t *testing.T, uow *db.SQLiteUnitOfWork) int {
	t.Helper()
	var n int
	require.NoError(t, uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM assessment_questions`).Scan(&n)
	}))
	return n
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestUoW(t)
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertQuestion(ctx, tx, "q1", 0); err != nil {
			return err
		}
		return insertQuestion(ctx, tx, "q2", 1)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, countQuestions(t, uow))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestUoW(t)
	sentinel := errors.New("deliberate failure")
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertQuestion(ctx, tx, "q1", 0); err != nil {
			return err
		}
		return fmt.Errorf("second write: %w", sentinel)
	})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 0, countQuestions(t, uow))
}

func TestWithinTx_RollbackOnConstraintViolation(t *testing.T) {
	uow := openTestUoW(t)
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertQuestion(ctx, tx, "q1", 0); err != nil {
			return err
		}
		return insertQuestion(ctx, tx, "q2", 0)
	})
	require.Error(t, err)
	assert.Equal(t, 0, countQuestions(t, uow))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestUoW(t)
	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertQuestion(ctx, tx, "q1", 0)
			panic("boom")
		})
	})
	assert.Equal(t, 0, countQuestions(t, uow))
}
