package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx chỉ implement Commit/Rollback, các method khác của pgx.Tx không được gọi
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (f *fakeTx) Commit(ctx context.Context) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	if f.committed {
		return pgx.ErrTxClosed
	}
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
}

func (f *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

func TestWithTransaction_Commit(t *testing.T) {
	tx := &fakeTx{}
	err := WithTransaction(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error {
		return nil
	})

	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	tx := &fakeTx{}
	fnErr := errors.New("update failed")

	err := WithTransaction(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error {
		return fnErr
	})

	require.ErrorIs(t, err, fnErr)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestWithTransaction_RollbackOnPanic(t *testing.T) {
	tx := &fakeTx{}

	assert.Panics(t, func() {
		_ = WithTransaction(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error {
			panic("boom")
		})
	})
	assert.True(t, tx.rolledBack)
}

func TestWithTransaction_BeginError(t *testing.T) {
	err := WithTransaction(context.Background(), &fakeBeginner{beginErr: errors.New("pool closed")}, func(pgx.Tx) error {
		t.Fatal("fn must not run")
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
}

func TestWithTransaction_CommitError(t *testing.T) {
	tx := &fakeTx{commitErr: errors.New("serialization failure")}

	err := WithTransaction(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error {
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit")
	assert.True(t, tx.rolledBack)
}

func TestWithTransactionResult(t *testing.T) {
	tx := &fakeTx{}
	got, err := WithTransactionResult(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = WithTransactionResult(context.Background(), &fakeBeginner{tx: &fakeTx{}}, func(pgx.Tx) (int, error) {
		return 7, errors.New("nope")
	})
	require.Error(t, err)
	assert.Equal(t, 0, got)
}
