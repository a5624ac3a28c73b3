package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/recentro-booking/pkg/dbmetrics"
)

type mockTx struct {
	mock.Mock
	dbmetrics.DBExecutor
}

func (m *mockTx) Commit() error {
	return m.Called().Error(0)
}

func (m *mockTx) Rollback() error {
	return m.Called().Error(0)
}

type mockBeginner struct {
	mock.Mock
}

func (m *mockBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	args := m.Called(ctx, opts)
	if tx := args.Get(0); tx != nil {
		return tx.(dbmetrics.TxExecutor), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestManager_Do_CommitsOnSuccess(t *testing.T) {
	tx := &mockTx{}
	tx.On("Commit").Return(nil).Once()
	db := &mockBeginner{}
	db.On("BeginTx", mock.Anything, (*sql.TxOptions)(nil)).Return(tx, nil).Once()

	err := NewTransactionManager(db).Do(context.Background(), func(ctx context.Context) error {
		got, ok := dbmetrics.GetTx(ctx)
		require.True(t, ok)
		assert.Same(t, tx, got)
		return nil
	})

	require.NoError(t, err)
	tx.AssertExpectations(t)
	db.AssertExpectations(t)
}

func TestManager_Do_RollsBackAndReturnsFnError(t *testing.T) {
	fnErr := errors.New("slot is full")
	tx := &mockTx{}
	tx.On("Rollback").Return(nil).Once()
	db := &mockBeginner{}
	db.On("BeginTx", mock.Anything, mock.Anything).Return(tx, nil).Once()

	err := NewTransactionManager(db).Do(context.Background(), func(ctx context.Context) error {
		return fnErr
	})

	assert.Same(t, fnErr, err)
	tx.AssertNotCalled(t, "Commit")
	tx.AssertExpectations(t)
}

func TestManager_Do_WrapsCommitFailure(t *testing.T) {
	tx := &mockTx{}
	tx.On("Commit").Return(errors.New("connection reset")).Once()
	db := &mockBeginner{}
	db.On("BeginTx", mock.Anything, mock.Anything).Return(tx, nil).Once()

	err := NewTransactionManager(db).Do(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.ErrorIs(t, err, ErrCommitTx)
}

func TestManager_Do_WrapsBeginFailure(t *testing.T) {
	db := &mockBeginner{}
	db.On("BeginTx", mock.Anything, mock.Anything).Return(nil, errors.New("pool exhausted")).Once()

	called := false
	err := NewTransactionManager(db).Do(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrBeginTx)
	assert.False(t, called)
}

func TestManager_Do_JoinsOuterTransaction(t *testing.T) {
	outer := &mockTx{}
	db := &mockBeginner{}

	ctx := dbmetrics.WithTx(context.Background(), outer)
	err := NewTransactionManager(db).Do(ctx, func(ctx context.Context) error {
		got, _ := dbmetrics.GetTx(ctx)
		assert.Same(t, outer, got)
		return nil
	})

	require.NoError(t, err)
	db.AssertNotCalled(t, "BeginTx", mock.Anything, mock.Anything)
}

func TestManager_DoSerializable_PassesIsolation(t *testing.T) {
	tx := &mockTx{}
	tx.On("Commit").Return(nil).Once()
	db := &mockBeginner{}
	db.On("BeginTx", mock.Anything, &sql.TxOptions{Isolation: sql.LevelSerializable}).Return(tx, nil).Once()

	err := NewTransactionManager(db).DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, err)
	db.AssertExpectations(t)
}
