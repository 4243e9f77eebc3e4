package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/infrastructure/postgres/generated"
)

func TestTxManager_BeginAndCommit(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tx)

	require.NoError(t, tx.Commit(context.Background()))
	assertExpectations(t, mock)
}

func TestTxManager_BeginFailureIsUnavailable(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBegin().WillReturnError(&pgconn.PgError{Code: pgErrCannotConnectNow})

	tx, err := newTxManagerWithPool(mock).Begin(context.Background())

	assert.Nil(t, tx)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestTxManager_CommitSerializationFailure(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(&pgconn.PgError{Code: pgErrSerializationFailure})

	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, tx.Commit(context.Background()), domain.ErrStorageUnavailable)
}

func TestTxManager_RollbackDiscardsWrites(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM \"transaction\"").
		WithArgs("txn-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectRollback()

	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	require.NoError(t, err)

	_, err = txQueries(tx).DeleteTransaction(context.Background(), generated.DeleteTransactionParams{ID: "txn-1", Owner: "user-1"})
	require.NoError(t, err)

	require.NoError(t, tx.Rollback(context.Background()))
	assertExpectations(t, mock)
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	pool, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create pgxmock pool")
	t.Cleanup(pool.Close)

	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	assert.NoError(t, pool.ExpectationsWereMet(), "expectations were not met")
}
