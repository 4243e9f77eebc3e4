package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroedbooks/ledger/internal/domain"
)

var snapshotOptions = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

func TestTransactionRepository_GetReadsHeaderAndEntriesInOneSnapshot(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTransactionRepository(mock)

	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	stamp := pgtype.Timestamptz{Time: date.Add(9 * time.Hour), Valid: true}

	mock.ExpectBeginTx(snapshotOptions)
	mock.ExpectQuery(`SELECT id, owner, date, payee, notes, created_at, updated_at FROM "transaction"`).
		WithArgs("txn-1", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner", "date", "payee", "notes", "created_at", "updated_at"}).
			AddRow("txn-1", "user-1", pgtype.Date{Time: date, Valid: true}, "Grocer", "", stamp, stamp))
	mock.ExpectQuery("FROM transaction_entry e").
		WithArgs("txn-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "transaction_id", "order", "account_id", "account_name", "code", "symbol", "minor_units", "amount",
		}).
			AddRow("ent-1", "txn-1", int32(0), "acc-1", "Expenses:Food", "USD", "$", int32(2), int64(1250)).
			AddRow("ent-2", "txn-1", int32(1), "acc-2", "Assets:Cash", "USD", "$", int32(2), int64(-1250)))
	mock.ExpectCommit()

	txn, err := repo.Get(context.Background(), "user-1", "txn-1")
	require.NoError(t, err)
	assert.Equal(t, "Grocer", txn.Payee)
	assert.Equal(t, date, txn.Date)
	require.Len(t, txn.Entries, 2)
	assert.Equal(t, "Assets:Cash", txn.Entries[1].AccountName)
	assert.Equal(t, int64(-1250), txn.Entries[1].Amount)
	assertExpectations(t, mock)
}

func TestTransactionRepository_GetMissingRollsBack(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTransactionRepository(mock)

	mock.ExpectBeginTx(snapshotOptions)
	mock.ExpectQuery(`FROM "transaction"`).
		WithArgs("txn-1", "user-2").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Get(context.Background(), "user-2", "txn-1")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	assertExpectations(t, mock)
}

func TestTransactionRepository_GetManyWithoutMatchesSkipsEntries(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTransactionRepository(mock)

	mock.ExpectBeginTx(snapshotOptions)
	mock.ExpectQuery(`id = ANY`).
		WithArgs("user-1", []string{"a", "b"}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner", "date", "payee", "notes", "created_at", "updated_at"}))
	mock.ExpectCommit()

	got, err := repo.GetMany(context.Background(), "user-1", []string{"a", "b"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assertExpectations(t, mock)
}

func TestTransactionRepository_GetManyGroupsInterleavedEntries(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTransactionRepository(mock)

	date := pgtype.Date{Time: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Valid: true}
	stamp := pgtype.Timestamptz{Time: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), Valid: true}
	entryColumns := []string{
		"id", "transaction_id", "order", "account_id", "account_name", "code", "symbol", "minor_units", "amount",
	}

	mock.ExpectBeginTx(snapshotOptions)
	mock.ExpectQuery(`id = ANY`).
		WithArgs("user-1", []string{"a", "b"}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner", "date", "payee", "notes", "created_at", "updated_at"}).
			AddRow("b", "user-1", date, "Bakery", "", stamp, stamp).
			AddRow("a", "user-1", date, "Grocer", "", stamp, stamp))
	mock.ExpectQuery("FROM transaction_entry e").
		WithArgs([]string{"b", "a"}).
		WillReturnRows(pgxmock.NewRows(entryColumns).
			AddRow("e1", "a", int32(0), "acc-1", "Expenses:Food", "USD", "$", int32(2), int64(700)).
			AddRow("e2", "a", int32(1), "acc-2", "Assets:Cash", "USD", "$", int32(2), int64(-700)).
			AddRow("e3", "b", int32(0), "acc-3", "Expenses:Bread", "EUR", "€", int32(2), int64(300)).
			AddRow("e4", "b", int32(1), "acc-2", "Assets:Cash", "EUR", "€", int32(2), int64(-300)))
	mock.ExpectCommit()

	got, err := repo.GetMany(context.Background(), "user-1", []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)

	want := map[string][]string{"a": {"e1", "e2"}, "b": {"e3", "e4"}}
	for _, txn := range got {
		require.Len(t, txn.Entries, 2, txn.ID)
		for i, e := range txn.Entries {
			assert.Equal(t, txn.ID, e.TransactionID)
			assert.Equal(t, i, e.Order)
			assert.Equal(t, want[txn.ID][i], e.ID)
		}
	}
	assert.Equal(t, "EUR", got[0].Entries[0].Currency.Code)
	assertExpectations(t, mock)
}

func TestTransactionRepository_InsertEntriesMapsDeletedCurrency(t *testing.T) {
	entries := []*domain.Entry{{
		ID: "e1", TransactionID: "txn-1", AccountID: "acc-1",
		Currency: domain.Currency{Code: "XTS"}, Amount: 100,
	}}
	columns := []string{"id", "transaction_id", "order", "account_id", "currency", "amount"}

	tests := []struct {
		name    string
		pgErr   *pgconn.PgError
		want    error
		notWant error
	}{
		{
			name:    "currency foreign key",
			pgErr:   &pgconn.PgError{Code: "23503", ConstraintName: "transaction_entry_currency_fkey"},
			want:    domain.ErrCurrencyNotFound,
			notWant: domain.ErrReferentialIntegrity,
		},
		{
			name:    "other foreign key",
			pgErr:   &pgconn.PgError{Code: "23503", ConstraintName: "transaction_entry_account_id_fkey"},
			want:    domain.ErrReferentialIntegrity,
			notWant: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			mock.ExpectBegin()

			tx, err := newTxManagerWithPool(mock).Begin(context.Background())
			require.NoError(t, err)

			mock.ExpectCopyFrom(pgx.Identifier{"transaction_entry"}, columns).WillReturnError(tt.pgErr)

			err = NewTransactionRepository(mock).InsertEntries(context.Background(), tx, entries)
			assert.ErrorIs(t, err, tt.want)
			assert.NotErrorIs(t, err, tt.notWant)
			assertExpectations(t, mock)
		})
	}
}

func TestTransactionRepository_DeleteMissing(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBegin()

	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	require.NoError(t, err)

	mock.ExpectExec(`DELETE FROM "transaction"`).
		WithArgs("txn-9", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = NewTransactionRepository(mock).Delete(context.Background(), tx, "user-1", "txn-9")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}
