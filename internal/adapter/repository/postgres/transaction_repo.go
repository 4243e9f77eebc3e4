package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/infrastructure/postgres/generated"
	"github.com/zeroedbooks/ledger/internal/usecase"
)

// entryCurrencyConstraint is the FK from transaction_entry.currency to currency.code.
// A violation means the currency was deleted after the catalog lookup.
const entryCurrencyConstraint = "transaction_entry_currency_fkey"

// snapshotDB can open read-only snapshot transactions.
type snapshotDB interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	db snapshotDB
}

// NewTransactionRepository creates a new TransactionRepository. Reads go to db, so
// pass the primary pool to keep read-your-writes.
func NewTransactionRepository(db snapshotDB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// snapshot runs fn in a REPEATABLE READ read-only transaction so a header and its
// entries are read from the same state.
func (r *TransactionRepository) snapshot(ctx context.Context, fn func(q *generated.Queries) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return translateError(err)
	}

	if err := fn(generated.New(tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return translateError(tx.Commit(ctx))
}

// CreateHeader inserts the transaction row without entries.
func (r *TransactionRepository) CreateHeader(ctx context.Context, tx usecase.Tx, t *domain.Transaction) error {
	err := txQueries(tx).CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:        t.ID,
		Owner:     t.Owner,
		Date:      timeToPgDate(t.Date),
		Payee:     t.Payee,
		Notes:     t.Notes,
		CreatedAt: timeToPgTimestamptz(t.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(t.UpdatedAt),
	})

	return translateError(err)
}

// UpdateHeader patches the header and advances updated_at past its previous value.
func (r *TransactionRepository) UpdateHeader(
	ctx context.Context,
	tx usecase.Tx,
	owner, id string,
	patch usecase.TransactionHeaderPatch,
	now time.Time,
) (*domain.Transaction, error) {
	params := generated.UpdateTransactionHeaderParams{
		Now:   timeToPgTimestamptz(now),
		ID:    id,
		Owner: owner,
	}

	if patch.Date != nil {
		params.Date = timeToPgDate(*patch.Date)
	}

	if patch.Payee != nil {
		params.Payee = pgtype.Text{String: *patch.Payee, Valid: true}
	}

	if patch.Notes != nil {
		params.Notes = pgtype.Text{String: *patch.Notes, Valid: true}
	}

	row, err := txQueries(tx).UpdateTransactionHeader(ctx, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, translateError(err)
	}

	return rowToTransaction(row), nil
}

// Delete removes the transaction; entries cascade.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Tx, owner, id string) error {
	affected, err := txQueries(tx).DeleteTransaction(ctx, generated.DeleteTransactionParams{
		ID:    id,
		Owner: owner,
	})
	if err != nil {
		return translateError(err)
	}

	if affected == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// InsertEntries bulk-inserts entries with COPY.
func (r *TransactionRepository) InsertEntries(ctx context.Context, tx usecase.Tx, entries []*domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	params := make([]generated.InsertEntriesParams, 0, len(entries))
	for _, e := range entries {
		params = append(params, generated.InsertEntriesParams{
			ID:            e.ID,
			TransactionID: e.TransactionID,
			Order:         int32(e.Order),
			AccountID:     e.AccountID,
			Currency:      e.Currency.Code,
			Amount:        e.Amount,
		})
	}

	if _, err := txQueries(tx).InsertEntries(ctx, params); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation && pgErr.ConstraintName == entryCurrencyConstraint {
			return fmt.Errorf("%w: %s", domain.ErrCurrencyNotFound, pgErr.Detail)
		}

		return translateError(err)
	}

	return nil
}

// DeleteEntries removes every entry of a transaction.
func (r *TransactionRepository) DeleteEntries(ctx context.Context, tx usecase.Tx, transactionID string) error {
	return translateError(txQueries(tx).DeleteEntriesByTransaction(ctx, transactionID))
}

// GetEntries reads a transaction's entries inside tx, ordered by position.
func (r *TransactionRepository) GetEntries(ctx context.Context, tx usecase.Tx, transactionID string) ([]*domain.Entry, error) {
	rows, err := txQueries(tx).GetEntriesByTransaction(ctx, transactionID)
	if err != nil {
		return nil, translateError(err)
	}

	return entryRowsToEntries(rows), nil
}

// Get returns a transaction with its entries.
func (r *TransactionRepository) Get(ctx context.Context, owner, id string) (*domain.Transaction, error) {
	var t *domain.Transaction

	err := r.snapshot(ctx, func(q *generated.Queries) error {
		row, err := q.GetTransaction(ctx, generated.GetTransactionParams{ID: id, Owner: owner})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrTransactionNotFound
			}

			return translateError(err)
		}

		rows, err := q.GetEntriesByTransaction(ctx, id)
		if err != nil {
			return translateError(err)
		}

		t = rowToTransaction(row)
		t.Entries = entryRowsToEntries(rows)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

// GetMany returns the owner's transactions among ids, each with its entries.
func (r *TransactionRepository) GetMany(ctx context.Context, owner string, ids []string) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction

	err := r.snapshot(ctx, func(q *generated.Queries) error {
		rows, err := q.GetTransactionsByIDs(ctx, generated.GetTransactionsByIDsParams{
			Owner: owner,
			Ids:   ids,
		})
		if err != nil {
			return translateError(err)
		}

		transactions, err = hydrate(ctx, q, rows)

		return err
	})

	return transactions, err
}

// List returns a page of the owner's transactions, newest first.
func (r *TransactionRepository) List(ctx context.Context, owner string, filter usecase.TransactionListFilter) ([]*domain.Transaction, error) {
	params := generated.ListTransactionsParams{
		Owner:    owner,
		PageSize: int32(filter.Limit),
	}

	if filter.After != nil {
		params.AfterDate = timeToPgDate(filter.After.AfterDate)
		params.AfterCreatedAt = timeToPgTimestamptz(filter.After.AfterCreatedAt)
		params.AfterID = pgtype.Text{String: filter.After.AfterID, Valid: true}
	}

	if filter.Subtree != nil {
		params.Account = pgtype.Text{String: filter.Subtree.Name, Valid: true}
		params.AccountPattern = pgtype.Text{String: filter.Subtree.LikePattern, Valid: true}
	}

	var transactions []*domain.Transaction

	err := r.snapshot(ctx, func(q *generated.Queries) error {
		rows, err := q.ListTransactions(ctx, params)
		if err != nil {
			return translateError(err)
		}

		transactions, err = hydrate(ctx, q, rows)

		return err
	})

	return transactions, err
}

// hydrate loads all entries of rows in one query and attaches them in order.
func hydrate(ctx context.Context, q *generated.Queries, rows []generated.Transaction) ([]*domain.Transaction, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	transactions := make([]*domain.Transaction, 0, len(rows))
	byID := make(map[string]*domain.Transaction, len(rows))
	ids := make([]string, 0, len(rows))

	for _, row := range rows {
		t := rowToTransaction(row)
		transactions = append(transactions, t)
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	entryRows, err := q.GetEntriesByTransactionIDs(ctx, ids)
	if err != nil {
		return nil, translateError(err)
	}

	for _, row := range entryRows {
		if t, ok := byID[row.TransactionID]; ok {
			t.Entries = append(t.Entries, &domain.Entry{
				ID:            row.ID,
				TransactionID: row.TransactionID,
				Order:         int(row.Order),
				AccountID:     row.AccountID,
				AccountName:   row.AccountName,
				Currency:      domain.Currency{Code: row.Code, Symbol: row.Symbol, MinorUnits: int(row.MinorUnits)},
				Amount:        row.Amount,
			})
		}
	}

	return transactions, nil
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:        row.ID,
		Owner:     row.Owner,
		Date:      pgDateToTime(row.Date),
		Payee:     row.Payee,
		Notes:     row.Notes,
		CreatedAt: row.CreatedAt.Time.UTC(),
		UpdatedAt: row.UpdatedAt.Time.UTC(),
	}
}

func entryRowsToEntries(rows []generated.GetEntriesByTransactionRow) []*domain.Entry {
	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &domain.Entry{
			ID:            row.ID,
			TransactionID: row.TransactionID,
			Order:         int(row.Order),
			AccountID:     row.AccountID,
			AccountName:   row.AccountName,
			Currency:      domain.Currency{Code: row.Code, Symbol: row.Symbol, MinorUnits: int(row.MinorUnits)},
			Amount:        row.Amount,
		})
	}

	return entries
}
