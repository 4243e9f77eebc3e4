package usecase

import (
	"context"
	"time"

	"github.com/zeroedbooks/ledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	// GetByName returns domain.ErrAccountNotFound when (owner, name) does not exist.
	GetByName(ctx context.Context, tx Tx, owner, name string) (*domain.Account, error)
	// Create returns domain.ErrConflict when (owner, name) already exists.
	Create(ctx context.Context, tx Tx, account *domain.Account) error
	ListActiveNames(ctx context.Context, owner string, since time.Time) ([]string, error)
	SearchByPopularity(ctx context.Context, owner, search string, limit int) ([]string, error)
}

// TransactionHeaderPatch holds the header fields an update may change. Nil fields are kept.
type TransactionHeaderPatch struct {
	Date  *time.Time
	Payee *string
	Notes *string
}

// TransactionListFilter selects a page of an owner's transactions.
type TransactionListFilter struct {
	Subtree *domain.Subtree
	After   *domain.TransactionCursor
	Limit   int
}

// TransactionRepository defines data access for transactions and their entries.
type TransactionRepository interface {
	CreateHeader(ctx context.Context, tx Tx, transaction *domain.Transaction) error
	// UpdateHeader returns domain.ErrTransactionNotFound when no row matches (owner, id).
	UpdateHeader(ctx context.Context, tx Tx, owner, id string, patch TransactionHeaderPatch, now time.Time) (*domain.Transaction, error)
	// Delete returns domain.ErrTransactionNotFound when no row matches (owner, id).
	Delete(ctx context.Context, tx Tx, owner, id string) error
	InsertEntries(ctx context.Context, tx Tx, entries []*domain.Entry) error
	DeleteEntries(ctx context.Context, tx Tx, transactionID string) error
	GetEntries(ctx context.Context, tx Tx, transactionID string) ([]*domain.Entry, error)
	Get(ctx context.Context, owner, id string) (*domain.Transaction, error)
	GetMany(ctx context.Context, owner string, ids []string) ([]*domain.Transaction, error)
	List(ctx context.Context, owner string, filter TransactionListFilter) ([]*domain.Transaction, error)
}

// CurrencyRepository defines data access for the currency catalog.
type CurrencyRepository interface {
	Get(ctx context.Context, code string) (*domain.Currency, error)
	GetMany(ctx context.Context, codes []string) (map[string]domain.Currency, error)
	List(ctx context.Context) ([]domain.Currency, error)
	Create(ctx context.Context, currency domain.Currency) error
	Upsert(ctx context.Context, currency domain.Currency) error
	Delete(ctx context.Context, code string) error
}

// ReportRepository defines read-only aggregate queries over committed entries.
type ReportRepository interface {
	TotalByCurrency(ctx context.Context, owner string, subtree domain.Subtree) ([]domain.CurrencyAmount, error)
	DailySums(ctx context.Context, owner string, subtree domain.Subtree) ([]domain.DailySum, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Tx, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	// MarkFailed records a failed delivery attempt; the event stays pending.
	MarkFailed(ctx context.Context, id string, cause error) error
	// DeletePublished purges events published before the cutoff and reports how many.
	DeletePublished(ctx context.Context, before time.Time) (int64, error)
}

// Tx represents a database transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	// Savepoint starts a nested transaction. Committing it releases the savepoint,
	// rolling it back undoes only the work done inside it.
	Savepoint(ctx context.Context) (Tx, error)
}

// TxManager handles transaction lifecycle.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock returns the current time.
type Clock func() time.Time

// Metrics receives ledger-level counters. A nil Metrics is allowed.
type Metrics interface {
	AccountCreated()
	AccountConflict()
	TransactionWritten(operation string)
}

// IdempotentResponse is a stored reply to a write request carrying an Idempotency-Key.
type IdempotentResponse struct {
	// Pending is set while the first request with the key is still running.
	Pending    bool   `json:"pending,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Body       []byte `json:"body,omitempty"`
}

// IdempotencyStore remembers replies to write requests by key.
type IdempotencyStore interface {
	// Reserve claims key. It returns nil when the caller now owns the key, otherwise
	// the stored (possibly pending) response.
	Reserve(ctx context.Context, key string, ttl time.Duration) (*IdempotentResponse, error)
	// Complete stores the final response for a reserved key.
	Complete(ctx context.Context, key string, response IdempotentResponse, ttl time.Duration) error
	// Release drops a reservation so the request can be retried.
	Release(ctx context.Context, key string) error
}
