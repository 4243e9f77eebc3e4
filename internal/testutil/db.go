// Package testutil provides a real PostgreSQL database for integration tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/infrastructure/postgres"
	"github.com/zeroedbooks/ledger/internal/infrastructure/postgres/generated"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB migrates the database named by DATABASE_URL and connects to it. The test
// is skipped in -short mode or when DATABASE_URL is unset.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := postgres.RunMigrations(dbURL, zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("failed to ping test database: %v", err)
	}

	db := &TestDB{
		Pool:    pool,
		Queries: generated.New(pool),
		t:       t,
	}
	t.Cleanup(db.Cleanup)

	return db
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all ledger data. Currencies are kept.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE transaction_entry, "transaction", account, outbox_events CASCADE;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// SeedCurrencies makes sure the given currencies exist.
func (db *TestDB) SeedCurrencies(ctx context.Context, currencies ...domain.Currency) {
	db.t.Helper()

	for _, c := range currencies {
		err := db.Queries.UpsertCurrency(ctx, generated.UpsertCurrencyParams{
			Code:       c.Code,
			Symbol:     c.Symbol,
			MinorUnits: int32(c.MinorUnits),
		})
		if err != nil {
			db.t.Fatalf("failed to seed currency %s: %v", c.Code, err)
		}
	}
}

// CountAccounts returns how many accounts owner has with the given name.
func (db *TestDB) CountAccounts(ctx context.Context, owner, name string) int {
	db.t.Helper()

	var n int
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM account WHERE owner = $1 AND name = $2`, owner, name).Scan(&n)
	if err != nil {
		db.t.Fatalf("failed to count accounts: %v", err)
	}

	return n
}

// CountEntries returns how many entries the transaction has.
func (db *TestDB) CountEntries(ctx context.Context, transactionID string) int {
	db.t.Helper()

	var n int
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transaction_entry WHERE transaction_id = $1`, transactionID).Scan(&n)
	if err != nil {
		db.t.Fatalf("failed to count entries: %v", err)
	}

	return n
}
