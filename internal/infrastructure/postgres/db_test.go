package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoolConfig(t *testing.T) {
	config, err := parsePoolConfig(PoolConfig{
		DatabaseURL:    "postgres://ledger:secret@db:5432/ledger",
		MaxConns:       12,
		MinConns:       3,
		ConnectTimeout: 2 * time.Second,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 12, config.MaxConns)
	assert.EqualValues(t, 3, config.MinConns)
	assert.Equal(t, 2*time.Second, config.ConnConfig.ConnectTimeout)
	assert.Equal(t, ApplicationName, config.ConnConfig.RuntimeParams["application_name"])
	assert.NotContains(t, config.ConnConfig.RuntimeParams, "default_transaction_read_only")
}

func TestParsePoolConfigReplica(t *testing.T) {
	config, err := parsePoolConfig(PoolConfig{
		DatabaseURL: "postgres://ledger@replica:5432/ledger?application_name=reports",
		ReadOnly:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, "reports", config.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "on", config.ConnConfig.RuntimeParams["default_transaction_read_only"])
}

func TestOpenRejectsBadURL(t *testing.T) {
	_, err := Open(context.Background(), PoolConfig{DatabaseURL: "not-a-url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse database url")
}

func TestOpenGivesUpWhenUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := Open(ctx, PoolConfig{
		DatabaseURL:    "postgres://ledger@127.0.0.1:1/ledger",
		MaxConns:       1,
		ConnectTimeout: 200 * time.Millisecond,
		PingAttempts:   1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping database")
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
	assert.Zero(t, len(entries)%2, "expected paired up/down migrations")
}
