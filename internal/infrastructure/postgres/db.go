package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ApplicationName is reported to Postgres so ledger sessions are visible in pg_stat_activity.
const ApplicationName = "zeroedbooks-ledger"

const defaultPingAttempts = 5

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	DatabaseURL     string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	ConnectTimeout  time.Duration

	// ReadOnly marks every session read-only. Used for the replica pool.
	ReadOnly bool
	// PingAttempts bounds the startup ping. Zero means defaultPingAttempts.
	PingAttempts uint64
}

// Open creates a pool and waits for the database to answer a ping, retrying with
// exponential backoff while it starts up.
func Open(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	config, err := parsePoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	attempts := cfg.PingAttempts
	if attempts == 0 {
		attempts = defaultPingAttempts
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second

	err = backoff.RetryNotify(
		func() error { return pool.Ping(ctx) },
		backoff.WithContext(backoff.WithMaxRetries(b, attempts-1), ctx),
		func(err error, wait time.Duration) {
			zerolog.Ctx(ctx).Warn().Err(err).Dur("wait", wait).Str("host", config.ConnConfig.Host).Msg("database not ready")
		},
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

func parsePoolConfig(cfg PoolConfig) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if cfg.MaxConns > 0 {
		config.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		config.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		config.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.ConnectTimeout > 0 {
		config.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	params := config.ConnConfig.RuntimeParams
	if _, ok := params["application_name"]; !ok {
		params["application_name"] = ApplicationName
	}
	if cfg.ReadOnly {
		params["default_transaction_read_only"] = "on"
	}

	return config, nil
}
