package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Options configures Connect. Zero values fall back to the package defaults.
type Options struct {
	URL          string
	PingTimeout  time.Duration
	PingAttempts uint64
	MaxWait      time.Duration
}

const (
	defaultPingTimeout  = 5 * time.Second
	defaultPingAttempts = 3
	defaultMaxWait      = 2 * time.Second
)

func (o Options) withDefaults() Options {
	if o.PingTimeout <= 0 {
		o.PingTimeout = defaultPingTimeout
	}
	if o.PingAttempts == 0 {
		o.PingAttempts = defaultPingAttempts
	}
	if o.MaxWait <= 0 {
		o.MaxWait = defaultMaxWait
	}
	return o
}

// Connect opens a client for opts.URL and waits until the server answers PING,
// retrying with exponential backoff. The client is closed when every attempt fails.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	opts = opts.withDefaults()

	parsed, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(parsed)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = opts.MaxWait

	attempt := 0
	ping := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
		defer cancel()
		return client.Ping(pingCtx).Err()
	}
	notify := func(err error, wait time.Duration) {
		zerolog.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("redis not ready")
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, opts.PingAttempts-1), ctx)
	if err := backoff.RetryNotify(ping, policy, notify); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis after %d attempts: %w", attempt, err)
	}

	return client, nil
}
