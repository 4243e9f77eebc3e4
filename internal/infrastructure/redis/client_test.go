package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	s := miniredis.RunT(t)
	ctx := context.Background()

	client, err := Connect(ctx, Options{URL: "redis://" + s.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(ctx, "currency:USD", "$", 0).Err())
	got, err := s.Get("currency:USD")
	require.NoError(t, err)
	assert.Equal(t, "$", got)
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), Options{URL: "://bad-url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}

func TestConnectGivesUpWhenServerIsDown(t *testing.T) {
	s := miniredis.RunT(t)
	url := "redis://" + s.Addr()
	s.Close()

	_, err := Connect(context.Background(), Options{
		URL:          url,
		PingTimeout:  200 * time.Millisecond,
		PingAttempts: 2,
		MaxWait:      10 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{URL: "redis://localhost:6379"}.withDefaults()
	assert.Equal(t, defaultPingTimeout, o.PingTimeout)
	assert.Equal(t, uint64(defaultPingAttempts), o.PingAttempts)
	assert.Equal(t, defaultMaxWait, o.MaxWait)

	o = Options{PingAttempts: 7}.withDefaults()
	assert.Equal(t, uint64(7), o.PingAttempts)
}
