package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroedbooks/ledger/internal/usecase"
)

var _ usecase.Metrics = (*Metrics)(nil)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)
	m.AccountCreated()
	m.HTTPRequests.WithLabelValues("GET", "/health", "200").Inc()

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, metricFamilies)
}

func TestLedgerCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.AccountCreated()
	m.AccountCreated()
	m.AccountConflict()
	m.TransactionWritten("create")
	m.TransactionWritten("create")
	m.TransactionWritten("delete")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AccountsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccountConflicts))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TransactionWrites.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransactionWrites.WithLabelValues("delete")))
}

func TestNewTwiceOnSameRegistryPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	New(registry)

	assert.Panics(t, func() { New(registry) })
}
