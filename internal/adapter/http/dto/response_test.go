package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroedbooks/ledger/internal/domain"
)

var (
	usd = domain.Currency{Code: "USD", Symbol: "$", MinorUnits: 2}
	jpy = domain.Currency{Code: "JPY", Symbol: "¥", MinorUnits: 0}
)

func TestAmountFromDomain(t *testing.T) {
	got := AmountFromDomain(usd, -1250)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, int64(-1250), got.Amount)
	assert.Equal(t, "-12.50", got.Value)

	assert.Equal(t, "500", AmountFromDomain(jpy, 500).Value)
}

func TestTransactionFromDomain(t *testing.T) {
	created := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	txn := &domain.Transaction{
		ID:        "txn-1",
		Date:      time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Payee:     "Landlord",
		CreatedAt: created,
		UpdatedAt: created,
		Entries: []*domain.Entry{
			{ID: "e1", Order: 0, AccountName: "Expenses:Rent", Currency: usd, Amount: 100000},
			{ID: "e2", Order: 1, AccountName: "Assets:Bank", Currency: usd, Amount: -100000},
		},
	}

	resp := TransactionFromDomain(txn)
	assert.Equal(t, "2024-04-01", resp.Date)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "Assets:Bank", resp.Entries[1].Account)
	assert.Equal(t, "-1000.00", resp.Entries[1].Value)

	raw, err := json.Marshal(resp.Entries[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"account":"Expenses:Rent"`)
	assert.Contains(t, string(raw), `"amount":100000`)
}

func TestTrendFromDomain(t *testing.T) {
	points := []domain.TrendPoint{
		{BucketStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Currency: usd, Amount: 300, RunningTotal: 1300},
	}

	resp := TrendFromDomain("Assets", domain.BucketMonth, points)
	assert.Equal(t, "month", resp.Interval)
	require.Len(t, resp.Points, 1)
	assert.Equal(t, "2024-01-01", resp.Points[0].BucketStart)
	assert.Equal(t, int64(300), resp.Points[0].Change.Amount)
	assert.Equal(t, "13.00", resp.Points[0].RunningTotal.Value)
}

func TestBalanceFromDomain(t *testing.T) {
	resp := BalanceFromDomain("Assets", []domain.CurrencyAmount{{Currency: jpy, Amount: 700}})
	assert.Equal(t, "Assets", resp.Account)
	require.Len(t, resp.Totals, 1)
	assert.Equal(t, "JPY", resp.Totals[0].Currency)
}
