package dto

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/usecase"
)

func TestCreateTransactionRequest_ToUseCaseInput(t *testing.T) {
	var req CreateTransactionRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"date": "2024-03-15",
		"payee": "Grocer",
		"entries": [
			{"account": "Expenses:Food", "currency": "USD", "amount": 1250},
			{"account": "Assets:Cash"}
		]
	}`), &req))

	got, err := req.ToUseCaseInput("user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", got.Owner)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got.Date)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, int64(1250), *got.Entries[0].Amount)
	assert.Nil(t, got.Entries[1].Amount)
	assert.Equal(t, "", got.Entries[1].Currency)
}

func TestCreateTransactionRequest_BadDate(t *testing.T) {
	tests := []string{"", "15/03/2024", "2024-13-01"}

	for _, date := range tests {
		req := CreateTransactionRequest{Date: date, Payee: "x"}

		_, err := req.ToUseCaseInput("user-1")

		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr), "date %q", date)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestUpdateTransactionRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantEntries []usecase.EntryInput
		keepEntries bool
	}{
		{
			name:        "header only keeps entries",
			body:        `{"payee": "New payee"}`,
			keepEntries: true,
		},
		{
			name:        "empty list replaces with nothing",
			body:        `{"entries": []}`,
			wantEntries: []usecase.EntryInput{},
		},
		{
			name: "entries replace",
			body: `{"entries": [{"account": "A", "currency": "EUR", "amount": 0}]}`,
			wantEntries: []usecase.EntryInput{
				{AccountName: "A", Currency: "EUR", Amount: ptr(int64(0))},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateTransactionRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			got, err := req.ToUseCaseInput("user-1", "txn-1")
			require.NoError(t, err)
			assert.Equal(t, "txn-1", got.ID)

			if tt.keepEntries {
				assert.Nil(t, got.Entries)
				return
			}

			assert.NotNil(t, got.Entries)
			assert.Equal(t, tt.wantEntries, got.Entries)
		})
	}
}

func TestUpdateTransactionRequest_ParsesDate(t *testing.T) {
	date := "2023-12-31"
	req := UpdateTransactionRequest{Date: &date}

	got, err := req.ToUseCaseInput("user-1", "txn-1")
	require.NoError(t, err)
	require.NotNil(t, got.Date)
	assert.Equal(t, 2023, got.Date.Year())

	bad := "yesterday"
	req.Date = &bad
	_, err = req.ToUseCaseInput("user-1", "txn-1")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func ptr[T any](v T) *T { return &v }
