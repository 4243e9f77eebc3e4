package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroedbooks/ledger/internal/adapter/http/dto"
	"github.com/zeroedbooks/ledger/internal/adapter/http/middleware"
	"github.com/zeroedbooks/ledger/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"transaction not found", domain.ErrTransactionNotFound, http.StatusNotFound},
		{"wrapped currency not found", fmt.Errorf("%w: ZZZ", domain.ErrCurrencyNotFound), http.StatusNotFound},
		{"validation error", &domain.ValidationError{Field: "entries", Reason: "unbalanced"}, http.StatusBadRequest},
		{"empty payee", domain.ErrEmptyPayee, http.StatusBadRequest},
		{"currency in use", domain.ErrCurrencyInUse, http.StatusConflict},
		{"conflict", domain.ErrConflict, http.StatusConflict},
		{"storage unavailable", fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, errors.New("conn reset")), http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mapDomainError(tt.err))
		})
	}
}

func TestWriteDomainErrorIncludesUnbalanced(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	writeDomainError(rr, req, "invalid transaction", &domain.ValidationError{
		Field:      "entries",
		Reason:     "unbalanced",
		Unbalanced: map[string]int64{"USD": 5},
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "entries", resp.Field)
	assert.Equal(t, map[string]int64{"USD": 5}, resp.Unbalanced)
}

func TestWriteDomainErrorHidesInternalDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	writeDomainError(rr, req, "failed", errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b,"))
	assert.Nil(t, splitList(""))
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", stringsReader(`{"payee":"x"} {"payee":"y"}`))

	var v dto.CreateTransactionRequest
	assert.Error(t, decodeJSON(httptest.NewRecorder(), req, &v))
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", stringsReader(`{"payee":"x","amount":3}`))

	var v dto.CreateTransactionRequest
	assert.Error(t, decodeJSON(httptest.NewRecorder(), req, &v))
}

func TestRequireOwner(t *testing.T) {
	rr := httptest.NewRecorder()
	_, ok := requireOwner(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithOwner(req.Context(), "user-1"))
	owner, ok := requireOwner(httptest.NewRecorder(), req)
	assert.True(t, ok)
	assert.Equal(t, "user-1", owner)
}
