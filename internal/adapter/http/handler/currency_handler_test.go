package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroedbooks/ledger/internal/domain"
)

func TestCurrencyHandler_List(t *testing.T) {
	h := NewCurrencyHandler(&currencyServiceStub{
		listFn: func(ctx context.Context) ([]domain.Currency, error) {
			return []domain.Currency{usd}, nil
		},
	}, nil)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"code":"USD","symbol":"$","minor_units":2}]`, rr.Body.String())
}

func TestCurrencyHandler_Get(t *testing.T) {
	h := NewCurrencyHandler(&currencyServiceStub{
		getFn: func(ctx context.Context, code string) (*domain.Currency, error) {
			if code == "USD" {
				return &usd, nil
			}
			return nil, domain.ErrCurrencyNotFound
		},
	}, nil)

	rr := httptest.NewRecorder()
	h.Get(rr, ownedRequest(http.MethodGet, "/", "", "", map[string]string{"code": "USD"}))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Get(rr, ownedRequest(http.MethodGet, "/", "", "", map[string]string{"code": "ZZZ"}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealthHandler(t *testing.T) {
	healthy := PingFunc(func(ctx context.Context) error { return nil })
	broken := PingFunc(func(ctx context.Context) error { return errors.New("down") })

	rr := httptest.NewRecorder()
	NewHealthHandler().Liveness(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	NewHealthHandler().With("postgres", healthy).Readiness(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ready","postgres":"ok"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	NewHealthHandler().With("postgres", healthy).With("redis", broken).
		Readiness(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "redis unhealthy")
}
