package handler

import (
	"context"
	"net/http"

	"github.com/zeroedbooks/ledger/internal/adapter/http/dto"
	"github.com/zeroedbooks/ledger/internal/domain"
)

// CurrencyService defines the behavior needed by CurrencyHandler.
type CurrencyService interface {
	Get(ctx context.Context, code string) (*domain.Currency, error)
	List(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyHandler serves the currency catalog.
type CurrencyHandler struct {
	currencies CurrencyService
	retrier    Retrier
}

// NewCurrencyHandler creates a new CurrencyHandler. retrier may be nil.
func NewCurrencyHandler(currencies CurrencyService, retrier Retrier) *CurrencyHandler {
	return &CurrencyHandler{currencies: currencies, retrier: retrierOrOnce(retrier)}
}

// List returns every known currency.
func (h *CurrencyHandler) List(w http.ResponseWriter, r *http.Request) {
	var currencies []domain.Currency
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		currencies, err = h.currencies.List(r.Context())
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to list currencies", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CurrenciesFromDomain(currencies))
}

// Get returns one currency by code.
func (h *CurrencyHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := pathParam(r, "code")

	var currency *domain.Currency
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		currency, err = h.currencies.Get(r.Context(), code)
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to get currency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CurrencyFromDomain(*currency))
}
