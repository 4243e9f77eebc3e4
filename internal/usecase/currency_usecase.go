package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/zeroedbooks/ledger/internal/domain"
)

// DefaultSeedCurrencies are seeded when no codes are given.
var DefaultSeedCurrencies = []string{"USD", "EUR", "GBP", "JPY", "CHF", "CAD", "AUD"}

// CurrencyUseCase manages the currency catalog.
type CurrencyUseCase struct {
	currencyRepo CurrencyRepository
}

// NewCurrencyUseCase creates a new CurrencyUseCase.
func NewCurrencyUseCase(currencyRepo CurrencyRepository) *CurrencyUseCase {
	return &CurrencyUseCase{currencyRepo: currencyRepo}
}

// Get returns a currency or domain.ErrCurrencyNotFound.
func (uc *CurrencyUseCase) Get(ctx context.Context, code string) (*domain.Currency, error) {
	return uc.currencyRepo.Get(ctx, domain.NormalizeCurrencyCode(code))
}

// GetMany returns the known currencies among codes, keyed by code.
func (uc *CurrencyUseCase) GetMany(ctx context.Context, codes []string) (map[string]domain.Currency, error) {
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		normalized = append(normalized, domain.NormalizeCurrencyCode(code))
	}

	return uc.currencyRepo.GetMany(ctx, normalized)
}

// List returns the whole catalog.
func (uc *CurrencyUseCase) List(ctx context.Context) ([]domain.Currency, error) {
	return uc.currencyRepo.List(ctx)
}

// Create adds a currency to the catalog.
func (uc *CurrencyUseCase) Create(ctx context.Context, currency domain.Currency) (*domain.Currency, error) {
	currency.Code = domain.NormalizeCurrencyCode(currency.Code)

	if err := currency.Validate(); err != nil {
		return nil, err
	}

	if err := uc.currencyRepo.Create(ctx, currency); err != nil {
		return nil, err
	}

	return &currency, nil
}

// Delete removes a currency no entry references.
func (uc *CurrencyUseCase) Delete(ctx context.Context, code string) error {
	return uc.currencyRepo.Delete(ctx, domain.NormalizeCurrencyCode(code))
}

// Seed upserts ISO 4217 metadata for codes, or DefaultSeedCurrencies when codes is empty.
func (uc *CurrencyUseCase) Seed(ctx context.Context, codes []string) ([]domain.Currency, error) {
	if len(codes) == 0 {
		codes = DefaultSeedCurrencies
	}

	seeded := make([]domain.Currency, 0, len(codes))
	for _, code := range codes {
		code = domain.NormalizeCurrencyCode(code)

		currency, ok := domain.CurrencyFromISO(code)
		if !ok {
			return seeded, fmt.Errorf("%w: %s is not an ISO 4217 code", domain.ErrInvalidCurrency, code)
		}

		if err := uc.currencyRepo.Upsert(ctx, currency); err != nil {
			return seeded, err
		}

		zerolog.Ctx(ctx).Info().Str("currency", code).Msg("currency seeded")

		seeded = append(seeded, currency)
	}

	return seeded, nil
}
