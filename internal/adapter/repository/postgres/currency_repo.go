package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/infrastructure/postgres/generated"
)

// CurrencyRepository implements usecase.CurrencyRepository.
type CurrencyRepository struct {
	queries *generated.Queries
}

// NewCurrencyRepository creates a new CurrencyRepository.
func NewCurrencyRepository(db generated.DBTX) *CurrencyRepository {
	return &CurrencyRepository{
		queries: generated.New(db),
	}
}

// Get retrieves a currency by code.
func (r *CurrencyRepository) Get(ctx context.Context, code string) (*domain.Currency, error) {
	row, err := r.queries.GetCurrency(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCurrencyNotFound, code)
		}

		return nil, translateError(err)
	}

	c := rowToCurrency(row)

	return &c, nil
}

// GetMany returns the known currencies among codes.
func (r *CurrencyRepository) GetMany(ctx context.Context, codes []string) (map[string]domain.Currency, error) {
	out := make(map[string]domain.Currency, len(codes))
	if len(codes) == 0 {
		return out, nil
	}

	rows, err := r.queries.GetCurrencies(ctx, codes)
	if err != nil {
		return nil, translateError(err)
	}

	for _, row := range rows {
		out[row.Code] = rowToCurrency(row)
	}

	return out, nil
}

// List returns every currency ordered by code.
func (r *CurrencyRepository) List(ctx context.Context) ([]domain.Currency, error) {
	rows, err := r.queries.ListCurrencies(ctx)
	if err != nil {
		return nil, translateError(err)
	}

	currencies := make([]domain.Currency, 0, len(rows))
	for _, row := range rows {
		currencies = append(currencies, rowToCurrency(row))
	}

	return currencies, nil
}

// Create inserts a currency; an existing code yields domain.ErrConflict.
func (r *CurrencyRepository) Create(ctx context.Context, c domain.Currency) error {
	return translateError(r.queries.CreateCurrency(ctx, generated.CreateCurrencyParams{
		Code:       c.Code,
		Symbol:     c.Symbol,
		MinorUnits: int32(c.MinorUnits),
	}))
}

// Upsert inserts or refreshes a currency.
func (r *CurrencyRepository) Upsert(ctx context.Context, c domain.Currency) error {
	return translateError(r.queries.UpsertCurrency(ctx, generated.UpsertCurrencyParams{
		Code:       c.Code,
		Symbol:     c.Symbol,
		MinorUnits: int32(c.MinorUnits),
	}))
}

// Delete removes a currency that no entry references.
func (r *CurrencyRepository) Delete(ctx context.Context, code string) error {
	affected, err := r.queries.DeleteCurrency(ctx, code)
	if err != nil {
		err = translateError(err)
		if errors.Is(err, domain.ErrReferentialIntegrity) {
			return fmt.Errorf("%w: %s", domain.ErrCurrencyInUse, code)
		}

		return err
	}

	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCurrencyNotFound, code)
	}

	return nil
}

func rowToCurrency(row generated.Currency) domain.Currency {
	return domain.Currency{
		Code:       row.Code,
		Symbol:     row.Symbol,
		MinorUnits: int(row.MinorUnits),
	}
}
