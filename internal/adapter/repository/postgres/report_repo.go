package postgres

import (
	"context"

	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/infrastructure/postgres/generated"
)

// ReportRepository implements usecase.ReportRepository. It only reads, so it may be
// given a replica pool.
type ReportRepository struct {
	queries *generated.Queries
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db generated.DBTX) *ReportRepository {
	return &ReportRepository{
		queries: generated.New(db),
	}
}

// TotalByCurrency sums the subtree's entries per currency.
func (r *ReportRepository) TotalByCurrency(ctx context.Context, owner string, subtree domain.Subtree) ([]domain.CurrencyAmount, error) {
	rows, err := r.queries.TotalByCurrency(ctx, generated.TotalByCurrencyParams{
		Owner:          owner,
		Account:        subtree.Name,
		AccountPattern: subtree.LikePattern,
	})
	if err != nil {
		return nil, translateError(err)
	}

	totals := make([]domain.CurrencyAmount, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, domain.CurrencyAmount{
			Currency: domain.Currency{Code: row.Code, Symbol: row.Symbol, MinorUnits: int(row.MinorUnits)},
			Amount:   row.Total,
		})
	}

	return totals, nil
}

// DailySums returns the subtree's net amount per date and currency over all history.
func (r *ReportRepository) DailySums(ctx context.Context, owner string, subtree domain.Subtree) ([]domain.DailySum, error) {
	rows, err := r.queries.DailySums(ctx, generated.DailySumsParams{
		Owner:          owner,
		Account:        subtree.Name,
		AccountPattern: subtree.LikePattern,
	})
	if err != nil {
		return nil, translateError(err)
	}

	sums := make([]domain.DailySum, 0, len(rows))
	for _, row := range rows {
		sums = append(sums, domain.DailySum{
			Date:     pgDateToTime(row.Date),
			Currency: domain.Currency{Code: row.Code, Symbol: row.Symbol, MinorUnits: int(row.MinorUnits)},
			Amount:   row.Total,
		})
	}

	return sums, nil
}
