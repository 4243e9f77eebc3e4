package usecase

import (
	"context"
	"time"

	"github.com/zeroedbooks/ledger/internal/domain"
)

// BalanceUseCase aggregates committed entries into balances and trends. It never writes.
type BalanceUseCase struct {
	reportRepo ReportRepository
	now        Clock
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(reportRepo ReportRepository) *BalanceUseCase {
	return &BalanceUseCase{
		reportRepo: reportRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source.
func (uc *BalanceUseCase) WithClock(now Clock) *BalanceUseCase {
	uc.now = now
	return uc
}

// TotalByCurrency sums the account subtree's entries per currency, ordered by code.
func (uc *BalanceUseCase) TotalByCurrency(ctx context.Context, owner, account string) ([]domain.CurrencyAmount, error) {
	name, err := domain.NormalizeAccountName(account)
	if err != nil {
		return nil, err
	}

	return uc.reportRepo.TotalByCurrency(ctx, owner, domain.SubtreeOf(name))
}

// TrendInput represents input for a trend query.
type TrendInput struct {
	Owner   string
	Account string
	Unit    domain.BucketUnit
}

// Trend returns running totals of the account subtree per bucket and currency,
// limited to buckets starting within the last year.
func (uc *BalanceUseCase) Trend(ctx context.Context, input TrendInput) ([]domain.TrendPoint, error) {
	name, err := domain.NormalizeAccountName(input.Account)
	if err != nil {
		return nil, err
	}

	unit, err := domain.ParseBucketUnit(string(input.Unit))
	if err != nil {
		return nil, err
	}

	sums, err := uc.reportRepo.DailySums(ctx, input.Owner, domain.SubtreeOf(name))
	if err != nil {
		return nil, err
	}

	return domain.BuildTrend(sums, unit, unit.WindowStart(uc.now())), nil
}
