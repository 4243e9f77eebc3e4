package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/zeroedbooks/ledger/internal/domain"
)

// AccountUseCase provisions accounts by name and answers account lookups.
type AccountUseCase struct {
	txManager   TxManager
	accountRepo AccountRepository
	idGen       IDGenerator
	metrics     Metrics
	now         Clock
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(txManager TxManager, accountRepo AccountRepository, idGen IDGenerator, metrics Metrics) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		idGen:       idGen,
		metrics:     metrics,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source.
func (uc *AccountUseCase) WithClock(now Clock) *AccountUseCase {
	uc.now = now
	return uc
}

// GetOrCreate returns the owner's account with the given name, creating it if needed.
func (uc *AccountUseCase) GetOrCreate(ctx context.Context, owner, name string) (*domain.Account, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.GetOrCreateTx(ctx, tx, owner, name)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

// GetOrCreateTx provisions the account inside the caller's transaction. Each attempt
// runs in a savepoint: read, otherwise insert, and on a unique violation roll the
// savepoint back and read again. The loop has no bound; a conflict means another
// writer has just committed the row, so the next read sees it.
func (uc *AccountUseCase) GetOrCreateTx(ctx context.Context, tx Tx, owner, name string) (*domain.Account, error) {
	name, err := domain.NormalizeAccountName(name)
	if err != nil {
		return nil, err
	}

	for {
		account, err := uc.provisionOnce(ctx, tx, owner, name)
		if err == nil {
			return account, nil
		}

		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}

		if uc.metrics != nil {
			uc.metrics.AccountConflict()
		}

		zerolog.Ctx(ctx).Debug().
			Str("owner", owner).
			Str("account", name).
			Msg("account insert raced, retrying lookup")
	}
}

func (uc *AccountUseCase) provisionOnce(ctx context.Context, tx Tx, owner, name string) (*domain.Account, error) {
	sp, err := tx.Savepoint(ctx)
	if err != nil {
		return nil, err
	}
	defer sp.Rollback(ctx)

	account, err := uc.accountRepo.GetByName(ctx, sp, owner, name)
	if err == nil {
		return account, sp.Commit(ctx)
	}

	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	account = &domain.Account{
		ID:        uc.idGen.Generate(),
		Owner:     owner,
		Name:      name,
		CreatedAt: uc.now(),
	}

	if err := uc.accountRepo.Create(ctx, sp, account); err != nil {
		return nil, err
	}

	if err := sp.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountCreated()
	}

	return account, nil
}

// Suggestions lists account names for autocomplete. An empty search returns the
// accounts used in the last year; otherwise the most used names matching search.
func (uc *AccountUseCase) Suggestions(ctx context.Context, owner, search string) ([]string, error) {
	if search == "" {
		return uc.accountRepo.ListActiveNames(ctx, owner, uc.now().Add(-ActiveAccountWindow))
	}

	return uc.accountRepo.SearchByPopularity(ctx, owner, search, SuggestionLimit)
}
