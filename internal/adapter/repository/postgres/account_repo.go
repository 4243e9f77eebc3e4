package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/infrastructure/postgres/generated"
	"github.com/zeroedbooks/ledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	// reader serves lookups that do not need read-your-writes.
	reader *generated.Queries
}

// NewAccountRepository creates a new AccountRepository. reader may be a replica pool.
func NewAccountRepository(reader generated.DBTX) *AccountRepository {
	return &AccountRepository{
		reader: generated.New(reader),
	}
}

// GetByName retrieves an account by owner and name.
func (r *AccountRepository) GetByName(ctx context.Context, tx usecase.Tx, owner, name string) (*domain.Account, error) {
	row, err := txQueries(tx).GetAccountByName(ctx, generated.GetAccountByNameParams{
		Owner: owner,
		Name:  name,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, translateError(err)
	}

	return rowToAccount(row), nil
}

// Create inserts a new account. A concurrent insert of the same name yields domain.ErrConflict.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Tx, account *domain.Account) error {
	err := txQueries(tx).CreateAccount(ctx, generated.CreateAccountParams{
		ID:        account.ID,
		Owner:     account.Owner,
		Name:      account.Name,
		CreatedAt: timeToPgTimestamptz(account.CreatedAt),
	})

	return translateError(err)
}

// ListActiveNames lists account names used by transactions created since the given time.
func (r *AccountRepository) ListActiveNames(ctx context.Context, owner string, since time.Time) ([]string, error) {
	names, err := r.reader.ListActiveAccountNames(ctx, generated.ListActiveAccountNamesParams{
		Owner:     owner,
		CreatedAt: timeToPgTimestamptz(since),
	})
	if err != nil {
		return nil, translateError(err)
	}

	return names, nil
}

// SearchByPopularity returns names containing search, most used first.
func (r *AccountRepository) SearchByPopularity(ctx context.Context, owner, search string, limit int) ([]string, error) {
	names, err := r.reader.SearchAccountsByPopularity(ctx, generated.SearchAccountsByPopularityParams{
		Owner:      owner,
		Pattern:    domain.ContainsPattern(search),
		MaxResults: int32(limit),
	})
	if err != nil {
		return nil, translateError(err)
	}

	return names, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:        row.ID,
		Owner:     row.Owner,
		Name:      row.Name,
		CreatedAt: row.CreatedAt.Time,
	}
}

// Type conversion helpers.
func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func timeToPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: domain.DateOnly(t), Valid: true}
}

func pgDateToTime(d pgtype.Date) time.Time {
	return domain.DateOnly(d.Time)
}
