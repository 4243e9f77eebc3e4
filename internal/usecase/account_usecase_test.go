package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/usecase"
	"github.com/zeroedbooks/ledger/internal/usecase/mocks"
)

type accountFixture struct {
	uc      *usecase.AccountUseCase
	txm     *mocks.MockTxManager
	repo    *mocks.MockAccountRepository
	metrics *mocks.MockMetrics
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		txm:     mocks.NewMockTxManager(),
		repo:    mocks.NewMockAccountRepository(),
		metrics: &mocks.MockMetrics{},
	}
	f.uc = usecase.NewAccountUseCase(f.txm, f.repo, mocks.NewMockIDGenerator(), f.metrics)

	return f
}

func TestAccountUseCase_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()

	created, err := f.uc.GetOrCreate(ctx, "alice", " Expenses:Food ")
	require.NoError(t, err)
	assert.Equal(t, "Expenses:Food", created.Name)
	assert.Equal(t, "alice", created.Owner)

	again, err := f.uc.GetOrCreate(ctx, "alice", "Expenses:Food")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	other, err := f.uc.GetOrCreate(ctx, "bob", "Expenses:Food")
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, other.ID)

	assert.Equal(t, 2, f.repo.Count())

	for _, tx := range f.txm.Txs() {
		assert.True(t, tx.Committed())
		assert.Equal(t, 1, tx.Savepoints())
	}

	createdCount, conflicts := f.metrics.Snapshot()
	assert.Equal(t, 2, createdCount)
	assert.Zero(t, conflicts)
}

func TestAccountUseCase_GetOrCreate_InvalidName(t *testing.T) {
	f := newAccountFixture()

	_, err := f.uc.GetOrCreate(context.Background(), "alice", "   ")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, f.repo.Count())
	require.Len(t, f.txm.Txs(), 1)
	assert.False(t, f.txm.Txs()[0].Committed())
}

func TestAccountUseCase_GetOrCreate_AbortsOnOtherErrors(t *testing.T) {
	f := newAccountFixture()
	storageErr := errors.New("connection reset")
	f.repo.CreateFunc = func(context.Context, usecase.Tx, *domain.Account) error {
		return storageErr
	}

	_, err := f.uc.GetOrCreate(context.Background(), "alice", "Assets:Cash")
	require.ErrorIs(t, err, storageErr)

	tx := f.txm.Txs()[0]
	assert.False(t, tx.Committed())
	assert.True(t, tx.RolledBack())
}

func TestAccountUseCase_GetOrCreate_ConcurrentCallersShareOneRow(t *testing.T) {
	const workers = 16

	f := newAccountFixture()

	// Every worker misses on its first lookup, so all of them race on insert.
	var calls atomic.Int32
	var arrived sync.WaitGroup
	arrived.Add(workers)

	f.repo.GetByNameFunc = func(_ context.Context, _ usecase.Tx, owner, name string) (*domain.Account, error) {
		if calls.Add(1) <= workers {
			arrived.Done()
			arrived.Wait()
			return nil, domain.ErrAccountNotFound
		}
		return f.repo.FindByName(owner, name)
	}

	ids := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			acc, err := f.uc.GetOrCreate(context.Background(), "alice", "Assets:Bank")
			errs[i] = err
			if acc != nil {
				ids[i] = acc.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	assert.Equal(t, 1, f.repo.Count())

	created, conflicts := f.metrics.Snapshot()
	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
}

func TestAccountUseCase_Suggestions(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty search lists active accounts", func(t *testing.T) {
		f := newAccountFixture()
		f.uc.WithClock(func() time.Time { return now })

		var since time.Time
		f.repo.ListActiveNamesFunc = func(_ context.Context, owner string, s time.Time) ([]string, error) {
			assert.Equal(t, "alice", owner)
			since = s
			return []string{"Assets:Cash", "Expenses:Food"}, nil
		}

		names, err := f.uc.Suggestions(context.Background(), "alice", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"Assets:Cash", "Expenses:Food"}, names)
		assert.Equal(t, now.Add(-usecase.ActiveAccountWindow), since)
	})

	t.Run("search ranks by popularity", func(t *testing.T) {
		f := newAccountFixture()

		f.repo.SearchByPopularityFunc = func(_ context.Context, owner, search string, limit int) ([]string, error) {
			assert.Equal(t, "food", search)
			assert.Equal(t, usecase.SuggestionLimit, limit)
			return []string{"Expenses:Food"}, nil
		}

		names, err := f.uc.Suggestions(context.Background(), "alice", "food")
		require.NoError(t, err)
		assert.Equal(t, []string{"Expenses:Food"}, names)
	})
}
