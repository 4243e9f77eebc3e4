package handler

import (
	"context"
	"net/http"

	"github.com/zeroedbooks/ledger/internal/adapter/http/dto"
	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	Suggestions(ctx context.Context, owner, search string) ([]string, error)
}

// BalanceService defines the aggregate reads needed by AccountHandler.
type BalanceService interface {
	TotalByCurrency(ctx context.Context, owner, account string) ([]domain.CurrencyAmount, error)
	Trend(ctx context.Context, input usecase.TrendInput) ([]domain.TrendPoint, error)
}

// AccountHandler serves account suggestions and balances.
type AccountHandler struct {
	accounts AccountService
	balances BalanceService
	retrier  Retrier
}

// NewAccountHandler creates a new AccountHandler. retrier may be nil.
func NewAccountHandler(accounts AccountService, balances BalanceService, retrier Retrier) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		balances: balances,
		retrier:  retrierOrOnce(retrier),
	}
}

// Suggestions lists account names for autocompletion.
func (h *AccountHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var names []string
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		names, err = h.accounts.Suggestions(r.Context(), owner, r.URL.Query().Get("query"))
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to list accounts", err)
		return
	}

	if names == nil {
		names = []string{}
	}

	writeJSON(w, http.StatusOK, dto.SuggestionsResponse{Accounts: names})
}

// Balance returns the subtree total per currency.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	account := pathParam(r, "account")

	var totals []domain.CurrencyAmount
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		totals, err = h.balances.TotalByCurrency(r.Context(), owner, account)
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(account, totals))
}

// Trend returns the subtree balance per bucket over the last year. The interval
// defaults to month.
func (h *AccountHandler) Trend(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	unit := domain.BucketMonth
	interval := r.URL.Query().Get("interval")

	var err error
	if interval != "" {
		unit, err = domain.ParseBucketUnit(interval)
	}
	if err != nil {
		writeDomainError(w, r, "invalid interval", err)
		return
	}

	account := pathParam(r, "account")

	var points []domain.TrendPoint
	err = h.retrier.Retry(r.Context(), func() error {
		var err error
		points, err = h.balances.Trend(r.Context(), usecase.TrendInput{Owner: owner, Account: account, Unit: unit})
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to get trend", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrendFromDomain(account, unit, points))
}
