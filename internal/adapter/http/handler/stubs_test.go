package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zeroedbooks/ledger/internal/adapter/http/middleware"
	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/usecase"
)

var usd = domain.Currency{Code: "USD", Symbol: "$", MinorUnits: 2}

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

// ownedRequest builds a request for owner with chi URL params set.
func ownedRequest(method, target, body, owner string, params map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if owner != "" {
		ctx = middleware.WithOwner(ctx, owner)
	}

	return req.WithContext(ctx)
}

type transactionServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	updateFn  func(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	deleteFn  func(ctx context.Context, owner, id string) error
	getFn     func(ctx context.Context, owner, id string) (*domain.Transaction, error)
	getManyFn func(ctx context.Context, owner string, ids []string) ([]*domain.Transaction, error)
	listFn    func(ctx context.Context, input usecase.ListTransactionsInput) (*usecase.TransactionPage, error)
}

func (s *transactionServiceStub) Create(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
	return s.createFn(ctx, input)
}

func (s *transactionServiceStub) Update(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error) {
	return s.updateFn(ctx, input)
}

func (s *transactionServiceStub) Delete(ctx context.Context, owner, id string) error {
	return s.deleteFn(ctx, owner, id)
}

func (s *transactionServiceStub) Get(ctx context.Context, owner, id string) (*domain.Transaction, error) {
	return s.getFn(ctx, owner, id)
}

func (s *transactionServiceStub) GetMany(ctx context.Context, owner string, ids []string) ([]*domain.Transaction, error) {
	return s.getManyFn(ctx, owner, ids)
}

func (s *transactionServiceStub) List(ctx context.Context, input usecase.ListTransactionsInput) (*usecase.TransactionPage, error) {
	return s.listFn(ctx, input)
}

type accountServiceStub struct {
	suggestionsFn func(ctx context.Context, owner, search string) ([]string, error)
}

func (s *accountServiceStub) Suggestions(ctx context.Context, owner, search string) ([]string, error) {
	return s.suggestionsFn(ctx, owner, search)
}

type balanceServiceStub struct {
	totalFn func(ctx context.Context, owner, account string) ([]domain.CurrencyAmount, error)
	trendFn func(ctx context.Context, input usecase.TrendInput) ([]domain.TrendPoint, error)
}

func (s *balanceServiceStub) TotalByCurrency(ctx context.Context, owner, account string) ([]domain.CurrencyAmount, error) {
	return s.totalFn(ctx, owner, account)
}

func (s *balanceServiceStub) Trend(ctx context.Context, input usecase.TrendInput) ([]domain.TrendPoint, error) {
	return s.trendFn(ctx, input)
}

type currencyServiceStub struct {
	getFn  func(ctx context.Context, code string) (*domain.Currency, error)
	listFn func(ctx context.Context) ([]domain.Currency, error)
}

func (s *currencyServiceStub) Get(ctx context.Context, code string) (*domain.Currency, error) {
	return s.getFn(ctx, code)
}

func (s *currencyServiceStub) List(ctx context.Context) ([]domain.Currency, error) {
	return s.listFn(ctx)
}

// countingRetrier retries up to max extra times on any error.
type countingRetrier struct {
	max   int
	calls int
}

func (r *countingRetrier) Retry(_ context.Context, operation func() error) error {
	var err error
	for i := 0; i <= r.max; i++ {
		r.calls++
		if err = operation(); err == nil {
			return nil
		}
	}

	return err
}
