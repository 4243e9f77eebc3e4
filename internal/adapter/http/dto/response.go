package dto

import (
	"time"

	"github.com/zeroedbooks/ledger/internal/domain"
)

// CurrencyResponse represents a currency in API responses.
type CurrencyResponse struct {
	Code       string `json:"code"`
	Symbol     string `json:"symbol"`
	MinorUnits int    `json:"minor_units"`
}

// CurrencyFromDomain converts a domain currency to response.
func CurrencyFromDomain(c domain.Currency) CurrencyResponse {
	return CurrencyResponse{Code: c.Code, Symbol: c.Symbol, MinorUnits: c.MinorUnits}
}

// CurrenciesFromDomain converts a list of currencies.
func CurrenciesFromDomain(currencies []domain.Currency) []CurrencyResponse {
	out := make([]CurrencyResponse, len(currencies))
	for i, c := range currencies {
		out[i] = CurrencyFromDomain(c)
	}

	return out
}

// AmountResponse is an amount in minor units with its decimal and display forms.
type AmountResponse struct {
	Currency  string `json:"currency"`
	Amount    int64  `json:"amount"`
	Value     string `json:"value"`
	Formatted string `json:"formatted"`
}

// AmountFromDomain renders amount in currency c.
func AmountFromDomain(c domain.Currency, amount int64) AmountResponse {
	return AmountResponse{
		Currency:  c.Code,
		Amount:    amount,
		Value:     c.Major(amount).StringFixed(int32(c.MinorUnits)),
		Formatted: c.Format(amount),
	}
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID      string `json:"id"`
	Order   int    `json:"order"`
	Account string `json:"account"`
	AmountResponse
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Payee     string          `json:"payee"`
	Notes     string          `json:"notes"`
	Entries   []EntryResponse `json:"entries"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	entries := make([]EntryResponse, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = EntryResponse{
			ID:             e.ID,
			Order:          e.Order,
			Account:        e.AccountName,
			AmountResponse: AmountFromDomain(e.Currency, e.Amount),
		}
	}

	return &TransactionResponse{
		ID:        t.ID,
		Date:      t.Date.Format(time.DateOnly),
		Payee:     t.Payee,
		Notes:     t.Notes,
		Entries:   entries,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// TransactionsFromDomain converts a list of transactions.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	out := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		out[i] = TransactionFromDomain(t)
	}

	return out
}

// ListTransactionsResponse is one page of transactions. Next is the cursor for the
// following page and is empty on the last one.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Next         string                 `json:"next,omitempty"`
}

// SuggestionsResponse lists account names.
type SuggestionsResponse struct {
	Accounts []string `json:"accounts"`
}

// BalanceResponse is the total of an account subtree per currency.
type BalanceResponse struct {
	Account string           `json:"account"`
	Totals  []AmountResponse `json:"totals"`
}

// BalanceFromDomain converts per-currency totals to response.
func BalanceFromDomain(account string, totals []domain.CurrencyAmount) BalanceResponse {
	out := make([]AmountResponse, len(totals))
	for i, t := range totals {
		out[i] = AmountFromDomain(t.Currency, t.Amount)
	}

	return BalanceResponse{Account: account, Totals: out}
}

// TrendPointResponse is one bucket of a trend for one currency.
type TrendPointResponse struct {
	BucketStart  string         `json:"bucket_start"`
	Change       AmountResponse `json:"change"`
	RunningTotal AmountResponse `json:"running_total"`
}

// TrendResponse is an account subtree's balance over time.
type TrendResponse struct {
	Account  string               `json:"account"`
	Interval string               `json:"interval"`
	Points   []TrendPointResponse `json:"points"`
}

// TrendFromDomain converts trend points to response.
func TrendFromDomain(account string, unit domain.BucketUnit, points []domain.TrendPoint) TrendResponse {
	out := make([]TrendPointResponse, len(points))
	for i, p := range points {
		out[i] = TrendPointResponse{
			BucketStart:  p.BucketStart.Format(time.DateOnly),
			Change:       AmountFromDomain(p.Currency, p.Amount),
			RunningTotal: AmountFromDomain(p.Currency, p.RunningTotal),
		}
	}

	return TrendResponse{Account: account, Interval: string(unit), Points: out}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error      string           `json:"error"`
	Message    string           `json:"message,omitempty"`
	Field      string           `json:"field,omitempty"`
	Unbalanced map[string]int64 `json:"unbalanced,omitempty"`
}
