package dto

import (
	"fmt"
	"time"

	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/usecase"
)

// EntryRequest is one posting of a transaction. Amount is in minor units; omit it on
// at most one entry to have it balanced automatically.
type EntryRequest struct {
	Account  string `json:"account"`
	Currency string `json:"currency,omitempty"`
	Amount   *int64 `json:"amount,omitempty"`
}

// CreateTransactionRequest represents a request to create a transaction.
type CreateTransactionRequest struct {
	Date    string         `json:"date"`
	Payee   string         `json:"payee"`
	Notes   string         `json:"notes,omitempty"`
	Entries []EntryRequest `json:"entries"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput(owner string) (usecase.CreateTransactionInput, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return usecase.CreateTransactionInput{}, err
	}

	return usecase.CreateTransactionInput{
		Owner:   owner,
		Date:    date,
		Payee:   r.Payee,
		Notes:   r.Notes,
		Entries: entryInputs(r.Entries),
	}, nil
}

// UpdateTransactionRequest replaces parts of a transaction. Absent fields are kept;
// a present entries list replaces every entry.
type UpdateTransactionRequest struct {
	Date    *string         `json:"date,omitempty"`
	Payee   *string         `json:"payee,omitempty"`
	Notes   *string         `json:"notes,omitempty"`
	Entries *[]EntryRequest `json:"entries,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput(owner, id string) (usecase.UpdateTransactionInput, error) {
	input := usecase.UpdateTransactionInput{
		Owner: owner,
		ID:    id,
		Payee: r.Payee,
		Notes: r.Notes,
	}

	if r.Date != nil {
		date, err := parseDate(*r.Date)
		if err != nil {
			return usecase.UpdateTransactionInput{}, err
		}

		input.Date = &date
	}

	if r.Entries != nil {
		input.Entries = entryInputs(*r.Entries)
		if input.Entries == nil {
			input.Entries = []usecase.EntryInput{}
		}
	}

	return input, nil
}

func entryInputs(entries []EntryRequest) []usecase.EntryInput {
	if entries == nil {
		return nil
	}

	inputs := make([]usecase.EntryInput, len(entries))
	for i, e := range entries {
		inputs[i] = usecase.EntryInput{
			AccountName: e.Account,
			Currency:    e.Currency,
			Amount:      e.Amount,
		}
	}

	return inputs
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, &domain.ValidationError{Field: "date", Reason: "is required"}
	}

	date, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: "date", Reason: fmt.Sprintf("must be YYYY-MM-DD, got %q", s)}
	}

	return date, nil
}
