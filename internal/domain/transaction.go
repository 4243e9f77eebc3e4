package domain

import (
	"encoding/base64"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	minAmount = decimal.NewFromInt(math.MinInt64)
	maxAmount = decimal.NewFromInt(math.MaxInt64)
)

// errAmountRange rejects sums that do not fit the signed 64-bit minor-unit column.
func errAmountRange(code string) *ValidationError {
	return &ValidationError{Field: "entries", Reason: code + " amounts exceed the supported range"}
}

// Transaction is a dated, multi-entry movement of money owned by one user.
type Transaction struct {
	ID        string
	Owner     string
	Date      time.Time
	Payee     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Entries   []*Entry
}

// EntrySpec describes an entry before its account has been resolved. A nil Amount
// asks for the entry to be auto-balanced.
type EntrySpec struct {
	AccountName string
	Currency    string
	Amount      *int64
}

// Balance fills in a single amount-less entry with the outstanding sum, then checks
// that every currency nets to zero. It returns the completed specs.
func Balance(specs []EntrySpec) ([]EntrySpec, error) {
	if len(specs) == 0 {
		return nil, ErrNoEntries
	}

	out := make([]EntrySpec, len(specs))
	copy(out, specs)

	// Sums are exact so int64 wraparound cannot fake a balance.
	sums := make(map[string]decimal.Decimal)
	missing := -1

	for i, spec := range out {
		if spec.Amount == nil {
			if missing >= 0 {
				return nil, &ValidationError{Field: "entries", Reason: "only one entry may omit its amount"}
			}

			missing = i

			continue
		}

		if spec.Currency == "" {
			return nil, &ValidationError{Field: "entries", Reason: "currency is required"}
		}

		sums[spec.Currency] = sums[spec.Currency].Add(decimal.NewFromInt(*spec.Amount))
	}

	unbalanced, err := nonZero(sums)
	if err != nil {
		return nil, err
	}

	if missing >= 0 {
		if len(unbalanced) != 1 {
			return nil, &ValidationError{
				Field:      "entries",
				Reason:     "cannot auto-balance: need exactly one unbalanced currency",
				Unbalanced: unbalanced,
			}
		}

		for code, sum := range unbalanced {
			if out[missing].Currency != "" && out[missing].Currency != code {
				return nil, &ValidationError{Field: "entries", Reason: "auto-balanced entry has a different currency", Unbalanced: unbalanced}
			}

			if sum == math.MinInt64 {
				return nil, errAmountRange(code)
			}

			amount := -sum
			out[missing].Currency = code
			out[missing].Amount = &amount
		}

		return out, nil
	}

	if len(unbalanced) > 0 {
		return nil, &ValidationError{Field: "entries", Reason: "unbalanced", Unbalanced: unbalanced}
	}

	return out, nil
}

// CurrencyCodes returns the distinct currency codes used by specs.
func CurrencyCodes(specs []EntrySpec) []string {
	seen := make(map[string]bool)

	var codes []string
	for _, spec := range specs {
		if spec.Currency == "" || seen[spec.Currency] {
			continue
		}

		seen[spec.Currency] = true
		codes = append(codes, spec.Currency)
	}

	return codes
}

func nonZero(sums map[string]decimal.Decimal) (map[string]int64, error) {
	out := make(map[string]int64)
	for code, sum := range sums {
		if sum.IsZero() {
			continue
		}

		if sum.LessThan(minAmount) || sum.GreaterThan(maxAmount) {
			return nil, errAmountRange(code)
		}

		out[code] = sum.IntPart()
	}

	return out, nil
}

// TransactionCursor marks the last transaction of a page in
// (date DESC, created_at DESC, id DESC) order. The id breaks ties between
// transactions created in the same microsecond.
type TransactionCursor struct {
	AfterDate      time.Time
	AfterCreatedAt time.Time
	AfterID        string
}

// CursorAfter returns the cursor positioned after t.
func CursorAfter(t *Transaction) TransactionCursor {
	return TransactionCursor{AfterDate: t.Date, AfterCreatedAt: t.CreatedAt, AfterID: t.ID}
}

// Encode renders the cursor as URL-safe base64 of "date/created_at/id".
func (c TransactionCursor) Encode() string {
	raw := c.AfterDate.Format(time.DateOnly) + "/" + c.AfterCreatedAt.UTC().Format(time.RFC3339Nano) + "/" + c.AfterID
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// DecodeTransactionCursor parses a cursor produced by Encode.
func DecodeTransactionCursor(s string) (TransactionCursor, error) {
	malformed := &ValidationError{Field: "after", Reason: "malformed cursor"}

	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return TransactionCursor{}, malformed
	}

	parts := strings.Split(string(raw), "/")
	if len(parts) != 3 || parts[2] == "" {
		return TransactionCursor{}, malformed
	}

	date, err := time.Parse(time.DateOnly, parts[0])
	if err != nil {
		return TransactionCursor{}, &ValidationError{Field: "after", Reason: "malformed cursor date"}
	}

	createdAt, err := time.Parse(time.RFC3339Nano, parts[1])
	if err != nil {
		return TransactionCursor{}, &ValidationError{Field: "after", Reason: "malformed cursor timestamp"}
	}

	return TransactionCursor{AfterDate: date, AfterCreatedAt: createdAt.UTC(), AfterID: parts[2]}, nil
}
