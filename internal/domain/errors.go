package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Specific errors wrap one of these so callers can branch with errors.Is.
var (
	// ErrNotFound covers both absent entities and entities owned by someone else.
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrValidation           = errors.New("validation failed")
	ErrReferentialIntegrity = errors.New("referenced by existing entries")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)

var (
	// Account errors
	ErrAccountNotFound    = fmt.Errorf("account %w", ErrNotFound)
	ErrInvalidAccountName = fmt.Errorf("%w: invalid account name", ErrValidation)

	// Transaction errors
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrNoEntries           = fmt.Errorf("%w: transaction has no entries", ErrValidation)
	ErrEmptyPayee          = fmt.Errorf("%w: payee is required", ErrValidation)

	// Currency errors
	ErrCurrencyNotFound = fmt.Errorf("currency %w", ErrNotFound)
	ErrInvalidCurrency  = fmt.Errorf("%w: invalid currency", ErrValidation)
	ErrCurrencyInUse    = fmt.Errorf("currency %w", ErrReferentialIntegrity)
)

// ValidationError describes why a transaction was rejected. Unbalanced holds the
// non-zero per-currency sums when entries do not balance.
type ValidationError struct {
	Field      string
	Reason     string
	Unbalanced map[string]int64
}

func (e *ValidationError) Error() string {
	if len(e.Unbalanced) == 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}

	codes := make([]string, 0, len(e.Unbalanced))
	for code := range e.Unbalanced {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%s %d", code, e.Unbalanced[code]))
	}

	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Reason, strings.Join(parts, ", "))
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
