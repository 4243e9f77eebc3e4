package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MaxPayeeLength       = 255
	CurrencyCodeLength   = 3
	MaxMinorUnits        = 8
)

// ValidateCurrencyCode checks that code looks like an ISO 4217 code.
func ValidateCurrencyCode(code string) error {
	if len(code) != CurrencyCodeLength {
		return fmt.Errorf("%w: %q must be %d letters", ErrInvalidCurrency, code, CurrencyCodeLength)
	}

	for _, r := range code {
		if !unicode.IsUpper(r) || r > unicode.MaxASCII {
			return fmt.Errorf("%w: %q must be upper-case ASCII", ErrInvalidCurrency, code)
		}
	}

	return nil
}

// NormalizeCurrencyCode upper-cases and trims code.
func NormalizeCurrencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidatePayee validates a transaction payee.
func ValidatePayee(payee string) error {
	payee = strings.TrimSpace(payee)

	if payee == "" {
		return ErrEmptyPayee
	}

	if len(payee) > MaxPayeeLength {
		return &ValidationError{Field: "payee", Reason: fmt.Sprintf("exceeds %d characters", MaxPayeeLength)}
	}

	return nil
}
