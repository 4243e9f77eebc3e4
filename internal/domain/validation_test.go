package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateCurrencyCode(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"USD", "EUR", "XBT"} {
		if err := ValidateCurrencyCode(code); err != nil {
			t.Errorf("expected %q to be valid, got %v", code, err)
		}
	}

	for _, code := range []string{"", "usd", "US", "USDT", "U1D", "ÄBC"} {
		if err := ValidateCurrencyCode(code); !errors.Is(err, ErrInvalidCurrency) {
			t.Errorf("expected ErrInvalidCurrency for %q, got %v", code, err)
		}
	}
}

func TestNormalizeCurrencyCode(t *testing.T) {
	t.Parallel()

	if got := NormalizeCurrencyCode(" usd "); got != "USD" {
		t.Fatalf("expected USD, got %q", got)
	}
}

func TestValidatePayee(t *testing.T) {
	t.Parallel()

	if err := ValidatePayee("Grocery Store"); err != nil {
		t.Fatalf("expected valid payee, got %v", err)
	}

	if err := ValidatePayee("  "); !errors.Is(err, ErrEmptyPayee) {
		t.Fatalf("expected ErrEmptyPayee, got %v", err)
	}

	err := ValidatePayee(strings.Repeat("p", MaxPayeeLength+1))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Field: "entries", Reason: "unbalanced", Unbalanced: map[string]int64{"USD": 5, "EUR": -3}}

	if got, want := err.Error(), "entries: unbalanced (EUR -3, USD 5)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected ValidationError to match ErrValidation")
	}
}
