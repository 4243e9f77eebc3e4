package domain

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is reference data used to validate and render amounts.
type Currency struct {
	Code       string
	Symbol     string
	MinorUnits int
}

// Validate checks the currency's fields.
func (c Currency) Validate() error {
	if err := ValidateCurrencyCode(c.Code); err != nil {
		return err
	}

	if c.MinorUnits < 0 || c.MinorUnits > MaxMinorUnits {
		return &ValidationError{Field: "minor_units", Reason: "must be between 0 and 8"}
	}

	return nil
}

// Major converts an amount in minor units to a decimal in major units.
func (c Currency) Major(amount int64) decimal.Decimal {
	return decimal.New(amount, -int32(c.MinorUnits))
}

// Format renders amount (in minor units) for display, e.g. "$12.34".
func (c Currency) Format(amount int64) string {
	cur := money.Currency{
		Code:     c.Code,
		Fraction: c.MinorUnits,
		Grapheme: c.Symbol,
		Template: "$1",
		Decimal:  ".",
		Thousand: ",",
	}

	if known := money.GetCurrency(c.Code); known != nil {
		cur.Template = known.Template
		cur.Decimal = known.Decimal
		cur.Thousand = known.Thousand
	}

	if cur.Grapheme == "" {
		cur.Grapheme = c.Code
		cur.Template = "1 $"
	}

	return cur.Formatter().Format(amount)
}

// CurrencyFromISO returns catalog metadata for an ISO 4217 code known to go-money.
func CurrencyFromISO(code string) (Currency, bool) {
	known := money.GetCurrency(code)
	if known == nil {
		return Currency{}, false
	}

	return Currency{
		Code:       known.Code,
		Symbol:     known.Grapheme,
		MinorUnits: known.Fraction,
	}, true
}

// CurrencyAmount is a signed amount in a currency's minor units.
type CurrencyAmount struct {
	Currency Currency
	Amount   int64
}

// String renders the amount with its currency.
func (a CurrencyAmount) String() string {
	return a.Currency.Format(a.Amount)
}
