package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money mirrors the Storefront API MoneyV2 object. Amount is a decimal string.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// IsZero reports whether the amount is empty or numerically zero.
func (m Money) IsZero() bool {
	if m.Amount == "" {
		return true
	}
	d, err := m.Decimal()
	return err != nil || d.IsZero()
}

// Decimal parses Amount exactly.
func (m Money) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid money amount %q: %w", m.Amount, err)
	}
	return d, nil
}

// Float64 is the nearest float to Amount; 0 for unparsable amounts.
func (m Money) Float64() float64 {
	d, err := m.Decimal()
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// Sub returns m - other. Both sides must carry the same currency, except that
// a zero other is always accepted.
func (m Money) Sub(other Money) (Money, error) {
	return m.combine(other, "-", decimal.Decimal.Sub)
}

// Add returns m + other under the same currency rules as Sub.
func (m Money) Add(other Money) (Money, error) {
	return m.combine(other, "+", decimal.Decimal.Add)
}

// combine applies op and renders the result with as many decimal places as
// the more precise operand, so server amounts keep their currency's scale.
func (m Money) combine(other Money, sym string, op func(decimal.Decimal, decimal.Decimal) decimal.Decimal) (Money, error) {
	if other.IsZero() {
		return m, nil
	}
	if m.CurrencyCode != "" && other.CurrencyCode != "" && m.CurrencyCode != other.CurrencyCode {
		return Money{}, fmt.Errorf("currency mismatch: %s %s %s", m.CurrencyCode, sym, other.CurrencyCode)
	}
	a := decimal.Zero
	if m.Amount != "" {
		var err error
		if a, err = m.Decimal(); err != nil {
			return Money{}, err
		}
	}
	b, err := other.Decimal()
	if err != nil {
		return Money{}, err
	}

	code := m.CurrencyCode
	if code == "" {
		code = other.CurrencyCode
	}
	places := max(scale(a), scale(b))
	return Money{Amount: op(a, b).StringFixed(places), CurrencyCode: code}, nil
}

func scale(d decimal.Decimal) int32 {
	if exp := d.Exponent(); exp < 0 {
		return -exp
	}
	return 0
}
