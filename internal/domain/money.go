package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact fixed-point monetary value with two decimal places.
// All arithmetic is decimal; binary floats never enter the picture.
// The zero value is a valid "0.00".
type Money struct {
	dec decimal.Decimal
}

// MoneyZero is the zero monetary value.
var MoneyZero = Money{}

// NewMoneyFromDecimal wraps a decimal as Money without rescaling.
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{dec: d}
}

// ParseMoney parses a fixed-point string like "12.34".
// More than two fraction digits or malformed input is rejected.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	if d.Exponent() < -2 {
		return Money{}, fmt.Errorf("%w: %q has more than two decimal places", ErrInvalidAmount, s)
	}

	return Money{dec: d}, nil
}

// MustParseMoney parses a fixed-point string and panics on failure.
// Intended for constants and tests.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Plus returns m + other.
func (m Money) Plus(other Money) Money {
	return Money{dec: m.dec.Add(other.dec)}
}

// Minus returns m - other.
func (m Money) Minus(other Money) Money {
	return Money{dec: m.dec.Sub(other.dec)}
}

// Times returns m × other at full precision. Round before storing.
func (m Money) Times(other Money) Money {
	return Money{dec: m.dec.Mul(other.dec)}
}

// DividedBy returns m ÷ other at full precision. Division by zero is the
// caller's bug; guard with IsZero first.
func (m Money) DividedBy(other Money) Money {
	return Money{dec: m.dec.Div(other.dec)}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{dec: m.dec.Neg()}
}

// Round returns m rounded to two decimal places, half away from zero.
func (m Money) Round() Money {
	return Money{dec: m.dec.Round(2)}
}

// Cmp compares m and other, returning -1, 0 or 1.
func (m Money) Cmp(other Money) int {
	return m.dec.Cmp(other.dec)
}

// Equal reports whether m and other are numerically equal.
func (m Money) Equal(other Money) bool {
	return m.dec.Equal(other.dec)
}

// IsZero reports whether m is zero.
func (m Money) IsZero() bool {
	return m.dec.IsZero()
}

// IsNegative reports whether m is below zero.
func (m Money) IsNegative() bool {
	return m.dec.IsNegative()
}

// IsValid reports whether m is representable at two decimal places and,
// unless allowNegative is set, non-negative. It never panics on bad input.
func (m Money) IsValid(allowNegative bool) bool {
	if !allowNegative && m.dec.IsNegative() {
		return false
	}
	return m.dec.Exponent() >= -2 || m.dec.Equal(m.dec.Round(2))
}

// String renders the canonical fixed-point form, e.g. "5" -> "5.00".
func (m Money) String() string {
	return m.dec.StringFixed(2)
}

// Decimal exposes the underlying decimal for adapters that need it.
func (m Money) Decimal() decimal.Decimal {
	return m.dec
}

// MarshalJSON encodes Money as its fixed-point string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON decodes Money from a fixed-point string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}
