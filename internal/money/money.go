// Package money provides a fixed-precision currency amount stored as integer
// paise. Summing long sequences of amounts never accumulates binary
// floating-point error; conversion to decimal happens only at the display and
// wire boundaries.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrInvalidAmount is returned when an input is not a finite, non-negative
// decimal amount.
var ErrInvalidAmount = errors.New("invalid amount")

// Tolerance is the default comparison tolerance: one paisa (0.01 currency units).
var Tolerance = FromPaise(1)

// Money is a currency amount in paise (1/100 of a rupee).
// The zero value is ₹0.00. Negative values are allowed as intermediate
// results of Sub, but cannot be parsed from user input.
type Money struct {
	paise int64
}

// FromPaise returns the Money representing the given number of paise.
func FromPaise(p int64) Money {
	return Money{paise: p}
}

// Parse converts a decimal amount (e.g. 33.34) into Money, rounding to the
// nearest paisa. It fails with ErrInvalidAmount for NaN, infinite or negative
// input.
func Parse(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, fmt.Errorf("%w: not a finite number", ErrInvalidAmount)
	}
	if amount < 0 {
		return Money{}, fmt.Errorf("%w: negative amount", ErrInvalidAmount)
	}
	return Money{paise: int64(math.Round(amount * 100))}, nil
}

// ParseString parses a decimal string (form input) into Money.
func ParseString(s string) (Money, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Parse(f)
}

// Paise returns the amount in paise.
func (m Money) Paise() int64 { return m.paise }

// Rupees returns the amount as a decimal number of rupees.
func (m Money) Rupees() float64 { return float64(m.paise) / 100 }

// Add returns m + other. Never fails.
func (m Money) Add(other Money) Money {
	return Money{paise: m.paise + other.paise}
}

// Sub returns m - other. The result may be negative.
func (m Money) Sub(other Money) Money {
	return Money{paise: m.paise - other.paise}
}

// Cmp returns -1, 0 or +1 comparing m to other.
func (m Money) Cmp(other Money) int {
	switch {
	case m.paise < other.paise:
		return -1
	case m.paise > other.paise:
		return 1
	default:
		return 0
	}
}

// IsPositive reports whether m is strictly greater than zero.
func (m Money) IsPositive() bool { return m.paise > 0 }

// IsZero reports whether m is exactly zero.
func (m Money) IsZero() bool { return m.paise == 0 }

// EqualsWithin reports whether |m - other| <= epsilon.
func (m Money) EqualsWithin(other, epsilon Money) bool {
	diff := m.paise - other.paise
	if diff < 0 {
		diff = -diff
	}
	return diff <= epsilon.paise
}

// Format renders the amount with the rupee symbol and two fixed decimals,
// e.g. "₹33.34".
func (m Money) Format() string {
	return "₹" + m.decimalString()
}

// String implements fmt.Stringer.
func (m Money) String() string { return m.Format() }

func (m Money) decimalString() string {
	p := m.paise
	sign := ""
	if p < 0 {
		sign = "-"
		p = -p
	}
	return fmt.Sprintf("%s%d.%02d", sign, p/100, p%100)
}

// MarshalJSON encodes the amount as a plain decimal number with two
// fractional digits, matching the persisted document shape.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.decimalString()), nil
}

// UnmarshalJSON decodes a decimal number into Money.
func (m *Money) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}
	parsed, err := ParseString(n.String())
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
