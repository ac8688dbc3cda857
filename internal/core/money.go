// Package core defines the record model shared by the posting pipeline, the
// aggregation and filter engines and the export assembler: receipts, expenses,
// prima nota entries, money amounts and the tabular interchange shape.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount of euros stored as integer cents. Calculations always
// happen on cents; euros are a formatting concern.
type Money struct {
	Cents int64
}

// Validate rejects non-positive amounts. Zero is not a valid amount for a
// receipt or an expense.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsZero reports whether the amount is exactly zero cents.
func (m Money) IsZero() bool { return m.Cents == 0 }

// Euros returns the euro value as float64, for display only.
func (m Money) Euros() float64 { return float64(m.Cents) / 100.0 }

// String renders the amount with a dot separator and two decimals ("120.00"),
// the cell format used in every exported table.
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseDecimalToCents converts a decimal amount string to cents. Both dot and
// comma decimal separators are accepted; a third decimal digit rounds half-up.
// Negative and zero amounts are rejected.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if strings.Contains(fracPart, ".") {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
	}
	if len(fracPart) > 1 {
		frac += int64(fracPart[1] - '0')
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		frac++
	}
	cents := iv*100 + frac
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// MustParseCents is a test and seed-data helper; it panics on invalid input.
func MustParseCents(s string) Money {
	c, err := ParseDecimalToCents(s)
	if err != nil {
		panic(fmt.Sprintf("parse amount %q: %v", s, err))
	}
	return Money{Cents: c}
}
