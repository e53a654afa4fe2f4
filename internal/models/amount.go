package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the only currency the SMS pipeline handles.
const Currency = "INR"

// DefaultMaxAmountMinor is the largest accepted amount (₹10,000,000) in paise.
const DefaultMaxAmountMinor int64 = 10_000_000 * 100

var (
	// ErrNonPositiveAmount is returned for zero or negative amounts.
	ErrNonPositiveAmount = errors.New("amount must be positive")
	// ErrAmountOverLimit is returned for amounts above the configured maximum.
	ErrAmountOverLimit = errors.New("amount exceeds maximum")
)

// ExtractedAmount is a positive amount in minor units (paise).
type ExtractedAmount struct {
	MinorUnits int64 `json:"amount_minor" yaml:"amount_minor"`
}

// ParseAmount converts a currency token such as "1,820.00" into minor units.
// Commas are treated as grouping separators. maxMinor <= 0 disables the limit.
func ParseAmount(raw string, maxMinor int64) (ExtractedAmount, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	dec, err := decimal.NewFromString(cleaned)
	if err != nil {
		return ExtractedAmount{}, fmt.Errorf("invalid amount string '%s': %w", raw, err)
	}
	if !dec.IsPositive() {
		return ExtractedAmount{}, ErrNonPositiveAmount
	}

	minor := dec.Shift(2).Round(0).IntPart()
	if minor <= 0 {
		return ExtractedAmount{}, ErrNonPositiveAmount
	}
	if maxMinor > 0 && minor > maxMinor {
		return ExtractedAmount{}, fmt.Errorf("%w: %s > %s", ErrAmountOverLimit,
			decimal.New(minor, -2).StringFixed(2), decimal.New(maxMinor, -2).StringFixed(2))
	}
	return ExtractedAmount{MinorUnits: minor}, nil
}

// Major returns the amount in rupees.
func (a ExtractedAmount) Major() decimal.Decimal {
	return decimal.New(a.MinorUnits, -2)
}

// IsZero reports whether no amount was extracted.
func (a ExtractedAmount) IsZero() bool {
	return a.MinorUnits == 0
}

// String renders the amount as "INR 1820.00".
func (a ExtractedAmount) String() string {
	return fmt.Sprintf("%s %s", Currency, a.Major().StringFixed(2))
}
