package oneshot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidIncome is returned for any income that is missing, not a number, or not
// strictly positive. Its message is meant to be shown to the user as is.
var ErrInvalidIncome = errors.New("please enter a valid income amount")

// incomeReplacer removes grouping characters users commonly type.
var incomeReplacer = strings.NewReplacer(" ", "", "\u00a0", "", "_", "", ",", "")

// ParseIncome reads an income typed by a user.
//
// It accepts an optional "R" currency prefix and spaces, underscores or commas
// as grouping separators: "R 1 000 000", "1,000,000.50" and "250000" are all
// valid. The income must be strictly positive.
func ParseIncome(s string) (decimal.Decimal, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return decimal.Zero, fmt.Errorf("%w: income is required", ErrInvalidIncome)
	}
	text = strings.TrimPrefix(strings.TrimPrefix(text, "R"), "r")
	text = incomeReplacer.Replace(text)

	income, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidIncome, s)
	}
	if err := ValidateIncome(income); err != nil {
		return decimal.Zero, err
	}
	return income, nil
}

// ValidateIncome returns ErrInvalidIncome unless income is strictly positive.
func ValidateIncome(income decimal.Decimal) error {
	if !income.IsPositive() {
		return fmt.Errorf("%w: %s is not greater than zero", ErrInvalidIncome, income)
	}
	return nil
}
