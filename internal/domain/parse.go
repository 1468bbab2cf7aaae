package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a non-negative monthly cost such as "120" or "49.99".
func ParseAmount(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, NewValidationError("amount", "is required")
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, NewValidationError("amount", fmt.Sprintf("must be a number, got %q", raw))
	}
	if amount.IsNegative() {
		return decimal.Zero, NewValidationError("amount", fmt.Sprintf("must be non-negative, got %q", raw))
	}

	return amount, nil
}

// ParseSeats parses a non-negative seat count for the named field.
func ParseSeats(field, raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, NewValidationError(field, "is required")
	}

	seats, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, NewValidationError(field, fmt.Sprintf("must be an integer, got %q", raw))
	}
	if seats < 0 {
		return 0, NewValidationError(field, fmt.Sprintf("must be non-negative, got %q", raw))
	}

	return seats, nil
}

func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", NewValidationError("status", fmt.Sprintf("unsupported value %q", raw))
	}

	return status, nil
}
