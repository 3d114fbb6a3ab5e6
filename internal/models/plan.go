package models

import (
	"time"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Plan is a payment plan: a fixed monthly contribution over a term.
// Plans are never updated; groups reference them by ID.
type Plan struct {
	ID           string
	Contribution decimal.Decimal
	TermMonths   int
	CreatedAt    time.Time
}

// ValidatePlan checks that both plan values are positive.
func ValidatePlan(contribution decimal.Decimal, termMonths int) error {
	if !contribution.IsPositive() {
		return apperrors.Validation("contribution must be positive, got %s", contribution)
	}
	if termMonths <= 0 {
		return apperrors.Validation("term must be a positive number of months, got %d", termMonths)
	}
	return nil
}
