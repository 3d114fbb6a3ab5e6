package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Member is a person who can join groups.
// Balance is debited by payments and credited by payouts, nothing else.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// Name is the display name.
	Name string

	// Balance is the member's available funds.
	Balance decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}
