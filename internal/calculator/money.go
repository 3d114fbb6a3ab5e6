package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/rosca/internal/models"
)

// Collected sums the amounts of the PAID payments.
func Collected(payments []*models.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Status == models.PaymentPaid {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// AllPaid reports whether every payment is PAID. An empty slice is not
// considered paid: a round without obligations has nothing to settle.
func AllPaid(payments []*models.Payment) bool {
	if len(payments) == 0 {
		return false
	}
	for _, p := range payments {
		if p.Status != models.PaymentPaid {
			return false
		}
	}
	return true
}
