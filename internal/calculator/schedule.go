// Package calculator holds the pure date and money arithmetic of the engine:
// round windows, due dates and collected totals. Nothing here touches storage.
package calculator

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentGracePeriod is how long after a round opens its obligations fall due.
const PaymentGracePeriod = 5 * 24 * time.Hour

// RoundPlan is the computed schedule entry for one round.
type RoundPlan struct {
	RoundNumber int
	StartAt     time.Time
	EndAt       time.Time
	Amount      decimal.Decimal
}

// RoundWindow returns the window of round n (1-based) of a group starting at
// groupStart. Windows are consecutive calendar months counted from
// groupStart; each ends one minute before the next begins, including for
// groups starting on the 29th to 31st.
func RoundWindow(groupStart time.Time, n int) (start, end time.Time) {
	start = groupStart.AddDate(0, n-1, 0)
	end = groupStart.AddDate(0, n, 0).Add(-time.Minute)
	return start, end
}

// DueDate returns when obligations of a round starting at roundStart fall due.
func DueDate(roundStart time.Time) time.Time {
	return roundStart.Add(PaymentGracePeriod)
}

// PlanRounds computes the schedule for all capacity rounds of a group.
func PlanRounds(groupStart time.Time, capacity int, contribution decimal.Decimal) []RoundPlan {
	rounds := make([]RoundPlan, 0, capacity)
	for n := 1; n <= capacity; n++ {
		start, end := RoundWindow(groupStart, n)
		rounds = append(rounds, RoundPlan{
			RoundNumber: n,
			StartAt:     start,
			EndAt:       end,
			Amount:      contribution,
		})
	}
	return rounds
}
