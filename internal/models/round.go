package models

import (
	"time"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Round is one monthly payout cycle of a group.
type Round struct {
	ID      string
	GroupID string

	// RoundNumber runs 1..capacity and equals the winner's turn slot.
	RoundNumber int

	// WinnerID is the participant (not member) receiving this round's pool.
	WinnerID string

	// Amount is the per-member contribution collected in this round.
	Amount decimal.Decimal

	StartAt time.Time
	EndAt   time.Time

	Status      RoundStatus
	BlockedFrom RoundStatus

	// SettledAt is set exactly once, when the payout is credited.
	SettledAt *time.Time
}

// Settled reports whether the payout for this round has been credited.
func (r *Round) Settled() bool {
	return r.SettledAt != nil
}

// Transition moves the round along a forward edge of the state machine.
func (r *Round) Transition(to RoundStatus) error {
	if !r.Status.CanTransitionTo(to) {
		return apperrors.StateTransition("round %d of group %s cannot move from %s to %s", r.RoundNumber, r.GroupID, r.Status, to)
	}
	r.Status = to
	return nil
}

// Block suspends a non-terminal round.
func (r *Round) Block() error {
	if r.Status == RoundBlocked || r.Status.Terminal() {
		return apperrors.StateTransition("round %d of group %s cannot be blocked from %s", r.RoundNumber, r.GroupID, r.Status)
	}
	r.BlockedFrom = r.Status
	r.Status = RoundBlocked
	return nil
}

// Unblock restores a blocked round to its previous status.
func (r *Round) Unblock(to RoundStatus) error {
	if r.Status != RoundBlocked {
		return apperrors.StateTransition("round %d of group %s is %s, not blocked", r.RoundNumber, r.GroupID, r.Status)
	}
	if to != r.BlockedFrom {
		return apperrors.StateTransition("blocked round %d can only return to %s, not %s", r.RoundNumber, r.BlockedFrom, to)
	}
	r.Status = r.BlockedFrom
	r.BlockedFrom = ""
	return nil
}
