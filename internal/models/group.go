package models

import (
	"time"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Group is a savings circle. Capacity equals the plan term: one member per
// month, one payout per month.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// PlanID references the plan this group was built from.
	PlanID string

	Status GroupStatus

	// BlockedFrom holds the status the group had before it was blocked.
	// Empty unless Status is BLOCKED.
	BlockedFrom GroupStatus

	Capacity            int
	MonthlyContribution decimal.Decimal

	// TotalPool is MonthlyContribution × Capacity, fixed at creation.
	TotalPool decimal.Decimal

	StartAt time.Time
	EndAt   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGroup builds a WAITING_FOR_MEMBERS group for plan starting at now and
// running for one month per seat.
func NewGroup(id string, plan *Plan, now time.Time) *Group {
	return &Group{
		ID:                  id,
		PlanID:              plan.ID,
		Status:              GroupWaitingForMembers,
		Capacity:            plan.TermMonths,
		MonthlyContribution: plan.Contribution,
		TotalPool:           plan.Contribution.Mul(decimal.NewFromInt(int64(plan.TermMonths))),
		StartAt:             now,
		EndAt:               now.AddDate(0, plan.TermMonths, 0),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// PoolConserved reports whether TotalPool still equals contribution × capacity.
func (g *Group) PoolConserved() bool {
	return g.TotalPool.Equal(g.MonthlyContribution.Mul(decimal.NewFromInt(int64(g.Capacity))))
}

// Transition moves the group along a forward edge of the state machine.
func (g *Group) Transition(to GroupStatus, at time.Time) error {
	if !g.Status.CanTransitionTo(to) {
		return apperrors.StateTransition("group %s cannot move from %s to %s", g.ID, g.Status, to)
	}
	g.Status = to
	g.UpdatedAt = at
	return nil
}

// Block suspends a non-terminal group and remembers where it was.
func (g *Group) Block(at time.Time) error {
	if g.Status == GroupBlocked || g.Status.Terminal() {
		return apperrors.StateTransition("group %s cannot be blocked from %s", g.ID, g.Status)
	}
	g.BlockedFrom = g.Status
	g.Status = GroupBlocked
	g.UpdatedAt = at
	return nil
}

// Unblock restores a blocked group to the status it had before, which must
// be the requested target.
func (g *Group) Unblock(to GroupStatus, at time.Time) error {
	if g.Status != GroupBlocked {
		return apperrors.StateTransition("group %s is %s, not blocked", g.ID, g.Status)
	}
	if to != g.BlockedFrom {
		return apperrors.StateTransition("blocked group %s can only return to %s, not %s", g.ID, g.BlockedFrom, to)
	}
	g.Status = g.BlockedFrom
	g.BlockedFrom = ""
	g.UpdatedAt = at
	return nil
}
