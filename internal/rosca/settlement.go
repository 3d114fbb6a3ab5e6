package rosca

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/mmynk/rosca/internal/calculator"
	"github.com/mmynk/rosca/internal/models"
	"github.com/mmynk/rosca/internal/storage"
)

// settlement describes a credited payout, reported once the transaction
// commits.
type settlement struct {
	groupID        string
	roundID        string
	roundNumber    int
	winnerMemberID string
	amount         decimal.Decimal
	collected      decimal.Decimal
	nextRoundID    string
	groupCompleted bool
}

// settleIfComplete credits the round's pool to its winner when every
// obligation is PAID. It returns nil when the round is not complete or was
// already settled. group must be locked by the caller, as must the winner's
// member.
func (e *Engine) settleIfComplete(ctx context.Context, tx storage.Repository, group *models.Group, round *models.Round) (*settlement, error) {
	payments, err := tx.ListPaymentsByRound(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	if !calculator.AllPaid(payments) {
		return nil, nil
	}

	now := e.clock()
	claimed, err := tx.ClaimRoundSettlement(ctx, round.ID, now)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, nil
	}
	round.SettledAt = &now

	winner, err := e.winnerOf(ctx, tx, round)
	if err != nil {
		return nil, err
	}
	member, err := tx.LockMember(ctx, winner.MemberID)
	if err != nil {
		return nil, e.integrityIfMissing(err, "participant %s references missing member %s", winner.ID, winner.MemberID)
	}
	if err := tx.UpdateMemberBalance(ctx, member.ID, member.Balance.Add(group.TotalPool), now); err != nil {
		return nil, err
	}

	winner.Role = models.RoleRecipient
	winner.ReceiveStatus = models.Received
	if err := tx.UpdateParticipant(ctx, winner); err != nil {
		return nil, err
	}

	if err := round.Transition(models.RoundCompleted); err != nil {
		return nil, err
	}
	if err := tx.UpdateRoundStatus(ctx, round); err != nil {
		return nil, err
	}

	s := &settlement{
		groupID:        group.ID,
		roundID:        round.ID,
		roundNumber:    round.RoundNumber,
		winnerMemberID: member.ID,
		amount:         group.TotalPool,
		collected:      calculator.Collected(payments),
	}

	next, err := e.openNextRound(ctx, tx, group, round)
	if err != nil {
		return nil, err
	}
	if next != nil {
		s.nextRoundID = next.ID
		return s, nil
	}

	s.groupCompleted, err = e.completeGroupIfDone(ctx, tx, group)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// openNextRound activates the round after settled when it is still
// PENDING_APPROVAL. It returns nil when there is no such round.
func (e *Engine) openNextRound(ctx context.Context, tx storage.Repository, group *models.Group, settled *models.Round) (*models.Round, error) {
	rounds, err := tx.ListRounds(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	var next *models.Round
	for _, r := range rounds {
		if r.RoundNumber == settled.RoundNumber+1 {
			next = r
			break
		}
	}
	if next == nil || next.Status != models.RoundPendingApproval {
		return nil, nil
	}

	if err := next.Transition(models.RoundActive); err != nil {
		return nil, err
	}
	if err := tx.UpdateRoundStatus(ctx, next); err != nil {
		return nil, err
	}

	participants, err := tx.ListParticipants(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	if err := e.openRound(ctx, tx, group, next, participants); err != nil {
		return nil, err
	}
	return next, nil
}

// CheckRoundCompletion settles a round whose obligations are all PAID. It
// reports whether the round is settled after the call; repeated calls credit
// the winner at most once.
func (e *Engine) CheckRoundCompletion(ctx context.Context, roundID string) (complete bool, err error) {
	ctx, span := e.startSpan(ctx, "CheckRoundCompletion", attribute.String("round_id", roundID))
	defer func() { finish(span, err) }()

	if roundID == "" {
		return false, apperrors.Validation("round_id is required")
	}

	round, err := e.store.GetRound(ctx, roundID)
	if err != nil {
		return false, err
	}
	if round.Settled() {
		return true, nil
	}
	winner, err := e.winnerOf(ctx, e.store, round)
	if err != nil {
		return false, err
	}

	releaseGroup := e.locks.lock(groupKey(round.GroupID))
	defer releaseGroup()
	releaseMember := e.locks.lock(memberKey(winner.MemberID))
	defer releaseMember()

	var settled *settlement
	err = e.store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		round, err := tx.GetRound(ctx, roundID)
		if err != nil {
			return err
		}
		if round.Settled() {
			complete = true
			return nil
		}
		if round.Status != models.RoundActive {
			return nil
		}
		group, err := tx.LockGroup(ctx, round.GroupID)
		if err != nil {
			return err
		}
		if group.Status != models.GroupActive {
			return apperrors.StateTransition("group %s is %s", group.ID, group.Status)
		}

		settled, err = e.settleIfComplete(ctx, tx, group, round)
		complete = settled != nil
		return err
	})
	if err != nil {
		return false, err
	}

	e.reportSettlement(settled)
	return complete, nil
}

// reportSettlement logs and records a committed settlement. s may be nil.
func (e *Engine) reportSettlement(s *settlement) {
	if s == nil {
		return
	}
	e.metrics.Settlement(s.amount)
	slog.Info("Round settled",
		"group_id", s.groupID,
		"round_id", s.roundID,
		"round_number", s.roundNumber,
		"member_id", s.winnerMemberID,
		"payout", s.amount.String(),
		"collected", s.collected.String(),
	)
	if !s.collected.Equal(s.amount) {
		slog.Warn("Round payout differs from collected contributions",
			"group_id", s.groupID,
			"round_id", s.roundID,
			"payout", s.amount.String(),
			"collected", s.collected.String(),
		)
	}
	if s.groupCompleted {
		e.metrics.GroupTransition(string(models.GroupCompleted))
		slog.Info("Group completed", "group_id", s.groupID)
	}
}
