package rosca

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/mmynk/rosca/internal/calculator"
	"github.com/mmynk/rosca/internal/models"
	"github.com/mmynk/rosca/internal/storage"
)

// openRound generates one PENDING obligation per participant for an ACTIVE
// round and resets every participant's payment status.
func (e *Engine) openRound(ctx context.Context, tx storage.Repository, group *models.Group, round *models.Round, participants []*models.Participant) error {
	due := calculator.DueDate(round.StartAt)
	for _, p := range participants {
		payment := &models.Payment{
			RoundID:       round.ID,
			GroupID:       group.ID,
			ParticipantID: p.ID,
			MemberID:      p.MemberID,
			Amount:        group.MonthlyContribution,
			DueAt:         due,
			Status:        models.PaymentPending,
		}
		if err := tx.CreatePayment(ctx, payment); err != nil {
			return err
		}
	}
	if err := tx.ResetParticipantPayments(ctx, group.ID); err != nil {
		return err
	}

	slog.Info("Round opened",
		"group_id", group.ID,
		"round_id", round.ID,
		"round_number", round.RoundNumber,
		"obligations", len(participants),
		"due_at", due,
	)
	return nil
}

// MarkPaid records payerMemberID paying an obligation. The contribution is
// debited from the payer's balance, and when the payment is the last one
// outstanding the round settles in the same transaction.
func (e *Engine) MarkPaid(ctx context.Context, paymentID, payerMemberID string) (payment *models.Payment, err error) {
	ctx, span := e.startSpan(ctx, "MarkPaid",
		attribute.String("payment_id", paymentID),
		attribute.String("member_id", payerMemberID),
	)
	defer func() {
		e.metrics.Payment(outcome(err))
		finish(span, err)
	}()

	if paymentID == "" || payerMemberID == "" {
		return nil, apperrors.Validation("payment_id and member_id are required")
	}

	// Resolve the lock set outside the transaction; everything is re-read
	// once the locks are held.
	payment, err = e.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	round, err := e.store.GetRound(ctx, payment.RoundID)
	if err != nil {
		return nil, err
	}
	winner, err := e.winnerOf(ctx, e.store, round)
	if err != nil {
		return nil, err
	}

	releaseGroup := e.locks.lock(groupKey(payment.GroupID))
	defer releaseGroup()
	releaseMembers := e.locks.lockAll(memberKey(payerMemberID), memberKey(winner.MemberID))
	defer releaseMembers()

	var settled *settlement
	err = e.store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		var err error
		payment, err = tx.GetPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.Status != models.PaymentPending {
			return apperrors.StateTransition("payment %s is already %s", payment.ID, payment.Status)
		}
		if payment.MemberID != payerMemberID {
			return apperrors.Validation("payment %s is owed by member %s, not %s", payment.ID, payment.MemberID, payerMemberID)
		}

		round, err := tx.GetRound(ctx, payment.RoundID)
		if err != nil {
			return err
		}
		if round.Status != models.RoundActive {
			return apperrors.StateTransition("round %d of group %s is %s", round.RoundNumber, round.GroupID, round.Status)
		}
		group, err := tx.LockGroup(ctx, payment.GroupID)
		if err != nil {
			return err
		}
		if group.Status != models.GroupActive {
			return apperrors.StateTransition("group %s is %s", group.ID, group.Status)
		}

		member, err := tx.LockMember(ctx, payerMemberID)
		if err != nil {
			return err
		}
		if member.Balance.LessThan(payment.Amount) {
			return apperrors.InsufficientFunds("member %s has %s, payment %s needs %s", member.ID, member.Balance, payment.ID, payment.Amount)
		}

		now := e.clock()
		if err := payment.MarkPaid(now); err != nil {
			return err
		}
		if err := tx.UpdatePayment(ctx, payment); err != nil {
			return err
		}
		if err := tx.UpdateMemberBalance(ctx, member.ID, member.Balance.Sub(payment.Amount), now); err != nil {
			return err
		}

		participant, err := tx.GetParticipant(ctx, payment.ParticipantID)
		if err != nil {
			return e.integrityIfMissing(err, "payment %s references missing participant %s", payment.ID, payment.ParticipantID)
		}
		participant.PaymentStatus = models.PaymentPaid
		if err := tx.UpdateParticipant(ctx, participant); err != nil {
			return err
		}

		settled, err = e.settleIfComplete(ctx, tx, group, round)
		return err
	})
	if err != nil {
		slog.Warn("Payment rejected", "payment_id", paymentID, "member_id", payerMemberID, "error", err)
		return nil, err
	}

	slog.Info("Payment recorded",
		"payment_id", payment.ID,
		"member_id", payerMemberID,
		"round_id", payment.RoundID,
		"amount", payment.Amount.String(),
	)
	e.reportSettlement(settled)
	return payment, nil
}

// ListRoundPayments returns the obligations of a round with their read-time
// status.
func (e *Engine) ListRoundPayments(ctx context.Context, roundID string) (payments []*models.Payment, err error) {
	ctx, span := e.startSpan(ctx, "ListRoundPayments", attribute.String("round_id", roundID))
	defer func() { finish(span, err) }()

	if roundID == "" {
		return nil, apperrors.Validation("round_id is required")
	}
	if _, err := e.store.GetRound(ctx, roundID); err != nil {
		return nil, err
	}
	payments, err = e.store.ListPaymentsByRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	return e.classify(payments), nil
}

// ListLatePayments returns the PENDING obligations whose due date has passed.
func (e *Engine) ListLatePayments(ctx context.Context) (payments []*models.Payment, err error) {
	ctx, span := e.startSpan(ctx, "ListLatePayments")
	defer func() { finish(span, err) }()

	payments, err = e.store.ListPendingPaymentsDueBefore(ctx, e.clock())
	if err != nil {
		return nil, err
	}
	return e.classify(payments), nil
}

// ListPaymentsDue returns the obligations falling due in [from, to).
func (e *Engine) ListPaymentsDue(ctx context.Context, from, to time.Time) (payments []*models.Payment, err error) {
	ctx, span := e.startSpan(ctx, "ListPaymentsDue")
	defer func() { finish(span, err) }()

	if !from.Before(to) {
		return nil, apperrors.Validation("from (%s) must be before to (%s)", from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	payments, err = e.store.ListPaymentsDueBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return e.classify(payments), nil
}

// classify replaces each stored status with its read-time status. The
// payments are fresh reads, so nothing persisted changes.
func (e *Engine) classify(payments []*models.Payment) []*models.Payment {
	now := e.clock()
	for _, p := range payments {
		p.Status = p.EffectiveStatus(now)
	}
	return payments
}

// winnerOf returns the participant a round pays out to.
func (e *Engine) winnerOf(ctx context.Context, repo storage.Repository, round *models.Round) (*models.Participant, error) {
	winner, err := repo.GetParticipant(ctx, round.WinnerID)
	if err != nil {
		return nil, e.integrityIfMissing(err, "round %d of group %s has no winner %s", round.RoundNumber, round.GroupID, round.WinnerID)
	}
	return winner, nil
}

// integrityIfMissing turns a not-found error for a referenced row into a
// logged integrity fault. Other errors pass through.
func (e *Engine) integrityIfMissing(err error, format string, args ...any) error {
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		return err
	}
	return integrityFault(apperrors.Integrity(format, args...))
}
