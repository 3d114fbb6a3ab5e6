package models

import (
	"time"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Payment is a participant's obligation to contribute to one round.
type Payment struct {
	ID            string
	RoundID       string
	GroupID       string
	ParticipantID string
	MemberID      string

	Amount decimal.Decimal
	DueAt  time.Time

	Status PaymentStatus
	PaidAt *time.Time
}

// MarkPaid moves a pending obligation to PAID.
func (p *Payment) MarkPaid(at time.Time) error {
	if p.Status != PaymentPending {
		return apperrors.StateTransition("payment %s is already %s", p.ID, p.Status)
	}
	p.Status = PaymentPaid
	p.PaidAt = &at
	return nil
}

// EffectiveStatus classifies the payment at now. A pending payment past its
// due date reads as LATE; the stored status is not changed.
func (p *Payment) EffectiveStatus(now time.Time) PaymentStatus {
	if p.Status == PaymentPending && p.DueAt.Before(now) {
		return PaymentLate
	}
	return p.Status
}
