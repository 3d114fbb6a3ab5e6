package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/rosca/internal/models"
)

type paymentRow struct {
	ID            string          `db:"id"`
	RoundID       string          `db:"round_id"`
	GroupID       string          `db:"group_id"`
	ParticipantID string          `db:"participant_id"`
	MemberID      string          `db:"member_id"`
	Amount        decimal.Decimal `db:"amount"`
	DueAt         int64           `db:"due_at"`
	Status        string          `db:"status"`
	PaidAt        sql.NullInt64   `db:"paid_at"`
}

func (row *paymentRow) model() *models.Payment {
	return &models.Payment{
		ID:            row.ID,
		RoundID:       row.RoundID,
		GroupID:       row.GroupID,
		ParticipantID: row.ParticipantID,
		MemberID:      row.MemberID,
		Amount:        row.Amount,
		DueAt:         fromUnix(row.DueAt),
		Status:        models.PaymentStatus(row.Status),
		PaidAt:        fromNullUnix(row.PaidAt),
	}
}

func paymentModels(rows []paymentRow) []*models.Payment {
	payments := make([]*models.Payment, len(rows))
	for i := range rows {
		payments[i] = rows[i].model()
	}
	return payments
}

const paymentColumns = `id, round_id, group_id, participant_id, member_id, amount, due_at, status, paid_at`

// CreatePayment persists an obligation. A second obligation for the same
// (round, participant) pair surfaces as a conflict.
func (r *repo) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	_, err := r.exec(ctx,
		`INSERT INTO payments (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.RoundID, p.GroupID, p.ParticipantID, p.MemberID, p.Amount.String(),
		toUnix(p.DueAt), string(p.Status), toNullUnix(p.PaidAt),
	)
	if err != nil {
		return insertErr(err, fmt.Sprintf("payment for participant %s in round %s", p.ParticipantID, p.RoundID))
	}
	return nil
}

// GetPayment retrieves a payment by ID.
func (r *repo) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	var row paymentRow
	if err := r.get(ctx, &row, `SELECT `+paymentColumns+` FROM payments WHERE id = ?`, paymentID); err != nil {
		return nil, getErr(err, "payment", paymentID)
	}
	return row.model(), nil
}

// ListPaymentsByRound returns the obligations of a round.
func (r *repo) ListPaymentsByRound(ctx context.Context, roundID string) ([]*models.Payment, error) {
	var rows []paymentRow
	err := r.selectAll(ctx, &rows,
		`SELECT `+paymentColumns+` FROM payments WHERE round_id = ? ORDER BY due_at, id`,
		roundID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by round: %w", err)
	}
	return paymentModels(rows), nil
}

// ListPendingPaymentsDueBefore returns unpaid obligations due before t.
func (r *repo) ListPendingPaymentsDueBefore(ctx context.Context, t time.Time) ([]*models.Payment, error) {
	var rows []paymentRow
	err := r.selectAll(ctx, &rows,
		`SELECT `+paymentColumns+` FROM payments WHERE status = ? AND due_at < ? ORDER BY due_at, id`,
		string(models.PaymentPending), toUnix(t),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue payments: %w", err)
	}
	return paymentModels(rows), nil
}

// ListPaymentsDueBetween returns obligations with from <= due < to.
func (r *repo) ListPaymentsDueBetween(ctx context.Context, from, to time.Time) ([]*models.Payment, error) {
	var rows []paymentRow
	err := r.selectAll(ctx, &rows,
		`SELECT `+paymentColumns+` FROM payments WHERE due_at >= ? AND due_at < ? ORDER BY due_at, id`,
		toUnix(from), toUnix(to),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by due date: %w", err)
	}
	return paymentModels(rows), nil
}

// UpdatePayment writes the status and paid timestamp of a payment.
func (r *repo) UpdatePayment(ctx context.Context, p *models.Payment) error {
	res, err := r.exec(ctx,
		`UPDATE payments SET status = ?, paid_at = ? WHERE id = ?`,
		string(p.Status), toNullUnix(p.PaidAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return mustAffect(res, "payment", p.ID)
}
