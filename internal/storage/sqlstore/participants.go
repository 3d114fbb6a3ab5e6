package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/rosca/internal/models"
)

type participantRow struct {
	ID            string `db:"id"`
	GroupID       string `db:"group_id"`
	MemberID      string `db:"member_id"`
	TurnSlot      int    `db:"turn_slot"`
	Role          string `db:"role"`
	PaymentStatus string `db:"payment_status"`
	ReceiveStatus string `db:"receive_status"`
	JoinedAt      int64  `db:"joined_at"`
}

func (row *participantRow) model() *models.Participant {
	return &models.Participant{
		ID:            row.ID,
		GroupID:       row.GroupID,
		MemberID:      row.MemberID,
		TurnSlot:      row.TurnSlot,
		Role:          models.Role(row.Role),
		PaymentStatus: models.PaymentStatus(row.PaymentStatus),
		ReceiveStatus: models.ReceiveStatus(row.ReceiveStatus),
		JoinedAt:      fromUnix(row.JoinedAt),
	}
}

func participantModels(rows []participantRow) []*models.Participant {
	participants := make([]*models.Participant, len(rows))
	for i := range rows {
		participants[i] = rows[i].model()
	}
	return participants
}

const participantColumns = `id, group_id, member_id, turn_slot, role, payment_status, receive_status, joined_at`

// CreateParticipant seats a member in a group. A taken slot or a repeated
// member surfaces as a conflict.
func (r *repo) CreateParticipant(ctx context.Context, p *models.Participant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	_, err := r.exec(ctx,
		`INSERT INTO participants (`+participantColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.GroupID, p.MemberID, p.TurnSlot, string(p.Role),
		string(p.PaymentStatus), string(p.ReceiveStatus), toUnix(p.JoinedAt),
	)
	if err != nil {
		return insertErr(err, fmt.Sprintf("participant for slot %d of group %s", p.TurnSlot, p.GroupID))
	}
	return nil
}

// GetParticipant retrieves a participant by ID.
func (r *repo) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	var row participantRow
	err := r.get(ctx, &row, `SELECT `+participantColumns+` FROM participants WHERE id = ?`, participantID)
	if err != nil {
		return nil, getErr(err, "participant", participantID)
	}
	return row.model(), nil
}

// ListParticipants returns a group's participants ordered by turn slot.
func (r *repo) ListParticipants(ctx context.Context, groupID string) ([]*models.Participant, error) {
	var rows []participantRow
	err := r.selectAll(ctx, &rows,
		`SELECT `+participantColumns+` FROM participants WHERE group_id = ? ORDER BY turn_slot`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participantModels(rows), nil
}

// ListParticipantsByMember returns every seat held by a member.
func (r *repo) ListParticipantsByMember(ctx context.Context, memberID string) ([]*models.Participant, error) {
	var rows []participantRow
	err := r.selectAll(ctx, &rows,
		`SELECT `+participantColumns+` FROM participants WHERE member_id = ? ORDER BY joined_at, id`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants by member: %w", err)
	}
	return participantModels(rows), nil
}

// UpdateParticipant writes a participant's role and statuses.
func (r *repo) UpdateParticipant(ctx context.Context, p *models.Participant) error {
	res, err := r.exec(ctx,
		`UPDATE participants SET role = ?, payment_status = ?, receive_status = ? WHERE id = ?`,
		string(p.Role), string(p.PaymentStatus), string(p.ReceiveStatus), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	return mustAffect(res, "participant", p.ID)
}

// ResetParticipantPayments marks every participant of a group as owing again.
func (r *repo) ResetParticipantPayments(ctx context.Context, groupID string) error {
	_, err := r.exec(ctx,
		`UPDATE participants SET payment_status = ? WHERE group_id = ?`,
		string(models.PaymentPending), groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to reset participant payments: %w", err)
	}
	return nil
}
