package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/rosca/internal/models"
)

type memberRow struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	Balance   decimal.Decimal `db:"balance"`
	CreatedAt int64           `db:"created_at"`
	UpdatedAt int64           `db:"updated_at"`
}

func (row *memberRow) model() *models.Member {
	return &models.Member{
		ID:        row.ID,
		Name:      row.Name,
		Balance:   row.Balance,
		CreatedAt: fromUnix(row.CreatedAt),
		UpdatedAt: fromUnix(row.UpdatedAt),
	}
}

const memberColumns = `id, name, balance, created_at, updated_at`

// CreateMember inserts a new member into the database.
func (r *repo) CreateMember(ctx context.Context, member *models.Member) error {
	// Generate ID if not set
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt.IsZero() {
		member.CreatedAt = time.Now().UTC()
	}
	if member.UpdatedAt.IsZero() {
		member.UpdatedAt = member.CreatedAt
	}

	_, err := r.exec(ctx,
		`INSERT INTO members (`+memberColumns+`) VALUES (?, ?, ?, ?, ?)`,
		member.ID, member.Name, member.Balance.String(), toUnix(member.CreatedAt), toUnix(member.UpdatedAt),
	)
	if err != nil {
		return insertErr(err, "member")
	}
	return nil
}

// GetMember retrieves a member by ID.
func (r *repo) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	var row memberRow
	err := r.get(ctx, &row, `SELECT `+memberColumns+` FROM members WHERE id = ?`, memberID)
	if err != nil {
		return nil, getErr(err, "member", memberID)
	}
	return row.model(), nil
}

// LockMember retrieves a member, locking the row on PostgreSQL.
func (r *repo) LockMember(ctx context.Context, memberID string) (*models.Member, error) {
	var row memberRow
	err := r.get(ctx, &row, `SELECT `+memberColumns+` FROM members WHERE id = ?`+r.forUpdate(), memberID)
	if err != nil {
		return nil, getErr(err, "member", memberID)
	}
	return row.model(), nil
}

// UpdateMemberBalance overwrites a member's balance.
func (r *repo) UpdateMemberBalance(ctx context.Context, memberID string, balance decimal.Decimal, at time.Time) error {
	res, err := r.exec(ctx,
		`UPDATE members SET balance = ?, updated_at = ? WHERE id = ?`,
		balance.String(), toUnix(at), memberID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member balance: %w", err)
	}
	return mustAffect(res, "member", memberID)
}
