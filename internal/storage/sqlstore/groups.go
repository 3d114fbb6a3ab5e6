package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/rosca/internal/models"
)

type groupRow struct {
	ID                  string          `db:"id"`
	PlanID              string          `db:"plan_id"`
	Status              string          `db:"status"`
	BlockedFrom         string          `db:"blocked_from"`
	Capacity            int             `db:"capacity"`
	MonthlyContribution decimal.Decimal `db:"monthly_contribution"`
	TotalPool           decimal.Decimal `db:"total_pool"`
	StartAt             int64           `db:"start_at"`
	EndAt               int64           `db:"end_at"`
	CreatedAt           int64           `db:"created_at"`
	UpdatedAt           int64           `db:"updated_at"`
}

func (row *groupRow) model() *models.Group {
	return &models.Group{
		ID:                  row.ID,
		PlanID:              row.PlanID,
		Status:              models.GroupStatus(row.Status),
		BlockedFrom:         models.GroupStatus(row.BlockedFrom),
		Capacity:            row.Capacity,
		MonthlyContribution: row.MonthlyContribution,
		TotalPool:           row.TotalPool,
		StartAt:             fromUnix(row.StartAt),
		EndAt:               fromUnix(row.EndAt),
		CreatedAt:           fromUnix(row.CreatedAt),
		UpdatedAt:           fromUnix(row.UpdatedAt),
	}
}

func groupModels(rows []groupRow) []*models.Group {
	groups := make([]*models.Group, len(rows))
	for i := range rows {
		groups[i] = rows[i].model()
	}
	return groups
}

const groupColumns = `id, plan_id, status, blocked_from, capacity, monthly_contribution, total_pool,
	start_at, end_at, created_at, updated_at`

// CreateGroup persists a new group.
func (r *repo) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	if group.UpdatedAt.IsZero() {
		group.UpdatedAt = group.CreatedAt
	}

	_, err := r.exec(ctx,
		`INSERT INTO savings_groups (`+groupColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.PlanID, string(group.Status), string(group.BlockedFrom), group.Capacity,
		group.MonthlyContribution.String(), group.TotalPool.String(),
		toUnix(group.StartAt), toUnix(group.EndAt), toUnix(group.CreatedAt), toUnix(group.UpdatedAt),
	)
	if err != nil {
		return insertErr(err, "group")
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (r *repo) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	var row groupRow
	if err := r.get(ctx, &row, `SELECT `+groupColumns+` FROM savings_groups WHERE id = ?`, groupID); err != nil {
		return nil, getErr(err, "group", groupID)
	}
	return row.model(), nil
}

// LockGroup retrieves a group, locking the row on PostgreSQL.
func (r *repo) LockGroup(ctx context.Context, groupID string) (*models.Group, error) {
	var row groupRow
	err := r.get(ctx, &row, `SELECT `+groupColumns+` FROM savings_groups WHERE id = ?`+r.forUpdate(), groupID)
	if err != nil {
		return nil, getErr(err, "group", groupID)
	}
	return row.model(), nil
}

// UpdateGroupStatus writes the status fields of a group.
func (r *repo) UpdateGroupStatus(ctx context.Context, group *models.Group) error {
	res, err := r.exec(ctx,
		`UPDATE savings_groups SET status = ?, blocked_from = ?, updated_at = ? WHERE id = ?`,
		string(group.Status), string(group.BlockedFrom), toUnix(group.UpdatedAt), group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group status: %w", err)
	}
	return mustAffect(res, "group", group.ID)
}

// ListGroupsByStatus returns the groups in a status, oldest first.
func (r *repo) ListGroupsByStatus(ctx context.Context, status models.GroupStatus) ([]*models.Group, error) {
	var rows []groupRow
	err := r.selectAll(ctx, &rows,
		`SELECT `+groupColumns+` FROM savings_groups WHERE status = ? ORDER BY created_at, id`,
		string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by status: %w", err)
	}
	return groupModels(rows), nil
}

// ListOpenGroups returns waiting groups built from the given plan values, oldest first.
func (r *repo) ListOpenGroups(ctx context.Context, contribution decimal.Decimal, capacity int) ([]*models.Group, error) {
	var rows []groupRow
	err := r.selectAll(ctx, &rows,
		`SELECT `+groupColumns+` FROM savings_groups
		 WHERE status = ? AND monthly_contribution = ? AND capacity = ?
		 ORDER BY created_at, id`,
		string(models.GroupWaitingForMembers), contribution.String(), capacity,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list open groups: %w", err)
	}
	return groupModels(rows), nil
}

// DeleteGroup removes a group and everything it owns, children first.
// Callers run it inside WithTx so the cascade is all-or-nothing.
func (r *repo) DeleteGroup(ctx context.Context, groupID string) error {
	for _, stmt := range []string{
		`DELETE FROM payments WHERE group_id = ?`,
		`DELETE FROM rounds WHERE group_id = ?`,
		`DELETE FROM participants WHERE group_id = ?`,
	} {
		if _, err := r.exec(ctx, stmt, groupID); err != nil {
			return fmt.Errorf("failed to delete group children: %w", err)
		}
	}

	res, err := r.exec(ctx, `DELETE FROM savings_groups WHERE id = ?`, groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return mustAffect(res, "group", groupID)
}
