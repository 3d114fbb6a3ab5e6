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

type roundRow struct {
	ID          string          `db:"id"`
	GroupID     string          `db:"group_id"`
	RoundNumber int             `db:"round_number"`
	WinnerID    string          `db:"winner_id"`
	Amount      decimal.Decimal `db:"amount"`
	StartAt     int64           `db:"start_at"`
	EndAt       int64           `db:"end_at"`
	Status      string          `db:"status"`
	BlockedFrom string          `db:"blocked_from"`
	SettledAt   sql.NullInt64   `db:"settled_at"`
}

func (row *roundRow) model() *models.Round {
	return &models.Round{
		ID:          row.ID,
		GroupID:     row.GroupID,
		RoundNumber: row.RoundNumber,
		WinnerID:    row.WinnerID,
		Amount:      row.Amount,
		StartAt:     fromUnix(row.StartAt),
		EndAt:       fromUnix(row.EndAt),
		Status:      models.RoundStatus(row.Status),
		BlockedFrom: models.RoundStatus(row.BlockedFrom),
		SettledAt:   fromNullUnix(row.SettledAt),
	}
}

const roundColumns = `id, group_id, round_number, winner_id, amount, start_at, end_at, status, blocked_from, settled_at`

// CreateRound persists a scheduled round.
func (r *repo) CreateRound(ctx context.Context, round *models.Round) error {
	if round.ID == "" {
		round.ID = uuid.New().String()
	}

	_, err := r.exec(ctx,
		`INSERT INTO rounds (`+roundColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		round.ID, round.GroupID, round.RoundNumber, round.WinnerID, round.Amount.String(),
		toUnix(round.StartAt), toUnix(round.EndAt), string(round.Status), string(round.BlockedFrom),
		toNullUnix(round.SettledAt),
	)
	if err != nil {
		return insertErr(err, fmt.Sprintf("round %d of group %s", round.RoundNumber, round.GroupID))
	}
	return nil
}

// GetRound retrieves a round by ID.
func (r *repo) GetRound(ctx context.Context, roundID string) (*models.Round, error) {
	var row roundRow
	if err := r.get(ctx, &row, `SELECT `+roundColumns+` FROM rounds WHERE id = ?`, roundID); err != nil {
		return nil, getErr(err, "round", roundID)
	}
	return row.model(), nil
}

// ListRounds returns a group's rounds in round order.
func (r *repo) ListRounds(ctx context.Context, groupID string) ([]*models.Round, error) {
	var rows []roundRow
	err := r.selectAll(ctx, &rows,
		`SELECT `+roundColumns+` FROM rounds WHERE group_id = ? ORDER BY round_number`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}

	rounds := make([]*models.Round, len(rows))
	for i := range rows {
		rounds[i] = rows[i].model()
	}
	return rounds, nil
}

// UpdateRoundStatus writes the status fields of a round.
func (r *repo) UpdateRoundStatus(ctx context.Context, round *models.Round) error {
	res, err := r.exec(ctx,
		`UPDATE rounds SET status = ?, blocked_from = ? WHERE id = ?`,
		string(round.Status), string(round.BlockedFrom), round.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update round status: %w", err)
	}
	return mustAffect(res, "round", round.ID)
}

// ClaimRoundSettlement flips the one-time settlement flag. Only the first
// caller sees true.
func (r *repo) ClaimRoundSettlement(ctx context.Context, roundID string, at time.Time) (bool, error) {
	res, err := r.exec(ctx,
		`UPDATE rounds SET settled_at = ? WHERE id = ? AND settled_at IS NULL`,
		toUnix(at), roundID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim round settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}
