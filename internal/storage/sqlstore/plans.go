package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/mmynk/rosca/internal/models"
)

type planRow struct {
	ID           string          `db:"id"`
	Contribution decimal.Decimal `db:"contribution"`
	TermMonths   int             `db:"term_months"`
	CreatedAt    int64           `db:"created_at"`
}

func (row *planRow) model() *models.Plan {
	return &models.Plan{
		ID:           row.ID,
		Contribution: row.Contribution,
		TermMonths:   row.TermMonths,
		CreatedAt:    fromUnix(row.CreatedAt),
	}
}

const planColumns = `id, contribution, term_months, created_at`

// GetOrCreatePlan returns the plan for the given values, inserting it on first use.
// Contributions are compared in their canonical decimal form ("2000.00" == "2000").
func (r *repo) GetOrCreatePlan(ctx context.Context, contribution decimal.Decimal, termMonths int) (*models.Plan, error) {
	plan, err := r.findPlan(ctx, contribution, termMonths)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	_, err = r.exec(ctx,
		`INSERT INTO plans (`+planColumns+`) VALUES (?, ?, ?, ?)
		 ON CONFLICT (contribution, term_months) DO NOTHING`,
		uuid.New().String(), contribution.String(), termMonths, toUnix(time.Now().UTC()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert plan: %w", err)
	}

	// Re-read so a plan inserted concurrently by another process wins.
	return r.findPlan(ctx, contribution, termMonths)
}

func (r *repo) findPlan(ctx context.Context, contribution decimal.Decimal, termMonths int) (*models.Plan, error) {
	var row planRow
	err := r.get(ctx, &row,
		`SELECT `+planColumns+` FROM plans WHERE contribution = ? AND term_months = ?`,
		contribution.String(), termMonths,
	)
	if err != nil {
		return nil, getErr(err, "plan", fmt.Sprintf("%s x %d", contribution, termMonths))
	}
	return row.model(), nil
}

// GetPlan retrieves a plan by ID.
func (r *repo) GetPlan(ctx context.Context, planID string) (*models.Plan, error) {
	var row planRow
	if err := r.get(ctx, &row, `SELECT `+planColumns+` FROM plans WHERE id = ?`, planID); err != nil {
		return nil, getErr(err, "plan", planID)
	}
	return row.model(), nil
}
