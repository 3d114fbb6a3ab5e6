package rosca

import (
	"context"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/mmynk/rosca/internal/calculator"
	"github.com/mmynk/rosca/internal/models"
	"github.com/mmynk/rosca/internal/storage"
)

// scheduleRounds materializes the capacity rounds of a group that has just
// become ACTIVE. Round 1 is created ACTIVE and opened; the rest wait in
// PENDING_APPROVAL until their predecessor settles.
func (e *Engine) scheduleRounds(ctx context.Context, tx storage.Repository, group *models.Group, participants []*models.Participant) ([]*models.Round, error) {
	bySlot := make(map[int]*models.Participant, len(participants))
	for _, p := range participants {
		bySlot[p.TurnSlot] = p
	}

	plans := calculator.PlanRounds(group.StartAt, group.Capacity, group.MonthlyContribution)
	rounds := make([]*models.Round, 0, len(plans))
	for _, plan := range plans {
		winner, ok := bySlot[plan.RoundNumber]
		if !ok {
			return nil, integrityFault(
				apperrors.Integrity("group %s has no participant in turn slot %d", group.ID, plan.RoundNumber),
				"group_id", group.ID, "turn_slot", plan.RoundNumber,
			)
		}

		status := models.RoundPendingApproval
		if plan.RoundNumber == 1 {
			status = models.RoundActive
		}
		round := &models.Round{
			GroupID:     group.ID,
			RoundNumber: plan.RoundNumber,
			WinnerID:    winner.ID,
			Amount:      plan.Amount,
			StartAt:     plan.StartAt,
			EndAt:       plan.EndAt,
			Status:      status,
		}
		if err := tx.CreateRound(ctx, round); err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
	}

	if err := e.openRound(ctx, tx, group, rounds[0], participants); err != nil {
		return nil, err
	}
	return rounds, nil
}
