package rosca

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/mmynk/rosca/internal/models"
	"github.com/mmynk/rosca/internal/storage"
)

// ListRounds returns a group's rounds ordered by round number.
func (e *Engine) ListRounds(ctx context.Context, groupID string) (rounds []*models.Round, err error) {
	ctx, span := e.startSpan(ctx, "ListRounds", attribute.String("group_id", groupID))
	defer func() { finish(span, err) }()

	if groupID == "" {
		return nil, apperrors.Validation("group_id is required")
	}
	if _, err := e.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return e.store.ListRounds(ctx, groupID)
}

// SetRoundStatus is the administrative status control of a round.
//
// ACTIVE on a PENDING_APPROVAL round opens it and generates its obligations;
// the group must be ACTIVE with no other round open. BLOCKED suspends a
// non-terminal round, and a blocked round returns only to its prior status.
// COMPLETED is reached through settlement only.
func (e *Engine) SetRoundStatus(ctx context.Context, roundID string, to models.RoundStatus) (round *models.Round, err error) {
	ctx, span := e.startSpan(ctx, "SetRoundStatus",
		attribute.String("round_id", roundID),
		attribute.String("status", string(to)),
	)
	defer func() { finish(span, err) }()

	if roundID == "" {
		return nil, apperrors.Validation("round_id is required")
	}
	if !to.Valid() {
		return nil, apperrors.Validation("unknown round status %q", to)
	}

	current, err := e.store.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}

	release := e.locks.lock(groupKey(current.GroupID))
	defer release()

	var from models.RoundStatus
	err = e.store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		var err error
		round, err = tx.GetRound(ctx, roundID)
		if err != nil {
			return err
		}
		from = round.Status

		switch {
		case to == models.RoundBlocked:
			err = round.Block()
		case round.Status == models.RoundBlocked:
			err = round.Unblock(to)
		case round.Status == models.RoundPendingApproval && to == models.RoundActive:
			return e.openScheduledRound(ctx, tx, round)
		default:
			err = apperrors.StateTransition("round %d of group %s cannot be set from %s to %s", round.RoundNumber, round.GroupID, round.Status, to)
		}
		if err != nil {
			return err
		}
		return tx.UpdateRoundStatus(ctx, round)
	})
	if err != nil {
		slog.Warn("Round status change rejected", "round_id", roundID, "to", to, "error", err)
		return nil, err
	}

	slog.Info("Round status changed", "group_id", round.GroupID, "round_id", round.ID, "from", from, "to", round.Status)
	return round, nil
}

// openScheduledRound opens a PENDING_APPROVAL round ahead of settlement.
func (e *Engine) openScheduledRound(ctx context.Context, tx storage.Repository, round *models.Round) error {
	group, err := tx.LockGroup(ctx, round.GroupID)
	if err != nil {
		return err
	}
	if group.Status != models.GroupActive {
		return apperrors.StateTransition("group %s is %s, rounds open only in an active group", group.ID, group.Status)
	}

	rounds, err := tx.ListRounds(ctx, group.ID)
	if err != nil {
		return err
	}
	for _, r := range rounds {
		if r.Status == models.RoundActive {
			return apperrors.StateTransition("round %d of group %s is still open", r.RoundNumber, group.ID)
		}
	}

	if err := round.Transition(models.RoundActive); err != nil {
		return err
	}
	if err := tx.UpdateRoundStatus(ctx, round); err != nil {
		return err
	}
	participants, err := tx.ListParticipants(ctx, group.ID)
	if err != nil {
		return err
	}
	return e.openRound(ctx, tx, group, round, participants)
}
