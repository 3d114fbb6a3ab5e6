package rosca

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/mmynk/rosca/internal/models"
	"github.com/mmynk/rosca/internal/storage"
)

// ActivateGroup approves a full group and schedules its rounds.
func (e *Engine) ActivateGroup(ctx context.Context, groupID string) (group *models.Group, err error) {
	ctx, span := e.startSpan(ctx, "ActivateGroup", attribute.String("group_id", groupID))
	defer func() { finish(span, err) }()

	if groupID == "" {
		return nil, apperrors.Validation("group_id is required")
	}

	release := e.locks.lock(groupKey(groupID))
	defer release()

	err = e.store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		var err error
		group, err = tx.LockGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if group.Status != models.GroupPendingApproval {
			return apperrors.StateTransition("group %s is %s, not %s", group.ID, group.Status, models.GroupPendingApproval)
		}
		return e.activate(ctx, tx, group)
	})
	if err != nil {
		slog.Warn("Group activation rejected", "group_id", groupID, "error", err)
		return nil, err
	}

	e.metrics.GroupTransition(string(group.Status))
	slog.Info("Group activated", "group_id", group.ID)
	return group, nil
}

// SetGroupStatus is the administrative status control of a group.
//
// ACTIVE on a PENDING_APPROVAL group activates it. BLOCKED suspends any
// non-terminal group, and a blocked group returns only to the status it had
// when it was blocked. WAITING_FOR_MEMBERS to PENDING_APPROVAL and ACTIVE to
// COMPLETED happen on their own and cannot be requested.
func (e *Engine) SetGroupStatus(ctx context.Context, groupID string, to models.GroupStatus) (group *models.Group, err error) {
	ctx, span := e.startSpan(ctx, "SetGroupStatus",
		attribute.String("group_id", groupID),
		attribute.String("status", string(to)),
	)
	defer func() { finish(span, err) }()

	if groupID == "" {
		return nil, apperrors.Validation("group_id is required")
	}
	if !to.Valid() {
		return nil, apperrors.Validation("unknown group status %q", to)
	}

	release := e.locks.lock(groupKey(groupID))
	defer release()

	var from models.GroupStatus
	err = e.store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		var err error
		group, err = tx.LockGroup(ctx, groupID)
		if err != nil {
			return err
		}
		from = group.Status
		now := e.clock()

		switch {
		case to == models.GroupBlocked:
			err = group.Block(now)
		case group.Status == models.GroupBlocked:
			err = group.Unblock(to, now)
		case group.Status == models.GroupPendingApproval && to == models.GroupActive:
			return e.activate(ctx, tx, group)
		default:
			err = apperrors.StateTransition("group %s cannot be set from %s to %s", group.ID, group.Status, to)
		}
		if err != nil {
			return err
		}
		return tx.UpdateGroupStatus(ctx, group)
	})
	if err != nil {
		slog.Warn("Group status change rejected", "group_id", groupID, "to", to, "error", err)
		return nil, err
	}

	e.metrics.GroupTransition(string(group.Status))
	slog.Info("Group status changed", "group_id", group.ID, "from", from, "to", group.Status)
	return group, nil
}

// activate moves a PENDING_APPROVAL group to ACTIVE and materializes its
// rounds. The group must be locked by the caller.
func (e *Engine) activate(ctx context.Context, tx storage.Repository, group *models.Group) error {
	participants, err := tx.ListParticipants(ctx, group.ID)
	if err != nil {
		return err
	}
	if len(participants) != group.Capacity {
		return apperrors.StateTransition("group %s has %d of %d members", group.ID, len(participants), group.Capacity)
	}
	if !group.PoolConserved() {
		return integrityFault(
			apperrors.StateTransition("group %s pool %s is not %s x %d", group.ID, group.TotalPool, group.MonthlyContribution, group.Capacity),
			"group_id", group.ID,
		)
	}

	if err := group.Transition(models.GroupActive, e.clock()); err != nil {
		return err
	}
	if err := tx.UpdateGroupStatus(ctx, group); err != nil {
		return err
	}

	rounds, err := e.scheduleRounds(ctx, tx, group, participants)
	if err != nil {
		return err
	}
	slog.Info("Rounds scheduled", "group_id", group.ID, "rounds", len(rounds))
	return nil
}

// DeleteGroup removes a group with its participants, rounds and payments.
// ACTIVE groups cannot be deleted.
func (e *Engine) DeleteGroup(ctx context.Context, groupID string) (err error) {
	ctx, span := e.startSpan(ctx, "DeleteGroup", attribute.String("group_id", groupID))
	defer func() { finish(span, err) }()

	if groupID == "" {
		return apperrors.Validation("group_id is required")
	}

	release := e.locks.lock(groupKey(groupID))
	defer release()

	err = e.store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		group, err := tx.LockGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if group.Status == models.GroupActive {
			return apperrors.StateTransition("group %s is active and cannot be deleted", group.ID)
		}
		return tx.DeleteGroup(ctx, group.ID)
	})
	if err != nil {
		return err
	}

	slog.Info("Group deleted", "group_id", groupID)
	return nil
}

// GetGroup returns a group and its participants ordered by turn slot.
func (e *Engine) GetGroup(ctx context.Context, groupID string) (group *models.Group, participants []*models.Participant, err error) {
	ctx, span := e.startSpan(ctx, "GetGroup", attribute.String("group_id", groupID))
	defer func() { finish(span, err) }()

	if groupID == "" {
		return nil, nil, apperrors.Validation("group_id is required")
	}
	group, err = e.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	participants, err = e.store.ListParticipants(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	return group, participants, nil
}

// ListGroups returns the groups in a status, oldest first.
func (e *Engine) ListGroups(ctx context.Context, status models.GroupStatus) (groups []*models.Group, err error) {
	ctx, span := e.startSpan(ctx, "ListGroups", attribute.String("status", string(status)))
	defer func() { finish(span, err) }()

	if !status.Valid() {
		return nil, apperrors.Validation("unknown group status %q", status)
	}
	return e.store.ListGroupsByStatus(ctx, status)
}

// ListMemberGroups returns the seats a member holds across groups.
func (e *Engine) ListMemberGroups(ctx context.Context, memberID string) (participants []*models.Participant, err error) {
	ctx, span := e.startSpan(ctx, "ListMemberGroups", attribute.String("member_id", memberID))
	defer func() { finish(span, err) }()

	if _, err := e.store.GetMember(ctx, memberID); err != nil {
		return nil, err
	}
	return e.store.ListParticipantsByMember(ctx, memberID)
}

// completeGroupIfDone moves an ACTIVE group to COMPLETED once every round is
// COMPLETED. It reports whether the group was completed.
func (e *Engine) completeGroupIfDone(ctx context.Context, tx storage.Repository, group *models.Group) (bool, error) {
	rounds, err := tx.ListRounds(ctx, group.ID)
	if err != nil {
		return false, err
	}
	if len(rounds) != group.Capacity {
		return false, nil
	}
	for _, r := range rounds {
		if r.Status != models.RoundCompleted {
			return false, nil
		}
	}

	if err := group.Transition(models.GroupCompleted, e.clock()); err != nil {
		return false, err
	}
	if err := tx.UpdateGroupStatus(ctx, group); err != nil {
		return false, err
	}
	return true, nil
}
