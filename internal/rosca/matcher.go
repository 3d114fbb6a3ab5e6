package rosca

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/mmynk/rosca/internal/models"
	"github.com/mmynk/rosca/internal/storage"
)

// JoinRequest asks for a seat in a group of the given plan.
type JoinRequest struct {
	MemberID     string
	Contribution decimal.Decimal
	TermMonths   int
	// RequestedSlot is the preferred turn slot. Zero means any slot.
	RequestedSlot int
}

// JoinResult is the seat granted by Join.
type JoinResult struct {
	Group       *models.Group
	Participant *models.Participant
}

// Join seats a member in the oldest open group of the plan, creating the
// group when none has room. The group moves to PENDING_APPROVAL when the
// seat fills it.
//
// A requested slot that is taken in the selected group fails with a
// conflict; other groups are not searched for it. Conflicts are safe to
// retry.
func (e *Engine) Join(ctx context.Context, req JoinRequest) (result *JoinResult, err error) {
	ctx, span := e.startSpan(ctx, "Join",
		attribute.String("member_id", req.MemberID),
		attribute.String("contribution", req.Contribution.String()),
		attribute.Int("term_months", req.TermMonths),
	)
	defer func() {
		e.metrics.Join(outcome(err))
		finish(span, err)
	}()

	if req.MemberID == "" {
		return nil, apperrors.Validation("member_id is required")
	}
	if err := models.ValidatePlan(req.Contribution, req.TermMonths); err != nil {
		return nil, err
	}
	if req.RequestedSlot < 0 || req.RequestedSlot > req.TermMonths {
		return nil, apperrors.Validation("requested slot %d is outside 1..%d", req.RequestedSlot, req.TermMonths)
	}
	if _, err := e.store.GetMember(ctx, req.MemberID); err != nil {
		return nil, err
	}

	release := e.locks.lock(planKey(req.Contribution.String(), req.TermMonths))
	defer release()

	candidate, err := e.selectGroup(ctx, req)
	if err != nil {
		return nil, err
	}
	if candidate != "" {
		releaseGroup := e.locks.lock(groupKey(candidate))
		defer releaseGroup()
	}

	err = e.store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		var err error
		result, err = e.seat(ctx, tx, candidate, req)
		return err
	})
	if err != nil {
		slog.Warn("Join failed", "member_id", req.MemberID, "group_id", candidate, "error", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("group_id", result.Group.ID),
		attribute.Int("turn_slot", result.Participant.TurnSlot),
	)
	slog.Info("Member joined group",
		"member_id", req.MemberID,
		"group_id", result.Group.ID,
		"turn_slot", result.Participant.TurnSlot,
		"group_status", result.Group.Status,
	)
	if result.Group.Status == models.GroupPendingApproval {
		e.metrics.GroupTransition(string(models.GroupPendingApproval))
	}
	return result, nil
}

// selectGroup returns the oldest open group of the plan that has room and
// does not seat the member yet, or "" when a new group is needed.
func (e *Engine) selectGroup(ctx context.Context, req JoinRequest) (string, error) {
	open, err := e.store.ListOpenGroups(ctx, req.Contribution, req.TermMonths)
	if err != nil {
		return "", err
	}

	for _, g := range open {
		participants, err := e.store.ListParticipants(ctx, g.ID)
		if err != nil {
			return "", err
		}
		if len(participants) >= g.Capacity || seats(participants, req.MemberID) {
			continue
		}
		return g.ID, nil
	}
	return "", nil
}

// seat inserts the participant inside tx. groupID is re-read and re-checked
// because it was selected outside the transaction.
func (e *Engine) seat(ctx context.Context, tx storage.Repository, groupID string, req JoinRequest) (*JoinResult, error) {
	now := e.clock()

	var (
		group        *models.Group
		participants []*models.Participant
	)
	if groupID == "" {
		plan, err := tx.GetOrCreatePlan(ctx, req.Contribution, req.TermMonths)
		if err != nil {
			return nil, err
		}
		group = models.NewGroup("", plan, now)
		if err := tx.CreateGroup(ctx, group); err != nil {
			return nil, err
		}
		slog.Info("Group created", "group_id", group.ID, "plan_id", plan.ID, "capacity", group.Capacity)
	} else {
		var err error
		group, err = tx.LockGroup(ctx, groupID)
		if err != nil {
			return nil, err
		}
		if group.Status != models.GroupWaitingForMembers {
			return nil, apperrors.Conflict("group %s is no longer accepting members", group.ID)
		}
		participants, err = tx.ListParticipants(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		if len(participants) >= group.Capacity {
			return nil, apperrors.Conflict("group %s is full", group.ID)
		}
		if seats(participants, req.MemberID) {
			return nil, apperrors.Conflict("member %s already belongs to group %s", req.MemberID, group.ID)
		}
	}

	slot, ok := models.FreeSlot(participants, group.Capacity, req.RequestedSlot)
	if !ok {
		return nil, apperrors.Conflict("turn slot %d of group %s is taken", slot, group.ID)
	}

	p := &models.Participant{
		GroupID:       group.ID,
		MemberID:      req.MemberID,
		TurnSlot:      slot,
		Role:          models.RolePayer,
		PaymentStatus: models.PaymentPending,
		ReceiveStatus: models.NotReceived,
		JoinedAt:      now,
	}
	if err := tx.CreateParticipant(ctx, p); err != nil {
		return nil, err
	}

	if len(participants)+1 == group.Capacity {
		if err := group.Transition(models.GroupPendingApproval, now); err != nil {
			return nil, err
		}
		if err := tx.UpdateGroupStatus(ctx, group); err != nil {
			return nil, err
		}
	}

	return &JoinResult{Group: group, Participant: p}, nil
}

func seats(participants []*models.Participant, memberID string) bool {
	for _, p := range participants {
		if p.MemberID == memberID {
			return true
		}
	}
	return false
}
