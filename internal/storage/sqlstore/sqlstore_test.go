package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/mmynk/rosca/internal/models"
	"github.com/mmynk/rosca/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// seedGroup creates a member, a plan and a waiting group with one participant.
func seedGroup(t *testing.T, store *Store) (*models.Group, *models.Participant) {
	t.Helper()
	ctx := context.Background()

	member := &models.Member{Name: "Amina", Balance: decimal.NewFromInt(5000)}
	if err := store.CreateMember(ctx, member); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}

	plan, err := store.GetOrCreatePlan(ctx, decimal.NewFromInt(3000), 3)
	if err != nil {
		t.Fatalf("GetOrCreatePlan failed: %v", err)
	}

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	group := models.NewGroup("", plan, now)
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	p := &models.Participant{
		GroupID:       group.ID,
		MemberID:      member.ID,
		TurnSlot:      1,
		Role:          models.RolePayer,
		PaymentStatus: models.PaymentPending,
		ReceiveStatus: models.NotReceived,
		JoinedAt:      now,
	}
	if err := store.CreateParticipant(ctx, p); err != nil {
		t.Fatalf("CreateParticipant failed: %v", err)
	}
	return group, p
}

func TestStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateMember generates ID and keeps exact balance", func(t *testing.T) {
		member := &models.Member{Name: "Kofi", Balance: decimal.RequireFromString("1234.56")}
		if err := store.CreateMember(ctx, member); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}
		if member.ID == "" {
			t.Error("Expected member ID to be generated")
		}

		got, err := store.GetMember(ctx, member.ID)
		if err != nil {
			t.Fatalf("GetMember failed: %v", err)
		}
		if !got.Balance.Equal(member.Balance) {
			t.Errorf("Balance: got %s, want %s", got.Balance, member.Balance)
		}
		if got.Name != "Kofi" {
			t.Errorf("Name: got %q, want Kofi", got.Name)
		}
	})

	t.Run("GetMember returns not found", func(t *testing.T) {
		_, err := store.GetMember(ctx, "missing")
		if !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("Expected not found, got %v", err)
		}
	})

	t.Run("GetOrCreatePlan is canonical on contribution", func(t *testing.T) {
		a, err := store.GetOrCreatePlan(ctx, decimal.RequireFromString("2000.00"), 5)
		if err != nil {
			t.Fatalf("GetOrCreatePlan failed: %v", err)
		}
		b, err := store.GetOrCreatePlan(ctx, decimal.NewFromInt(2000), 5)
		if err != nil {
			t.Fatalf("GetOrCreatePlan failed: %v", err)
		}
		if a.ID != b.ID {
			t.Errorf("Expected the same plan, got %s and %s", a.ID, b.ID)
		}

		c, err := store.GetOrCreatePlan(ctx, decimal.NewFromInt(2000), 6)
		if err != nil {
			t.Fatalf("GetOrCreatePlan failed: %v", err)
		}
		if c.ID == a.ID {
			t.Error("Expected a different plan for a different term")
		}
	})

	t.Run("Group round trip and open group listing", func(t *testing.T) {
		group, _ := seedGroup(t, store)

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Status != models.GroupWaitingForMembers {
			t.Errorf("Status: got %s", got.Status)
		}
		if !got.TotalPool.Equal(decimal.NewFromInt(9000)) {
			t.Errorf("TotalPool: got %s, want 9000", got.TotalPool)
		}
		if !got.StartAt.Equal(group.StartAt) || !got.EndAt.Equal(group.EndAt) {
			t.Errorf("Window: got %v-%v, want %v-%v", got.StartAt, got.EndAt, group.StartAt, group.EndAt)
		}

		open, err := store.ListOpenGroups(ctx, decimal.NewFromInt(3000), 3)
		if err != nil {
			t.Fatalf("ListOpenGroups failed: %v", err)
		}
		found := false
		for _, g := range open {
			if g.ID == group.ID {
				found = true
			}
		}
		if !found {
			t.Error("Expected group in open listing")
		}

		if err := got.Block(time.Now().UTC()); err != nil {
			t.Fatalf("Block failed: %v", err)
		}
		if err := store.UpdateGroupStatus(ctx, got); err != nil {
			t.Fatalf("UpdateGroupStatus failed: %v", err)
		}
		blocked, err := store.ListGroupsByStatus(ctx, models.GroupBlocked)
		if err != nil {
			t.Fatalf("ListGroupsByStatus failed: %v", err)
		}
		if len(blocked) != 1 || blocked[0].BlockedFrom != models.GroupWaitingForMembers {
			t.Errorf("Expected one blocked group remembering WAITING_FOR_MEMBERS, got %+v", blocked)
		}
	})

	t.Run("Duplicate turn slot is a conflict", func(t *testing.T) {
		group, first := seedGroup(t, store)

		other := &models.Member{Name: "Zawadi", Balance: decimal.Zero}
		if err := store.CreateMember(ctx, other); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}

		dup := &models.Participant{
			GroupID:       group.ID,
			MemberID:      other.ID,
			TurnSlot:      first.TurnSlot,
			Role:          models.RolePayer,
			PaymentStatus: models.PaymentPending,
			ReceiveStatus: models.NotReceived,
			JoinedAt:      time.Now().UTC(),
		}
		err := store.CreateParticipant(ctx, dup)
		if !errors.Is(err, apperrors.ErrConflict) {
			t.Fatalf("Expected conflict, got %v", err)
		}
	})

	t.Run("ClaimRoundSettlement succeeds once", func(t *testing.T) {
		group, p := seedGroup(t, store)

		round := &models.Round{
			GroupID:     group.ID,
			RoundNumber: 1,
			WinnerID:    p.ID,
			Amount:      group.MonthlyContribution,
			StartAt:     group.StartAt,
			EndAt:       group.StartAt.AddDate(0, 1, 0).Add(-time.Minute),
			Status:      models.RoundActive,
		}
		if err := store.CreateRound(ctx, round); err != nil {
			t.Fatalf("CreateRound failed: %v", err)
		}

		now := time.Now().UTC()
		first, err := store.ClaimRoundSettlement(ctx, round.ID, now)
		if err != nil {
			t.Fatalf("ClaimRoundSettlement failed: %v", err)
		}
		second, err := store.ClaimRoundSettlement(ctx, round.ID, now)
		if err != nil {
			t.Fatalf("ClaimRoundSettlement failed: %v", err)
		}
		if !first || second {
			t.Errorf("Expected (true, false), got (%v, %v)", first, second)
		}

		got, err := store.GetRound(ctx, round.ID)
		if err != nil {
			t.Fatalf("GetRound failed: %v", err)
		}
		if !got.Settled() {
			t.Error("Expected round to be settled")
		}
	})

	t.Run("Payment listings by due date", func(t *testing.T) {
		group, p := seedGroup(t, store)

		round := &models.Round{
			GroupID:     group.ID,
			RoundNumber: 1,
			WinnerID:    p.ID,
			Amount:      group.MonthlyContribution,
			StartAt:     group.StartAt,
			EndAt:       group.StartAt.AddDate(0, 1, 0).Add(-time.Minute),
			Status:      models.RoundActive,
		}
		if err := store.CreateRound(ctx, round); err != nil {
			t.Fatalf("CreateRound failed: %v", err)
		}

		due := group.StartAt.Add(5 * 24 * time.Hour)
		payment := &models.Payment{
			RoundID:       round.ID,
			GroupID:       group.ID,
			ParticipantID: p.ID,
			MemberID:      p.MemberID,
			Amount:        group.MonthlyContribution,
			DueAt:         due,
			Status:        models.PaymentPending,
		}
		if err := store.CreatePayment(ctx, payment); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}

		again := *payment
		again.ID = ""
		if err := store.CreatePayment(ctx, &again); !errors.Is(err, apperrors.ErrConflict) {
			t.Errorf("Expected conflict for a second obligation, got %v", err)
		}

		overdue, err := store.ListPendingPaymentsDueBefore(ctx, due.Add(time.Second))
		if err != nil {
			t.Fatalf("ListPendingPaymentsDueBefore failed: %v", err)
		}
		if !containsPayment(overdue, payment.ID) {
			t.Error("Expected payment in overdue listing")
		}

		inRange, err := store.ListPaymentsDueBetween(ctx, due, due.Add(time.Hour))
		if err != nil {
			t.Fatalf("ListPaymentsDueBetween failed: %v", err)
		}
		if !containsPayment(inRange, payment.ID) {
			t.Error("Expected payment in due range")
		}

		if err := payment.MarkPaid(due); err != nil {
			t.Fatalf("MarkPaid failed: %v", err)
		}
		if err := store.UpdatePayment(ctx, payment); err != nil {
			t.Fatalf("UpdatePayment failed: %v", err)
		}
		overdue, err = store.ListPendingPaymentsDueBefore(ctx, due.Add(time.Second))
		if err != nil {
			t.Fatalf("ListPendingPaymentsDueBefore failed: %v", err)
		}
		if containsPayment(overdue, payment.ID) {
			t.Error("Paid payment should not be listed as overdue")
		}
	})

	t.Run("DeleteGroup cascades explicitly", func(t *testing.T) {
		group, p := seedGroup(t, store)

		err := store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
			return tx.DeleteGroup(ctx, group.ID)
		})
		if err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}

		if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("Expected group to be gone, got %v", err)
		}
		if _, err := store.GetParticipant(ctx, p.ID); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("Expected participant to be gone, got %v", err)
		}
	})

	t.Run("WithTx rolls back on error", func(t *testing.T) {
		member := &models.Member{Name: "Rollback", Balance: decimal.NewFromInt(100)}
		if err := store.CreateMember(ctx, member); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}

		boom := errors.New("boom")
		err := store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
			if err := tx.UpdateMemberBalance(ctx, member.ID, decimal.Zero, time.Now().UTC()); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Expected boom, got %v", err)
		}

		got, err := store.GetMember(ctx, member.ID)
		if err != nil {
			t.Fatalf("GetMember failed: %v", err)
		}
		if !got.Balance.Equal(decimal.NewFromInt(100)) {
			t.Errorf("Balance: got %s, want 100 after rollback", got.Balance)
		}
	})
}

func containsPayment(payments []*models.Payment, id string) bool {
	for _, p := range payments {
		if p.ID == id {
			return true
		}
	}
	return false
}
