package service

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/rosca/pkg/api"
)

func TestPaymentFlow(t *testing.T) {
	groups, payments, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	var (
		groupID string
		members []*api.Member
	)
	for _, name := range []string{"Amina", "Kofi", "Zawadi"} {
		m := addMember(t, groups, name, 10000)
		members = append(members, m)
		groupID = joinPlan(t, groups, m.ID, 3000, 3, 0).Group.ID
	}

	if _, err := groups.ActivateGroup(ctx, connect.NewRequest(&api.ActivateGroupRequest{GroupID: groupID})); err != nil {
		t.Fatalf("ActivateGroup failed: %v", err)
	}

	rounds, err := groups.ListRounds(ctx, connect.NewRequest(&api.ListRoundsRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("ListRounds failed: %v", err)
	}
	round1 := rounds.Msg.Rounds[0]

	obligations, err := payments.ListRoundPayments(ctx, connect.NewRequest(&api.ListRoundPaymentsRequest{RoundID: round1.ID}))
	if err != nil {
		t.Fatalf("ListRoundPayments failed: %v", err)
	}
	if len(obligations.Msg.Payments) != 3 {
		t.Fatalf("expected 3 obligations, got %d", len(obligations.Msg.Payments))
	}

	due, err := payments.ListPaymentsDue(ctx, connect.NewRequest(&api.ListPaymentsDueRequest{
		From: round1.StartAt,
		To:   round1.EndAt,
	}))
	if err != nil {
		t.Fatalf("ListPaymentsDue failed: %v", err)
	}
	if len(due.Msg.Payments) != 3 {
		t.Errorf("expected 3 payments due in round 1, got %d", len(due.Msg.Payments))
	}

	first := obligations.Msg.Payments[0]
	other := members[1].ID
	if other == first.MemberID {
		other = members[0].ID
	}
	_, err = payments.MarkPaymentPaid(ctx, connect.NewRequest(&api.MarkPaymentPaidRequest{PaymentID: first.ID, MemberID: other}))
	assertCode(t, err, connect.CodeInvalidArgument)

	check, err := payments.CheckRoundCompletion(ctx, connect.NewRequest(&api.CheckRoundCompletionRequest{RoundID: round1.ID}))
	if err != nil {
		t.Fatalf("CheckRoundCompletion failed: %v", err)
	}
	if check.Msg.Complete {
		t.Error("round should not be complete before payments")
	}

	for _, p := range obligations.Msg.Payments {
		resp, err := payments.MarkPaymentPaid(ctx, connect.NewRequest(&api.MarkPaymentPaidRequest{PaymentID: p.ID, MemberID: p.MemberID}))
		if err != nil {
			t.Fatalf("MarkPaymentPaid failed: %v", err)
		}
		if resp.Msg.Payment.Status != "PAID" || resp.Msg.Payment.PaidAt == nil {
			t.Errorf("expected PAID with paid_at, got %s", resp.Msg.Payment.Status)
		}
	}

	_, err = payments.MarkPaymentPaid(ctx, connect.NewRequest(&api.MarkPaymentPaidRequest{PaymentID: first.ID, MemberID: first.MemberID}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	check, err = payments.CheckRoundCompletion(ctx, connect.NewRequest(&api.CheckRoundCompletionRequest{RoundID: round1.ID}))
	if err != nil {
		t.Fatalf("CheckRoundCompletion failed: %v", err)
	}
	if !check.Msg.Complete {
		t.Error("round should be complete after all payments")
	}

	winner, err := groups.GetMember(ctx, connect.NewRequest(&api.GetMemberRequest{MemberID: members[0].ID}))
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if want := decimal.NewFromInt(10000 - 3000 + 9000); !winner.Msg.Member.Balance.Equal(want) {
		t.Errorf("expected winner balance %s, got %s", want, winner.Msg.Member.Balance)
	}

	late, err := payments.ListLatePayments(ctx, connect.NewRequest(&api.ListLatePaymentsRequest{}))
	if err != nil {
		t.Fatalf("ListLatePayments failed: %v", err)
	}
	if len(late.Msg.Payments) != 0 {
		t.Errorf("expected no late payments yet, got %d", len(late.Msg.Payments))
	}
}

func TestInsufficientFunds(t *testing.T) {
	groups, payments, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	var groupID string
	for _, name := range []string{"poor", "rich"} {
		balance := int64(1000)
		if name == "rich" {
			balance = 5000
		}
		m := addMember(t, groups, name, balance)
		groupID = joinPlan(t, groups, m.ID, 2000, 2, 0).Group.ID
	}
	if _, err := groups.ActivateGroup(ctx, connect.NewRequest(&api.ActivateGroupRequest{GroupID: groupID})); err != nil {
		t.Fatalf("ActivateGroup failed: %v", err)
	}

	rounds, err := groups.ListRounds(ctx, connect.NewRequest(&api.ListRoundsRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("ListRounds failed: %v", err)
	}
	obligations, err := payments.ListRoundPayments(ctx, connect.NewRequest(&api.ListRoundPaymentsRequest{RoundID: rounds.Msg.Rounds[0].ID}))
	if err != nil {
		t.Fatalf("ListRoundPayments failed: %v", err)
	}

	for _, p := range obligations.Msg.Payments {
		member, err := groups.GetMember(ctx, connect.NewRequest(&api.GetMemberRequest{MemberID: p.MemberID}))
		if err != nil {
			t.Fatalf("GetMember failed: %v", err)
		}
		if member.Msg.Member.Name != "poor" {
			continue
		}

		_, err = payments.MarkPaymentPaid(ctx, connect.NewRequest(&api.MarkPaymentPaidRequest{PaymentID: p.ID, MemberID: p.MemberID}))
		assertCode(t, err, connect.CodeFailedPrecondition)

		after, err := groups.GetMember(ctx, connect.NewRequest(&api.GetMemberRequest{MemberID: p.MemberID}))
		if err != nil {
			t.Fatalf("GetMember failed: %v", err)
		}
		if !after.Msg.Member.Balance.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected balance unchanged at 1000, got %s", after.Msg.Member.Balance)
		}
	}
}

func TestListPaymentsDueRejectsEmptyRange(t *testing.T) {
	_, payments, cleanup := setupTestServer(t)
	defer cleanup()

	now := time.Now().UTC()
	_, err := payments.ListPaymentsDue(context.Background(), connect.NewRequest(&api.ListPaymentsDueRequest{From: now, To: now}))
	assertCode(t, err, connect.CodeInvalidArgument)
}
