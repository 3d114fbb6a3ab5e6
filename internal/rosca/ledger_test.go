package rosca

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/mmynk/rosca/internal/calculator"
	"github.com/mmynk/rosca/internal/models"
)

func TestMarkPaidInsufficientFunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	group, members := f.activeGroup(t, 2, 2000, 1000)
	_, payments := f.roundPayments(t, group.ID, 1)
	payment := payments[0]

	_, err := f.engine.MarkPaid(ctx, payment.ID, payment.MemberID)
	requireKind(t, err, apperrors.ErrInsufficientFunds)

	assert.True(t, f.balance(t, payment.MemberID).Equal(decimal.NewFromInt(1000)))
	stored, err := f.store.GetPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, stored.Status)
	assert.Nil(t, stored.PaidAt)

	for _, m := range members {
		assert.True(t, f.balance(t, m.ID).Equal(decimal.NewFromInt(1000)))
	}
}

func TestMarkPaidDebitsPayer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	group, _ := f.activeGroup(t, 3, 3000, 10000)
	_, payments := f.roundPayments(t, group.ID, 1)
	payment := payments[1]

	f.clock.Advance(2 * time.Hour)
	paid, err := f.engine.MarkPaid(ctx, payment.ID, payment.MemberID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.True(t, paid.PaidAt.Equal(start.Add(2*time.Hour)))
	assert.True(t, f.balance(t, payment.MemberID).Equal(decimal.NewFromInt(7000)))

	p, err := f.store.GetParticipant(ctx, payment.ParticipantID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, p.PaymentStatus)

	round, _ := f.roundPayments(t, group.ID, 1)
	assert.Equal(t, models.RoundActive, round.Status, "round stays open until every obligation is paid")
}

func TestMarkPaidErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	group, members := f.activeGroup(t, 2, 1000, 5000)
	_, payments := f.roundPayments(t, group.ID, 1)
	first, second := payments[0], payments[1]

	t.Run("payer must own the obligation", func(t *testing.T) {
		_, err := f.engine.MarkPaid(ctx, first.ID, second.MemberID)
		requireKind(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown payment", func(t *testing.T) {
		_, err := f.engine.MarkPaid(ctx, "missing", members[0].ID)
		requireKind(t, err, apperrors.ErrNotFound)
	})

	t.Run("already paid", func(t *testing.T) {
		_, err := f.engine.MarkPaid(ctx, first.ID, first.MemberID)
		require.NoError(t, err)
		_, err = f.engine.MarkPaid(ctx, first.ID, first.MemberID)
		requireKind(t, err, apperrors.ErrStateTransition)
		assert.True(t, f.balance(t, first.MemberID).Equal(decimal.NewFromInt(4000)), "debited once")
	})

	t.Run("blocked group", func(t *testing.T) {
		_, err := f.engine.SetGroupStatus(ctx, group.ID, models.GroupBlocked)
		require.NoError(t, err)

		_, err = f.engine.MarkPaid(ctx, second.ID, second.MemberID)
		requireKind(t, err, apperrors.ErrStateTransition)

		_, err = f.engine.SetGroupStatus(ctx, group.ID, models.GroupActive)
		require.NoError(t, err)
	})

	t.Run("blocked round", func(t *testing.T) {
		round, _ := f.roundPayments(t, group.ID, 1)
		_, err := f.engine.SetRoundStatus(ctx, round.ID, models.RoundBlocked)
		require.NoError(t, err)

		_, err = f.engine.MarkPaid(ctx, second.ID, second.MemberID)
		requireKind(t, err, apperrors.ErrStateTransition)

		_, err = f.engine.SetRoundStatus(ctx, round.ID, models.RoundActive)
		require.NoError(t, err)

		_, err = f.engine.MarkPaid(ctx, second.ID, second.MemberID)
		require.NoError(t, err)
	})
}

func TestLatePayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	group, _ := f.activeGroup(t, 3, 1000, 5000)
	_, payments := f.roundPayments(t, group.ID, 1)
	_, err := f.engine.MarkPaid(ctx, payments[0].ID, payments[0].MemberID)
	require.NoError(t, err)

	late, err := f.engine.ListLatePayments(ctx)
	require.NoError(t, err)
	assert.Empty(t, late, "nothing is late before the due date")

	f.clock.Advance(calculator.PaymentGracePeriod + time.Minute)

	late, err = f.engine.ListLatePayments(ctx)
	require.NoError(t, err)
	require.Len(t, late, 2)
	for _, p := range late {
		assert.Equal(t, models.PaymentLate, p.Status)

		stored, err := f.store.GetPayment(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPending, stored.Status, "late is never persisted")
	}

	_, listed := f.roundPayments(t, group.ID, 1)
	statuses := map[models.PaymentStatus]int{}
	for _, p := range listed {
		statuses[p.Status]++
	}
	assert.Equal(t, map[models.PaymentStatus]int{models.PaymentPaid: 1, models.PaymentLate: 2}, statuses)

	// A late obligation can still be paid.
	_, err = f.engine.MarkPaid(ctx, late[0].ID, late[0].MemberID)
	require.NoError(t, err)
}

func TestListPaymentsDue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	group, _ := f.activeGroup(t, 2, 1000, 5000)
	due := calculator.DueDate(group.StartAt)

	payments, err := f.engine.ListPaymentsDue(ctx, due.Add(-time.Hour), due.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	payments, err = f.engine.ListPaymentsDue(ctx, due.Add(time.Hour), due.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, payments)

	_, err = f.engine.ListPaymentsDue(ctx, due, due)
	requireKind(t, err, apperrors.ErrValidation)
}

func TestConcurrentPaymentsSettleOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const (
		capacity     = 4
		contribution = 500
		opening      = 1000
	)
	group, members := f.activeGroup(t, capacity, contribution, opening)
	_, payments := f.roundPayments(t, group.ID, 1)

	var wg sync.WaitGroup
	errs := make(chan error, len(payments))
	for _, p := range payments {
		wg.Add(1)
		go func(p *models.Payment) {
			defer wg.Done()
			_, err := f.engine.MarkPaid(ctx, p.ID, p.MemberID)
			errs <- err
		}(p)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	round, _ := f.roundPayments(t, group.ID, 1)
	assert.Equal(t, models.RoundCompleted, round.Status)

	winner := members[0]
	pool := int64(contribution * capacity)
	assert.True(t, f.balance(t, winner.ID).Equal(decimal.NewFromInt(opening-contribution+pool)))
	for _, m := range members[1:] {
		assert.True(t, f.balance(t, m.ID).Equal(decimal.NewFromInt(opening-contribution)))
	}
}
