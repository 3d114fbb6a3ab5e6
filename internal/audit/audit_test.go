package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/rosca/internal/models"
)

type fakeLister struct {
	payments []*models.Payment
	err      error
}

func (f *fakeLister) ListLatePayments(ctx context.Context) ([]*models.Payment, error) {
	return f.payments, f.err
}

type fakeGauge struct {
	calls []int
}

func (g *fakeGauge) LatePayments(n int) {
	g.calls = append(g.calls, n)
}

func TestRunOnce(t *testing.T) {
	due := time.Date(2025, 3, 6, 10, 0, 0, 0, time.UTC)
	lister := &fakeLister{payments: []*models.Payment{
		{ID: "p1", MemberID: "m1", GroupID: "g1", Amount: decimal.NewFromInt(2000), DueAt: due, Status: models.PaymentLate},
		{ID: "p2", MemberID: "m2", GroupID: "g1", Amount: decimal.NewFromInt(2000), DueAt: due, Status: models.PaymentLate},
	}}
	gauge := &fakeGauge{}

	n, err := NewLateAudit(lister, gauge, "@hourly").RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{2}, gauge.calls)
}

func TestRunOnceError(t *testing.T) {
	boom := errors.New("boom")
	gauge := &fakeGauge{}

	_, err := NewLateAudit(&fakeLister{err: boom}, gauge, "@hourly").RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, gauge.calls, "gauge must not be reset on a failed sweep")
}

func TestRunOnceWithoutGauge(t *testing.T) {
	n, err := NewLateAudit(&fakeLister{}, nil, "@hourly").RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	a := NewLateAudit(&fakeLister{}, nil, "not a schedule")
	assert.Error(t, a.Start())
}

func TestStartStop(t *testing.T) {
	a := NewLateAudit(&fakeLister{}, nil, "0 * * * *")
	require.NoError(t, a.Start())
	a.Stop()
}
