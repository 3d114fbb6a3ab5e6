// Package audit runs the periodic late-payment sweep.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/rosca/internal/models"
)

// LateLister returns the obligations that are past due and unpaid.
type LateLister interface {
	ListLatePayments(ctx context.Context) ([]*models.Payment, error)
}

// Gauge receives the number of late obligations after each sweep.
type Gauge interface {
	LatePayments(n int)
}

// LateAudit logs late obligations on a cron schedule.
type LateAudit struct {
	cronEngine *cron.Cron
	lister     LateLister
	gauge      Gauge
	spec       string
	timeout    time.Duration
}

// NewLateAudit creates a sweep that runs on spec, a standard five-field
// cron expression. gauge may be nil.
func NewLateAudit(lister LateLister, gauge Gauge, spec string) *LateAudit {
	return &LateAudit{
		cronEngine: cron.New(cron.WithLocation(time.UTC)),
		lister:     lister,
		gauge:      gauge,
		spec:       spec,
		timeout:    time.Minute,
	}
}

// Start registers the job and starts the cron engine.
func (a *LateAudit) Start() error {
	if _, err := a.cronEngine.AddFunc(a.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if _, err := a.RunOnce(ctx); err != nil {
			slog.Error("Late payment audit failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid late audit schedule %q: %w", a.spec, err)
	}

	a.cronEngine.Start()
	slog.Info("Late payment audit scheduled", "spec", a.spec)
	return nil
}

// Stop stops the cron engine and waits for a running sweep to finish.
func (a *LateAudit) Stop() {
	<-a.cronEngine.Stop().Done()
	slog.Info("Late payment audit stopped")
}

// RunOnce performs a single sweep and returns the number of late obligations.
func (a *LateAudit) RunOnce(ctx context.Context) (int, error) {
	late, err := a.lister.ListLatePayments(ctx)
	if err != nil {
		return 0, err
	}

	for _, p := range late {
		slog.Warn("Payment overdue",
			"payment_id", p.ID,
			"member_id", p.MemberID,
			"group_id", p.GroupID,
			"amount", p.Amount.String(),
			"due_at", p.DueAt,
		)
	}
	if a.gauge != nil {
		a.gauge.LatePayments(len(late))
	}

	slog.Info("Late payment audit complete", "late", len(late))
	return len(late), nil
}
