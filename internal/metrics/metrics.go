// Package metrics exposes Prometheus instruments for the engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "rosca"

// Recorder holds the engine's instruments. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	joins            *prometheus.CounterVec
	payments         *prometheus.CounterVec
	settlements      prometheus.Counter
	payoutAmount     prometheus.Counter
	groupTransitions *prometheus.CounterVec
	latePayments     prometheus.Gauge
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		joins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "joins_total",
			Help:      "Join attempts by outcome.",
		}, []string{"outcome"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Mark-paid attempts by outcome.",
		}, []string{"outcome"}),
		settlements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Round payouts credited.",
		}),
		payoutAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payout_amount_total",
			Help:      "Sum of credited payouts.",
		}),
		groupTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "group_transitions_total",
			Help:      "Group status changes by target status.",
		}, []string{"to"}),
		latePayments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "late_payments",
			Help:      "Pending obligations past their due date at the last audit.",
		}),
	}
	r.registry.MustRegister(r.joins, r.payments, r.settlements, r.payoutAmount, r.groupTransitions, r.latePayments)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Join records a join attempt. outcome is "ok" or an error kind.
func (r *Recorder) Join(outcome string) {
	if r == nil {
		return
	}
	r.joins.WithLabelValues(outcome).Inc()
}

// Payment records a mark-paid attempt. outcome is "ok" or an error kind.
func (r *Recorder) Payment(outcome string) {
	if r == nil {
		return
	}
	r.payments.WithLabelValues(outcome).Inc()
}

// Settlement records a credited payout.
func (r *Recorder) Settlement(amount decimal.Decimal) {
	if r == nil {
		return
	}
	r.settlements.Inc()
	r.payoutAmount.Add(amount.InexactFloat64())
}

// GroupTransition records a group entering status to.
func (r *Recorder) GroupTransition(to string) {
	if r == nil {
		return
	}
	r.groupTransitions.WithLabelValues(to).Inc()
}

// LatePayments sets the late obligation gauge.
func (r *Recorder) LatePayments(n int) {
	if r == nil {
		return
	}
	r.latePayments.Set(float64(n))
}
