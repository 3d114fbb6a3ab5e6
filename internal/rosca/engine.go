// Package rosca is the group lifecycle and payout-scheduling engine.
//
// The Engine matches joining members into groups of a plan, assigns turn
// slots, drives the group, round and payment state machines, generates the
// monthly obligations and settles each round's pool to its winner. Every
// multi-step operation runs in one storage transaction, behind in-process
// locks taken in the order plan, group, members (sorted by id).
package rosca

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/mmynk/rosca/internal/metrics"
	"github.com/mmynk/rosca/internal/storage"
)

const tracerName = "github.com/mmynk/rosca/internal/rosca"

// Engine coordinates groups, rounds and payments over a storage.Store.
type Engine struct {
	store   storage.Store
	locks   *keyedLocks
	now     func() time.Time
	metrics *metrics.Recorder
	tracer  trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used for timestamps and due dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithMetrics records engine events on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = r
	}
}

// New creates an Engine backed by store.
func New(store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		locks:  newKeyedLocks(),
		now:    func() time.Time { return time.Now().UTC() },
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) clock() time.Time {
	return e.now().UTC()
}

func (e *Engine) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "rosca."+name, trace.WithAttributes(attrs...))
}

// finish ends span, recording err when it is set.
func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// outcome labels an operation result for metrics.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := apperrors.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}

// integrityFault logs err as an integrity fault at error level.
func integrityFault(err error, args ...any) error {
	slog.Error("Integrity fault", append(args, "error", err, "integrity", true)...)
	return err
}
