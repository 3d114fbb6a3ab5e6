package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()

	r.Join("ok")
	r.Join("ok")
	r.Join("CONFLICT")
	r.Payment("INSUFFICIENT_FUNDS")
	r.Settlement(decimal.NewFromInt(9000))
	r.GroupTransition("ACTIVE")
	r.LatePayments(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.joins.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.joins.WithLabelValues("CONFLICT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.payments.WithLabelValues("INSUFFICIENT_FUNDS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.settlements))
	assert.Equal(t, 9000.0, testutil.ToFloat64(r.payoutAmount))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.groupTransitions.WithLabelValues("ACTIVE")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.latePayments))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Join("ok")
		r.Payment("ok")
		r.Settlement(decimal.NewFromInt(1))
		r.GroupTransition("COMPLETED")
		r.LatePayments(1)
	})
}

func TestHandlerServesMetrics(t *testing.T) {
	r := New()
	r.Settlement(decimal.NewFromInt(300))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "rosca_settlements_total 1"))
}
