package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/health", 200, time.Millisecond)
		m.ObserveDBQuery("select", time.Millisecond, nil)
		m.ObserveSubmission("accepted")
		m.AddSlotsReserved(3)
		m.ObserveNotification("email", errors.New("boom"))
		m.SetLedgerDrift(1)
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry(), "test")

	m.ObserveSubmission("accepted")
	m.ObserveSubmission("accepted")
	m.ObserveSubmission("conflict")
	m.AddSlotsReserved(4)
	m.ObserveNotification("email", nil)
	m.ObserveNotification("email", errors.New("smtp down"))
	m.SetLedgerDrift(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissionsTotal.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissionsTotal.WithLabelValues("conflict")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.slotsReservedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsTotal.WithLabelValues("email", "failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ledgerDriftSlots))
}
