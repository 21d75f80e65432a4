package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementAadhaar("created")
	m.IncrementAadhaar("duplicate")
	m.IncrementOTP("rejected")
	m.ObserveStep("step2", "saved", time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AadhaarSubmissions.WithLabelValues("duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OTPVerifications.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepSubmissions.WithLabelValues("step2", "saved")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementAadhaar("created")
		m.IncrementOTP("verified")
		m.ObserveStep("step1", "saved", time.Now())
	})
}
