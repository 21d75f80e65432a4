package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration flow.
type Metrics struct {
	AadhaarSubmissions *prometheus.CounterVec
	OTPVerifications   *prometheus.CounterVec
	StepSubmissions    *prometheus.CounterVec
	StepDuration       *prometheus.HistogramVec
}

// New registers the registration metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AadhaarSubmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "udyam_aadhaar_submissions_total",
			Help: "Aadhaar submissions by outcome (created, duplicate)",
		}, []string{"outcome"}),
		OTPVerifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "udyam_otp_verifications_total",
			Help: "OTP verification attempts by outcome (verified, rejected, not_found)",
		}, []string{"outcome"}),
		StepSubmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "udyam_step_submissions_total",
			Help: "Generic step submissions by step and outcome",
		}, []string{"step", "outcome"}),
		StepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "udyam_step_submission_duration_seconds",
			Help:    "Duration of step submissions including persistence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"step"}),
	}
}

func (m *Metrics) IncrementAadhaar(outcome string) {
	if m == nil {
		return
	}
	m.AadhaarSubmissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementOTP(outcome string) {
	if m == nil {
		return
	}
	m.OTPVerifications.WithLabelValues(outcome).Inc()
}

// ObserveStep records a finished submission. Call with time.Now() taken at the start.
func (m *Metrics) ObserveStep(step, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.StepSubmissions.WithLabelValues(step, outcome).Inc()
	m.StepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
}
