package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/patentlens/internal/ui/form"
)

var _ form.Observer = (*FrontendMetrics)(nil)

var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultAnalysisDurationBuckets = []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300}
)

// FrontendMetrics holds the metrics recorded by the web front end.
type FrontendMetrics struct {
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec

	SubmissionsTotal    CounterVec
	SubmissionDuration  HistogramVec
	SubmissionsInFlight GaugeVec

	ActiveSessions GaugeVec
}

// NewFrontendMetrics registers every front-end metric on collector.
func NewFrontendMetrics(collector MetricsCollector) *FrontendMetrics {
	return &FrontendMetrics{
		HTTPRequestsTotal:   collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code"),
		HTTPRequestDuration: collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route"),

		SubmissionsTotal:    collector.RegisterCounter("analysis_submissions_total", "Analysis submissions by outcome", "outcome"),
		SubmissionDuration:  collector.RegisterHistogram("analysis_submission_duration_seconds", "Time from submit to result or error", DefaultAnalysisDurationBuckets, "outcome"),
		SubmissionsInFlight: collector.RegisterGauge("analysis_submissions_in_flight", "Analysis submissions awaiting a response"),

		ActiveSessions: collector.RegisterGauge("active_sessions", "Browser sessions holding a form"),
	}
}

// RecordHTTPRequest counts one served request.
func (m *FrontendMetrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SubmissionStarted marks one analysis request as in flight.
func (m *FrontendMetrics) SubmissionStarted() {
	m.SubmissionsInFlight.WithLabelValues().Inc()
}

// SubmissionFinished records the outcome of a submission started with
// SubmissionStarted. outcome is one of the form.Outcome constants.
func (m *FrontendMetrics) SubmissionFinished(outcome string, elapsed time.Duration) {
	m.SubmissionsInFlight.WithLabelValues().Dec()
	m.SubmissionsTotal.WithLabelValues(outcome).Inc()
	m.SubmissionDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// SubmissionRejected counts a submit refused because one was already in flight.
func (m *FrontendMetrics) SubmissionRejected() {
	m.SubmissionsTotal.WithLabelValues(form.OutcomeRejected).Inc()
}

// SetActiveSessions publishes the session store size.
func (m *FrontendMetrics) SetActiveSessions(n int) {
	m.ActiveSessions.WithLabelValues().Set(float64(n))
}
