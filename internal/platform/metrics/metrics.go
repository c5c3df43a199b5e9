package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the registration saga.
type Metrics struct {
	OnboardingOutcomes   *prometheus.CounterVec
	OnboardingDuration   prometheus.Histogram
	RecordsAppended      *prometheus.CounterVec
	ListenerEvents       *prometheus.CounterVec
	ReaperAttempts       *prometheus.CounterVec
	CompensationFailures *prometheus.CounterVec
	ReaperCycleDuration  prometheus.Histogram
	EventsPublished      prometheus.Counter
	EventsDropped        *prometheus.CounterVec
	EventQueueDepth      prometheus.Gauge
	CircuitOpened        *prometheus.CounterVec
	DocumentsSkipped     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OnboardingOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_onboarding_total",
			Help: "Onboarding requests by outcome code",
		}, []string{"outcome"}),
		OnboardingDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "registration_onboarding_duration_seconds",
			Help:    "Latency of the synchronous onboarding path",
			Buckets: prometheus.DefBuckets,
		}),
		RecordsAppended: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_completion_records_appended_total",
			Help: "Completion records appended by step kind and writer",
		}, []string{"step", "source"}),
		ListenerEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_listener_events_total",
			Help: "Peer completion events consumed by kind and result",
		}, []string{"event", "result"}),
		ReaperAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_reaper_attempts_total",
			Help: "Abandoned attempts handled by the reaper by result",
		}, []string{"result"}),
		CompensationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_reaper_compensation_failures_total",
			Help: "Failed compensating deletes by participant",
		}, []string{"participant"}),
		ReaperCycleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "registration_reaper_cycle_duration_seconds",
			Help:    "Duration of a full reaper cycle",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		}),
		EventsPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "registration_events_published_total",
			Help: "UserCreated events acknowledged by the broker",
		}),
		EventsDropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_events_dropped_total",
			Help: "UserCreated events that never reached the broker by reason",
		}, []string{"reason"}),
		EventQueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "registration_events_queue_depth",
			Help: "Events waiting in the outbound queue",
		}),
		CircuitOpened: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_peer_circuit_opened_total",
			Help: "Times a participant circuit breaker opened",
		}, []string{"participant"}),
		DocumentsSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_store_documents_skipped_total",
			Help: "Stored documents that could not be decoded and were skipped, by document type",
		}, []string{"document"}),
	}
}

func (m *Metrics) ObserveOnboarding(outcome string, d time.Duration) {
	m.OnboardingOutcomes.WithLabelValues(outcome).Inc()
	m.OnboardingDuration.Observe(d.Seconds())
}

func (m *Metrics) IncRecordsAppended(source string, steps ...string) {
	for _, step := range steps {
		m.RecordsAppended.WithLabelValues(step, source).Inc()
	}
}

func (m *Metrics) IncListenerEvent(event, result string) {
	m.ListenerEvents.WithLabelValues(event, result).Inc()
}

func (m *Metrics) IncReaperAttempt(result string) {
	m.ReaperAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) IncCompensationFailure(participant string) {
	m.CompensationFailures.WithLabelValues(participant).Inc()
}

func (m *Metrics) ObserveReaperCycle(d time.Duration) {
	m.ReaperCycleDuration.Observe(d.Seconds())
}

func (m *Metrics) IncEventsPublished() {
	m.EventsPublished.Inc()
}

func (m *Metrics) IncEventsDropped(reason string) {
	m.EventsDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) SetEventQueueDepth(n int) {
	m.EventQueueDepth.Set(float64(n))
}

func (m *Metrics) IncCircuitOpened(participant string) {
	m.CircuitOpened.WithLabelValues(participant).Inc()
}

func (m *Metrics) IncDocumentSkipped(document string) {
	m.DocumentsSkipped.WithLabelValues(document).Inc()
}
