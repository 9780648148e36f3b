package services

import (
	"sync"
	"time"

	"github.com/SAP-F-2025/classification-service/internal/scoring"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for scoring and import activity.
type Metrics struct {
	scoringDuration *prometheus.HistogramVec
	submissions     *prometheus.CounterVec
	dropped         *prometheus.CounterVec
	primaryFreq     *prometheus.CounterVec
	publishFailures *prometheus.CounterVec
	importedRows    prometheus.Counter
}

var (
	defaultMetricsOnce sync.Once
	sharedMetrics      *Metrics
)

// DefaultMetrics returns the instance registered with the global registry.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		sharedMetrics = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

// MustNewMetrics registers the collectors with reg. Already registered
// collectors are reused; any other registration error panics.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		scoringDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "classification",
			Subsystem: "scoring",
			Name:      "duration_seconds",
			Help:      "Time spent scoring a submission, including framework load and persistence.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classification",
			Subsystem: "scoring",
			Name:      "submissions_total",
			Help:      "Submissions scored, by operation and outcome.",
		}, []string{"operation", "status"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classification",
			Subsystem: "scoring",
			Name:      "dropped_contributions_total",
			Help:      "Answers that could not be credited, by reason.",
		}, []string{"reason"}),
		primaryFreq: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classification",
			Subsystem: "scoring",
			Name:      "primary_frequency_total",
			Help:      "Persisted results by primary frequency.",
		}, []string{"frequency"}),
		publishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classification",
			Subsystem: "events",
			Name:      "publish_failures_total",
			Help:      "Events that could not be published.",
		}, []string{"event_type"}),
		importedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "classification",
			Subsystem: "import",
			Name:      "questions_total",
			Help:      "Questions imported from spreadsheets.",
		}),
	}

	m.scoringDuration = register(reg, m.scoringDuration)
	m.submissions = register(reg, m.submissions)
	m.dropped = register(reg, m.dropped)
	m.primaryFreq = register(reg, m.primaryFreq)
	m.publishFailures = register(reg, m.publishFailures)
	m.importedRows = register(reg, m.importedRows)

	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C) C {
	if err := reg.Register(collector); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return collector
}

func (m *Metrics) ObserveScoring(operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.scoringDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
	m.submissions.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) AddDropped(dropped []scoring.DroppedContribution) {
	if m == nil {
		return
	}
	for _, d := range dropped {
		m.dropped.WithLabelValues(string(d.Reason)).Inc()
	}
}

func (m *Metrics) IncPrimaryFrequency(code *string) {
	if m == nil {
		return
	}
	label := "none"
	if code != nil {
		label = *code
	}
	m.primaryFreq.WithLabelValues(label).Inc()
}

func (m *Metrics) IncPublishFailure(eventType string) {
	if m == nil {
		return
	}
	m.publishFailures.WithLabelValues(eventType).Inc()
}

func (m *Metrics) AddImported(n int) {
	if m == nil {
		return
	}
	m.importedRows.Add(float64(n))
}
