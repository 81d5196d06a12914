package generation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation names one of the client's entry points.
type Operation string

const (
	OpSummarize Operation = "summarize"
	OpPlan      Operation = "plan"
	OpChat      Operation = "chat"
)

// FailureKind classifies why an operation produced no result. It is only used
// for logs and metrics; callers see absence or a fallback string.
type FailureKind string

const (
	FailureNone               FailureKind = ""
	FailureMissingCredentials FailureKind = "missing_credentials"
	FailureTransport          FailureKind = "transport"
	FailureEmptyResponse      FailureKind = "empty_response"
	FailureMalformedJSON      FailureKind = "malformed_json"
	FailureSchemaMismatch     FailureKind = "schema_mismatch"
	FailurePromptTemplate     FailureKind = "prompt_template"
)

func (k FailureKind) outcome() string {
	if k == FailureNone {
		return "ok"
	}
	return string(k)
}

// Metrics counts generation calls by operation and outcome.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics registers the generation collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "relief",
				Name:      "generation_requests_total",
				Help:      "Generation calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "relief",
				Name:      "generation_duration_seconds",
				Help:      "Duration of generation calls that reached the backend",
				Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) observe(op Operation, kind FailureKind, seconds float64, calledBackend bool) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(op), kind.outcome()).Inc()
	if calledBackend {
		m.latency.WithLabelValues(string(op)).Observe(seconds)
	}
}
