package mapper

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics of mapping calls. A nil *Metrics records nothing.
type Metrics struct {
	calls      *prometheus.CounterVec   // root calls by pair
	faults     *prometheus.CounterVec   // by pair and reason
	nodes      *prometheus.CounterVec   // mapped nodes by pair
	references prometheus.Counter       // reference cache hits
	duration   *prometheus.HistogramVec // root call duration by pair
}

// NewMetrics creates the mapping metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "struct_mapper",
			Name:      "calls_total",
			Help:      "Total number of root mapping calls",
		}, []string{"pair"}),

		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "struct_mapper",
			Name:      "faults_total",
			Help:      "Total number of failed root mapping calls",
		}, []string{"pair", "reason"}),

		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "struct_mapper",
			Name:      "nodes_total",
			Help:      "Total number of mapped objects, nested ones included",
		}, []string{"pair"}),

		references: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "struct_mapper",
			Name:      "reference_hits_total",
			Help:      "Total number of objects reused from the reference cache",
		}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "struct_mapper",
			Name:      "call_duration_seconds",
			Help:      "Root mapping call duration in seconds",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"pair"}),
	}

	for _, c := range []prometheus.Collector{m.calls, m.faults, m.nodes, m.references, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) recordCall(pair string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	m.calls.WithLabelValues(pair).Inc()
	m.duration.WithLabelValues(pair).Observe(duration.Seconds())

	if err != nil {
		m.faults.WithLabelValues(pair, reason(err)).Inc()
	}
}

func (m *Metrics) recordNode(pair string) {
	if m == nil {
		return
	}

	m.nodes.WithLabelValues(pair).Inc()
}

func (m *Metrics) recordReference() {
	if m == nil {
		return
	}

	m.references.Inc()
}

// reason classifies err for the faults metric.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrDepthExceeded):
		return "depth_exceeded"
	case errors.Is(err, ErrEnumMissingField):
		return "enum_missing_field"
	case errors.Is(err, ErrUnhandledPolymorphicType):
		return "unhandled_polymorphic_type"
	case errors.Is(err, ErrOverflow):
		return "overflow"
	case errors.Is(err, ErrConversion):
		return "conversion"
	case errors.Is(err, ErrUnmappedPair):
		return "unmapped_pair"
	default:
		return "callback"
	}
}
