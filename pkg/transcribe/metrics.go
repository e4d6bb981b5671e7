package transcribe

import (
	"github.com/prometheus/client_golang/prometheus"

	mnerrors "github.com/minutedesk/mins-cli/pkg/errors"
)

// Metrics holds the session counters. A nil *Metrics is valid and records
// nothing, so sessions work without a registry.
type Metrics struct {
	segmentsCommitted  prometheus.Counter
	duplicatesDropped  prometheus.Counter
	engineRestarts     prometheus.Counter
	engineErrorsByKind *prometheus.CounterVec
}

// NewMetrics creates the session counters under the given namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		segmentsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transcribe",
			Name:      "segments_committed_total",
			Help:      "Final segments folded into the committed transcript",
		}),
		duplicatesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transcribe",
			Name:      "duplicates_discarded_total",
			Help:      "Re-reported segments discarded by commit-time deduplication",
		}),
		engineRestarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transcribe",
			Name:      "engine_restarts_total",
			Help:      "Automatic engine restarts after unexpected termination",
		}),
		engineErrorsByKind: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transcribe",
			Name:      "engine_errors_total",
			Help:      "Engine error events by kind, including ignorable kinds",
		}, []string{"kind"}),
	}
}

// Register registers the counters with reg. Already-registered collectors
// are tolerated so repeated sessions can share a registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if m == nil {
		return nil
	}
	collectors := []prometheus.Collector{
		m.segmentsCommitted,
		m.duplicatesDropped,
		m.engineRestarts,
		m.engineErrorsByKind,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

func (m *Metrics) observeMerge(outcome mergeOutcome) {
	if m == nil {
		return
	}
	if outcome == mergeDiscarded {
		m.duplicatesDropped.Inc()
		return
	}
	m.segmentsCommitted.Inc()
}

func (m *Metrics) observeRestart() {
	if m == nil {
		return
	}
	m.engineRestarts.Inc()
}

func (m *Metrics) observeEngineError(kind mnerrors.EngineErrorKind) {
	if m == nil {
		return
	}
	m.engineErrorsByKind.WithLabelValues(string(kind)).Inc()
}
