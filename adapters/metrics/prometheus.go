package metrics

import (
	"errors"
	"fmt"

	"github.com/layer-3/xosclaim/core"
	"github.com/layer-3/xosclaim/ports"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "xosclaim"

// Recorder counts run outcomes in its own Prometheus registry
type Recorder struct {
	registry *prometheus.Registry

	accounts *prometheus.CounterVec
	checkIns *prometheus.CounterVec
	draws    *prometheus.CounterVec
	points   prometheus.Counter
}

var _ ports.MetricsRecorder = (*Recorder)(nil)

// NewRecorder creates a recorder with a fresh registry
func NewRecorder() (*Recorder, error) {
	m := &Recorder{
		registry: prometheus.NewRegistry(),
		accounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_total",
			Help:      "number of processed accounts",
		}, []string{"result"}),
		checkIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_ins_total",
			Help:      "number of check-in attempts by outcome",
		}, []string{"outcome"}),
		draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_total",
			Help:      "number of draw attempts by outcome",
		}, []string{"outcome"}),
		points: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_earned_total",
			Help:      "points earned from draws",
		}),
	}

	err := errors.Join(
		m.registry.Register(m.accounts),
		m.registry.Register(m.checkIns),
		m.registry.Register(m.draws),
		m.registry.Register(m.points),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return m, nil
}

// RecordAccount counts a finished account run
func (m *Recorder) RecordAccount(run core.AccountRunSummary) {
	result := "failed"
	if run.Succeeded {
		result = "succeeded"
	}
	m.accounts.WithLabelValues(result).Inc()
}

// RecordCheckIn counts a check-in outcome
func (m *Recorder) RecordCheckIn(kind core.OutcomeKind) {
	m.checkIns.WithLabelValues(kind.String()).Inc()
}

// RecordDraw counts a draw outcome and its reward
func (m *Recorder) RecordDraw(kind core.OutcomeKind, reward int64) {
	m.draws.WithLabelValues(kind.String()).Inc()
	if kind == core.OutcomeSuccess && reward > 0 {
		m.points.Add(float64(reward))
	}
}

// Registry exposes the registry for gathering
func (m *Recorder) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile writes the metrics in the node exporter textfile format
func (m *Recorder) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// Nop discards every measurement
type Nop struct{}

func (Nop) RecordAccount(core.AccountRunSummary) {}
func (Nop) RecordCheckIn(core.OutcomeKind) {}
func (Nop) RecordDraw(core.OutcomeKind, int64) {}
