// Package observability provides logging, metrics, and tracing.
//
// It integrates with OpenTelemetry for tracing and Prometheus for metrics,
// and tracks drift of evaluation scores across batches.
package observability

import (
	"log/slog"
	"math"
	"sync"
)

// ScoreDriftMonitor compares a rolling window of overall scores against the
// average of the previous batch for one model.
type ScoreDriftMonitor struct {
	mu             sync.Mutex
	model          string
	baseline       float64
	hasBaseline    bool
	recent         []float64
	windowSize     int
	driftThreshold float64
}

// NewScoreDriftMonitor creates a monitor for model. Drift is only computed once
// windowSize scores have been recorded.
func NewScoreDriftMonitor(model string, windowSize int, driftThreshold float64) *ScoreDriftMonitor {
	if windowSize <= 0 {
		windowSize = 10
	}
	return &ScoreDriftMonitor{model: model, windowSize: windowSize, driftThreshold: driftThreshold}
}

// SetBaseline sets the reference average and clears the window. A zero-sized
// previous batch leaves the monitor without a baseline.
func (m *ScoreDriftMonitor) SetBaseline(avg float64, samples int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recent = m.recent[:0]
	m.hasBaseline = samples > 0
	m.baseline = avg
}

// RecordScore adds a score and returns the current drift (0 when not computable).
func (m *ScoreDriftMonitor) RecordScore(score float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recent = append(m.recent, score)
	if len(m.recent) > m.windowSize {
		m.recent = m.recent[1:]
	}
	drift := m.driftLocked()
	if drift > m.driftThreshold {
		slog.Warn("score drift detected",
			slog.String("model", m.model),
			slog.Float64("drift", drift),
			slog.Float64("baseline", m.baseline),
			slog.Float64("threshold", m.driftThreshold))
	}
	ScoreDriftGauge.WithLabelValues(m.model).Set(drift)
	return drift
}

// Drift returns the current drift.
func (m *ScoreDriftMonitor) Drift() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.driftLocked()
}

func (m *ScoreDriftMonitor) driftLocked() float64 {
	if !m.hasBaseline || len(m.recent) < m.windowSize {
		return 0
	}
	sum := 0.0
	for _, s := range m.recent {
		sum += s
	}
	return math.Abs(sum/float64(len(m.recent)) - m.baseline)
}
