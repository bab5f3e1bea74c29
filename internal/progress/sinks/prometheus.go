package sinks

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"sitescout/internal/progress"
)

// Prometheus exports run and check counters. A small in-memory tracker keeps
// the running gauge honest when RUN_DONE arrives out of batch order.
type Prometheus struct {
	runsStarted   prometheus.Counter
	runsCompleted *prometheus.CounterVec
	runsRunning   prometheus.Gauge
	checksTotal   *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec

	mu     sync.Mutex
	active map[[16]byte]struct{}
}

// NewPrometheus registers the sink's collectors with reg and returns the sink.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sitescout",
			Name:      "runs_started_total",
			Help:      "Number of status runs started.",
		}),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitescout",
			Name:      "runs_completed_total",
			Help:      "Number of status runs completed, by result.",
		}, []string{"result"}),
		runsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sitescout",
			Name:      "runs_running",
			Help:      "Number of status runs currently executing.",
		}),
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitescout",
			Name:      "checks_total",
			Help:      "Number of site checks completed, by category and status.",
		}, []string{"category", "status"}),
		checkDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sitescout",
			Name:      "check_duration_seconds",
			Help:      "Site check latency, by final status.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"status"}),
		active: make(map[[16]byte]struct{}),
	}
	for _, c := range []prometheus.Collector{
		p.runsStarted, p.runsCompleted, p.runsRunning, p.checksTotal, p.checkDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Consume implements progress.Sink.
func (p *Prometheus) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		switch evt.Stage {
		case progress.StageRunStart:
			if p.markRunning(evt.RunID) {
				p.runsStarted.Inc()
				p.runsRunning.Inc()
			}
		case progress.StageRunDone:
			if p.markDone(evt.RunID) {
				p.runsCompleted.WithLabelValues("ok").Inc()
				p.runsRunning.Dec()
			}
		case progress.StageRunError:
			if p.markDone(evt.RunID) {
				p.runsCompleted.WithLabelValues("error").Inc()
				p.runsRunning.Dec()
			}
		case progress.StageCheckDone:
			p.checksTotal.WithLabelValues(evt.Category, string(evt.Status)).Inc()
			p.checkDuration.WithLabelValues(string(evt.Status)).Observe(evt.Dur.Seconds())
		}
	}
	return nil
}

// Close implements progress.Sink.
func (p *Prometheus) Close(context.Context) error {
	return nil
}

func (p *Prometheus) markRunning(id [16]byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.active[id]; ok {
		return false
	}
	p.active[id] = struct{}{}
	return true
}

func (p *Prometheus) markDone(id [16]byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.active[id]; !ok {
		return false
	}
	delete(p.active, id)
	return true
}
