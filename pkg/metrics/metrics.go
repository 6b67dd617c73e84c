// Package metrics exports state machine and loop activity as Prometheus
// collectors.
//
// Collectors are fed by connecting to the notification signals of machines
// and loops; nothing in the statemachine or loop packages depends on
// Prometheus.
//
//	m := metrics.New("tickstate")
//	m.MustRegister(prometheus.DefaultRegisterer)
//
//	conns := metrics.ObserveMachine(m, machine)
//	defer conns.Close()
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/tickstate/pkg/loop"
	"github.com/dmitrymomot/tickstate/pkg/signal"
	"github.com/dmitrymomot/tickstate/pkg/statemachine"
)

// Metrics holds the collectors.
type Metrics struct {
	transitions  *prometheus.CounterVec
	failures     *prometheus.CounterVec
	poisoned     *prometheus.GaugeVec
	tickErrors   *prometheus.CounterVec
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
	machines     prometheus.Gauge
}

// New creates collectors whose names start with namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_total",
				Help:      "Total number of completed state transitions",
			},
			[]string{"machine", "from", "to"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "handler_failures_total",
				Help:      "Total number of failed state handlers",
			},
			[]string{"machine", "phase"},
		),
		poisoned: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "machine_poisoned",
				Help:      "Whether a machine is in the error state (1) or not (0)",
			},
			[]string{"machine"},
		),
		tickErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tick_errors_total",
				Help:      "Total number of errors returned by machines during loop ticks",
			},
			[]string{"machine"},
		),
		ticks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ticks_total",
				Help:      "Total number of loop ticks",
			},
		),
		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tick_duration_seconds",
				Help:      "Duration of loop ticks",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
			},
		),
		machines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "machines",
				Help:      "Number of machines registered in the loop",
			},
		),
	}
}

// Collectors returns every collector, for callers that register them
// themselves.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.transitions,
		m.failures,
		m.poisoned,
		m.tickErrors,
		m.ticks,
		m.tickDuration,
		m.machines,
	}
}

// Register registers every collector with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	var errs []error
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to register metrics: %w", errors.Join(errs...))
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	if err := m.Register(reg); err != nil {
		panic(err)
	}
}

// ObserveMachine records the transitions and failures of sm until the
// returned group is closed. The machine label is name when given, otherwise
// the machine's own name.
func ObserveMachine[S comparable](m *Metrics, sm *statemachine.Machine[S], name ...string) *signal.Group {
	label := sm.Name()
	if len(name) > 0 && name[0] != "" {
		label = name[0]
	}

	var poisoned float64
	if sm.Poisoned() {
		poisoned = 1
	}
	m.poisoned.WithLabelValues(label).Set(poisoned)

	g := &signal.Group{}
	g.Add(
		sm.Transitions().Bind(func(tr statemachine.Transition[S]) {
			m.transitions.WithLabelValues(label, fmt.Sprint(tr.From), fmt.Sprint(tr.To)).Inc()
		}),
		sm.Failures().Bind(func(f statemachine.Failure[S]) {
			m.failures.WithLabelValues(label, string(f.Phase)).Inc()
			if f.Poisoned {
				m.poisoned.WithLabelValues(label).Set(1)
			}
		}),
	)
	return g
}

// ObserveLoop records tick counts, durations and per-machine errors of l
// until the returned group is closed.
func (m *Metrics) ObserveLoop(l *loop.Loop) *signal.Group {
	m.machines.Set(float64(l.Len()))

	g := &signal.Group{}
	g.Add(
		l.Ticks().Bind(func(r loop.Report) {
			m.ticks.Inc()
			m.tickDuration.Observe(r.Duration.Seconds())
			m.machines.Set(float64(l.Len()))
		}),
		l.Failures().Bind(func(f loop.MachineError) {
			m.tickErrors.WithLabelValues(f.Machine).Inc()
		}),
	)
	return g
}
