package hookstate

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// WithMetrics instruments the registry with Prometheus metrics and
// registers them with reg. Request and setter counters are fed through
// an internal observer; tree-shape gauges are computed from Stats at
// gather time.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Registry) {
		m := newMetrics(r)
		reg.MustRegister(m)
		r.observers = append(r.observers, m)
	}
}

// metrics implements both Observer and prometheus.Collector.
type metrics struct {
	registry *Registry

	stateRequests prometheus.Counter
	setterApplies prometheus.Counter
	violations    *prometheus.CounterVec

	nodesDesc *prometheus.Desc
	slotsDesc *prometheus.Desc
}

func newMetrics(r *Registry) *metrics {
	return &metrics{
		registry: r,
		stateRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hookstate_state_requests_total",
			Help: "State requests served across all bindings, failures included.",
		}),
		setterApplies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hookstate_setter_applies_total",
			Help: "Setter invocations that overwrote a slot.",
		}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hookstate_contract_violations_total",
			Help: "Failed operations by kind of contract violation.",
		}, []string{"kind"}),
		nodesDesc: prometheus.NewDesc(
			"hookstate_nodes",
			"Hierarchy positions currently in the registry, root included.",
			nil, prometheus.Labels{"registry": r.id},
		),
		slotsDesc: prometheus.NewDesc(
			"hookstate_slots",
			"Initialized slots across all hierarchy positions.",
			nil, prometheus.Labels{"registry": r.id},
		),
	}
}

func (m *metrics) Describe(ch chan<- *prometheus.Desc) {
	m.stateRequests.Describe(ch)
	m.setterApplies.Describe(ch)
	m.violations.Describe(ch)
	ch <- m.nodesDesc
	ch <- m.slotsDesc
}

func (m *metrics) Collect(ch chan<- prometheus.Metric) {
	m.stateRequests.Collect(ch)
	m.setterApplies.Collect(ch)
	m.violations.Collect(ch)

	stats := m.registry.Stats()
	ch <- prometheus.MustNewConstMetric(m.nodesDesc, prometheus.GaugeValue, float64(stats.Nodes))
	ch <- prometheus.MustNewConstMetric(m.slotsDesc, prometheus.GaugeValue, float64(stats.Slots))
}

func (m *metrics) OnStateRequest(path Path, index int, err error) {
	m.stateRequests.Inc()
	m.countViolation(err)
}

func (m *metrics) OnSet(path Path, index int, err error) {
	if err == nil {
		m.setterApplies.Inc()
		return
	}
	m.countViolation(err)
}

func (m *metrics) OnGrow(path Path)  {}
func (m *metrics) OnPrune(path Path) {}

func (m *metrics) countViolation(err error) {
	switch {
	case err == nil:
	case errors.Is(err, ErrOrderViolation):
		m.violations.WithLabelValues("order").Inc()
	case errors.Is(err, ErrTypeMismatch):
		m.violations.WithLabelValues("type").Inc()
	case errors.Is(err, ErrUnknownPath):
		m.violations.WithLabelValues("path").Inc()
	case errors.Is(err, ErrUnknownSlot):
		m.violations.WithLabelValues("slot").Inc()
	default:
		m.violations.WithLabelValues("other").Inc()
	}
}
