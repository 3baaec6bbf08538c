package observability

import (
	"context"
	"net/http"
	"strings"

	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/aretw0/midiroute/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "midiroute"

// Teardown reasons used as label values.
const (
	ReasonShutdown        = "shutdown"
	ReasonTopologyChanged = "topology_changed"
	ReasonError           = "error"
)

var states = []domain.SessionState{
	domain.StateResolving,
	domain.StateOpening,
	domain.StateRunning,
	domain.StateTeardown,
	domain.StateStopped,
}

// Metrics holds the router collectors.
type Metrics struct {
	registry *prometheus.Registry

	received     *prometheus.CounterVec
	routed       *prometheus.CounterVec
	sendFailures *prometheus.CounterVec
	sessions     *prometheus.CounterVec
	portsOpen    *prometheus.GaugeVec
	state        *prometheus.GaugeVec
	queueDepth   prometheus.Gauge
}

// NewMetrics creates the collectors on a fresh registry, together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Messages received per input port.",
		}, []string{"port"}),
		routed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_routed_total",
			Help:      "Messages delivered per output port.",
		}, []string{"port"}),
		sendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_failures_total",
			Help:      "Failed deliveries per output port.",
		}, []string{"port"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Finished sessions by teardown reason.",
		}, []string{"reason"}),
		portsOpen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ports_open",
			Help:      "Ports opened by the current session.",
		}, []string{"direction"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_state",
			Help:      "1 for the current supervisor state, 0 otherwise.",
		}, []string{"state"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Events waiting in the dispatch queue.",
		}),
	}

	m.registry.MustRegister(
		m.received, m.routed, m.sendFailures, m.sessions,
		m.portsOpen, m.state, m.queueDepth,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.setState(domain.StateStopped)
	return m
}

// Registry returns the registry holding every router collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) MessageReceived(origin string) {
	m.received.WithLabelValues(origin).Inc()
}

func (m *Metrics) MessageRouted(destination string) {
	m.routed.WithLabelValues(destination).Inc()
}

func (m *Metrics) SendFailed(destination string) {
	m.sendFailures.WithLabelValues(destination).Inc()
}

func (m *Metrics) QueueDepth(depth int) {
	m.queueDepth.Set(float64(depth))
}

// Hooks returns supervisor callbacks that keep the session gauges current.
func (m *Metrics) Hooks() runner.Hooks {
	return runner.Hooks{
		OnStateChange: func(_ context.Context, c domain.StateChange) {
			m.setState(c.To)
			if c.To == domain.StateTeardown {
				m.sessions.WithLabelValues(TeardownReason(c.Reason)).Inc()
			}
		},
		OnSnapshot: func(_ context.Context, s domain.SessionSnapshot) {
			if s.State == domain.StateTeardown {
				m.portsOpen.WithLabelValues(domain.DirectionInput).Set(0)
				m.portsOpen.WithLabelValues(domain.DirectionOutput).Set(0)
				return
			}
			m.portsOpen.WithLabelValues(domain.DirectionInput).Set(float64(len(s.OpenInputs)))
			m.portsOpen.WithLabelValues(domain.DirectionOutput).Set(float64(len(s.OpenOutputs)))
		},
	}
}

func (m *Metrics) setState(current domain.SessionState) {
	for _, s := range states {
		v := 0.0
		if s == current {
			v = 1
		}
		m.state.WithLabelValues(string(s)).Set(v)
	}
}

// TeardownReason maps a free form teardown reason onto a bounded label value.
func TeardownReason(reason string) string {
	switch {
	case reason == "" || reason == ReasonShutdown:
		return ReasonShutdown
	case strings.Contains(reason, domain.ErrTopologyChanged.Error()):
		return ReasonTopologyChanged
	default:
		return ReasonError
	}
}
