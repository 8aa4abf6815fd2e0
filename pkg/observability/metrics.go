package observability

import (
	"context"
	"errors"

	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records engine activity as Prometheus collectors.
type Metrics struct {
	sessionsStarted *prometheus.CounterVec
	sessionsEnded   prometheus.Counter
	activeSessions  prometheus.Gauge
	transitions     *prometheus.CounterVec
	routerErrors    *prometheus.CounterVec
	payloadErrors   *prometheus.CounterVec
	duration        *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default handler.
func NewMetrics(reg prometheus.Registerer, keyboard string) (*Metrics, error) {
	labels := prometheus.Labels{"keyboard": keyboard}
	m := &Metrics{
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "keyboard_sessions_started_total",
			Help:        "Sessions started, by whether a live session was reset.",
			ConstLabels: labels,
		}, []string{"restart"}),
		sessionsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "keyboard_sessions_ended_total",
			Help:        "Live sessions ended.",
			ConstLabels: labels,
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "keyboard_sessions_active",
			Help:        "Sessions started and not yet ended by this process.",
			ConstLabels: labels,
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "keyboard_transitions_total",
			Help:        "Committed navigation events.",
			ConstLabels: labels,
		}, []string{"op", "node_kind"}),
		routerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "keyboard_router_errors_total",
			Help:        "Rejected navigation events.",
			ConstLabels: labels,
		}, []string{"op", "reason"}),
		payloadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "keyboard_payload_errors_total",
			Help:        "Renders or actions that failed after a committed transition.",
			ConstLabels: labels,
		}, []string{"node_kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "keyboard_transition_duration_seconds",
			Help:        "Time from event to payload completion.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"op"}),
	}

	for _, c := range []prometheus.Collector{
		m.sessionsStarted, m.sessionsEnded, m.activeSessions,
		m.transitions, m.routerErrors, m.payloadErrors, m.duration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(ctx context.Context, e *domain.SessionEvent) {
			restart := "false"
			if e.Existed {
				restart = "true"
			} else {
				m.activeSessions.Inc()
			}
			m.sessionsStarted.WithLabelValues(restart).Inc()
		},
		OnSessionEnd: func(ctx context.Context, e *domain.SessionEvent) {
			m.sessionsEnded.Inc()
			m.activeSessions.Dec()
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			m.transitions.WithLabelValues(string(e.Kind), e.NodeKind).Inc()
			m.duration.WithLabelValues(string(e.Kind)).Observe(e.Duration.Seconds())
			if e.PayloadErr != nil {
				m.payloadErrors.WithLabelValues(e.NodeKind).Inc()
			}
		},
		OnRouterError: func(ctx context.Context, e *domain.ErrorEvent) {
			m.routerErrors.WithLabelValues(string(e.Kind), reason(e.Err)).Inc()
		},
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotStarted):
		return "not_started"
	case errors.Is(err, domain.ErrUnknownSelection):
		return "unknown_selection"
	case errors.Is(err, domain.ErrAlreadyAtRoot):
		return "already_at_root"
	default:
		return "other"
	}
}
