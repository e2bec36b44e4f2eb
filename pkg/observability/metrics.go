package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vine"

// Metrics records store activity as Prometheus series. Labels never carry
// session IDs, so cardinality stays bounded by the feature's action and
// effect names.
type Metrics struct {
	actions        *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec
	effects        *prometheus.CounterVec
	results        *prometheus.CounterVec
	cancels        *prometheus.CounterVec
	stale          *prometheus.CounterVec
	sessions       *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// Registering twice on the same registry reuses the existing collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Actions reduced, by feature and action type.",
		}, []string{"feature", "action"}),
		actionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_duration_seconds",
			Help:      "Time spent reducing one action.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"feature"}),
		effects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "effects_started_total",
			Help:      "Effects handed to the runner, by kind and name.",
		}, []string{"feature", "kind", "effect"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "effect_results_total",
			Help:      "Effect results delivered to a reducer, by outcome.",
		}, []string{"feature", "effect", "outcome"}),
		cancels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "effects_cancelled_total",
			Help:      "Cancellation requests issued by reducers.",
		}, []string{"feature"}),
		stale: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_results_total",
			Help:      "Results dropped because their flight was cancelled or superseded.",
		}, []string{"feature", "effect"}),
		sessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Sessions known to the snapshot store.",
		}, []string{"feature"}),
	}

	if err := errors.Join(
		register(reg, &m.actions),
		register(reg, &m.actionDuration),
		register(reg, &m.effects),
		register(reg, &m.results),
		register(reg, &m.cancels),
		register(reg, &m.stale),
		register(reg, &m.sessions),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// register swaps *c for the already registered collector on conflict.
func register[C prometheus.Collector](reg prometheus.Registerer, c *C) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				*c = existing
				return nil
			}
		}
		return err
	}
	return nil
}

// Hooks returns lifecycle hooks that record into m under feature.
func (m *Metrics) Hooks(feature string) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAction: func(_ context.Context, e *domain.ActionEvent) {
			m.actions.WithLabelValues(feature, e.Action).Inc()
			m.actionDuration.WithLabelValues(feature).Observe(e.Duration.Seconds())
		},
		OnEffectStart: func(_ context.Context, e *domain.EffectEvent) {
			m.effects.WithLabelValues(feature, string(e.Kind), e.Name).Inc()
		},
		OnEffectFinish: func(_ context.Context, e *domain.EffectEvent) {
			outcome := "ok"
			if e.IsError {
				outcome = "error"
			}
			m.results.WithLabelValues(feature, e.Name, outcome).Inc()
		},
		OnEffectCancel: func(_ context.Context, e *domain.EffectEvent) {
			m.cancels.WithLabelValues(feature).Inc()
		},
		OnStaleResult: func(_ context.Context, e *domain.EffectEvent) {
			m.stale.WithLabelValues(feature, e.Name).Inc()
		},
	}
}

// SetSessions records the number of stored sessions for feature.
func (m *Metrics) SetSessions(feature string, n int) {
	m.sessions.WithLabelValues(feature).Set(float64(n))
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
