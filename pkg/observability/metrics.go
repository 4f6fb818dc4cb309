package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dataflow"

// Metrics holds the collectors fed by lifecycle hooks.
type Metrics struct {
	registry   *prometheus.Registry
	executions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	live       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "module_executions_total",
				Help:      "Total number of module execution cycles",
			},
			[]string{"module", "status", "kind"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "module_execution_duration_seconds",
				Help:      "Duration of module execution cycles",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"module"},
		),
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "modules_live",
			Help:      "Number of module instances currently alive",
		}),
	}
	m.registry.MustRegister(m.executions, m.duration, m.live)
	return m
}

// Registry exposes the private registry, e.g. for testutil or extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModuleCreated: func(_ context.Context, e *domain.ModuleEvent) {
			m.live.Set(float64(e.Live))
		},
		OnModuleDestroyed: func(_ context.Context, e *domain.ModuleEvent) {
			m.live.Set(float64(e.Live))
		},
		OnExecuteFinish: func(_ context.Context, e *domain.ExecuteEvent) {
			if e.Outcome == nil {
				return
			}
			kind := "none"
			if e.Outcome.Failure != nil {
				kind = string(e.Outcome.Failure.Kind)
			}
			m.executions.WithLabelValues(e.ModuleName, string(e.Outcome.Status), kind).Inc()
			m.duration.WithLabelValues(e.ModuleName).Observe(e.Outcome.Duration.Seconds())
		},
	}
}
