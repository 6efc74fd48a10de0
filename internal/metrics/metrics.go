// Package metrics exposes lifecycle counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/abhishek622/exitview/internal/lifecycle"
	"github.com/abhishek622/exitview/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lifecycle records operation outcomes and status transitions. It satisfies lifecycle.Observer.
type Lifecycle struct {
	registry    *prometheus.Registry
	operations  *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

var _ lifecycle.Observer = (*Lifecycle)(nil)

func NewLifecycle() *Lifecycle {
	reg := prometheus.NewRegistry()
	m := &Lifecycle{
		registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exitview_lifecycle_operations_total",
			Help: "Lifecycle operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exitview_status_transitions_total",
			Help: "Candidate overall status changes.",
		}, []string{"from", "to"}),
	}
	reg.MustRegister(m.operations, m.transitions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Lifecycle) ObserveOperation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = lifecycle.Kind(err)
		if outcome == "" {
			outcome = "error"
		}
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}

func (m *Lifecycle) ObserveTransition(from, to model.OverallStatus) {
	m.transitions.WithLabelValues(string(from), string(to)).Inc()
}

// Handler serves /metrics.
func (m *Lifecycle) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
