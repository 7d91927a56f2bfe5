// Package metrics exposes flow counters in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

const DefaultNamespace = "autofill"

var _ output.MetricsPort = (*Collector)(nil)

// Collector owns a private registry so several instances can coexist.
type Collector struct {
	registry *prometheus.Registry

	instructionsTotal *prometheus.CounterVec
	pagesClassified   *prometheus.CounterVec
	escalationsTotal  *prometheus.CounterVec
	flowRunsTotal     *prometheus.CounterVec
}

func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		instructionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "instructions_total",
				Help:      "Instructions attempted by the executor, by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		pagesClassified: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pages_classified_total",
				Help:      "Page classifications by page kind",
			},
			[]string{"kind"},
		),
		escalationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "escalations_total",
				Help:      "Operator escalations by reason",
			},
			[]string{"reason"},
		),
		flowRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "flow_runs_total",
				Help:      "Finished flow runs by outcome",
			},
			[]string{"outcome"},
		),
	}
}

func (c *Collector) InstructionAttempted(kind entity.ActionKind, outcome string) {
	c.instructionsTotal.WithLabelValues(kind.String(), outcome).Inc()
}

func (c *Collector) PageClassified(kind entity.PageKind) {
	c.pagesClassified.WithLabelValues(kind.String()).Inc()
}

func (c *Collector) Escalated(reason entity.EscalationReason) {
	c.escalationsTotal.WithLabelValues(string(reason)).Inc()
}

func (c *Collector) FlowFinished(outcome string) {
	c.flowRunsTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
