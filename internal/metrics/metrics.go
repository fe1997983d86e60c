// Package metrics wires Prometheus instrumentation for the engine
// without opening a network listener: evaluation never performs
// network I/O. Counters and histograms are held in a private registry
// the CLI can dump to text after a batch run, following the
// per-component Metrics struct pattern used elsewhere in this
// codebase.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Registry bundles the engine's Prometheus collectors behind a private
// prometheus.Registry so multiple Engine instances (e.g. in tests) never
// collide on the global default registry.
type Registry struct {
	reg *prometheus.Registry

	RulesEvaluatedTotal prometheus.Counter
	ExplanationsTotal   *prometheus.CounterVec
	ExplainDuration     prometheus.Histogram
	RuleErrorsTotal     *prometheus.CounterVec
}

// New builds and registers the engine's collectors.
func New() *Registry {
	reg := prometheus.NewRegistry()

	rulesEvaluated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kubediag_rules_evaluated_total",
		Help: "Total number of rule evaluations performed across all Explain calls.",
	})
	explanations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kubediag_explanations_total",
		Help: "Total number of explanations produced, labeled by root cause kind.",
	}, []string{"root_cause_kind"})
	explainDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "kubediag_explain_duration_seconds",
		Help:    "Wall-clock duration of Explain calls.",
		Buckets: prometheus.DefBuckets,
	})
	ruleErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kubediag_rule_errors_total",
		Help: "Total number of RuleInternal failures caught during evaluation, labeled by rule name.",
	}, []string{"rule"})

	reg.MustRegister(rulesEvaluated, explanations, explainDuration, ruleErrors)

	return &Registry{
		reg:                 reg,
		RulesEvaluatedTotal: rulesEvaluated,
		ExplanationsTotal:   explanations,
		ExplainDuration:     explainDuration,
		RuleErrorsTotal:     ruleErrors,
	}
}

// Observe records one Explain invocation's outcome: rules evaluated,
// the root cause kind (or "none"), elapsed seconds, and any rule errors.
func (r *Registry) Observe(rulesEvaluated int, rootCauseKind string, seconds float64, ruleErrorNames []string) {
	r.RulesEvaluatedTotal.Add(float64(rulesEvaluated))
	if rootCauseKind == "" {
		rootCauseKind = "none"
	}
	r.ExplanationsTotal.WithLabelValues(rootCauseKind).Inc()
	r.ExplainDuration.Observe(seconds)
	for _, name := range ruleErrorNames {
		r.RuleErrorsTotal.WithLabelValues(name).Inc()
	}
}

// DumpText writes every registered metric family in Prometheus text
// exposition format to w, the same format promhttp would serve, without
// ever opening an HTTP listener.
func (r *Registry) DumpText(w io.Writer) error {
	families, err := r.reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
