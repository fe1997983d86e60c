package rules

import (
	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

// MatchFunc is a rule's match predicate, implemented in Go.
type MatchFunc func(graph *objgraph.ObjectGraph, tl timeline.Timeline) bool

// ExplainFunc builds a rule's causal chain once it has matched.
type ExplainFunc func(graph *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain

// Programmatic is the struct-based Rule variant corpus packages use
// for logic too irregular to express as a declarative predicate list
// — the counterpart to internal/rules/declarative's
// YAML-interpreted variant.
type Programmatic struct {
	Meta    Metadata
	Match   MatchFunc
	Explainer ExplainFunc
}

func (p Programmatic) Metadata() Metadata { return p.Meta }

func (p Programmatic) Matches(graph *objgraph.ObjectGraph, tl timeline.Timeline) bool {
	return p.Match(graph, tl)
}

func (p Programmatic) Explain(graph *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
	return p.Explainer(graph, tl)
}

// SingleCause is a convenience constructor for the common case of an
// ExplainFunc that produces exactly one root-cause Cause with evidence
// built from the matched state.
func SingleCause(cause causality.Cause) causality.CausalChain {
	return causality.CausalChain{Causes: []causality.Cause{cause}}
}
