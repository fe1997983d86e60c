// Package rules defines the Rule contract and the Registry that holds
// the corpus of rules evaluated against an ObjectGraph/Timeline pair.
// The design mirrors internal/analysis/anomaly's Detector interface and
// its NewDetector composition-of-sub-detectors pattern: many small,
// independently testable evaluators, registered once and iterated in a
// fixed, deterministic order.
package rules

import (
	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

// Category groups rules for the enable/disable category filter.
type Category string

const (
	CategoryScheduling   Category = "scheduling"
	CategoryImage        Category = "image"
	CategoryStorage      Category = "storage"
	CategoryProbes       Category = "probes"
	CategoryNetwork      Category = "network"
	CategoryAdmission    Category = "admission"
	CategoryNodePressure Category = "nodepressure"
	CategoryOwners       Category = "owners"
	CategoryLifecycle    Category = "lifecycle"
)

// Metadata describes a rule's identity and evaluation constraints: its
// name (unique within a Registry), category, priority (higher
// evaluates first), the object kinds it requires present before
// Matches is even called, the rule confidence it contributes when it
// fires, and the names of other rules it suppresses when it matches
// (compound-rule subsumption).
type Metadata struct {
	Name     string
	Category Category
	Priority int

	// Requires lists object kinds that must be present for the rule to
	// even be evaluated (requires.objects).
	Requires []objgraph.Kind

	// Optional lists object kinds that, when present, improve
	// dataCompleteness but are not required for evaluation; consumed by
	// confidence composition.
	Optional []objgraph.Kind

	// ExpectedEvidence is the count of corroborating evidence sources
	// the rule declares it expects, used to penalize confidence when
	// fewer sources actually corroborated the match.
	ExpectedEvidence int

	RuleConfidence float64
	Blocks         []string
}

// Rule is the contract every corpus entry implements — programmatic
// (Go) or declarative (YAML-interpreted).
type Rule interface {
	Metadata() Metadata
	Matches(graph *objgraph.ObjectGraph, tl timeline.Timeline) bool
	Explain(graph *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain
}
