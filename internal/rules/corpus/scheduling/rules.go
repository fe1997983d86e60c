// Package scheduling implements rules diagnosing pods stuck before
// they reach a node: taints, node selectors, priority/preemption, and
// resource-insufficiency scheduling failures.
package scheduling

import (
	"fmt"
	"strings"

	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/rules"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

// Rules returns the scheduling-category rule corpus.
func Rules() []rules.Rule {
	return []rules.Rule{
		unschedulableTaint(),
		unschedulableNodeSelector(),
		unschedulableInsufficientResources(),
		schedulingFlapping(),
	}
}

func unschedulableTaint() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "UnschedulableTaint",
			Category:         rules.CategoryScheduling,
			Priority:         60,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			Optional:         []objgraph.Kind{objgraph.KindNode},
			ExpectedEvidence: 1,
			RuleConfidence:   0.8,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			if g.Pod.Phase != "Pending" {
				return false
			}
			ev, ok := tl.Last("FailedScheduling")
			if !ok {
				return false
			}
			return strings.Contains(ev.Message, "untolerated taint") || strings.Contains(ev.Message, "taint")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			ev, _ := tl.Last("FailedScheduling")
			cause := causality.Cause{
				Kind:           "UnschedulableTaint",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("pod %s cannot be scheduled: no node tolerates its taints", g.Pod.Name),
				Evidence: []causality.Evidence{
					{Source: causality.SourceEvent, Locator: "FailedScheduling", Snippet: ev.Message},
				},
				Confidence: 0.8,
				Severity:   causality.SeverityHigh,
			}
			return rules.SingleCause(cause)
		},
	}
}

func unschedulableNodeSelector() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "UnschedulableNodeSelector",
			Category:         rules.CategoryScheduling,
			Priority:         55,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 1,
			RuleConfidence:   0.75,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			if g.Pod.Phase != "Pending" || len(g.Pod.Spec.NodeSelector) == 0 {
				return false
			}
			ev, ok := tl.Last("FailedScheduling")
			return ok && strings.Contains(ev.Message, "node(s) didn't match")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			ev, _ := tl.Last("FailedScheduling")
			cause := causality.Cause{
				Kind:           "UnschedulableNodeSelector",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("pod %s's nodeSelector matches no available node", g.Pod.Name),
				Evidence: []causality.Evidence{
					{Source: causality.SourceObjectState, Locator: "spec.nodeSelector", Snippet: "set"},
					{Source: causality.SourceEvent, Locator: "FailedScheduling", Snippet: ev.Message},
				},
				Confidence: 0.75,
				Severity:   causality.SeverityHigh,
			}
			return rules.SingleCause(cause)
		},
	}
}

func unschedulableInsufficientResources() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "UnschedulableInsufficientResources",
			Category:         rules.CategoryScheduling,
			Priority:         55,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 1,
			RuleConfidence:   0.7,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			if g.Pod.Phase != "Pending" {
				return false
			}
			ev, ok := tl.Last("FailedScheduling")
			return ok && (strings.Contains(ev.Message, "Insufficient cpu") || strings.Contains(ev.Message, "Insufficient memory"))
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			ev, _ := tl.Last("FailedScheduling")
			cause := causality.Cause{
				Kind:           "UnschedulableInsufficientResources",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("pod %s's resource requests exceed available node capacity", g.Pod.Name),
				Evidence: []causality.Evidence{
					{Source: causality.SourceEvent, Locator: "FailedScheduling", Snippet: ev.Message},
				},
				Confidence: 0.7,
				Severity:   causality.SeverityMedium,
			}
			return rules.SingleCause(cause)
		},
	}
}

func schedulingFlapping() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "SchedulingFlapping",
			Category:         rules.CategoryScheduling,
			Priority:         40,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 1,
			RuleConfidence:   0.55,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			return tl.Repeated("FailedScheduling", 3, 900)
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			cause := causality.Cause{
				Kind:           "SchedulingFlapping",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("pod %s has repeatedly failed scheduling", g.Pod.Name),
				Evidence: []causality.Evidence{
					{Source: causality.SourceTimeline, Locator: "FailedScheduling", Snippet: "repeated"},
				},
				Confidence: 0.55,
				Severity:   causality.SeverityMedium,
			}
			return rules.SingleCause(cause)
		},
	}
}
