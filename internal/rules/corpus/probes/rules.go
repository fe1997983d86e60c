// Package probes implements rules diagnosing readiness/liveness probe
// failures.
package probes

import (
	"fmt"

	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/rules"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

// Rules returns the probes-category rule corpus.
func Rules() []rules.Rule {
	return []rules.Rule{
		repeatedProbeFailure(),
		livenessKillingContainer(),
		noReadinessProbeConfigured(),
	}
}

func repeatedProbeFailure() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "RepeatedProbeFailure",
			Category:         rules.CategoryProbes,
			Priority:         55,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 1,
			RuleConfidence:   0.65,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			return tl.Repeated("Unhealthy", 3, 600)
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			ev, _ := tl.Last("Unhealthy")
			cause := causality.Cause{
				Kind:           "RepeatedProbeFailure",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("pod %s has repeatedly failed its probe", g.Pod.Name),
				Evidence: []causality.Evidence{
					{Source: causality.SourceTimeline, Locator: "Unhealthy", Snippet: "repeated"},
					{Source: causality.SourceEvent, Locator: "Unhealthy", Snippet: ev.Message},
				},
				Confidence: 0.65,
				Severity:   causality.SeverityMedium,
			}
			return rules.SingleCause(cause)
		},
	}
}

func livenessKillingContainer() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "LivenessProbeKillingContainer",
			Category:         rules.CategoryProbes,
			Priority:         60,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 1,
			RuleConfidence:   0.7,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			if !tl.Has("Unhealthy") || !tl.Has("Killing") {
				return false
			}
			hasLiveness := false
			for _, c := range g.Pod.Spec.Containers {
				if c.HasLivenessProbe {
					hasLiveness = true
				}
			}
			return hasLiveness
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			ev, _ := tl.Last("Killing")
			cause := causality.Cause{
				Kind:           "LivenessProbeKillingContainer",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("pod %s's liveness probe is repeatedly killing its container", g.Pod.Name),
				Evidence: []causality.Evidence{
					{Source: causality.SourceObjectState, Locator: "spec.containers[].livenessProbe", Snippet: "configured"},
					{Source: causality.SourceEvent, Locator: "Killing", Snippet: ev.Message},
				},
				Confidence: 0.7,
				Severity:   causality.SeverityHigh,
			}
			return rules.SingleCause(cause)
		},
	}
}

func noReadinessProbeConfigured() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "NoReadinessProbeConfigured",
			Category:         rules.CategoryProbes,
			Priority:         20,
			Requires:         []objgraph.Kind{},
			ExpectedEvidence: 0,
			RuleConfidence:   0.35,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			if g.Pod.Phase == "Running" {
				return false
			}
			for _, c := range g.Pod.Spec.Containers {
				if c.HasReadinessProbe {
					return false
				}
			}
			return len(g.Pod.Spec.Containers) > 0
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			cause := causality.Cause{
				Kind:           "NoReadinessProbeConfigured",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("pod %s has no readiness probe, so traffic readiness cannot be independently verified", g.Pod.Name),
				Confidence:     0.35,
				Severity:       causality.SeverityLow,
			}
			return rules.SingleCause(cause)
		},
	}
}
