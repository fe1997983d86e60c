// Package network implements rules diagnosing pod sandbox and network
// attachment failures.
package network

import (
	"fmt"

	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/rules"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

// Rules returns the network-category rule corpus.
func Rules() []rules.Rule {
	return []rules.Rule{
		sandboxCreationFailed(),
		networkNotReady(),
	}
}

func sandboxCreationFailed() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "SandboxCreationFailed",
			Category:         rules.CategoryNetwork,
			Priority:         60,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 1,
			RuleConfidence:   0.75,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			return tl.Has("FailedCreatePodSandBox")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			ev, _ := tl.Last("FailedCreatePodSandBox")
			cause := causality.Cause{
				Kind:           "SandboxCreationFailed",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("pod %s's network sandbox failed to initialize", g.Pod.Name),
				Evidence: []causality.Evidence{
					{Source: causality.SourceEvent, Locator: "FailedCreatePodSandBox", Snippet: ev.Message},
				},
				Confidence: 0.75,
				Severity:   causality.SeverityHigh,
			}
			return rules.SingleCause(cause)
		},
	}
}

func networkNotReady() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "NetworkNotReady",
			Category:         rules.CategoryNetwork,
			Priority:         45,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 1,
			RuleConfidence:   0.55,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			return tl.Has("NetworkNotReady")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			ev, _ := tl.Last("NetworkNotReady")
			cause := causality.Cause{
				Kind:           "NetworkNotReady",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        "node network plugin is not yet ready",
				Evidence: []causality.Evidence{
					{Source: causality.SourceEvent, Locator: "NetworkNotReady", Snippet: ev.Message},
				},
				Confidence: 0.55,
				Severity:   causality.SeverityMedium,
			}
			return rules.SingleCause(cause)
		},
	}
}
