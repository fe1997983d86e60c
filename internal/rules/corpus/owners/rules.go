// Package owners implements rules diagnosing failures attributable to
// the pod's owning controller (ReplicaSet/Deployment/StatefulSet)
// rather than the pod itself.
package owners

import (
	"fmt"

	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/rules"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

// Rules returns the owners-category rule corpus.
func Rules() []rules.Rule {
	return []rules.Rule{
		ownerFailedCreate(),
		ownerDesiredNotReady(),
	}
}

func ownerFailedCreate() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "OwnerFailedCreate",
			Category:         rules.CategoryOwners,
			Priority:         55,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			Optional:         []objgraph.Kind{objgraph.KindOwner},
			ExpectedEvidence: 1,
			RuleConfidence:   0.6,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			return tl.Has("FailedCreate")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			ev, _ := tl.Last("FailedCreate")
			cause := causality.Cause{
				Kind:           "OwnerFailedCreate",
				InvolvedObject: causality.InvolvedObject{Kind: g.Owner.Kind, Name: g.Owner.Name},
				Message:        fmt.Sprintf("owning controller %s failed to create this pod", g.Owner.Name),
				Evidence: []causality.Evidence{
					{Source: causality.SourceEvent, Locator: "FailedCreate", Snippet: ev.Message},
				},
				Confidence: 0.6,
				Severity:   causality.SeverityMedium,
			}
			return rules.SingleCause(cause)
		},
	}
}

func ownerDesiredNotReady() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "OwnerDesiredReplicasNotReady",
			Category:         rules.CategoryOwners,
			Priority:         30,
			Requires:         []objgraph.Kind{objgraph.KindOwner},
			ExpectedEvidence: 1,
			RuleConfidence:   0.4,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			return g.Owner.DesiredReplicas > 0 && g.Owner.ReadyReplicas < g.Owner.DesiredReplicas
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			cause := causality.Cause{
				Kind:           "OwnerDesiredReplicasNotReady",
				InvolvedObject: causality.InvolvedObject{Kind: g.Owner.Kind, Name: g.Owner.Name},
				Message:        fmt.Sprintf("%s %s has %d/%d ready replicas", g.Owner.Kind, g.Owner.Name, g.Owner.ReadyReplicas, g.Owner.DesiredReplicas),
				Evidence: []causality.Evidence{
					{Source: causality.SourceObjectState, Locator: "owner.status.readyReplicas", Snippet: fmt.Sprintf("%d/%d", g.Owner.ReadyReplicas, g.Owner.DesiredReplicas)},
				},
				Confidence: 0.4,
				Severity:   causality.SeverityLow,
			}
			return rules.SingleCause(cause)
		},
	}
}
