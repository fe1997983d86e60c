// Package nodepressure implements rules diagnosing node-level resource
// pressure (disk, memory, PID) that leads to eviction or scheduling
// refusal.
package nodepressure

import (
	"fmt"

	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/rules"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

// Rules returns the nodepressure-category rule corpus.
func Rules() []rules.Rule {
	return []rules.Rule{
		nodeNotReadyEvicted(),
		nodeNotReady(),
		evicted(),
	}
}

func nodeCondition(g *objgraph.ObjectGraph, condType, status string) (objgraph.NodeCondition, bool) {
	for _, c := range g.Node.Conditions {
		if c.Type == condType && c.Status == status {
			return c, true
		}
	}
	return objgraph.NodeCondition{}, false
}

// nodeNotReadyEvicted is the compound rule from seed scenario 5: a
// node reporting DiskPressure alongside an Evicted event for this pod
// is one causal story — the eviction is a direct consequence of the
// node condition — so it subsumes the bare Evicted atomic rule.
func nodeNotReadyEvicted() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "NodeNotReadyEvictedRule",
			Category:         rules.CategoryNodePressure,
			Priority:         90,
			Requires:         []objgraph.Kind{objgraph.KindNode, objgraph.KindEvents},
			ExpectedEvidence: 2,
			RuleConfidence:   0.85,
			Blocks:           []string{"Evicted"},
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			_, pressure := nodeCondition(g, "DiskPressure", "True")
			return pressure && tl.Has("Evicted")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			cond, _ := nodeCondition(g, "DiskPressure", "True")
			ev, _ := tl.Last("Evicted")
			cause := causality.Cause{
				Kind:           "NodeNotReadyEvictedRule",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("pod %s was evicted because node %s is under disk pressure", g.Pod.Name, g.Node.Name),
				Evidence: []causality.Evidence{
					{Source: causality.SourceEvent, Locator: "Evicted", Snippet: ev.Message},
				},
				Confidence: 0.85,
				Severity:   causality.SeverityCritical,
			}
			contributing := []causality.Cause{
				{
					Kind:           "NodeDiskPressure",
					InvolvedObject: causality.InvolvedObject{Kind: "Node", Name: g.Node.Name},
					Message:        fmt.Sprintf("node %s condition DiskPressure=%s", g.Node.Name, cond.Status),
					Evidence:       []causality.Evidence{{Source: causality.SourceCondition, Locator: "node.status.conditions[DiskPressure]", Snippet: cond.Status}},
					Confidence:     0.7,
					Severity:       causality.SeverityHigh,
				},
			}
			return causality.CausalChain{Causes: []causality.Cause{cause}, Contributing: contributing}
		},
	}
}

func nodeNotReady() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "NodeNotReady",
			Category:         rules.CategoryNodePressure,
			Priority:         55,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			Optional:         []objgraph.Kind{objgraph.KindNode},
			ExpectedEvidence: 1,
			RuleConfidence:   0.65,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			return tl.Has("NodeNotReady")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			ev, _ := tl.Last("NodeNotReady")
			cause := causality.Cause{
				Kind:           "NodeNotReady",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("pod %s's node is reporting NotReady", g.Pod.Name),
				Evidence: []causality.Evidence{
					{Source: causality.SourceEvent, Locator: "NodeNotReady", Snippet: ev.Message},
				},
				Confidence: 0.65,
				Severity:   causality.SeverityHigh,
			}
			return rules.SingleCause(cause)
		},
	}
}

func evicted() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "Evicted",
			Category:         rules.CategoryNodePressure,
			Priority:         50,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 1,
			RuleConfidence:   0.6,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			return tl.Has("Evicted")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			ev, _ := tl.Last("Evicted")
			cause := causality.Cause{
				Kind:           "Evicted",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("pod %s was evicted", g.Pod.Name),
				Evidence: []causality.Evidence{
					{Source: causality.SourceEvent, Locator: "Evicted", Snippet: ev.Message},
				},
				Confidence: 0.6,
				Severity:   causality.SeverityHigh,
			}
			return rules.SingleCause(cause)
		},
	}
}
