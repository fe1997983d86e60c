package declarative

import (
	"fmt"
	"strings"

	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/rules"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

// rule adapts a RuleSpec to the rules.Rule interface by interpreting
// its predicates and chain template — never by evaluating Go code or
// any embedded expression language.
type rule struct {
	spec RuleSpec
}

// Compile converts a Corpus into rules.Rule values. It returns a
// RuleMalformedError if any Requires entry names an unrecognized
// object kind.
func Compile(c *Corpus) ([]rules.Rule, error) {
	out := make([]rules.Rule, 0, len(c.Rules))
	for _, spec := range c.Rules {
		if _, err := parseKinds(spec.Requires); err != nil {
			return nil, causality.NewRuleMalformed(spec.Name, err.Error())
		}
		if _, err := parseKinds(spec.Optional); err != nil {
			return nil, causality.NewRuleMalformed(spec.Name, err.Error())
		}
		out = append(out, rule{spec: spec})
	}
	return out, nil
}

func parseKinds(names []string) ([]objgraph.Kind, error) {
	out := make([]objgraph.Kind, 0, len(names))
	for _, n := range names {
		k := objgraph.Kind(n)
		switch k {
		case objgraph.KindPod, objgraph.KindEvents, objgraph.KindPVC, objgraph.KindPV,
			objgraph.KindStorageClass, objgraph.KindNode, objgraph.KindOwner,
			objgraph.KindServiceAccount, objgraph.KindSecrets, objgraph.KindConfigMaps:
			out = append(out, k)
		default:
			return nil, fmt.Errorf("unrecognized object kind %q in requires", n)
		}
	}
	return out, nil
}

func (r rule) Metadata() rules.Metadata {
	requires, _ := parseKinds(r.spec.Requires)
	optional, _ := parseKinds(r.spec.Optional)
	return rules.Metadata{
		Name:             r.spec.Name,
		Category:         rules.Category(r.spec.Category),
		Priority:         r.spec.Priority,
		Requires:         requires,
		Optional:         optional,
		ExpectedEvidence: r.spec.ExpectedEvidence,
		RuleConfidence:   r.spec.RuleConfidence,
		Blocks:           r.spec.Blocks,
	}
}

func (r rule) Matches(graph *objgraph.ObjectGraph, tl timeline.Timeline) bool {
	for _, p := range r.spec.When {
		if !evalPredicate(p, graph, tl) {
			return false
		}
	}
	return true
}

func evalPredicate(p Predicate, g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
	switch {
	case p.TimelineHas != "":
		return tl.Has(p.TimelineHas)
	case p.TimelineCountAtLeast != nil:
		return tl.Count(p.TimelineCountAtLeast.Reason) >= p.TimelineCountAtLeast.Min
	case p.ObjectPresent != "":
		return g.Present(objgraph.Kind(p.ObjectPresent))
	case p.ObjectAbsent != "":
		return !g.Present(objgraph.Kind(p.ObjectAbsent))
	case p.PodPhaseEquals != "":
		return g.Pod.Phase == p.PodPhaseEquals
	case p.ContainerWaitingReasonEquals != "":
		for _, cs := range g.Pod.ContainerStatuses {
			if cs.WaitingReason == p.ContainerWaitingReasonEquals {
				return true
			}
		}
		return false
	case p.NodeUnschedulable != nil:
		return g.Present(objgraph.KindNode) && g.Node.Unschedulable == *p.NodeUnschedulable
	default:
		return false
	}
}

func (r rule) Explain(graph *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
	message := interpolate(r.spec.Chain.CauseMessage, graph)
	cause := causality.Cause{
		Kind:           r.spec.Chain.CauseKind,
		InvolvedObject: causality.InvolvedObject{Kind: "Pod", Namespace: graph.Pod.Namespace, Name: graph.Pod.Name, UID: graph.Pod.UID},
		Message:        message,
		Evidence:       evidenceFromPredicates(r.spec.When, graph, tl),
		Confidence:     r.spec.RuleConfidence,
		Severity:       severityFromString(r.spec.Chain.Severity),
	}
	return causality.CausalChain{Causes: []causality.Cause{cause}}
}

// evidenceFromPredicates derives Evidence entries from the predicates
// that matched, object state taking precedence over event/timeline
// evidence precedence rule.
func evidenceFromPredicates(preds []Predicate, g *objgraph.ObjectGraph, tl timeline.Timeline) []causality.Evidence {
	var objectState, timelineEv []causality.Evidence
	for _, p := range preds {
		switch {
		case p.ObjectPresent != "":
			objectState = append(objectState, causality.Evidence{
				Source: causality.SourceObjectState, Locator: p.ObjectPresent, Snippet: "present",
			})
		case p.PodPhaseEquals != "":
			objectState = append(objectState, causality.Evidence{
				Source: causality.SourceObjectState, Locator: "pod.status.phase", Snippet: g.Pod.Phase,
			})
		case p.ContainerWaitingReasonEquals != "":
			objectState = append(objectState, causality.Evidence{
				Source: causality.SourceObjectState, Locator: "pod.status.containerStatuses[].state.waiting.reason", Snippet: p.ContainerWaitingReasonEquals,
			})
		case p.NodeUnschedulable != nil:
			objectState = append(objectState, causality.Evidence{
				Source: causality.SourceObjectState, Locator: "node.spec.unschedulable", Snippet: "true",
			})
		case p.TimelineHas != "":
			if ev, ok := tl.Last(p.TimelineHas); ok {
				timelineEv = append(timelineEv, causality.Evidence{
					Source: causality.SourceEvent, Locator: ev.Reason, Snippet: ev.Message,
				})
			}
		case p.TimelineCountAtLeast != nil:
			timelineEv = append(timelineEv, causality.Evidence{
				Source: causality.SourceTimeline, Locator: p.TimelineCountAtLeast.Reason, Snippet: "repeated",
			})
		}
	}
	return append(objectState, timelineEv...)
}

func severityFromString(s string) causality.Severity {
	switch strings.ToLower(s) {
	case "low":
		return causality.SeverityLow
	case "medium":
		return causality.SeverityMedium
	case "high":
		return causality.SeverityHigh
	case "critical":
		return causality.SeverityCritical
	default:
		return causality.SeverityMedium
	}
}

// interpolate resolves the small set of name-only placeholders the
// chain template supports. This is string substitution, not a
// template-language evaluator: the placeholder set is fixed and
// closed.
func interpolate(s string, g *objgraph.ObjectGraph) string {
	replacer := strings.NewReplacer(
		"{{.Pod}}", g.Pod.Name,
		"{{.Namespace}}", g.Pod.Namespace,
		"{{.Node}}", g.Node.Name,
	)
	return replacer.Replace(s)
}
