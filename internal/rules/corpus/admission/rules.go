// Package admission implements rules diagnosing webhook and
// policy-admission rejections (distinguished from scheduling failures:
// these prevent the object from being created/updated at all).
package admission

import (
	"fmt"
	"strings"

	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/rules"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

// Rules returns the admission-category rule corpus.
func Rules() []rules.Rule {
	return []rules.Rule{
		webhookRejected(),
		securityContextDenied(),
	}
}

func webhookRejected() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "AdmissionWebhookRejected",
			Category:         rules.CategoryAdmission,
			Priority:         65,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 1,
			RuleConfidence:   0.8,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			return tl.Has("FailedAdmission") || tl.Has("FailedValidation")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			ev, ok := tl.Last("FailedAdmission")
			if !ok {
				ev, _ = tl.Last("FailedValidation")
			}
			cause := causality.Cause{
				Kind:           "AdmissionWebhookRejected",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("pod %s was rejected by an admission webhook or policy", g.Pod.Name),
				Evidence: []causality.Evidence{
					{Source: causality.SourceEvent, Locator: ev.Reason, Snippet: ev.Message},
				},
				Confidence: 0.8,
				Severity:   causality.SeverityHigh,
			}
			return rules.SingleCause(cause)
		},
	}
}

func securityContextDenied() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "SecurityContextDenied",
			Category:         rules.CategoryAdmission,
			Priority:         50,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 1,
			RuleConfidence:   0.6,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			ev, ok := tl.Last("Failed")
			return ok && ev.Message != "" && containsSecurityDenial(ev.Message)
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			ev, _ := tl.Last("Failed")
			cause := causality.Cause{
				Kind:           "SecurityContextDenied",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        "pod security policy or admission controller denied the pod's security context",
				Evidence: []causality.Evidence{
					{Source: causality.SourceEvent, Locator: "Failed", Snippet: ev.Message},
				},
				Confidence: 0.6,
				Severity:   causality.SeverityMedium,
			}
			return rules.SingleCause(cause)
		},
	}
}

func containsSecurityDenial(msg string) bool {
	for _, sub := range []string{"PodSecurityPolicy", "violates PodSecurity", "SecurityContext"} {
		if strings.Contains(msg, sub) {
			return true
		}
	}
	return false
}
