// Package image implements rules diagnosing container image pull and
// registry-access failures.
package image

import (
	"fmt"
	"strings"

	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/rules"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

// Rules returns the image-category rule corpus.
func Rules() []rules.Rule {
	return []rules.Rule{
		imagePullSecretMissingCompound(),
		imagePullBackOff(),
		errImagePull(),
		imageTagNotFound(),
	}
}

func waitingReason(g *objgraph.ObjectGraph, reason string) (objgraph.ContainerStatus, bool) {
	for _, cs := range g.Pod.ContainerStatuses {
		if cs.WaitingReason == reason {
			return cs, true
		}
	}
	return objgraph.ContainerStatus{}, false
}

// imagePullSecretMissingCompound is the compound rule from seed
// scenario 2: an ImagePullBackOff signal combined with the absence of
// any imagePullSecrets on the pod spec is a stronger, more specific
// claim than the bare ImagePullBackOff atomic rule, so it subsumes it.
func imagePullSecretMissingCompound() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "ImagePullSecretMissingCompound",
			Category:         rules.CategoryImage,
			Priority:         90,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 2,
			RuleConfidence:   0.85,
			Blocks:           []string{"ImagePullBackOff"},
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			_, waiting := waitingReason(g, "ImagePullBackOff")
			if !waiting {
				return false
			}
			return len(g.Pod.Spec.ImagePullSecrets) == 0 && tl.Has("Failed")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			cs, _ := waitingReason(g, "ImagePullBackOff")
			failedEv, _ := tl.Last("Failed")
			cause := causality.Cause{
				Kind:           "ImagePullSecretMissingCompound",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("container %s cannot pull its image and the pod declares no imagePullSecrets", cs.Name),
				Evidence: []causality.Evidence{
					{Source: causality.SourceObjectState, Locator: "spec.imagePullSecrets", Snippet: "empty"},
					{Source: causality.SourceEvent, Locator: "Failed", Snippet: failedEv.Message},
				},
				Confidence: 0.85,
				Severity:   causality.SeverityHigh,
			}
			return rules.SingleCause(cause)
		},
	}
}

func imagePullBackOff() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "ImagePullBackOff",
			Category:         rules.CategoryImage,
			Priority:         60,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 1,
			RuleConfidence:   0.75,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			_, waiting := waitingReason(g, "ImagePullBackOff")
			return waiting || tl.Has("ImagePullBackOff")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			cs, _ := waitingReason(g, "ImagePullBackOff")
			ev, _ := tl.Last("ImagePullBackOff")
			cause := causality.Cause{
				Kind:           "ImagePullBackOff",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("container %s is backing off image pulls for %s", cs.Name, cs.WaitingMessage),
				Evidence: []causality.Evidence{
					{Source: causality.SourceObjectState, Locator: "status.containerStatuses[].state.waiting", Snippet: cs.WaitingMessage},
					{Source: causality.SourceEvent, Locator: "ImagePullBackOff", Snippet: ev.Message},
				},
				Confidence: 0.75,
				Severity:   causality.SeverityHigh,
			}
			return rules.SingleCause(cause)
		},
	}
}

func errImagePull() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "ErrImagePull",
			Category:         rules.CategoryImage,
			Priority:         58,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 1,
			RuleConfidence:   0.7,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			_, waiting := waitingReason(g, "ErrImagePull")
			return waiting || tl.Has("ErrImagePull")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			cs, _ := waitingReason(g, "ErrImagePull")
			ev, _ := tl.Last("ErrImagePull")
			cause := causality.Cause{
				Kind:           "ErrImagePull",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("container %s failed to pull its image: %s", cs.Name, cs.WaitingMessage),
				Evidence: []causality.Evidence{
					{Source: causality.SourceEvent, Locator: "ErrImagePull", Snippet: ev.Message},
				},
				Confidence: 0.7,
				Severity:   causality.SeverityHigh,
			}
			return rules.SingleCause(cause)
		},
	}
}

func imageTagNotFound() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "ImageTagNotFound",
			Category:         rules.CategoryImage,
			Priority:         50,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 1,
			RuleConfidence:   0.65,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			ev, ok := tl.Last("Failed")
			if !ok {
				return false
			}
			return containsAny(ev.Message, "not found", "manifest unknown")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			ev, _ := tl.Last("Failed")
			cause := causality.Cause{
				Kind:           "ImageTagNotFound",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        "the referenced image tag does not exist in the registry",
				Evidence: []causality.Evidence{
					{Source: causality.SourceEvent, Locator: "Failed", Snippet: ev.Message},
				},
				Confidence: 0.65,
				Severity:   causality.SeverityMedium,
			}
			return rules.SingleCause(cause)
		},
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
