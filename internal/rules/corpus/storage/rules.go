// Package storage implements rules diagnosing PersistentVolumeClaim
// and PersistentVolume binding and provisioning failures.
package storage

import (
	"fmt"

	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/rules"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

// Rules returns the storage-category rule corpus.
func Rules() []rules.Rule {
	return []rules.Rule{
		pvcPendingThenCrashloop(),
		pvcNotBound(),
		crashLoopBackoff(),
		provisioningFailed(),
		pvcBoundPVMissing(),
	}
}

func claimedPVC(g *objgraph.ObjectGraph) (string, bool) {
	return g.PodClaimsPVC()
}

func containerCrashReason(g *objgraph.ObjectGraph, reason string) (objgraph.ContainerStatus, bool) {
	for _, cs := range g.Pod.ContainerStatuses {
		if cs.HasLastTermination && cs.LastTerminationReason == reason {
			return cs, true
		}
	}
	return objgraph.ContainerStatus{}, false
}

// pvcPendingThenCrashloop is the compound rule from seed scenario 3:
// a PVC stuck Pending for a sustained period followed by a container
// crashloop is a single causal story (the workload crashes because its
// volume never mounted), so it subsumes both PVCNotBound and
// CrashLoopBackoff.
func pvcPendingThenCrashloop() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "PVCPendingThenCrashloopRule",
			Category:         rules.CategoryStorage,
			Priority:         95,
			Requires:         []objgraph.Kind{objgraph.KindPVC, objgraph.KindEvents},
			ExpectedEvidence: 2,
			RuleConfidence:   0.88,
			Blocks:           []string{"PVCNotBound", "CrashLoopBackoff"},
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			if !g.Present(objgraph.KindPVC) || g.PVC.Phase != "Pending" {
				return false
			}
			if _, crashing := containerCrashReason(g, "Error"); !crashing {
				if !tl.Has("BackOff") {
					return false
				}
			}
			d, ok := tl.DurationBetween("FailedMount", "BackOff")
			if ok {
				return d >= 60
			}
			// timestamps unknown: fall back to presence-only
			// conservative rule for ambiguous timing.
			return tl.Has("FailedMount") && tl.Has("BackOff")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			claim, _ := claimedPVC(g)
			backOff, _ := tl.Last("BackOff")
			cause := causality.Cause{
				Kind:           "PVCPendingThenCrashloopRule",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("pod %s crashloops because its claim %s never bound", g.Pod.Name, claim),
				Evidence: []causality.Evidence{
					{Source: causality.SourceObjectState, Locator: "pvc.status.phase", Snippet: "Pending"},
					{Source: causality.SourceEvent, Locator: "BackOff", Snippet: backOff.Message},
				},
				Confidence: 0.88,
				Severity:   causality.SeverityCritical,
			}
			contributing := []causality.Cause{
				{
					Kind:           "PVCNotBound",
					InvolvedObject: g.PodInvolvedObject(),
					Message:        fmt.Sprintf("claim %s is still Pending", claim),
					Evidence:       []causality.Evidence{{Source: causality.SourceObjectState, Locator: "pvc.status.phase", Snippet: "Pending"}},
					Confidence:     0.7,
					Severity:       causality.SeverityHigh,
				},
				{
					Kind:           "CrashLoopBackoff",
					InvolvedObject: g.PodInvolvedObject(),
					Message:        "container is in a restart backoff loop",
					Evidence:       []causality.Evidence{{Source: causality.SourceEvent, Locator: "BackOff", Snippet: backOff.Message}},
					Confidence:     0.6,
					Severity:       causality.SeverityHigh,
				},
			}
			return causality.CausalChain{Causes: []causality.Cause{cause}, Contributing: contributing}
		},
	}
}

func pvcNotBound() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "PVCNotBound",
			Category:         rules.CategoryStorage,
			Priority:         60,
			Requires:         []objgraph.Kind{objgraph.KindPVC},
			ExpectedEvidence: 1,
			RuleConfidence:   0.75,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			return g.PVC.Phase == "Pending"
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			cause := causality.Cause{
				Kind:           "PVCNotBound",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("claim %s is Pending and unbound", g.PVC.Name),
				Evidence: []causality.Evidence{
					{Source: causality.SourceObjectState, Locator: "pvc.status.phase", Snippet: "Pending"},
				},
				Confidence: 0.75,
				Severity:   causality.SeverityHigh,
			}
			return rules.SingleCause(cause)
		},
	}
}

func crashLoopBackoff() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "CrashLoopBackoff",
			Category:         rules.CategoryStorage,
			Priority:         55,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 1,
			RuleConfidence:   0.65,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			return tl.Has("BackOff") || tl.Has("CrashLoopBackOff")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			ev, _ := tl.Last("BackOff")
			cause := causality.Cause{
				Kind:           "CrashLoopBackoff",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        "container is in a restart backoff loop",
				Evidence: []causality.Evidence{
					{Source: causality.SourceEvent, Locator: "BackOff", Snippet: ev.Message},
				},
				Confidence: 0.65,
				Severity:   causality.SeverityHigh,
			}
			return rules.SingleCause(cause)
		},
	}
}

func provisioningFailed() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "ProvisioningFailed",
			Category:         rules.CategoryStorage,
			Priority:         58,
			Requires:         []objgraph.Kind{objgraph.KindEvents},
			Optional:         []objgraph.Kind{objgraph.KindStorageClass},
			ExpectedEvidence: 1,
			RuleConfidence:   0.7,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			return tl.Has("ProvisioningFailed")
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			ev, _ := tl.Last("ProvisioningFailed")
			cause := causality.Cause{
				Kind:           "ProvisioningFailed",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        "the storage provisioner failed to create a volume for this claim",
				Evidence: []causality.Evidence{
					{Source: causality.SourceEvent, Locator: "ProvisioningFailed", Snippet: ev.Message},
				},
				Confidence: 0.7,
				Severity:   causality.SeverityHigh,
			}
			return rules.SingleCause(cause)
		},
	}
}

func pvcBoundPVMissing() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "PVCBoundPVMissing",
			Category:         rules.CategoryStorage,
			Priority:         50,
			Requires:         []objgraph.Kind{objgraph.KindPVC},
			Optional:         []objgraph.Kind{objgraph.KindPV},
			ExpectedEvidence: 1,
			RuleConfidence:   0.6,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			return g.PVC.Phase == "Bound" && g.PVC.VolumeName != "" && !g.Present(objgraph.KindPV)
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			cause := causality.Cause{
				Kind:           "PVCBoundPVMissing",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("claim %s reports Bound to %s but the volume was not supplied for inspection", g.PVC.Name, g.PVC.VolumeName),
				Evidence: []causality.Evidence{
					{Source: causality.SourceObjectState, Locator: "pvc.spec.volumeName", Snippet: g.PVC.VolumeName},
				},
				Confidence: 0.6,
				Severity:   causality.SeverityLow,
			}
			return rules.SingleCause(cause)
		},
	}
}
