// Package lifecycle implements rules diagnosing container start/stop
// and restart-lifecycle failures not already claimed by a more
// specific category (storage, image, probes).
package lifecycle

import (
	"fmt"

	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/rules"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

// Rules returns the lifecycle-category rule corpus.
func Rules() []rules.Rule {
	return []rules.Rule{
		oomKilled(),
		containerOOMNoLimit(),
		nonZeroExitCode(),
		rapidRestartEscalation(),
	}
}

func terminatedWith(g *objgraph.ObjectGraph, reason string) (objgraph.Container, objgraph.ContainerStatus, bool) {
	for _, cs := range g.Pod.ContainerStatuses {
		if cs.HasLastTermination && cs.LastTerminationReason == reason {
			for _, c := range g.Pod.Spec.Containers {
				if c.Name == cs.Name {
					return c, cs, true
				}
			}
			return objgraph.Container{}, cs, true
		}
	}
	return objgraph.Container{}, objgraph.ContainerStatus{}, false
}

// oomKilled is seed scenario 4: a container last-terminated with
// reason OOMKilled and a memory limit configured is a high-confidence,
// purely object-state-evidenced root cause.
func oomKilled() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "OOMKilled",
			Category:         rules.CategoryLifecycle,
			Priority:         70,
			Requires:         []objgraph.Kind{},
			ExpectedEvidence: 1,
			RuleConfidence:   0.9,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			c, _, found := terminatedWith(g, "OOMKilled")
			return found && c.HasMemoryLimit
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			c, cs, _ := terminatedWith(g, "OOMKilled")
			cause := causality.Cause{
				Kind:           "OOMKilled",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("container %s was killed by the kernel OOM killer (exit code %d)", c.Name, cs.LastTerminationExitCode),
				Evidence: []causality.Evidence{
					{Source: causality.SourceObjectState, Locator: "status.containerStatuses[].lastState.terminated", Snippet: fmt.Sprintf("reason=OOMKilled exitCode=%d", cs.LastTerminationExitCode)},
				},
				Confidence: 0.9,
				Severity:   causality.SeverityCritical,
			}
			return rules.SingleCause(cause)
		},
	}
}

func containerOOMNoLimit() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "OOMKilledNoMemoryLimit",
			Category:         rules.CategoryLifecycle,
			Priority:         65,
			Requires:         []objgraph.Kind{},
			ExpectedEvidence: 1,
			RuleConfidence:   0.75,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			c, _, found := terminatedWith(g, "OOMKilled")
			return found && !c.HasMemoryLimit
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			c, cs, _ := terminatedWith(g, "OOMKilled")
			cause := causality.Cause{
				Kind:           "OOMKilledNoMemoryLimit",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("container %s was OOM-killed with no memory limit set, likely hitting the node's memory ceiling", c.Name),
				Evidence: []causality.Evidence{
					{Source: causality.SourceObjectState, Locator: "status.containerStatuses[].lastState.terminated", Snippet: fmt.Sprintf("exitCode=%d", cs.LastTerminationExitCode)},
				},
				Confidence: 0.75,
				Severity:   causality.SeverityCritical,
			}
			return rules.SingleCause(cause)
		},
	}
}

func nonZeroExitCode() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "ContainerNonZeroExit",
			Category:         rules.CategoryLifecycle,
			Priority:         40,
			Requires:         []objgraph.Kind{},
			ExpectedEvidence: 1,
			RuleConfidence:   0.55,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			for _, cs := range g.Pod.ContainerStatuses {
				if cs.HasLastTermination && cs.LastTerminationReason == "Error" && cs.LastTerminationExitCode != 0 {
					return true
				}
			}
			return false
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			var cs objgraph.ContainerStatus
			for _, c := range g.Pod.ContainerStatuses {
				if c.HasLastTermination && c.LastTerminationReason == "Error" {
					cs = c
					break
				}
			}
			cause := causality.Cause{
				Kind:           "ContainerNonZeroExit",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("container %s exited with code %d", cs.Name, cs.LastTerminationExitCode),
				Evidence: []causality.Evidence{
					{Source: causality.SourceObjectState, Locator: "status.containerStatuses[].lastState.terminated.exitCode", Snippet: fmt.Sprintf("%d", cs.LastTerminationExitCode)},
				},
				Confidence: 0.55,
				Severity:   causality.SeverityMedium,
			}
			return rules.SingleCause(cause)
		},
	}
}

// rapidRestartEscalation requires a high restart count on the
// container's own status. When BackOff events are present in the
// timeline it also requires those restarts to be clustered in the
// last 15 minutes, distinguishing an ongoing crash loop from a
// container that restarted many times over a long-lived history.
func rapidRestartEscalation() rules.Rule {
	return rules.Programmatic{
		Meta: rules.Metadata{
			Name:             "RapidRestartEscalation",
			Category:         rules.CategoryLifecycle,
			Priority:         45,
			Requires:         []objgraph.Kind{},
			Optional:         []objgraph.Kind{objgraph.KindEvents},
			ExpectedEvidence: 2,
			RuleConfidence:   0.5,
		},
		Match: func(g *objgraph.ObjectGraph, tl timeline.Timeline) bool {
			for _, cs := range g.Pod.ContainerStatuses {
				if cs.RestartCount < 5 {
					continue
				}
				if !tl.Has("BackOff") {
					return true
				}
				return tl.Repeated("BackOff", 3, 900)
			}
			return false
		},
		Explainer: func(g *objgraph.ObjectGraph, tl timeline.Timeline) causality.CausalChain {
			var cs objgraph.ContainerStatus
			for _, c := range g.Pod.ContainerStatuses {
				if c.RestartCount >= 5 {
					cs = c
					break
				}
			}
			evidence := []causality.Evidence{
				{Source: causality.SourceObjectState, Locator: "status.containerStatuses[].restartCount", Snippet: fmt.Sprintf("%d", cs.RestartCount)},
			}
			if tl.Has("BackOff") {
				evidence = append(evidence, causality.Evidence{Source: causality.SourceTimeline, Locator: "BackOff", Snippet: "repeated within 15m"})
			}
			cause := causality.Cause{
				Kind:           "RapidRestartEscalation",
				InvolvedObject: g.PodInvolvedObject(),
				Message:        fmt.Sprintf("container %s has restarted %d times", cs.Name, cs.RestartCount),
				Evidence:       evidence,
				Confidence:     0.5,
				Severity:       causality.SeverityMedium,
			}
			return rules.SingleCause(cause)
		},
	}
}
