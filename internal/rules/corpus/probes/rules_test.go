package probes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

func buildGraph(t *testing.T, raw objgraph.Raw) *objgraph.ObjectGraph {
	t.Helper()
	g, err := objgraph.Build(raw)
	require.NoError(t, err)
	return g
}

func TestRepeatedProbeFailureRequiresThreeOccurrences(t *testing.T) {
	g := buildGraph(t, objgraph.Raw{Pod: map[string]interface{}{"metadata": map[string]interface{}{"name": "web-0"}}})

	tl2 := timeline.New([]timeline.RawEvent{
		{Reason: "Unhealthy", LastSeen: 1}, {Reason: "Unhealthy", LastSeen: 2},
	})
	assert.False(t, repeatedProbeFailure().Matches(g, tl2))

	tl3 := timeline.New([]timeline.RawEvent{
		{Reason: "Unhealthy", LastSeen: 1}, {Reason: "Unhealthy", LastSeen: 2}, {Reason: "Unhealthy", LastSeen: 3},
	})
	require.True(t, repeatedProbeFailure().Matches(g, tl3))
	chain := repeatedProbeFailure().Explain(g, tl3)
	assert.Equal(t, "RepeatedProbeFailure", chain.Causes[0].Kind)
}

func TestLivenessKillingContainerRequiresLivenessProbeAndBothEvents(t *testing.T) {
	withLiveness := buildGraph(t, objgraph.Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "web-0"},
			"spec": map[string]interface{}{
				"containers": []interface{}{
					map[string]interface{}{"name": "app", "livenessProbe": map[string]interface{}{}},
				},
			},
		},
	})
	tl := timeline.New([]timeline.RawEvent{{Reason: "Unhealthy"}, {Reason: "Killing"}})
	require.True(t, livenessKillingContainer().Matches(withLiveness, tl))

	withoutLiveness := buildGraph(t, objgraph.Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "web-0"},
			"spec": map[string]interface{}{
				"containers": []interface{}{map[string]interface{}{"name": "app"}},
			},
		},
	})
	assert.False(t, livenessKillingContainer().Matches(withoutLiveness, tl))
}

func TestNoReadinessProbeConfiguredSkipsWhenRunningOrProbePresent(t *testing.T) {
	pending := buildGraph(t, objgraph.Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "web-0"},
			"status":   map[string]interface{}{"phase": "Pending"},
			"spec": map[string]interface{}{
				"containers": []interface{}{map[string]interface{}{"name": "app"}},
			},
		},
	})
	tl := timeline.New(nil)
	require.True(t, noReadinessProbeConfigured().Matches(pending, tl))

	running := buildGraph(t, objgraph.Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "web-0"},
			"status":   map[string]interface{}{"phase": "Running"},
			"spec": map[string]interface{}{
				"containers": []interface{}{map[string]interface{}{"name": "app"}},
			},
		},
	})
	assert.False(t, noReadinessProbeConfigured().Matches(running, tl))

	withProbe := buildGraph(t, objgraph.Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "web-0"},
			"status":   map[string]interface{}{"phase": "Pending"},
			"spec": map[string]interface{}{
				"containers": []interface{}{
					map[string]interface{}{"name": "app", "readinessProbe": map[string]interface{}{}},
				},
			},
		},
	})
	assert.False(t, noReadinessProbeConfigured().Matches(withProbe, tl))
}

func TestRulesReturnsThreeProbeRules(t *testing.T) {
	assert.Len(t, Rules(), 3)
}
