package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

func TestOOMKilledMatchesSeedScenarioFour(t *testing.T) {
	g, err := objgraph.Build(objgraph.Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "worker-1"},
			"status": map[string]interface{}{
				"containerStatuses": []interface{}{
					map[string]interface{}{
						"name": "worker",
						"lastState": map[string]interface{}{
							"terminated": map[string]interface{}{"reason": "OOMKilled", "exitCode": 137},
						},
					},
				},
			},
			"spec": map[string]interface{}{
				"containers": []interface{}{
					map[string]interface{}{
						"name":      "worker",
						"resources": map[string]interface{}{"limits": map[string]interface{}{"memory": "512Mi"}},
					},
				},
			},
		},
	})
	require.NoError(t, err)

	tl := timeline.New(nil)
	rule := oomKilled()
	require.True(t, rule.Matches(g, tl))

	chain := rule.Explain(g, tl)
	require.Len(t, chain.Causes, 1)
	assert.Equal(t, "OOMKilled", chain.Causes[0].Kind)
	assert.GreaterOrEqual(t, chain.Causes[0].Confidence, 0.85)
	require.Len(t, chain.Causes[0].Evidence, 1)
	assert.Equal(t, causality.SourceObjectState, chain.Causes[0].Evidence[0].Source)
}

func TestOOMKilledDoesNotMatchWithoutMemoryLimit(t *testing.T) {
	g, err := objgraph.Build(objgraph.Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "worker-1"},
			"status": map[string]interface{}{
				"containerStatuses": []interface{}{
					map[string]interface{}{
						"name": "worker",
						"lastState": map[string]interface{}{
							"terminated": map[string]interface{}{"reason": "OOMKilled", "exitCode": 137},
						},
					},
				},
			},
			"spec": map[string]interface{}{
				"containers": []interface{}{
					map[string]interface{}{"name": "worker"},
				},
			},
		},
	})
	require.NoError(t, err)

	assert.False(t, oomKilled().Matches(g, timeline.New(nil)))
	assert.True(t, containerOOMNoLimit().Matches(g, timeline.New(nil)))
}

func restartingPod(restarts int) *objgraph.ObjectGraph {
	g, err := objgraph.Build(objgraph.Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "worker-1"},
			"status": map[string]interface{}{
				"containerStatuses": []interface{}{
					map[string]interface{}{
						"name":         "worker",
						"restartCount": restarts,
					},
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return g
}

func TestRapidRestartEscalationMatchesOnRestartCountAlone(t *testing.T) {
	g := restartingPod(5)
	assert.True(t, rapidRestartEscalation().Matches(g, timeline.New(nil)))
}

func TestRapidRestartEscalationRequiresWindowWhenBackOffEventsPresent(t *testing.T) {
	g := restartingPod(5)

	clustered := timeline.New([]timeline.RawEvent{
		{Reason: "BackOff", LastSeen: 100},
		{Reason: "BackOff", LastSeen: 500},
		{Reason: "BackOff", LastSeen: 800},
	})
	assert.True(t, rapidRestartEscalation().Matches(g, clustered))

	spreadOut := timeline.New([]timeline.RawEvent{
		{Reason: "BackOff", LastSeen: 100},
		{Reason: "BackOff", LastSeen: 5000},
		{Reason: "BackOff", LastSeen: 9000},
	})
	assert.False(t, rapidRestartEscalation().Matches(g, spreadOut))
}

func TestRapidRestartEscalationDoesNotMatchBelowThreshold(t *testing.T) {
	g := restartingPod(2)
	assert.False(t, rapidRestartEscalation().Matches(g, timeline.New(nil)))
}
