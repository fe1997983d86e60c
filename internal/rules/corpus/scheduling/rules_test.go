package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

func TestUnschedulableTaintMatchesSeedScenarioOne(t *testing.T) {
	g, err := objgraph.Build(objgraph.Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "web-0", "namespace": "default"},
			"status":   map[string]interface{}{"phase": "Pending"},
		},
	})
	require.NoError(t, err)

	tl := timeline.New([]timeline.RawEvent{
		{Reason: "FailedScheduling", Message: "0/3 nodes are available: 1 node(s) had untolerated taint", LastSeen: 10},
	})

	rule := unschedulableTaint()
	require.True(t, rule.Matches(g, tl))

	chain := rule.Explain(g, tl)
	require.Len(t, chain.Causes, 1)
	assert.Equal(t, "UnschedulableTaint", chain.Causes[0].Kind)
	assert.GreaterOrEqual(t, chain.Causes[0].Confidence, 0.7)
}

func TestUnschedulableTaintSkipsWhenRunning(t *testing.T) {
	g, err := objgraph.Build(objgraph.Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "web-0"},
			"status":   map[string]interface{}{"phase": "Running"},
		},
	})
	require.NoError(t, err)

	tl := timeline.New([]timeline.RawEvent{
		{Reason: "FailedScheduling", Message: "untolerated taint", LastSeen: 10},
	})

	assert.False(t, unschedulableTaint().Matches(g, tl))
}
