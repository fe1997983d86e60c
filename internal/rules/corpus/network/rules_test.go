package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

func basicPod(t *testing.T) *objgraph.ObjectGraph {
	t.Helper()
	g, err := objgraph.Build(objgraph.Raw{
		Pod: map[string]interface{}{"metadata": map[string]interface{}{"name": "web-0", "namespace": "default"}},
	})
	require.NoError(t, err)
	return g
}

func TestSandboxCreationFailedMatchesEvent(t *testing.T) {
	g := basicPod(t)
	tl := timeline.New([]timeline.RawEvent{{Reason: "FailedCreatePodSandBox", Message: "rpc error: network plugin is not ready"}})

	rule := sandboxCreationFailed()
	require.True(t, rule.Matches(g, tl))
	chain := rule.Explain(g, tl)
	assert.Equal(t, "SandboxCreationFailed", chain.Causes[0].Kind)
}

func TestSandboxCreationFailedFalseWithoutEvent(t *testing.T) {
	g := basicPod(t)
	assert.False(t, sandboxCreationFailed().Matches(g, timeline.New(nil)))
}

func TestNetworkNotReadyMatchesEvent(t *testing.T) {
	g := basicPod(t)
	tl := timeline.New([]timeline.RawEvent{{Reason: "NetworkNotReady", Message: "network plugin is not ready"}})

	rule := networkNotReady()
	require.True(t, rule.Matches(g, tl))
	chain := rule.Explain(g, tl)
	assert.Equal(t, "NetworkNotReady", chain.Causes[0].Kind)
}

func TestRulesReturnsTwoNetworkRules(t *testing.T) {
	assert.Len(t, Rules(), 2)
}
