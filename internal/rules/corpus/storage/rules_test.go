package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

func podGraph(t *testing.T, extra objgraph.Raw) *objgraph.ObjectGraph {
	t.Helper()
	extra.Pod = map[string]interface{}{
		"metadata": map[string]interface{}{"name": "web-0", "namespace": "default"},
		"status":   map[string]interface{}{"phase": "Pending"},
	}
	g, err := objgraph.Build(extra)
	require.NoError(t, err)
	return g
}

func TestPVCPendingThenCrashloopMatchesSustainedGap(t *testing.T) {
	g := podGraph(t, objgraph.Raw{
		PVC: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "data-web-0"},
			"status":   map[string]interface{}{"phase": "Pending"},
		},
	})
	tl := timeline.New([]timeline.RawEvent{
		{Reason: "FailedMount", Message: "unable to mount volume", FirstSeen: 1, LastSeen: 1},
		{Reason: "BackOff", Message: "back-off restarting failed container", FirstSeen: 100, LastSeen: 125},
	})

	rule := pvcPendingThenCrashloop()
	require.True(t, rule.Matches(g, tl))

	chain := rule.Explain(g, tl)
	require.Len(t, chain.Causes, 1)
	assert.Equal(t, "PVCPendingThenCrashloopRule", chain.Causes[0].Kind)
	assert.Len(t, chain.Contributing, 2)
}

func TestPVCPendingThenCrashloopSkipsWhenPVCBound(t *testing.T) {
	g := podGraph(t, objgraph.Raw{
		PVC: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "data-web-0"},
			"status":   map[string]interface{}{"phase": "Bound"},
		},
	})
	tl := timeline.New([]timeline.RawEvent{
		{Reason: "FailedMount", LastSeen: 0},
		{Reason: "BackOff", LastSeen: 120},
	})

	assert.False(t, pvcPendingThenCrashloop().Matches(g, tl))
}

func TestPVCNotBoundMatchesPendingClaim(t *testing.T) {
	g := podGraph(t, objgraph.Raw{
		PVC: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "data-web-0"},
			"status":   map[string]interface{}{"phase": "Pending"},
		},
	})
	tl := timeline.New(nil)

	rule := pvcNotBound()
	require.True(t, rule.Matches(g, tl))
	chain := rule.Explain(g, tl)
	assert.Equal(t, "PVCNotBound", chain.Causes[0].Kind)
}

func TestProvisioningFailedRequiresEvent(t *testing.T) {
	g := podGraph(t, objgraph.Raw{})
	tl := timeline.New([]timeline.RawEvent{{Reason: "ProvisioningFailed", Message: "no volume plugin matched"}})

	rule := provisioningFailed()
	require.True(t, rule.Matches(g, tl))
	assert.False(t, rule.Matches(g, timeline.New(nil)))
}

func TestPVCBoundPVMissingRequiresAbsentPV(t *testing.T) {
	g := podGraph(t, objgraph.Raw{
		PVC: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "data-web-0"},
			"status":   map[string]interface{}{"phase": "Bound"},
			"spec":     map[string]interface{}{"volumeName": "pv-1"},
		},
	})
	tl := timeline.New(nil)

	require.True(t, pvcBoundPVMissing().Matches(g, tl))

	g2 := podGraph(t, objgraph.Raw{
		PVC: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "data-web-0"},
			"status":   map[string]interface{}{"phase": "Bound"},
			"spec":     map[string]interface{}{"volumeName": "pv-1"},
		},
		PV: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "pv-1"},
			"status":   map[string]interface{}{"phase": "Bound"},
		},
	})
	assert.False(t, pvcBoundPVMissing().Matches(g2, tl))
}

func TestRulesReturnsFiveStorageRules(t *testing.T) {
	assert.Len(t, Rules(), 5)
}
