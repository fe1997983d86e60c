package objgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequiresPod(t *testing.T) {
	_, err := Build(Raw{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pod object is required")
}

func TestBuildNormalizesRequiredPodOnly(t *testing.T) {
	g, err := Build(Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "web-0", "namespace": "default", "uid": "abc-123"},
			"status":   map[string]interface{}{"phase": "Pending"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "web-0", g.Pod.Name)
	assert.Equal(t, "default", g.Pod.Namespace)
	assert.Equal(t, "Pending", g.Pod.Phase)
	assert.True(t, g.Present(KindPod))
	assert.False(t, g.Present(KindPVC))
	assert.False(t, g.Present(KindNode))
}

func TestNormalizeNodeParsesConditionLastTransitionTime(t *testing.T) {
	g, err := Build(Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "web-0", "namespace": "default"},
		},
		Node: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "node-1"},
			"status": map[string]interface{}{
				"conditions": []interface{}{
					map[string]interface{}{
						"type":               "MemoryPressure",
						"status":             "True",
						"reason":             "KubeletHasInsufficientMemory",
						"lastTransitionTime": 1700000000,
					},
				},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, g.Node.Conditions, 1)
	cond := g.Node.Conditions[0]
	assert.Equal(t, "MemoryPressure", cond.Type)
	assert.Equal(t, int64(1700000000), cond.LastTransitionTime)
}

func TestBuildSetsOptionalObjectsWhenSupplied(t *testing.T) {
	g, err := Build(Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "web-0", "namespace": "default"},
		},
		PVC: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "data-web-0", "namespace": "default"},
			"status":   map[string]interface{}{"phase": "Pending"},
			"spec":     map[string]interface{}{"volumeName": ""},
		},
		Node: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "node-1"},
			"spec":     map[string]interface{}{"unschedulable": true},
		},
		Secrets:    []map[string]interface{}{{"metadata": map[string]interface{}{"name": "s1"}}},
		ConfigMaps: []map[string]interface{}{{"metadata": map[string]interface{}{"name": "cm1"}}},
	})
	require.NoError(t, err)

	assert.True(t, g.Present(KindPVC))
	assert.Equal(t, "data-web-0", g.PVC.Name)
	assert.Equal(t, "Pending", g.PVC.Phase)

	assert.True(t, g.Present(KindNode))
	assert.True(t, g.Node.Unschedulable)

	assert.True(t, g.Present(KindSecrets))
	assert.Equal(t, []string{"s1"}, g.SecretNames)

	assert.True(t, g.Present(KindConfigMaps))
	assert.Equal(t, []string{"cm1"}, g.ConfigMapNames)

	assert.False(t, g.Present(KindPV))
	assert.False(t, g.Present(KindStorageClass))
	assert.False(t, g.Present(KindOwner))
	assert.False(t, g.Present(KindServiceAccount))
}

func TestRequireAllAndCountPresent(t *testing.T) {
	g, err := Build(Raw{
		Pod: map[string]interface{}{"metadata": map[string]interface{}{"name": "web-0"}},
		Node: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "node-1"},
		},
	})
	require.NoError(t, err)

	assert.True(t, g.RequireAll([]Kind{KindPod, KindNode}))
	assert.False(t, g.RequireAll([]Kind{KindPod, KindPVC}))

	assert.Equal(t, 1, g.CountPresent([]Kind{KindNode, KindPVC, KindPV}))
}

func TestPodInvolvedObject(t *testing.T) {
	g, err := Build(Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "web-0", "namespace": "default", "uid": "abc-123"},
		},
	})
	require.NoError(t, err)

	io := g.PodInvolvedObject()
	assert.Equal(t, "Pod", io.Kind)
	assert.Equal(t, "default", io.Namespace)
	assert.Equal(t, "web-0", io.Name)
	assert.Equal(t, "abc-123", io.UID)
}

func TestPodClaimsPVC(t *testing.T) {
	g, err := Build(Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "web-0"},
			"spec": map[string]interface{}{
				"volumes": []interface{}{
					map[string]interface{}{
						"name":                  "data",
						"persistentVolumeClaim": map[string]interface{}{"claimName": "data-web-0"},
					},
				},
			},
		},
	})
	require.NoError(t, err)

	name, ok := g.PodClaimsPVC()
	require.True(t, ok)
	assert.Equal(t, "data-web-0", name)
}

func TestPodClaimsPVCFalseWhenNoVolumes(t *testing.T) {
	g, err := Build(Raw{
		Pod: map[string]interface{}{"metadata": map[string]interface{}{"name": "web-0"}},
	})
	require.NoError(t, err)

	_, ok := g.PodClaimsPVC()
	assert.False(t, ok)
}
