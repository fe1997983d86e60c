package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

func podWithWaitingReason(reason string, pullSecrets []interface{}) objgraph.Raw {
	return objgraph.Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "app-1"},
			"status": map[string]interface{}{
				"phase": "Pending",
				"containerStatuses": []interface{}{
					map[string]interface{}{
						"name": "app",
						"state": map[string]interface{}{
							"waiting": map[string]interface{}{"reason": reason, "message": "pull failed"},
						},
					},
				},
			},
			"spec": map[string]interface{}{
				"imagePullSecrets": pullSecrets,
			},
		},
	}
}

func TestImagePullSecretMissingCompoundSubsumesAtomic(t *testing.T) {
	g, err := objgraph.Build(podWithWaitingReason("ImagePullBackOff", nil))
	require.NoError(t, err)

	tl := timeline.New([]timeline.RawEvent{
		{Reason: "Failed", Message: "rpc error: unauthorized", LastSeen: 5},
		{Reason: "ImagePullBackOff", Message: "Back-off pulling image", LastSeen: 10},
	})

	compound := imagePullSecretMissingCompound()
	require.True(t, compound.Matches(g, tl))
	assert.Contains(t, compound.Metadata().Blocks, "ImagePullBackOff")

	atomic := imagePullBackOff()
	assert.True(t, atomic.Matches(g, tl), "atomic rule should also match so suppression has something to block")
}

func TestImagePullSecretMissingCompoundRequiresNoSecrets(t *testing.T) {
	g, err := objgraph.Build(podWithWaitingReason("ImagePullBackOff", []interface{}{
		map[string]interface{}{"name": "regcred"},
	}))
	require.NoError(t, err)

	tl := timeline.New([]timeline.RawEvent{
		{Reason: "Failed", Message: "unauthorized", LastSeen: 5},
	})

	assert.False(t, imagePullSecretMissingCompound().Matches(g, tl))
}
