package admission

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

func TestWebhookRejectedMatchesEitherReason(t *testing.T) {
	g := basicPod(t)

	tl1 := timeline.New([]timeline.RawEvent{{Reason: "FailedAdmission", Message: "denied by webhook"}})
	require.True(t, webhookRejected().Matches(g, tl1))

	tl2 := timeline.New([]timeline.RawEvent{{Reason: "FailedValidation", Message: "denied by policy"}})
	require.True(t, webhookRejected().Matches(g, tl2))

	chain := webhookRejected().Explain(g, tl1)
	assert.Equal(t, "AdmissionWebhookRejected", chain.Causes[0].Kind)
}

func TestSecurityContextDeniedRequiresMatchingSubstring(t *testing.T) {
	g := basicPod(t)

	match := timeline.New([]timeline.RawEvent{{Reason: "Failed", Message: "violates PodSecurity \"restricted:latest\""}})
	require.True(t, securityContextDenied().Matches(g, match))

	noMatch := timeline.New([]timeline.RawEvent{{Reason: "Failed", Message: "image pull failed"}})
	assert.False(t, securityContextDenied().Matches(g, noMatch))
}

func TestRulesReturnsTwoAdmissionRules(t *testing.T) {
	assert.Len(t, Rules(), 2)
}
