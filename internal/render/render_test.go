package render_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/render"
)

func sampleExplanation() causality.Explanation {
	cause := causality.Cause{
		ID:             "c1",
		Kind:           "OOMKilled",
		InvolvedObject: causality.InvolvedObject{Kind: "Pod", Namespace: "default", Name: "worker-1"},
		Message:        "container worker was OOM killed",
		Confidence:     0.9,
		Evidence: []causality.Evidence{
			{Source: causality.SourceObjectState, Locator: "status.containerStatuses[0].lastState.terminated.reason", Snippet: "OOMKilled"},
		},
	}
	return causality.Explanation{
		RootCause:           &cause,
		Confidence:          0.9,
		CausalChain:         causality.CausalChain{Causes: []causality.Cause{cause}},
		Evidence:            cause.Evidence,
		SuggestedNextChecks: []string{"inspect memory limits", "check node memory pressure"},
		Metadata: causality.Metadata{
			InputsHash:    "abc123",
			EngineVersion: "v1",
			RulesMatched:  1,
		},
	}
}

func TestJSONPreservesFieldOrderAndKeys(t *testing.T) {
	exp := sampleExplanation()
	var buf bytes.Buffer
	require.NoError(t, render.JSON(&buf, exp))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "root_cause")
	assert.Contains(t, decoded, "causal_chain")
	assert.Contains(t, decoded, "suggested_next_checks")

	out := buf.String()
	assert.True(t, indexOf(out, "root_cause") < indexOf(out, "confidence"))
}

func TestYAMLRoundTripsKeys(t *testing.T) {
	exp := sampleExplanation()
	var buf bytes.Buffer
	require.NoError(t, render.YAML(&buf, exp))

	var decoded map[string]interface{}
	require.NoError(t, yamlv3.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "root_cause")
	assert.Contains(t, decoded, "suggested_next_checks")
}

func TestTextRendersConfidenceWithThreeDecimals(t *testing.T) {
	exp := sampleExplanation()
	var buf bytes.Buffer
	require.NoError(t, render.Text(&buf, exp))
	assert.Contains(t, buf.String(), "Confidence: 0.900")
	assert.Contains(t, buf.String(), "inspect memory limits")
}

func TestJSONRendersConfidenceWithThreeDecimals(t *testing.T) {
	exp := sampleExplanation()
	var buf bytes.Buffer
	require.NoError(t, render.JSON(&buf, exp))
	assert.Contains(t, buf.String(), `"confidence": 0.900`)
}

func TestYAMLRendersConfidenceWithThreeDecimals(t *testing.T) {
	exp := sampleExplanation()
	var buf bytes.Buffer
	require.NoError(t, render.YAML(&buf, exp))
	assert.Contains(t, buf.String(), "confidence: 0.900")
}

func TestRenderDispatchesByFormat(t *testing.T) {
	exp := sampleExplanation()
	var buf bytes.Buffer
	require.NoError(t, render.Render(&buf, exp, render.FormatJSON))
	assert.True(t, json.Valid(buf.Bytes()))
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
