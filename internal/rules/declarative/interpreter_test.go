package declarative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

func TestCompileRejectsUnrecognizedRequiresKind(t *testing.T) {
	c := &Corpus{Rules: []RuleSpec{{
		Name:     "Bad",
		Requires: []string{"notakind"},
		Chain:    ChainTemplate{CauseKind: "X"},
	}}}
	_, err := Compile(c)
	assert.Error(t, err)
}

func TestCompiledRuleMatchesAllPredicates(t *testing.T) {
	c := &Corpus{Rules: []RuleSpec{{
		Name:           "NodeCordonedPending",
		Category:       "scheduling",
		Priority:       40,
		RuleConfidence: 0.5,
		Requires:       []string{"node"},
		When: []Predicate{
			{NodeUnschedulable: boolPtr(true)},
			{PodPhaseEquals: "Pending"},
		},
		Chain: ChainTemplate{
			CauseKind:    "NodeCordoned",
			CauseMessage: "node {{.Node}} is cordoned, pod {{.Pod}} cannot schedule",
			Severity:     "medium",
		},
	}}}
	compiled, err := Compile(c)
	require.NoError(t, err)
	require.Len(t, compiled, 1)

	g, err := objgraph.Build(objgraph.Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "web-0"},
			"status":   map[string]interface{}{"phase": "Pending"},
		},
		Node: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "node-1"},
			"spec":     map[string]interface{}{"unschedulable": true},
		},
	})
	require.NoError(t, err)
	tl := timeline.New(nil)

	r := compiled[0]
	require.True(t, r.Matches(g, tl))
	assert.Equal(t, "NodeCordonedPending", r.Metadata().Name)

	chain := r.Explain(g, tl)
	require.Len(t, chain.Causes, 1)
	assert.Equal(t, "NodeCordoned", chain.Causes[0].Kind)
	assert.Equal(t, "node node-1 is cordoned, pod web-0 cannot schedule", chain.Causes[0].Message)
	assert.Equal(t, causality.SeverityMedium, chain.Causes[0].Severity)
}

func TestCompiledRuleFalseWhenAnyPredicateFails(t *testing.T) {
	c := &Corpus{Rules: []RuleSpec{{
		Name: "NodeCordonedPending",
		When: []Predicate{
			{NodeUnschedulable: boolPtr(true)},
			{PodPhaseEquals: "Running"},
		},
		Chain: ChainTemplate{CauseKind: "NodeCordoned"},
	}}}
	compiled, err := Compile(c)
	require.NoError(t, err)

	g, err := objgraph.Build(objgraph.Raw{
		Pod: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "web-0"},
			"status":   map[string]interface{}{"phase": "Pending"},
		},
		Node: map[string]interface{}{
			"metadata": map[string]interface{}{"name": "node-1"},
			"spec":     map[string]interface{}{"unschedulable": true},
		},
	})
	require.NoError(t, err)

	assert.False(t, compiled[0].Matches(g, timeline.New(nil)))
}

func boolPtr(b bool) *bool { return &b }
