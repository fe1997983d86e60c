package render

import "github.com/kdiagnostics/kubediag/internal/causality"

// The view* types mirror causality's output records field-for-field,
// with every confidence score swapped for fixedConfidence. JSON and
// YAML encode a view built from an Explanation rather than the
// Explanation itself, so both formats get three-decimal confidence
// without causality needing to know anything about rendering.

type viewCause struct {
	ID             string                   `json:"id" yaml:"id"`
	Kind           string                   `json:"kind" yaml:"kind"`
	InvolvedObject causality.InvolvedObject `json:"involvedObject" yaml:"involvedObject"`
	Message        string                   `json:"message" yaml:"message"`
	Evidence       []causality.Evidence     `json:"evidence" yaml:"evidence"`
	Confidence     fixedConfidence          `json:"confidence" yaml:"confidence"`
	Severity       causality.Severity       `json:"severity,omitempty" yaml:"severity,omitempty"`
}

type viewCausalChain struct {
	Causes       []viewCause `json:"causes" yaml:"causes"`
	Symptoms     []viewCause `json:"symptoms" yaml:"symptoms"`
	Contributing []viewCause `json:"contributing" yaml:"contributing"`
}

type viewRuleEvalRecord struct {
	Name               string          `json:"name" yaml:"name"`
	Matched            bool            `json:"matched" yaml:"matched"`
	Suppressed         bool            `json:"suppressed" yaml:"suppressed"`
	ComposedConfidence fixedConfidence `json:"composedConfidence" yaml:"composedConfidence"`
}

type viewMetadata struct {
	InputsHash     string               `json:"inputsHash" yaml:"inputsHash"`
	EngineVersion  string               `json:"engineVersion" yaml:"engineVersion"`
	RulesEvaluated []viewRuleEvalRecord `json:"rulesEvaluated,omitempty" yaml:"rulesEvaluated,omitempty"`
	RulesMatched   int                  `json:"rulesMatched" yaml:"rulesMatched"`
	RuleErrors     []causality.RuleError `json:"ruleErrors,omitempty" yaml:"ruleErrors,omitempty"`
	Error          string               `json:"error,omitempty" yaml:"error,omitempty"`
}

type viewExplanation struct {
	RootCause           *viewCause               `json:"root_cause" yaml:"root_cause"`
	Confidence          fixedConfidence          `json:"confidence" yaml:"confidence"`
	CausalChain         viewCausalChain          `json:"causal_chain" yaml:"causal_chain"`
	SuppressedRules     []causality.SuppressedRule `json:"suppressed_rules" yaml:"suppressed_rules"`
	Evidence            []causality.Evidence     `json:"evidence" yaml:"evidence"`
	SuggestedNextChecks []string                 `json:"suggested_next_checks" yaml:"suggested_next_checks"`
	Metadata            viewMetadata             `json:"metadata" yaml:"metadata"`
}

func newViewCause(c causality.Cause) viewCause {
	return viewCause{
		ID:             c.ID,
		Kind:           c.Kind,
		InvolvedObject: c.InvolvedObject,
		Message:        c.Message,
		Evidence:       c.Evidence,
		Confidence:     fixedConfidence(c.Confidence),
		Severity:       c.Severity,
	}
}

func newViewCauses(cs []causality.Cause) []viewCause {
	if cs == nil {
		return nil
	}
	out := make([]viewCause, len(cs))
	for i, c := range cs {
		out[i] = newViewCause(c)
	}
	return out
}

func newViewExplanation(exp causality.Explanation) viewExplanation {
	var root *viewCause
	if exp.RootCause != nil {
		v := newViewCause(*exp.RootCause)
		root = &v
	}

	records := make([]viewRuleEvalRecord, len(exp.Metadata.RulesEvaluated))
	for i, r := range exp.Metadata.RulesEvaluated {
		records[i] = viewRuleEvalRecord{
			Name:               r.Name,
			Matched:            r.Matched,
			Suppressed:         r.Suppressed,
			ComposedConfidence: fixedConfidence(r.ComposedConfidence),
		}
	}
	if exp.Metadata.RulesEvaluated == nil {
		records = nil
	}

	return viewExplanation{
		RootCause: root,
		Confidence: fixedConfidence(exp.Confidence),
		CausalChain: viewCausalChain{
			Causes:       newViewCauses(exp.CausalChain.Causes),
			Symptoms:     newViewCauses(exp.CausalChain.Symptoms),
			Contributing: newViewCauses(exp.CausalChain.Contributing),
		},
		SuppressedRules:     exp.SuppressedRules,
		Evidence:            exp.Evidence,
		SuggestedNextChecks: exp.SuggestedNextChecks,
		Metadata: viewMetadata{
			InputsHash:     exp.Metadata.InputsHash,
			EngineVersion:  exp.Metadata.EngineVersion,
			RulesEvaluated: records,
			RulesMatched:   exp.Metadata.RulesMatched,
			RuleErrors:     exp.Metadata.RuleErrors,
			Error:          exp.Metadata.Error,
		},
	}
}
