package causality

// SuppressedRule records a rule the engine excluded from the output and
// why.
type SuppressedRule struct {
	Name   string `json:"name" yaml:"name"`
	Reason string `json:"reason" yaml:"reason"`
}

// RuleEvalRecord is the per-rule verbose diagnostic emitted when
// Options.Verbose is set.
type RuleEvalRecord struct {
	Name               string  `json:"name" yaml:"name"`
	Matched            bool    `json:"matched" yaml:"matched"`
	Suppressed         bool    `json:"suppressed" yaml:"suppressed"`
	ComposedConfidence float64 `json:"composedConfidence" yaml:"composedConfidence"`
}

// Metadata carries provenance and diagnostic information about how an
// Explanation was produced.
type Metadata struct {
	InputsHash     string           `json:"inputsHash" yaml:"inputsHash"`
	EngineVersion  string           `json:"engineVersion" yaml:"engineVersion"`
	RulesEvaluated []RuleEvalRecord `json:"rulesEvaluated,omitempty" yaml:"rulesEvaluated,omitempty"`
	RulesMatched   int              `json:"rulesMatched" yaml:"rulesMatched"`
	RuleErrors     []RuleError      `json:"ruleErrors,omitempty" yaml:"ruleErrors,omitempty"`
	Error          string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// RuleError records a rule panic or internal failure: the engine
// catches it, logs it, and continues evaluation.
type RuleError struct {
	RuleName string `json:"ruleName" yaml:"ruleName"`
	Message  string `json:"message" yaml:"message"`
}

// Explanation is the final output record. Field order and key names
// are part of the contract — renderers must preserve both.
type Explanation struct {
	RootCause           *Cause           `json:"root_cause" yaml:"root_cause"`
	Confidence          float64          `json:"confidence" yaml:"confidence"`
	CausalChain         CausalChain      `json:"causal_chain" yaml:"causal_chain"`
	SuppressedRules     []SuppressedRule `json:"suppressed_rules" yaml:"suppressed_rules"`
	Evidence            []Evidence       `json:"evidence" yaml:"evidence"`
	SuggestedNextChecks []string         `json:"suggested_next_checks" yaml:"suggested_next_checks"`
	Metadata            Metadata         `json:"metadata" yaml:"metadata"`
}
