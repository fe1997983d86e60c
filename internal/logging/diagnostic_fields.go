package logging

// RuleMatchFields builds the structured fields the resolution engine
// attaches when a rule matches during evaluation: which rule fired,
// its category, the kind of cause it produced, and how much evidence
// backs it. Callers pass plain values rather than causality types so
// this package never imports the rule/causality packages it logs for.
func RuleMatchFields(ruleName, category, causeKind string, evidenceCount int) []LogField {
	return []LogField{
		Field("rule", ruleName),
		Field("category", category),
		Field("cause_kind", causeKind),
		Field("evidence_count", evidenceCount),
	}
}

// SuppressionFields builds the structured fields attached when a
// higher-priority match suppresses a lower-priority one during
// fixed-point suppression resolution.
func SuppressionFields(ruleName, suppressedBy string) []LogField {
	return []LogField{
		Field("rule", ruleName),
		Field("suppressed_by", suppressedBy),
	}
}

// WinnerFields builds the structured fields attached when the engine
// selects the winning cause among unsuppressed matches.
func WinnerFields(ruleName string, composedConfidence float64, category string) []LogField {
	return []LogField{
		Field("rule", ruleName),
		Field("composed_confidence", composedConfidence),
		Field("category", category),
	}
}
