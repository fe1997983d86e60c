package engine

import (
	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/checks"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
)

// assemble builds the final Explanation from the winning match and the
// remaining unsuppressed matches. The
// Metadata field is filled in by the caller.
func assemble(winner *match, matches []match, g *objgraph.ObjectGraph) causality.Explanation {
	if winner == nil {
		return causality.Explanation{
			RootCause:           nil,
			Confidence:          0,
			CausalChain:         causality.CausalChain{},
			SuppressedRules:     collectSuppressed(matches),
			Evidence:            nil,
			SuggestedNextChecks: checks.Default(),
		}
	}

	chain := winner.chain
	var rootCause *causality.Cause
	if len(chain.Causes) > 0 {
		c := chain.Causes[0]
		rootCause = &c
	}

	for i := range matches {
		m := &matches[i]
		if m.suppressed || m == winner {
			continue
		}
		for _, cause := range m.chain.Causes {
			if !causality.ContainsIdentity(chain.Contributing, cause) && !causality.ContainsIdentity(chain.Causes, cause) {
				chain.Contributing = append(chain.Contributing, cause)
			}
		}
	}
	chain.Contributing = causality.DedupCauses(chain.Contributing)

	evidence := collectEvidence(chain)
	suggestedChecks := collectSuggestedChecks(chain)

	return causality.Explanation{
		RootCause:           rootCause,
		Confidence:          winner.composed,
		CausalChain:         chain,
		SuppressedRules:     collectSuppressed(matches),
		Evidence:            evidence,
		SuggestedNextChecks: suggestedChecks,
	}
}

// collectEvidence unions evidence from the winner's causes and its
// contributing causes, deduplicating by (source, locator) and
// preserving first-occurrence insertion order. Object-state evidence
// precedes event evidence for the same cause because rule authors list
// it first (precedence invariant) and this pass never
// reorders within a cause's own evidence slice.
func collectEvidence(chain causality.CausalChain) []causality.Evidence {
	seen := make(map[string]bool)
	var out []causality.Evidence
	add := func(causes []causality.Cause) {
		for _, c := range causes {
			for _, e := range c.Evidence {
				key := string(e.Source) + "|" + e.Locator
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, e)
			}
		}
	}
	add(chain.Causes)
	add(chain.Contributing)
	return out
}

// collectSuggestedChecks looks up root_cause.kind first, then appends
// checks from contributing causes, deduplicated, preserving first
// occurrence.
func collectSuggestedChecks(chain causality.CausalChain) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(kind string) {
		for _, c := range checks.ForKind(kind) {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range chain.Causes {
		add(c.Kind)
	}
	for _, c := range chain.Contributing {
		add(c.Kind)
	}
	if len(out) == 0 {
		return checks.Default()
	}
	return out
}

func collectSuppressed(matches []match) []causality.SuppressedRule {
	var out []causality.SuppressedRule
	for _, m := range matches {
		if m.suppressed {
			out = append(out, causality.SuppressedRule{Name: m.meta.Name, Reason: m.reason})
		}
	}
	return out
}
