package engine

import (
	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/rules"
)

// Named confidence-composition constants.
const (
	// missingCorroborationStep is subtracted, per missing declared
	// evidence, from evidenceQuality's weight factor.
	missingCorroborationStep = 0.1

	// dataCompletenessFloor is the minimum dataCompleteness factor,
	// even when no optional objects are present.
	dataCompletenessFloor = 0.5

	// conflictPenaltyStep is subtracted per other unsuppressed match in
	// the same category.
	conflictPenaltyStep = 0.1

	// conflictPenaltyFloor is the minimum conflictPenalty factor.
	conflictPenaltyFloor = 0.5
)

// clamp01 constrains x to [0,1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// evidenceQuality is the maximum source weight among a cause's
// evidence, discounted per missing declared-expected corroboration.
func evidenceQuality(cause causality.Cause, expected int) float64 {
	best := 0.0
	for _, e := range cause.Evidence {
		if w := causality.SourceWeight(e.Source); w > best {
			best = w
		}
	}
	missing := expected - len(cause.Evidence)
	if missing < 0 {
		missing = 0
	}
	if missing > 3 {
		missing = 3
	}
	return clamp01(best * (1 - missingCorroborationStep*float64(missing)))
}

// dataCompleteness is the fraction of a rule's optional objects
// present in the graph, floored at dataCompletenessFloor.
func dataCompleteness(g *objgraph.ObjectGraph, optional []objgraph.Kind) float64 {
	if len(optional) == 0 {
		return 1.0
	}
	present := g.CountPresent(optional)
	frac := float64(present) / float64(len(optional))
	if frac < dataCompletenessFloor {
		return dataCompletenessFloor
	}
	return frac
}

// conflictPenalty discounts a match for every other unsuppressed match
// sharing its category.
func conflictPenalty(category rules.Category, others int) float64 {
	penalty := 1.0 - conflictPenaltyStep*float64(others)
	if penalty < conflictPenaltyFloor {
		return conflictPenaltyFloor
	}
	return penalty
}

// composedConfidence implements confidence formula:
// composed = clamp01(ruleConfidence × evidenceQuality × dataCompleteness × conflictPenalty).
func composedConfidence(meta rules.Metadata, cause causality.Cause, g *objgraph.ObjectGraph, othersInCategory int) float64 {
	eq := evidenceQuality(cause, meta.ExpectedEvidence)
	dc := dataCompleteness(g, meta.Optional)
	cp := conflictPenalty(meta.Category, othersInCategory)
	return clamp01(meta.RuleConfidence * eq * dc * cp)
}
