package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/kdiagnostics/kubediag/internal/causality"
	"github.com/kdiagnostics/kubediag/internal/checks"
	"github.com/kdiagnostics/kubediag/internal/logging"
	"github.com/kdiagnostics/kubediag/internal/objgraph"
	"github.com/kdiagnostics/kubediag/internal/rules"
	"github.com/kdiagnostics/kubediag/internal/timeline"
)

// Engine holds the immutable, built-once rule registry the Resolution
// Engine evaluates against every invocation (shared resources
// are read-only, built once, immutable thereafter).
type Engine struct {
	registry *rules.Registry
	logger   *logging.Logger
}

// New validates reg and builds an Engine. Registry validation failures
// (duplicate names, unresolvable blocks) fail construction, never an
// invocation — RuleMalformed contract.
func New(reg *rules.Registry) (*Engine, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{registry: reg, logger: logging.GetLogger("engine")}, nil
}

// match is an internal working record for one rule's evaluation
// outcome — a RuleMatch plus bookkeeping the resolution algorithm
// needs.
type match struct {
	rule       rules.Rule
	meta       rules.Metadata
	chain      causality.CausalChain
	suppressed bool
	reason     string
	composed   float64
	order      int
}

// Explain is the engine's single public entry point. It is
// reentrant and safe to call concurrently, provided callers do not
// mutate their input snapshot during the call.
func (e *Engine) Explain(ctx context.Context, in Input) causality.Explanation {
	activeNames := activeRuleNames(e.registry, in.Options)
	hash := inputsHash(in.Raw, activeNames)

	graph, err := objgraph.Build(in.Raw)
	if err != nil {
		return invalidInputExplanation(err, hash, in.Options.EngineVersion)
	}

	tl := timeline.New(rawEvents(in.Raw.Events))

	candidates := e.registry.FilterCategories(in.Options.EnableCategories, in.Options.DisableCategories)
	candidates = filterByRequires(candidates, graph)

	matches, ruleErrors := e.evaluate(candidates, graph, tl)
	e.suppressMatches(matches)

	winner := e.selectWinner(matches, graph)

	explanation := assemble(winner, matches, graph)
	explanation.Metadata = causality.Metadata{
		InputsHash:    hash,
		EngineVersion: in.Options.EngineVersion,
		RulesMatched:  countMatched(matches),
		RuleErrors:    ruleErrors,
	}
	if in.Options.Verbose {
		explanation.Metadata.RulesEvaluated = evalRecords(candidates, matches)
	}
	return explanation
}

func rawEvents(events []map[string]interface{}) []timeline.RawEvent {
	out := make([]timeline.RawEvent, 0, len(events))
	for _, e := range events {
		out = append(out, timeline.RawEvent{
			Reason:         stringOf(e["reason"]),
			Message:        stringOf(e["message"]),
			Source:         stringOf(e["source"]),
			InvolvedObject: stringOf(e["involvedObject"]),
			FirstSeen:      intOf(e["firstSeen"]),
			LastSeen:       intOf(e["lastSeen"]),
			Count:          int(intOf(e["count"])),
		})
	}
	return out
}

func stringOf(v interface{}) string {
	s, _ := v.(string)
	return s
}

func intOf(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func filterByRequires(candidates []rules.Rule, g *objgraph.ObjectGraph) []rules.Rule {
	out := make([]rules.Rule, 0, len(candidates))
	for _, r := range candidates {
		if g.RequireAll(r.Metadata().Requires) {
			out = append(out, r)
		}
	}
	return out
}

// evaluate runs matches/explain for each candidate, recovering from
// panics inside a rule RuleInternal policy: the rule is
// treated as not-matching and evaluation continues.
func (e *Engine) evaluate(candidates []rules.Rule, g *objgraph.ObjectGraph, tl timeline.Timeline) ([]match, []causality.RuleError) {
	matches := make([]match, 0, len(candidates))
	var ruleErrors []causality.RuleError

	for i, r := range candidates {
		meta := r.Metadata()
		matched, chain, errMsg := e.safeEvaluate(r, g, tl)
		if errMsg != "" {
			ruleErrors = append(ruleErrors, causality.RuleError{RuleName: meta.Name, Message: errMsg})
			e.logger.WarnWithFields("rule internal error", logging.Field("rule", meta.Name), logging.Field("error", errMsg))
			continue
		}
		if !matched {
			continue
		}
		chain = causality.StampChain(chain)
		cause := firstCause(chain)
		e.logger.DebugWithFields("rule matched", logging.RuleMatchFields(meta.Name, string(meta.Category), cause.Kind, len(cause.Evidence))...)
		matches = append(matches, match{rule: r, meta: meta, chain: chain, order: i})
	}
	return matches, ruleErrors
}

func (e *Engine) safeEvaluate(r rules.Rule, g *objgraph.ObjectGraph, tl timeline.Timeline) (matched bool, chain causality.CausalChain, errMsg string) {
	defer func() {
		if rec := recover(); rec != nil {
			errMsg = fmt.Sprintf("panic: %v", rec)
		}
	}()
	if !r.Matches(g, tl) {
		return false, causality.CausalChain{}, ""
	}
	return true, r.Explain(g, tl), ""
}

// suppressMatches builds the suppression map via fixed-point iteration:
// monotone and terminates because suppression is additive — a match,
// once suppressed, stays suppressed.
func (e *Engine) suppressMatches(matches []match) {
	byName := make(map[string]*match, len(matches))
	for i := range matches {
		byName[matches[i].meta.Name] = &matches[i]
	}

	changed := true
	for changed {
		changed = false
		for i := range matches {
			m := &matches[i]
			if m.suppressed {
				continue
			}
			for _, blocked := range m.meta.Blocks {
				target, ok := byName[blocked]
				if !ok || target.suppressed {
					continue
				}
				// a suppressor only suppresses if it is not itself
				// suppressed by something of equal-or-higher priority;
				// since m is not suppressed here, it qualifies.
				target.suppressed = true
				target.reason = fmt.Sprintf("suppressed by %s", m.meta.Name)
				changed = true
				e.logger.DebugWithFields("rule suppressed", logging.SuppressionFields(target.meta.Name, m.meta.Name)...)
			}
		}
	}
}

// selectWinner picks the highest composed-confidence unsuppressed
// match, ties broken by higher priority then earlier registry order.
// It composes confidence for every match as it goes, so composed
// scores are available for metadata/verbose output too.
func (e *Engine) selectWinner(matches []match, g *objgraph.ObjectGraph) *match {
	counts := categoryCounts(matches)
	var winner *match
	for i := range matches {
		m := &matches[i]
		if m.suppressed {
			continue
		}
		cause := firstCause(m.chain)
		if cause.Kind == "" {
			continue
		}
		others := counts[m.meta.Category] - 1
		m.composed = composedConfidence(m.meta, cause, g, others)

		if winner == nil {
			winner = m
			continue
		}
		if better(*m, *winner) {
			winner = m
		}
	}
	if winner != nil {
		e.logger.DebugWithFields("winner selected", logging.WinnerFields(winner.meta.Name, winner.composed, string(winner.meta.Category))...)
	}
	return winner
}

func categoryCounts(matches []match) map[rules.Category]int {
	counts := make(map[rules.Category]int, len(matches))
	for _, m := range matches {
		if m.suppressed {
			continue
		}
		counts[m.meta.Category]++
	}
	return counts
}

func firstCause(chain causality.CausalChain) causality.Cause {
	if len(chain.Causes) == 0 {
		return causality.Cause{}
	}
	return chain.Causes[0]
}

func better(a, b match) bool {
	if a.composed != b.composed {
		return a.composed > b.composed
	}
	if a.meta.Priority != b.meta.Priority {
		return a.meta.Priority > b.meta.Priority
	}
	return a.order < b.order
}

func countMatched(matches []match) int {
	return len(matches)
}

func evalRecords(candidates []rules.Rule, matches []match) []causality.RuleEvalRecord {
	matchedByName := make(map[string]match, len(matches))
	for _, m := range matches {
		matchedByName[m.meta.Name] = m
	}
	out := make([]causality.RuleEvalRecord, 0, len(candidates))
	for _, r := range candidates {
		name := r.Metadata().Name
		if m, ok := matchedByName[name]; ok {
			out = append(out, causality.RuleEvalRecord{Name: name, Matched: true, Suppressed: m.suppressed, ComposedConfidence: m.composed})
			continue
		}
		out = append(out, causality.RuleEvalRecord{Name: name, Matched: false})
	}
	return out
}

func invalidInputExplanation(err error, hash, engineVersion string) causality.Explanation {
	return causality.Explanation{
		RootCause:           nil,
		Confidence:          0,
		CausalChain:         causality.CausalChain{},
		SuppressedRules:     nil,
		Evidence:            nil,
		SuggestedNextChecks: checks.Default(),
		Metadata: causality.Metadata{
			InputsHash:    hash,
			EngineVersion: engineVersion,
			Error:         err.Error(),
		},
	}
}

// activeRuleNames returns the sorted names of rules eligible under opts'
// category filters, independent of whether any object graph could be
// built — this is the "active rule set" half of inputsHash.
func activeRuleNames(reg *rules.Registry, opts Options) []string {
	active := reg.FilterCategories(opts.EnableCategories, opts.DisableCategories)
	names := make([]string, 0, len(active))
	for _, r := range active {
		names = append(names, r.Metadata().Name)
	}
	sort.Strings(names)
	return names
}

// inputsHash content-hashes the raw snapshot together with the sorted
// set of active rule names, so two runs against identical inputs but
// different rule configuration are distinguishable for reproducibility
// bookkeeping, the same way a content-addressed storage layer hashes
// change events.
func inputsHash(raw objgraph.Raw, activeRuleNames []string) string {
	h := xxhash.New()
	hashMap(h, raw.Pod)
	for _, e := range raw.Events {
		hashMap(h, e)
	}
	hashMap(h, raw.PVC)
	hashMap(h, raw.PV)
	hashMap(h, raw.StorageClass)
	hashMap(h, raw.Node)
	hashMap(h, raw.Owner)
	hashMap(h, raw.ServiceAccount)
	for _, s := range raw.Secrets {
		hashMap(h, s)
	}
	for _, c := range raw.ConfigMaps {
		hashMap(h, c)
	}
	for _, name := range activeRuleNames {
		_, _ = h.WriteString(name)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

func hashMap(h *xxhash.Digest, m map[string]interface{}) {
	if m == nil {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = h.WriteString(k)
		_, _ = h.WriteString(fmt.Sprintf("%v", m[k]))
	}
}
