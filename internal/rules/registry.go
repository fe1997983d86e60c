package rules

import (
	"fmt"
	"sort"

	"github.com/kdiagnostics/kubediag/internal/causality"
)

// Registry holds a validated, deterministically ordered rule corpus.
// Construction fails closed: a duplicate rule name is a corpus defect,
// not a runtime condition to tolerate.
type Registry struct {
	rules []Rule
}

// NewRegistry validates rs for unique names and returns a Registry
// whose Rules() are sorted by priority descending, then name
// ascending — the evaluation order the Resolution Engine relies on
// for determinism.
func NewRegistry(rs []Rule) (*Registry, error) {
	seen := make(map[string]bool, len(rs))
	for _, r := range rs {
		name := r.Metadata().Name
		if name == "" {
			return nil, causality.NewRuleMalformed("<unnamed>", "rule name must not be empty")
		}
		if seen[name] {
			return nil, causality.NewRuleMalformed(name, "duplicate rule name in corpus")
		}
		seen[name] = true
	}

	sorted := make([]Rule, len(rs))
	copy(sorted, rs)
	sort.SliceStable(sorted, func(i, j int) bool {
		mi, mj := sorted[i].Metadata(), sorted[j].Metadata()
		if mi.Priority != mj.Priority {
			return mi.Priority > mj.Priority
		}
		return mi.Name < mj.Name
	})

	return &Registry{rules: sorted}, nil
}

// Rules returns the corpus in evaluation order.
func (r *Registry) Rules() []Rule {
	return r.rules
}

// ByName looks up a rule by name, used by the engine to resolve
// `blocks` entries and by the CLI's `rules describe` subcommand.
func (r *Registry) ByName(name string) (Rule, bool) {
	for _, rule := range r.rules {
		if rule.Metadata().Name == name {
			return rule, true
		}
	}
	return nil, false
}

// FilterCategories returns the subset of rules whose category is not
// excluded and, when enable is non-empty, is included. Corresponds to
// the --enable-categories/--disable-categories flags. Disable takes
// precedence over enable when a category name appears in both, which
// config.Validate already rejects at load time.
func (r *Registry) FilterCategories(enable, disable []string) []Rule {
	enabledSet := toSet(enable)
	disabledSet := toSet(disable)

	out := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		cat := string(rule.Metadata().Category)
		if disabledSet[cat] {
			continue
		}
		if len(enabledSet) > 0 && !enabledSet[cat] {
			continue
		}
		out = append(out, rule)
	}
	return out
}

func toSet(vals []string) map[string]bool {
	if len(vals) == 0 {
		return nil
	}
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

// Validate re-checks name uniqueness and that every Blocks entry names
// a rule actually present in the registry — called once at startup so
// a malformed corpus fails fast rather than silently no-op suppressing.
func (r *Registry) Validate() error {
	names := make(map[string]bool, len(r.rules))
	for _, rule := range r.rules {
		names[rule.Metadata().Name] = true
	}
	for _, rule := range r.rules {
		for _, blocked := range rule.Metadata().Blocks {
			if !names[blocked] {
				return causality.NewRuleMalformed(rule.Metadata().Name,
					fmt.Sprintf("blocks unknown rule %q", blocked))
			}
		}
	}
	return nil
}
