// Package declarative implements YAML-described rules: a restricted,
// non-code-eval predicate language interpreted against an ObjectGraph
// and Timeline. Load reads the file, decodes it with yaml.Unmarshal and
// then runs Validate.
package declarative

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Corpus is the top-level shape of a declarative rule corpus file.
type Corpus struct {
	Rules []RuleSpec `yaml:"rules"`
}

// RuleSpec describes one declarative rule (contract,
// expressed as data instead of Go code).
type RuleSpec struct {
	Name             string        `yaml:"name"`
	Category         string        `yaml:"category"`
	Priority         int           `yaml:"priority"`
	RuleConfidence   float64       `yaml:"rule_confidence"`
	Requires         []string      `yaml:"requires"`
	Optional         []string      `yaml:"optional"`
	ExpectedEvidence int           `yaml:"expected_evidence"`
	Blocks           []string      `yaml:"blocks"`
	When             []Predicate   `yaml:"when"`
	Chain            ChainTemplate `yaml:"chain"`
}

// Predicate is one clause of a rule's `when` list. Exactly one of its
// fields is set; Corpus.Validate (run by Load) rejects a predicate with
// zero or more than one field populated. This is intentionally not an expression
// language — no operators, no nesting, no arbitrary code — so a
// malformed corpus fails validation rather than executing untrusted
// logic: declarative rules never evaluate arbitrary code.
type Predicate struct {
	TimelineHas       string `yaml:"timeline_has,omitempty"`
	TimelineCountAtLeast *CountPredicate `yaml:"timeline_count_at_least,omitempty"`
	ObjectPresent     string `yaml:"object_present,omitempty"`
	ObjectAbsent      string `yaml:"object_absent,omitempty"`
	PodPhaseEquals    string `yaml:"pod_phase_equals,omitempty"`
	ContainerWaitingReasonEquals string `yaml:"container_waiting_reason_equals,omitempty"`
	NodeUnschedulable *bool  `yaml:"node_unschedulable,omitempty"`
}

// CountPredicate pairs a timeline reason with a minimum occurrence count.
type CountPredicate struct {
	Reason string `yaml:"reason"`
	Min    int    `yaml:"min"`
}

// ChainTemplate describes the CausalChain a matching rule produces.
// Message strings may reference `{{.Pod}}`-style placeholders resolved
// at Explain time against the matched ObjectGraph (name-only
// interpolation, no expression evaluation).
type ChainTemplate struct {
	CauseKind    string `yaml:"cause_kind"`
	CauseMessage string `yaml:"cause_message"`
	Severity     string `yaml:"severity,omitempty"`
}

// Load reads and validates a declarative rule corpus file.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule corpus file %s: %w", path, err)
	}

	var c Corpus
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse rule corpus YAML: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule corpus: %w", err)
	}

	return &c, nil
}

// Validate checks each RuleSpec for structural soundness: a non-empty
// name, a valid priority, and exactly one field set per predicate.
func (c *Corpus) Validate() error {
	seen := make(map[string]bool, len(c.Rules))
	for i, r := range c.Rules {
		if r.Name == "" {
			return fmt.Errorf("rules[%d]: name must not be empty", i)
		}
		if seen[r.Name] {
			return fmt.Errorf("rules[%d]: duplicate rule name %q", i, r.Name)
		}
		seen[r.Name] = true
		if r.Chain.CauseKind == "" {
			return fmt.Errorf("rule %q: chain.cause_kind must not be empty", r.Name)
		}
		for j, p := range r.When {
			if err := p.validate(); err != nil {
				return fmt.Errorf("rule %q: when[%d]: %w", r.Name, j, err)
			}
		}
	}
	return nil
}

func (p Predicate) validate() error {
	set := 0
	if p.TimelineHas != "" {
		set++
	}
	if p.TimelineCountAtLeast != nil {
		set++
	}
	if p.ObjectPresent != "" {
		set++
	}
	if p.ObjectAbsent != "" {
		set++
	}
	if p.PodPhaseEquals != "" {
		set++
	}
	if p.ContainerWaitingReasonEquals != "" {
		set++
	}
	if p.NodeUnschedulable != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("exactly one predicate field must be set, found %d", set)
	}
	return nil
}
