package commands

import (
	"fmt"

	"github.com/kdiagnostics/kubediag/internal/rules"
	"github.com/kdiagnostics/kubediag/internal/rules/corpus"
	"github.com/kdiagnostics/kubediag/internal/rules/declarative"
)

// buildRegistry assembles the built-in programmatic corpus plus an
// optional declarative YAML corpus into one validated registry.
func buildRegistry(ruleCorpusPath string) (*rules.Registry, error) {
	all := corpus.Builtin()

	if ruleCorpusPath != "" {
		declCorpus, err := declarative.Load(ruleCorpusPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load rule corpus %s: %w", ruleCorpusPath, err)
		}
		declRules, err := declarative.Compile(declCorpus)
		if err != nil {
			return nil, fmt.Errorf("failed to compile rule corpus %s: %w", ruleCorpusPath, err)
		}
		all = append(all, declRules...)
	}

	reg, err := rules.NewRegistry(all)
	if err != nil {
		return nil, err
	}
	return reg, nil
}
