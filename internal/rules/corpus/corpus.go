// Package corpus aggregates the programmatic rule packages
// (scheduling, image, storage, probes, network, admission,
// nodepressure, owners, lifecycle) into the full built-in rule set
// consumed by the engine at startup.
package corpus

import (
	"github.com/kdiagnostics/kubediag/internal/rules"
	"github.com/kdiagnostics/kubediag/internal/rules/corpus/admission"
	"github.com/kdiagnostics/kubediag/internal/rules/corpus/image"
	"github.com/kdiagnostics/kubediag/internal/rules/corpus/lifecycle"
	"github.com/kdiagnostics/kubediag/internal/rules/corpus/network"
	"github.com/kdiagnostics/kubediag/internal/rules/corpus/nodepressure"
	"github.com/kdiagnostics/kubediag/internal/rules/corpus/owners"
	"github.com/kdiagnostics/kubediag/internal/rules/corpus/probes"
	"github.com/kdiagnostics/kubediag/internal/rules/corpus/scheduling"
	"github.com/kdiagnostics/kubediag/internal/rules/corpus/storage"
)

// Builtin returns every programmatic rule in the built-in corpus. The
// order returned is not significant — rules.NewRegistry re-sorts by
// (priority desc, name asc) at construction.
func Builtin() []rules.Rule {
	var all []rules.Rule
	all = append(all, scheduling.Rules()...)
	all = append(all, image.Rules()...)
	all = append(all, storage.Rules()...)
	all = append(all, probes.Rules()...)
	all = append(all, network.Rules()...)
	all = append(all, admission.Rules()...)
	all = append(all, nodepressure.Rules()...)
	all = append(all, owners.Rules()...)
	all = append(all, lifecycle.Rules()...)
	return all
}
