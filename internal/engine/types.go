// Package engine implements the Resolution Engine: the
// single pure entry point that normalizes a snapshot, evaluates the
// rule registry against it, resolves suppression and conflicts, and
// composes a deterministic Explanation.
package engine

import (
	"github.com/kdiagnostics/kubediag/internal/objgraph"
)

// Input is the engine's sole entry parameter: a raw snapshot plus the
// operator-supplied configuration knobs from
type Input struct {
	Raw     objgraph.Raw
	Options Options
}

// Options are the configuration knobs enumerates.
type Options struct {
	EnableCategories  []string
	DisableCategories []string
	Verbose           bool
	EngineVersion     string
}
