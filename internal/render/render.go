// Package render formats a causality.Explanation for CLI output. Each
// renderer only formats the record it is given — none reorders slices
// or recomputes confidence; those are the engine's responsibility.
package render

import (
	"fmt"
	"io"

	"github.com/kdiagnostics/kubediag/internal/causality"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Render writes exp to w in the requested format.
func Render(w io.Writer, exp causality.Explanation, format Format) error {
	switch format {
	case FormatText, "":
		return Text(w, exp)
	case FormatJSON:
		return JSON(w, exp)
	case FormatYAML:
		return YAML(w, exp)
	default:
		return fmt.Errorf("unknown render format %q", format)
	}
}
