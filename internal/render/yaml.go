package render

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/kdiagnostics/kubediag/internal/causality"
)

// YAML writes exp as YAML using the same field names and order as JSON
// (causality.Explanation carries matching yaml struct tags). exp is
// first converted to a view so every confidence score renders with
// three decimal places, matching the JSON and text renderers.
func YAML(w io.Writer, exp causality.Explanation) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(newViewExplanation(exp))
}
