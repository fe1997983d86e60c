package render

import (
	"encoding/json"
	"io"

	"github.com/kdiagnostics/kubediag/internal/causality"
)

// JSON writes exp as indented JSON. causality.Explanation's struct tags
// already fix key names and order; json.Encoder preserves both. exp is
// first converted to a view so every confidence score renders with
// three decimal places rather than the default float formatting.
func JSON(w io.Writer, exp causality.Explanation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newViewExplanation(exp))
}
