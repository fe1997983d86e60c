package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kdiagnostics/kubediag/internal/causality"
)

// Text writes a human-readable, section-header-style rendering of exp
// for terminal output.
func Text(w io.Writer, exp causality.Explanation) error {
	fmt.Fprintln(w, "=== Root Cause ===")
	if exp.RootCause == nil {
		fmt.Fprintln(w, "No root cause identified.")
	} else {
		rc := exp.RootCause
		fmt.Fprintf(w, "Kind:       %s\n", rc.Kind)
		fmt.Fprintf(w, "Object:     %s/%s (%s)\n", rc.InvolvedObject.Namespace, rc.InvolvedObject.Name, rc.InvolvedObject.Kind)
		fmt.Fprintf(w, "Message:    %s\n", rc.Message)
		if rc.Severity != "" {
			fmt.Fprintf(w, "Severity:   %s\n", rc.Severity)
		}
	}
	fmt.Fprintf(w, "Confidence: %.3f\n\n", exp.Confidence)

	if len(exp.CausalChain.Contributing) > 0 {
		fmt.Fprintln(w, "=== Contributing Factors ===")
		for _, c := range exp.CausalChain.Contributing {
			fmt.Fprintf(w, "- %s: %s\n", c.Kind, c.Message)
		}
		fmt.Fprintln(w)
	}

	if len(exp.Evidence) > 0 {
		fmt.Fprintln(w, "=== Evidence ===")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Source\tLocator\tSnippet")
		for _, e := range exp.Evidence {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Source, e.Locator, e.Snippet)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	if len(exp.SuppressedRules) > 0 {
		fmt.Fprintln(w, "=== Suppressed Rules ===")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Name\tReason")
		for _, s := range exp.SuppressedRules {
			fmt.Fprintf(tw, "%s\t%s\n", s.Name, s.Reason)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "=== Suggested Next Checks ===")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, c := range exp.SuggestedNextChecks {
		fmt.Fprintf(tw, "%d.\t%s\n", i+1, c)
	}
	tw.Flush()

	if len(exp.Metadata.RulesEvaluated) > 0 {
		fmt.Fprintln(w, "\n=== Rules Evaluated (verbose) ===")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Name\tMatched\tSuppressed\tComposed Confidence")
		for _, r := range exp.Metadata.RulesEvaluated {
			fmt.Fprintf(tw, "%s\t%v\t%v\t%.3f\n", r.Name, r.Matched, r.Suppressed, r.ComposedConfidence)
		}
		tw.Flush()
	}

	fmt.Fprintf(w, "\nEngine: %s  Rules matched: %d  Inputs hash: %s\n",
		exp.Metadata.EngineVersion, exp.Metadata.RulesMatched, exp.Metadata.InputsHash)
	if exp.Metadata.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", exp.Metadata.Error)
	}
	return nil
}
