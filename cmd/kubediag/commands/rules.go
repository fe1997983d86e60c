package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kdiagnostics/kubediag/internal/objgraph"
)

var rulesRuleCorpus string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the rule corpus",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rules in priority order",
	RunE:  runRulesList,
}

var rulesDescribeCmd = &cobra.Command{
	Use:   "describe <rule-name>",
	Short: "Show a single rule's metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesDescribe,
}

func init() {
	rulesCmd.PersistentFlags().StringVar(&rulesRuleCorpus, "rule-corpus", "",
		"Path to an additional YAML file of declarative rules")
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesDescribeCmd)
}

func runRulesList(cmd *cobra.Command, args []string) error {
	reg, err := buildRegistry(rulesRuleCorpus)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Name\tCategory\tPriority\tConfidence\tBlocks")
	for _, r := range reg.Rules() {
		m := r.Metadata()
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\n", m.Name, m.Category, m.Priority, m.RuleConfidence, blocksOrNone(m.Blocks))
	}
	return w.Flush()
}

func runRulesDescribe(cmd *cobra.Command, args []string) error {
	reg, err := buildRegistry(rulesRuleCorpus)
	if err != nil {
		return err
	}

	r, ok := reg.ByName(args[0])
	if !ok {
		return fmt.Errorf("rule %q not found", args[0])
	}
	m := r.Metadata()

	fmt.Printf("Name:            %s\n", m.Name)
	fmt.Printf("Category:        %s\n", m.Category)
	fmt.Printf("Priority:        %d\n", m.Priority)
	fmt.Printf("Rule confidence: %.2f\n", m.RuleConfidence)
	fmt.Printf("Requires:        %s\n", kindsOrNone(m.Requires))
	fmt.Printf("Optional:        %s\n", kindsOrNone(m.Optional))
	fmt.Printf("Expected evidence: %d\n", m.ExpectedEvidence)
	fmt.Printf("Blocks:          %s\n", blocksOrNone(m.Blocks))
	return nil
}

func blocksOrNone(blocks []string) string {
	if len(blocks) == 0 {
		return "-"
	}
	out := blocks[0]
	for _, b := range blocks[1:] {
		out += ", " + b
	}
	return out
}

func kindsOrNone(kinds []objgraph.Kind) string {
	if len(kinds) == 0 {
		return "-"
	}
	out := string(kinds[0])
	for _, k := range kinds[1:] {
		out += ", " + string(k)
	}
	return out
}
