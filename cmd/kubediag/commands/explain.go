package commands

import (
	"context"
	"os"
	"time"

	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/kdiagnostics/kubediag/internal/config"
	"github.com/kdiagnostics/kubediag/internal/engine"
	"github.com/kdiagnostics/kubediag/internal/loader"
	"github.com/kdiagnostics/kubediag/internal/logging"
	"github.com/kdiagnostics/kubediag/internal/metrics"
	"github.com/kdiagnostics/kubediag/internal/render"
)

var (
	explainInput             string
	explainEnableCategories  []string
	explainDisableCategories []string
	explainVerbose           bool
	explainEngineVersion     string
	explainRuleCorpus        string
	explainFormat            string
	explainMetricsOut        string
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Diagnose a Pod failure snapshot",
	Long: `Reads a JSON snapshot of a Pod and its related cluster objects, runs
the rule corpus against it, and prints a structured explanation: root
cause, confidence, evidence, and suggested next checks.

Exits 0 on a successful diagnosis regardless of the root cause found (or
not found); a nonzero exit means the input, configuration, or flags
themselves were invalid.`,
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().StringVar(&explainInput, "input", "", "Path to the snapshot JSON file (required)")
	explainCmd.Flags().StringSliceVar(&explainEnableCategories, "enable-categories", nil,
		"Restrict evaluation to these rule categories (empty means all)")
	explainCmd.Flags().StringSliceVar(&explainDisableCategories, "disable-categories", nil,
		"Exclude these rule categories after the enable filter is applied")
	explainCmd.Flags().BoolVar(&explainVerbose, "verbose", false,
		"Include a per-rule evaluation record in metadata.rulesEvaluated")
	explainCmd.Flags().StringVar(&explainEngineVersion, "engine-version", "v1",
		"Value stamped into metadata.engineVersion")
	explainCmd.Flags().StringVar(&explainRuleCorpus, "rule-corpus", "",
		"Path to an additional YAML file of declarative rules")
	explainCmd.Flags().StringVar(&explainFormat, "format", "text",
		"Output format: text, json, or yaml")
	explainCmd.Flags().StringVar(&explainMetricsOut, "metrics-out", "",
		"If set, dump Prometheus text-format metrics to this file after running")
	explainCmd.MarkFlagRequired("input")
}

func runExplain(cmd *cobra.Command, args []string) error {
	if err := setupLog(); err != nil {
		return err
	}
	logger := logging.GetLogger("explain")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := buildRegistry(cfg.RuleCorpusPath)
	if err != nil {
		return err
	}

	eng, err := engine.New(reg)
	if err != nil {
		return err
	}

	raw, err := loader.LoadFile(explainInput)
	if err != nil {
		return err
	}

	metricsReg := metrics.New()

	opts := engine.Options{
		EnableCategories:  cfg.EnableCategories,
		DisableCategories: cfg.DisableCategories,
		Verbose:           cfg.Verbose,
		EngineVersion:     cfg.EngineVersion,
	}

	start := time.Now()
	explanation := eng.Explain(context.Background(), engine.Input{Raw: raw, Options: opts})
	elapsed := time.Since(start).Seconds()

	rootCauseKind := ""
	if explanation.RootCause != nil {
		rootCauseKind = explanation.RootCause.Kind
	}
	ruleErrNames := make([]string, 0, len(explanation.Metadata.RuleErrors))
	for _, re := range explanation.Metadata.RuleErrors {
		ruleErrNames = append(ruleErrNames, re.RuleName)
	}
	metricsReg.Observe(explanation.Metadata.RulesMatched, rootCauseKind, elapsed, ruleErrNames)

	if explainMetricsOut != "" {
		f, err := os.Create(explainMetricsOut)
		if err != nil {
			logger.WarnWithFields("failed to open metrics output file", logging.Field("path", explainMetricsOut), logging.Field("error", err.Error()))
		} else {
			defer f.Close()
			if err := metricsReg.DumpText(f); err != nil {
				logger.WarnWithFields("failed to dump metrics", logging.Field("error", err.Error()))
			}
		}
	}

	return render.Render(os.Stdout, explanation, render.Format(explainFormat))
}

// loadConfig merges config defaults, an optional --config file, and the
// explain/rules-wide CLI flags (flags win) into a single config.Config,
// reusing the structs.Provider idiom config.Load itself is built on.
func loadConfig() (*config.Config, error) {
	overrides := &config.Config{
		EnableCategories:  explainEnableCategories,
		DisableCategories: explainDisableCategories,
		Verbose:           explainVerbose,
		EngineVersion:     explainEngineVersion,
		RuleCorpusPath:    explainRuleCorpus,
		LogLevel:          logLevel,
	}

	ko := koanf.New(".")
	if err := ko.Load(structs.Provider(overrides, "koanf"), nil); err != nil {
		return nil, err
	}

	return config.Load(configPath, ko)
}
