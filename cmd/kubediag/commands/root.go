package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kdiagnostics/kubediag/internal/logging"
)

// Version is the CLI release version printed by `kubediag version` and
// `kubediag --version`. It is not written into metadata.engineVersion,
// which comes from --engine-version or the config file (default "v1").
const Version = "0.1.0"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "kubediag",
	Short: "kubediag - Kubernetes Pod failure diagnosis",
	Long: `kubediag normalizes a Kubernetes Pod failure snapshot into an object
graph and event timeline, evaluates a prioritized rule corpus against it, and
emits a deterministic structured explanation: root cause, confidence,
supporting evidence, and suggested next checks.`,
	Version: Version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML configuration file (optional; CLI flags take precedence)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Logging level (debug, info, warn, error)")

	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

// HandleError prints msg and exits nonzero. The CLI only exits nonzero
// for invalid-input/flag/config errors, never for a successful
// diagnosis regardless of root cause.
func HandleError(err error, msg string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
		os.Exit(1)
	}
}

func setupLog() error {
	return logging.Initialize(logLevel)
}
