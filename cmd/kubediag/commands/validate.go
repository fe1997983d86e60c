package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"

	"github.com/kdiagnostics/kubediag/internal/loader"
	"github.com/kdiagnostics/kubediag/internal/logging"
)

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Best-effort type-check a snapshot's pod object",
	Long: `Loads a snapshot and attempts to decode its pod object against
k8s.io/api/core/v1.Pod. Decode errors are reported as warnings, not
failures — the engine itself tolerates partial or legacy snapshots, so
validate never blocks an explain run on a typed-decode mismatch.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateInput, "input", "", "Path to the snapshot JSON file (required)")
	validateCmd.MarkFlagRequired("input")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := setupLog(); err != nil {
		return err
	}
	logger := logging.GetLogger("validate")

	raw, err := loader.LoadFile(validateInput)
	if err != nil {
		return err
	}

	if raw.Pod == nil {
		return fmt.Errorf("snapshot %s has no pod object", validateInput)
	}

	podJSON, err := json.Marshal(raw.Pod)
	if err != nil {
		return fmt.Errorf("failed to re-marshal pod object: %w", err)
	}

	var pod corev1.Pod
	if err := json.Unmarshal(podJSON, &pod); err != nil {
		logger.WarnWithFields("pod object does not strictly decode as corev1.Pod",
			logging.Field("error", err.Error()))
		fmt.Printf("WARNING: pod object does not strictly match k8s.io/api/core/v1.Pod: %v\n", err)
		return nil
	}

	fmt.Printf("OK: pod %s/%s decodes as a valid corev1.Pod\n", pod.Namespace, pod.Name)
	return nil
}
