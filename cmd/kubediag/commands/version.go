package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the kubediag version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kubediag v%s\n", Version)
	},
}
