package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/docreview-cli/internal/schema"
)

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an artifact against the package schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(validateInput)
		if err != nil {
			return usageErrorf("read artifact %s: %v", validateInput, err)
		}
		if err := schema.ValidateArtifact(data); err != nil {
			fmt.Printf("INVALID: %v\n", err)
			return usageErrorf("artifact failed schema validation")
		}
		fmt.Println("VALID")
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateInput, "input", "", "artifact JSON path (required)")
	_ = validateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(validateCmd)
}
