package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/docreview-cli/internal/patch"
)

var (
	patchInput  string
	patchFile   string
	patchOutput string
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Apply append-only updates and handoff resolutions to an artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		pkg, err := loadArtifact(patchInput)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(patchFile)
		if err != nil {
			return usageErrorf("read patch %s: %v", patchFile, err)
		}
		var payload patch.Payload
		if err := json.Unmarshal(data, &payload); err != nil {
			return usageErrorf("parse patch %s: %v", patchFile, err)
		}

		outputDir := cfg.Output.Dir
		if patchOutput != "" {
			outputDir = patchOutput
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return usageErrorf("create output dir: %v", err)
		}

		now := time.Now().UTC()
		updated := patch.Apply(pkg, payload, now.Format(time.RFC3339))

		outputPath := versionedOutputPath(outputDir, stem(patchInput), now)
		if err := writeArtifact(updated, outputPath); err != nil {
			return err
		}
		fmt.Println(outputPath)
		return nil
	},
}

func init() {
	patchCmd.Flags().StringVar(&patchInput, "input", "", "artifact JSON path (required)")
	patchCmd.Flags().StringVar(&patchFile, "patch", "", "patch JSON path (required)")
	patchCmd.Flags().StringVar(&patchOutput, "output", "", "output directory (default from config)")
	_ = patchCmd.MarkFlagRequired("input")
	_ = patchCmd.MarkFlagRequired("patch")
	rootCmd.AddCommand(patchCmd)
}
