package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/docreview-cli/internal/model"
)

var (
	summarizeInput  string
	summarizeFormat string
)

// summaryDigest is the compact JSON view of an artifact.
type summaryDigest struct {
	DocumentType          string          `json:"document_type"`
	Confidence            float64         `json:"confidence"`
	ValidationOK          bool            `json:"validation_ok"`
	MissingRequiredFields []string        `json:"missing_required_fields"`
	OpenHandoffs          int             `json:"open_handoffs"`
	TotalHandoffs         int             `json:"total_handoffs"`
	Handoffs              []model.Handoff `json:"handoffs"`
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Print a summary from a stored artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		pkg, err := loadArtifact(summarizeInput)
		if err != nil {
			return err
		}

		if strings.ToLower(summarizeFormat) == "json" {
			digest := summaryDigest{
				DocumentType:          pkg.Classify.DocumentType,
				Confidence:            pkg.Classify.Confidence,
				ValidationOK:          pkg.Validate.OK,
				MissingRequiredFields: pkg.Validate.MissingRequiredFields,
				OpenHandoffs:          pkg.OpenHandoffs(),
				TotalHandoffs:         len(pkg.Handoffs),
				Handoffs:              pkg.Handoffs,
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(digest)
		}

		fmt.Println(pkg.Render.MarkdownSummary)
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeInput, "input", "", "artifact JSON path (required)")
	summarizeCmd.Flags().StringVar(&summarizeFormat, "format", "markdown", "output format: markdown or json")
	_ = summarizeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(summarizeCmd)
}
