package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

var doctorFormat string

// doctorReport captures environment readiness for the pipeline.
type doctorReport struct {
	AnthropicKeyPresent bool   `json:"anthropic_key_present"`
	VisionModel         string `json:"vision_model"`
	FieldModel          string `json:"field_model"`
	FillMode            string `json:"fill_mode"`
	PdfToTextAvailable  bool   `json:"pdftotext_available"`
	PdfToPpmAvailable   bool   `json:"pdftoppm_available"`
	TemplatesDir        string `json:"templates_dir"`
	TemplatesDirExists  bool   `json:"templates_dir_exists"`
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report environment readiness",
	RunE: func(cmd *cobra.Command, args []string) error {
		report := doctorReport{
			AnthropicKeyPresent: cfg.Anthropic.Key != "",
			VisionModel:         cfg.Anthropic.VisionModel,
			FieldModel:          cfg.Anthropic.FieldModelOrDefault(),
			FillMode:            cfg.Fill.Mode,
			TemplatesDir:        cfg.Templates.Dir,
		}
		if _, err := exec.LookPath(cfg.PDF.PdfToTextPath); err == nil {
			report.PdfToTextAvailable = true
		}
		if _, err := exec.LookPath(cfg.PDF.PdfToPpmPath); err == nil {
			report.PdfToPpmAvailable = true
		}
		if info, err := os.Stat(cfg.Templates.Dir); err == nil && info.IsDir() {
			report.TemplatesDirExists = true
		}

		if strings.ToLower(doctorFormat) == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			fmt.Printf("anthropic_key=%s\n", presence(report.AnthropicKeyPresent))
			fmt.Printf("vision_model=%s\n", report.VisionModel)
			fmt.Printf("field_model=%s\n", report.FieldModel)
			fmt.Printf("fill_mode=%s\n", report.FillMode)
			fmt.Printf("poppler=%s\n", ready(report.PdfToTextAvailable && report.PdfToPpmAvailable))
			fmt.Printf("templates_dir=%s exists=%t\n", report.TemplatesDir, report.TemplatesDirExists)
			if report.AnthropicKeyPresent {
				fmt.Println("ocr=vision_ready")
			} else {
				fmt.Println("ocr=stub_mode (anthropic key missing)")
			}
		}

		if !report.TemplatesDirExists {
			return fmt.Errorf("template directory not found: %s", cfg.Templates.Dir)
		}
		return nil
	},
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "missing"
}

func ready(ok bool) string {
	if ok {
		return "ready"
	}
	return "missing"
}

func init() {
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "text", "output format: text or json")
	rootCmd.AddCommand(doctorCmd)
}
