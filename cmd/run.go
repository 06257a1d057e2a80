package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/docreview-cli/internal/llm"
	"github.com/sells-group/docreview-cli/internal/model"
	"github.com/sells-group/docreview-cli/internal/pdf"
	"github.com/sells-group/docreview-cli/internal/pipeline"
	"github.com/sells-group/docreview-cli/internal/stage"
	"github.com/sells-group/docreview-cli/internal/template"
	"github.com/sells-group/docreview-cli/pkg/anthropic"
)

var (
	runInput       string
	runOutput      string
	runTemplates   string
	runFillMode    string
	runVisionModel string
	runFieldModel  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline and write one artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if _, err := os.Stat(runInput); err != nil {
			return usageErrorf("input not found: %s", runInput)
		}

		// Flag > env/config-file > default.
		templatesDir := cfg.Templates.Dir
		if runTemplates != "" {
			templatesDir = runTemplates
		}
		outputDir := cfg.Output.Dir
		if runOutput != "" {
			outputDir = runOutput
		}
		fillMode := cfg.Fill.Mode
		if runFillMode != "" {
			fillMode = runFillMode
		}
		if !model.ValidFillMode(fillMode) {
			return usageErrorf("fill mode must be one of: auto, llm, regex (got %q)", fillMode)
		}
		visionModel := cfg.Anthropic.VisionModel
		if runVisionModel != "" {
			visionModel = runVisionModel
		}
		fieldModel := cfg.Anthropic.FieldModelOrDefault()
		if runFieldModel != "" {
			fieldModel = runFieldModel
		}

		catalog, err := template.Load(templatesDir)
		if err != nil {
			return usageErrorf("load templates: %v", err)
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return usageErrorf("create output dir: %v", err)
		}

		textLayer, err := pdf.NewTextLayer(pdf.Config{
			Provider:      cfg.PDF.Provider,
			PdfToTextPath: cfg.PDF.PdfToTextPath,
		})
		if err != nil {
			return usageErrorf("%v", err)
		}
		rasterizer := pdf.NewPdfToPpm(cfg.PDF.PdfToPpmPath)

		var vision stage.Vision
		var llmStrategy stage.FillStrategy
		if cfg.Anthropic.Key != "" {
			client := anthropic.NewClient(cfg.Anthropic.Key,
				anthropic.WithRateLimit(cfg.Anthropic.RateLimitRPS))
			vision = llm.NewVisionExtractor(client, visionModel)
			llmStrategy = stage.NewLLMStrategy(llm.NewFieldFiller(client, fieldModel))
		}

		extractor := stage.NewExtractor(textLayer, rasterizer, vision)
		p := pipeline.New(catalog, extractor, llmStrategy, fieldModel)

		now := time.Now().UTC()
		createdAt := now.Format(time.RFC3339)
		pkg, err := p.Run(ctx, runInput, model.FillMode(fillMode), createdAt)
		if err != nil {
			return err
		}

		outputPath := versionedOutputPath(outputDir, stem(runInput), now)
		if err := writeArtifact(pkg, outputPath); err != nil {
			return err
		}
		fmt.Println(outputPath)

		zap.L().Info("artifact written",
			zap.String("path", outputPath),
			zap.String("review_id", pkg.ReviewID),
		)

		if pkg.BlockingOpen() {
			return errBlockingHandoffs
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "input document path (required)")
	runCmd.Flags().StringVar(&runOutput, "output", "", "output directory (default from config)")
	runCmd.Flags().StringVar(&runTemplates, "templates", "", "template directory (default from config)")
	runCmd.Flags().StringVar(&runFillMode, "fill-mode", "", "normalization mode: auto, llm, regex")
	runCmd.Flags().StringVar(&runVisionModel, "vision-model", "", "vision OCR model ID")
	runCmd.Flags().StringVar(&runFieldModel, "field-model", "", "field fill model ID")
	_ = runCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(runCmd)
}
