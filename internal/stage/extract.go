package stage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/docreview-cli/internal/model"
	"github.com/sells-group/docreview-cli/internal/pdf"
)

// PageLimit is the maximum PDF page count the pipeline will process.
const PageLimit = 25

// StubText is the placeholder text used when no extraction path succeeded.
const StubText = "[OCR_STUB: not available]"

var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".json": true, ".csv": true,
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".tiff": true, ".webp": true,
}

// Vision transcribes document images. Nil when no credential is configured.
type Vision interface {
	Extract(ctx context.Context, images [][]byte) (string, error)
	Model() string
}

// Extractor converts raw document bytes to text. It never fails outright:
// every input yields a usable section, with degradation expressed as
// handoffs for the caller to merge.
type Extractor struct {
	textLayer  pdf.TextLayer
	rasterizer pdf.Rasterizer
	vision     Vision
}

// NewExtractor wires the extraction collaborators. rasterizer and vision may
// be nil; the extractor then falls through to its stub path.
func NewExtractor(textLayer pdf.TextLayer, rasterizer pdf.Rasterizer, vision Vision) *Extractor {
	return &Extractor{textLayer: textLayer, rasterizer: rasterizer, vision: vision}
}

// Extract chooses among the direct-text, PDF-text-layer, and vision paths.
func (e *Extractor) Extract(ctx context.Context, data []byte, extension, createdAt string) (model.ExtractSection, []model.Handoff) {
	ext := strings.ToLower(extension)

	if len(data) == 0 {
		handoff := model.Handoff{
			Stage:     model.StageExtract,
			Reason:    model.ReasonUnreadableInput,
			Action:    model.ActionFixInput,
			Message:   "Input file is empty or unreadable.",
			CreatedAt: createdAt,
			Blocking:  true,
		}
		return model.ExtractSection{
			Stage:    model.StageExtract,
			OK:       false,
			UsedStub: true,
			Method:   model.MethodStub,
		}, []model.Handoff{handoff}
	}

	if textExtensions[ext] {
		return model.ExtractSection{
			Stage:  model.StageExtract,
			OK:     true,
			Text:   decodeLossy(data),
			Method: model.MethodTextLayer,
		}, nil
	}

	if ext == ".pdf" {
		return e.extractPDF(ctx, data, createdAt)
	}

	if imageExtensions[ext] && e.vision != nil {
		text, err := e.vision.Extract(ctx, [][]byte{data})
		if err != nil {
			zap.L().Warn("stage: vision extract failed", zap.Error(err))
		}
		if err == nil && text != "" {
			return model.ExtractSection{
				Stage:     model.StageExtract,
				OK:        true,
				Text:      text,
				Method:    model.MethodVision,
				Model:     e.vision.Model(),
				PageCount: 1,
			}, nil
		}
	}

	section := model.ExtractSection{
		Stage:    model.StageExtract,
		OK:       true,
		Text:     StubText,
		UsedStub: true,
		Method:   model.MethodStub,
	}
	if imageExtensions[ext] {
		section.PageCount = 1
	}
	handoff := model.Handoff{
		Stage:     model.StageExtract,
		Reason:    model.ReasonOCRRequired,
		Action:    model.ActionManualReview,
		Message:   "Unsupported or image-like document without configured OCR; stub used.",
		CreatedAt: createdAt,
	}
	return section, []model.Handoff{handoff}
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte, createdAt string) (model.ExtractSection, []model.Handoff) {
	pageCount := pdf.PageCount(data)
	if pageCount > PageLimit {
		handoff := model.Handoff{
			Stage:     model.StageExtract,
			Reason:    model.ReasonPageLimitExceeded,
			Action:    model.ActionManualReview,
			Message:   pageLimitMessage(pageCount),
			CreatedAt: createdAt,
			Blocking:  true,
		}
		return model.ExtractSection{
			Stage:     model.StageExtract,
			OK:        false,
			UsedStub:  true,
			Method:    model.MethodStub,
			PageCount: pageCount,
		}, []model.Handoff{handoff}
	}

	if e.textLayer != nil {
		text, err := e.textLayer.Extract(ctx, data)
		if err != nil {
			zap.L().Warn("stage: pdf text layer failed", zap.Error(err))
		}
		if text = strings.TrimSpace(text); text != "" {
			return model.ExtractSection{
				Stage:     model.StageExtract,
				OK:        true,
				Text:      text,
				Method:    model.MethodTextLayer,
				PageCount: pageCount,
			}, nil
		}
	}

	if e.vision != nil && e.rasterizer != nil {
		images, err := e.rasterizer.Rasterize(ctx, data)
		if err != nil {
			zap.L().Warn("stage: pdf rasterize failed", zap.Error(err))
		}
		if len(images) > 0 {
			text, err := e.vision.Extract(ctx, images)
			if err != nil {
				zap.L().Warn("stage: vision extract failed", zap.Error(err))
			}
			if err == nil && text != "" {
				return model.ExtractSection{
					Stage:     model.StageExtract,
					OK:        true,
					Text:      text,
					Method:    model.MethodVision,
					Model:     e.vision.Model(),
					PageCount: len(images),
				}, nil
			}
		}
	}

	handoff := model.Handoff{
		Stage:     model.StageExtract,
		Reason:    model.ReasonOCRRequired,
		Action:    model.ActionManualReview,
		Message:   "No PDF text layer found and OCR could not run; using stub output.",
		CreatedAt: createdAt,
	}
	return model.ExtractSection{
		Stage:     model.StageExtract,
		OK:        true,
		Text:      StubText,
		UsedStub:  true,
		Method:    model.MethodStub,
		PageCount: pageCount,
	}, []model.Handoff{handoff}
}

// decodeLossy converts bytes to a valid UTF-8 string, replacing invalid
// sequences rather than failing.
func decodeLossy(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}

func pageLimitMessage(pageCount int) string {
	return fmt.Sprintf("PDF exceeds page limit (%d > %d).", pageCount, PageLimit)
}
