// Package pipeline orchestrates the document-review state machine: six
// strictly sequential stages, exactly one "completed" audit entry per stage,
// handoffs merged into one running list, and a complete artifact emitted even
// when upstream stages degrade.
package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/docreview-cli/internal/llm"
	"github.com/sells-group/docreview-cli/internal/model"
	"github.com/sells-group/docreview-cli/internal/stage"
	"github.com/sells-group/docreview-cli/internal/template"
)

// Pipeline runs the full review for one document. Construct once per
// invocation; it holds no mutable state across runs.
type Pipeline struct {
	catalog   template.Catalog
	extractor *stage.Extractor
	regex     stage.FillStrategy
	llm       stage.FillStrategy // nil when no model credential is configured
	llmModel  string
}

// New wires the pipeline. llmStrategy may be nil; the fill-mode policy then
// treats the model path as unavailable.
func New(catalog template.Catalog, extractor *stage.Extractor, llmStrategy stage.FillStrategy, llmModel string) *Pipeline {
	return &Pipeline{
		catalog:   catalog,
		extractor: extractor,
		regex:     stage.RegexStrategy{},
		llm:       llmStrategy,
		llmModel:  llmModel,
	}
}

// Run executes ingest through render for inputPath and returns the review
// package. The only error case is an unreadable source file; every other
// degradation is recorded in the artifact itself.
func (p *Pipeline) Run(ctx context.Context, inputPath string, fillMode model.FillMode, createdAt string) (*model.ReviewPackage, error) {
	log := zap.L().With(zap.String("input", inputPath))
	log.Info("pipeline: starting review")

	ingestSection, data, err := stage.Ingest(inputPath)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: ingest")
	}
	audit := []model.Audit{completed(model.StageIngest, "Ingest completed", createdAt)}
	handoffs := []model.Handoff{}

	extension := strings.ToLower(filepath.Ext(inputPath))
	extractSection, extractHandoffs := p.extractor.Extract(ctx, data, extension, createdAt)
	handoffs = append(handoffs, extractHandoffs...)
	audit = append(audit, completed(model.StageExtract, "Extraction completed", createdAt))
	log.Info("pipeline: extract complete",
		zap.String("method", string(extractSection.Method)),
		zap.Bool("ok", extractSection.OK),
	)

	classifySection, classifyHandoffs := stage.Classify(extractSection.Text, p.catalog, createdAt)
	handoffs = append(handoffs, classifyHandoffs...)
	audit = append(audit, completed(model.StageClassify, "Classification completed", createdAt))
	log.Info("pipeline: classify complete",
		zap.String("document_type", classifySection.DocumentType),
		zap.Float64("confidence", classifySection.Confidence),
	)

	tmpl := p.catalog.Get(classifySection.DocumentType)
	normalizeSection, normalizeHandoffs, normalizeAudit := p.normalize(ctx, extractSection.Text, tmpl, fillMode, createdAt)
	handoffs = append(handoffs, normalizeHandoffs...)
	audit = append(audit, normalizeAudit...)
	audit = append(audit, completed(model.StageNormalize, "Normalization completed", createdAt))

	validateSection, validateHandoffs := stage.Validate(normalizeSection, tmpl, createdAt)
	handoffs = append(handoffs, validateHandoffs...)
	audit = append(audit, completed(model.StageValidate, "Validation completed", createdAt))

	pkg := &model.ReviewPackage{
		SchemaVersion: model.SchemaVersion,
		ReviewID:      uuid.NewString(),
		Metadata: model.DocumentMetadata{
			DocumentID:    ingestSection.FileHash[:12],
			SourcePath:    inputPath,
			FileName:      filepath.Base(inputPath),
			FileHash:      ingestSection.FileHash,
			FileSizeBytes: ingestSection.FileSizeBytes,
			Extension:     extension,
			CreatedAt:     createdAt,
		},
		Ingest:    ingestSection,
		Extract:   extractSection,
		Classify:  classifySection,
		Normalize: normalizeSection,
		Validate:  validateSection,
		Handoffs:  handoffs,
		Audit:     audit,
	}

	pkg.Render = stage.Render(pkg)
	pkg.Audit = append(pkg.Audit, completed(model.StageRender, "Render completed", createdAt))

	log.Info("pipeline: review complete",
		zap.String("review_id", pkg.ReviewID),
		zap.Int("handoffs", len(pkg.Handoffs)),
		zap.Bool("blocking_open", pkg.BlockingOpen()),
	)
	return pkg, nil
}

// normalize applies the fill-mode policy table:
//
//	regex  — always the regex strategy, no model call.
//	llm    — model path required; unavailability or failure escalates
//	         blocking, then falls back to regex so a section still exists.
//	auto   — model path preferred; unavailability or failure escalates
//	         non-blocking and falls back to regex.
func (p *Pipeline) normalize(ctx context.Context, text string, tmpl template.Template, fillMode model.FillMode, createdAt string) (model.NormalizeSection, []model.Handoff, []model.Audit) {
	if fillMode == model.FillModeRegex {
		section, _ := p.regex.Fill(ctx, text, tmpl, createdAt)
		return section, nil, []model.Audit{{
			Stage:     model.StageNormalize,
			Event:     "mode_selected",
			Detail:    "Normalization mode: regex",
			CreatedAt: createdAt,
		}}
	}

	var fillErr error
	if p.llm == nil {
		if fillMode == model.FillModeLLM {
			fillErr = &llm.FillError{Reason: "llm mode requested but no model credential is configured"}
		} else {
			fillErr = &llm.FillError{Reason: "model credential missing; falling back to regex"}
		}
	} else {
		section, err := p.llm.Fill(ctx, text, tmpl, createdAt)
		if err == nil {
			return section, nil, []model.Audit{{
				Stage:     model.StageNormalize,
				Event:     "mode_selected",
				Detail:    "Normalization mode: llm (" + p.llmModel + ")",
				CreatedAt: createdAt,
			}}
		}
		fillErr = err
	}

	blocking := fillMode == model.FillModeLLM
	zap.L().Warn("pipeline: llm field fill failed, falling back to regex",
		zap.Bool("blocking", blocking),
		zap.Error(fillErr),
	)
	handoff := model.Handoff{
		Stage:     model.StageNormalize,
		Reason:    model.ReasonInvalidInput,
		Action:    model.ActionManualReview,
		Message:   "LLM field fill unavailable: " + fillErr.Error(),
		CreatedAt: createdAt,
		Blocking:  blocking,
	}
	section, _ := p.regex.Fill(ctx, text, tmpl, createdAt)
	return section, []model.Handoff{handoff}, []model.Audit{{
		Stage:     model.StageNormalize,
		Event:     "fallback",
		Detail:    "LLM field fill failed; fallback to regex (" + fillErr.Error() + ")",
		CreatedAt: createdAt,
	}}
}

func completed(s model.Stage, detail, createdAt string) model.Audit {
	return model.Audit{Stage: s, Event: "completed", Detail: detail, CreatedAt: createdAt}
}
