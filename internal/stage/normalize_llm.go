package stage

import (
	"context"

	"github.com/sells-group/docreview-cli/internal/llm"
	"github.com/sells-group/docreview-cli/internal/model"
	"github.com/sells-group/docreview-cli/internal/template"
)

// Filler is the model-assisted field extraction collaborator.
type Filler interface {
	Fill(ctx context.Context, text string, tmpl template.Template) ([]llm.FillItem, error)
	Model() string
}

// LLMStrategy fills fields via the model collaborator. It surfaces the
// collaborator's typed failure unchanged; deciding between fallback and
// blocking escalation is the orchestrator's job.
type LLMStrategy struct {
	filler Filler
}

// NewLLMStrategy creates an LLMStrategy over the given filler.
func NewLLMStrategy(filler Filler) *LLMStrategy {
	return &LLMStrategy{filler: filler}
}

// Name implements FillStrategy.
func (s *LLMStrategy) Name() string { return "llm" }

// Fill records one proposal per claim the model returned. Claims with a null
// value are discarded: an absent field stays unfilled rather than being
// recorded as a null claim.
func (s *LLMStrategy) Fill(ctx context.Context, text string, tmpl template.Template, createdAt string) (model.NormalizeSection, error) {
	items, err := s.filler.Fill(ctx, text, tmpl)
	if err != nil {
		return model.NormalizeSection{}, err
	}

	fields := model.FieldHistory{}
	for _, item := range items {
		if item.Value == nil {
			continue
		}
		confidence := item.Confidence
		if confidence < 0 {
			confidence = 0
		} else if confidence > 1 {
			confidence = 1
		}
		notes := item.Notes
		if item.Evidence != "" {
			if notes != "" {
				notes += " | "
			}
			notes += "evidence: " + item.Evidence
		}
		fields = fields.Append(item.FieldName, model.FieldProposal{
			Source:     "llm_extract",
			Value:      item.Value,
			Confidence: confidence,
			Stage:      model.StageNormalize,
			CreatedAt:  createdAt,
			Notes:      notes,
		})
	}

	return model.NormalizeSection{
		Stage:  model.StageNormalize,
		OK:     true,
		Mode:   "llm",
		Fields: fields,
	}, nil
}
