package stage

import (
	"context"
	"regexp"
	"strings"

	"github.com/sells-group/docreview-cli/internal/model"
	"github.com/sells-group/docreview-cli/internal/template"
)

// Regex-path confidences: exact field-name match beats a synonym match.
const (
	confidenceExactName = 0.9
	confidenceSynonym   = 0.75
)

// FillStrategy produces a field history from document text and a template.
// The orchestrator's policy table selects the strategy; strategies never
// decide fallback themselves.
type FillStrategy interface {
	Name() string
	Fill(ctx context.Context, text string, tmpl template.Template, createdAt string) (model.NormalizeSection, error)
}

// RegexStrategy is the deterministic line-scanning strategy. It makes no
// external calls and never fails.
type RegexStrategy struct{}

// Name implements FillStrategy.
func (RegexStrategy) Name() string { return "regex" }

// Fill searches line-by-line for "<name or synonym> [:=-] <value>". The
// field name is tried before its synonyms; the first matching line wins. A
// field with no matching line stays out of the history entirely.
func (RegexStrategy) Fill(_ context.Context, text string, tmpl template.Template, createdAt string) (model.NormalizeSection, error) {
	fields := model.FieldHistory{}
	lines := strings.Split(text, "\n")

	for _, field := range tmpl.Fields {
		candidates := append([]string{field.Name}, field.Synonyms...)
		value, confidence := scanLines(lines, field.Name, candidates)
		if value == "" {
			continue
		}
		fields = fields.Append(field.Name, model.FieldProposal{
			Source:     "extract_text",
			Value:      value,
			Confidence: confidence,
			Stage:      model.StageNormalize,
			CreatedAt:  createdAt,
		})
	}

	return model.NormalizeSection{
		Stage:  model.StageNormalize,
		OK:     true,
		Mode:   "regex",
		Fields: fields,
	}, nil
}

func scanLines(lines []string, fieldName string, candidates []string) (string, float64) {
	for _, line := range lines {
		for _, candidate := range candidates {
			pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(candidate) + `\b\s*[:=-]\s*(.+)$`)
			match := pattern.FindStringSubmatch(line)
			if match == nil {
				continue
			}
			confidence := confidenceSynonym
			if candidate == fieldName {
				confidence = confidenceExactName
			}
			return strings.TrimSpace(match[1]), confidence
		}
	}
	return "", 0
}
