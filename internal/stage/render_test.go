package stage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/docreview-cli/internal/model"
)

func TestRender(t *testing.T) {
	pkg := &model.ReviewPackage{
		Metadata: model.DocumentMetadata{FileName: "paystub.txt"},
		Classify: model.ClassifySection{DocumentType: "paystub", Confidence: 0.7},
		Validate: model.ValidateSection{
			OK: false,
			FieldStatus: map[string]model.FieldStatus{
				"net_pay":       model.FieldStatusValid,
				"employee_name": model.FieldStatusMissing,
			},
		},
		Handoffs: []model.Handoff{{
			Stage:   model.StageValidate,
			Reason:  model.ReasonMissingRequiredField,
			Message: `Required field "employee_name" is missing.`,
		}},
	}

	section := Render(pkg)

	assert.True(t, section.OK)
	assert.Equal(t, model.StageRender, section.Stage)

	md := section.MarkdownSummary
	assert.Contains(t, md, "# Document Review: paystub.txt")
	assert.Contains(t, md, "- Document Type: `paystub`")
	assert.Contains(t, md, "- Classification Confidence: `0.70`")
	assert.Contains(t, md, "- Validation OK: `false`")
	assert.Contains(t, md, "- Handoff Count: `1`")
	// Field names are sorted.
	assert.Less(t,
		strings.Index(md, "`employee_name`: missing"),
		strings.Index(md, "`net_pay`: valid"),
	)
	assert.Contains(t, md, "## Handoffs")
	assert.Contains(t, md, "[validate] missing_required_field:")
}

func TestRender_NoHandoffs(t *testing.T) {
	pkg := &model.ReviewPackage{
		Metadata: model.DocumentMetadata{FileName: "doc.txt"},
		Classify: model.ClassifySection{DocumentType: "unknown"},
		Validate: model.ValidateSection{OK: true, FieldStatus: map[string]model.FieldStatus{}},
	}

	section := Render(pkg)
	assert.NotContains(t, section.MarkdownSummary, "## Handoffs")
}
