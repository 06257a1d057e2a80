package stage

import (
	"fmt"

	"github.com/sells-group/docreview-cli/internal/model"
	"github.com/sells-group/docreview-cli/internal/template"
)

// Validate checks the field history against template requiredness. A field
// with at least one proposal is valid; a required field with none is missing
// and raises a non-blocking handoff. Whether missing fields block the run is
// decided later by aggregate handoff inspection, not here.
func Validate(normalize model.NormalizeSection, tmpl template.Template, createdAt string) (model.ValidateSection, []model.Handoff) {
	statuses := make(map[string]model.FieldStatus, len(tmpl.Fields))
	missing := []string{}
	var handoffs []model.Handoff

	for _, field := range tmpl.Fields {
		if len(normalize.Fields[field.Name]) > 0 {
			statuses[field.Name] = model.FieldStatusValid
			continue
		}
		if field.Required {
			statuses[field.Name] = model.FieldStatusMissing
			missing = append(missing, field.Name)
			handoffs = append(handoffs, model.Handoff{
				Stage:     model.StageValidate,
				Reason:    model.ReasonMissingRequiredField,
				Action:    model.ActionProvideMissingInformation,
				Message:   fmt.Sprintf("Required field %q is missing.", field.Name),
				FieldName: field.Name,
				CreatedAt: createdAt,
			})
			continue
		}
		statuses[field.Name] = model.FieldStatusProposed
	}

	section := model.ValidateSection{
		Stage:                 model.StageValidate,
		OK:                    len(missing) == 0,
		FieldStatus:           statuses,
		MissingRequiredFields: missing,
	}
	return section, handoffs
}
