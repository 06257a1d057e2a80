// Package patch amends a stored review package after the fact. Application
// is a pure function: the input package is cloned, never mutated, so replay
// against the same stored snapshot is always safe.
package patch

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/docreview-cli/internal/model"
)

// DefaultSource is recorded on proposals and resolutions that omit one.
const DefaultSource = "agent_review"

// FieldUpdate appends one new proposal to a field's history.
type FieldUpdate struct {
	FieldName  string  `json:"field_name"`
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// HandoffResolution resolves the handoff at the given index.
type HandoffResolution struct {
	Index      int    `json:"index"`
	Resolution string `json:"resolution"`
	ResolvedBy string `json:"resolved_by,omitempty"`
}

// Payload is the on-disk patch file shape.
type Payload struct {
	FieldUpdates       []FieldUpdate       `json:"field_updates"`
	HandoffResolutions []HandoffResolution `json:"handoff_resolutions"`
}

// Apply returns a new package with the patch applied. Field updates append
// proposals (prior entries untouched); resolutions transition handoffs
// unresolved→resolved. Out-of-range resolution indices are deliberate
// no-ops, logged but not errored, so partially stale patches replay cleanly.
func Apply(pkg *model.ReviewPackage, payload Payload, createdAt string) *model.ReviewPackage {
	updated := pkg.Clone()

	for _, update := range payload.FieldUpdates {
		source := update.Source
		if source == "" {
			source = DefaultSource
		}
		updated.Normalize.Fields = updated.Normalize.Fields.Append(update.FieldName, model.FieldProposal{
			Source:     source,
			Value:      update.Value,
			Confidence: update.Confidence,
			Stage:      model.StageNormalize,
			CreatedAt:  createdAt,
			Notes:      update.Notes,
		})
		updated.Audit = append(updated.Audit, model.Audit{
			Stage:     model.StageNormalize,
			Event:     "patched_field",
			Detail:    fmt.Sprintf("Appended proposal for %q.", update.FieldName),
			CreatedAt: createdAt,
		})
	}

	for _, resolution := range payload.HandoffResolutions {
		if resolution.Index < 0 || resolution.Index >= len(updated.Handoffs) {
			zap.L().Warn("patch: handoff resolution index out of range, skipping",
				zap.Int("index", resolution.Index),
				zap.Int("handoffs", len(updated.Handoffs)),
			)
			continue
		}
		resolvedBy := resolution.ResolvedBy
		if resolvedBy == "" {
			resolvedBy = DefaultSource
		}
		updated.Handoffs[resolution.Index].Resolve(resolution.Resolution, resolvedBy, createdAt)
		updated.Audit = append(updated.Audit, model.Audit{
			Stage:     model.StageValidate,
			Event:     "resolved_handoff",
			Detail:    fmt.Sprintf("Resolved handoff index %d.", resolution.Index),
			CreatedAt: createdAt,
		})
	}

	return updated
}
