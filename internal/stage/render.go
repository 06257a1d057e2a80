package stage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sells-group/docreview-cli/internal/model"
)

// Render produces the markdown summary of the accumulated package state.
// Pure projection: no branching decisions, no new handoffs.
func Render(pkg *model.ReviewPackage) model.RenderSection {
	var b strings.Builder
	fmt.Fprintf(&b, "# Document Review: %s\n\n", pkg.Metadata.FileName)
	fmt.Fprintf(&b, "- Document Type: `%s`\n", pkg.Classify.DocumentType)
	fmt.Fprintf(&b, "- Classification Confidence: `%.2f`\n", pkg.Classify.Confidence)
	fmt.Fprintf(&b, "- Validation OK: `%t`\n", pkg.Validate.OK)
	fmt.Fprintf(&b, "- Handoff Count: `%d`\n\n", len(pkg.Handoffs))
	b.WriteString("## Field Status")

	names := make([]string, 0, len(pkg.Validate.FieldStatus))
	for name := range pkg.Validate.FieldStatus {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "\n- `%s`: %s", name, pkg.Validate.FieldStatus[name])
	}

	if len(pkg.Handoffs) > 0 {
		b.WriteString("\n\n## Handoffs")
		for _, handoff := range pkg.Handoffs {
			fmt.Fprintf(&b, "\n- [%s] %s: %s", handoff.Stage, handoff.Reason, handoff.Message)
		}
	}

	return model.RenderSection{
		Stage:           model.StageRender,
		OK:              true,
		MarkdownSummary: b.String(),
	}
}
