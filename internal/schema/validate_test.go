package schema

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/docreview-cli/internal/model"
	"github.com/sells-group/docreview-cli/internal/pipeline"
	"github.com/sells-group/docreview-cli/internal/stage"
	"github.com/sells-group/docreview-cli/internal/template"
)

func pipelineArtifact(t *testing.T, body string) []byte {
	t.Helper()
	catalog, err := template.Load("../../templates")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	p := pipeline.New(catalog, stage.NewExtractor(nil, nil, nil), nil, "")
	pkg, err := p.Run(context.Background(), path, model.FillModeRegex, "2026-01-01T00:00:00Z")
	require.NoError(t, err)

	data, err := json.Marshal(pkg)
	require.NoError(t, err)
	return data
}

func TestValidateArtifact_PipelineOutput(t *testing.T) {
	data := pipelineArtifact(t, "Paystub\nemployee_name: Jane Doe\nemployer_name: ACME\nnet_pay: 2450.25")
	assert.NoError(t, ValidateArtifact(data))
}

func TestValidateArtifact_DegradedRunStillConforms(t *testing.T) {
	// Unknown classification with handoffs still produces a valid artifact.
	data := pipelineArtifact(t, "zzz qqq completely unrelated")
	assert.NoError(t, ValidateArtifact(data))
}

func TestValidateArtifact_RejectsUnknownMethodToken(t *testing.T) {
	data := pipelineArtifact(t, "net_pay: 42")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	raw["extract"].(map[string]any)["method"] = "telepathy"
	mutated, err := json.Marshal(raw)
	require.NoError(t, err)

	assert.Error(t, ValidateArtifact(mutated))
}

func TestValidateArtifact_RejectsMissingSection(t *testing.T) {
	data := pipelineArtifact(t, "net_pay: 42")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	delete(raw, "audit")
	mutated, err := json.Marshal(raw)
	require.NoError(t, err)

	assert.Error(t, ValidateArtifact(mutated))
}

func TestValidateArtifact_RejectsExtraProperty(t *testing.T) {
	data := pipelineArtifact(t, "net_pay: 42")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	raw["unexpected"] = true
	mutated, err := json.Marshal(raw)
	require.NoError(t, err)

	assert.Error(t, ValidateArtifact(mutated))
}

func TestValidateArtifact_RejectsMalformedJSON(t *testing.T) {
	err := ValidateArtifact([]byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema: parse artifact")
}
