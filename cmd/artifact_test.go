package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/docreview-cli/internal/model"
)

func TestVersionedOutputPath(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 28, 12, 30, 45, 0, time.UTC)

	path := versionedOutputPath(dir, "paystub", now)
	assert.Equal(t, filepath.Join(dir, "paystub_20260828T123045Z.json"), path)
}

func TestVersionedOutputPath_CollisionSuffix(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 28, 12, 30, 45, 0, time.UTC)

	first := versionedOutputPath(dir, "paystub", now)
	require.NoError(t, os.WriteFile(first, []byte("{}"), 0o644))

	second := versionedOutputPath(dir, "paystub", now)
	assert.Equal(t, filepath.Join(dir, "paystub_20260828T123045Z_v1.json"), second)

	require.NoError(t, os.WriteFile(second, []byte("{}"), 0o644))
	third := versionedOutputPath(dir, "paystub", now)
	assert.Equal(t, filepath.Join(dir, "paystub_20260828T123045Z_v2.json"), third)
}

func TestWriteAndLoadArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.json")
	pkg := &model.ReviewPackage{
		SchemaVersion: model.SchemaVersion,
		ReviewID:      "round-trip",
		Handoffs:      []model.Handoff{},
		Audit:         []model.Audit{},
	}

	require.NoError(t, writeArtifact(pkg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 0 && data[len(data)-1] == '\n')

	loaded, err := loadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, "round-trip", loaded.ReviewID)
}

func TestLoadArtifact_UsageErrors(t *testing.T) {
	_, err := loadArtifact(filepath.Join(t.TempDir(), "absent.json"))
	assert.True(t, errors.Is(err, errUsage))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = loadArtifact(path)
	assert.True(t, errors.Is(err, errUsage))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "paystub", stem("/tmp/in/paystub.txt"))
	assert.Equal(t, "report.final", stem("report.final.pdf"))
	assert.Equal(t, "noext", stem("noext"))
}
