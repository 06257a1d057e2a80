package stage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	section, data, err := Ingest(path)
	require.NoError(t, err)

	assert.True(t, section.OK)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, path, section.SourcePath)
	assert.Equal(t, int64(5), section.FileSizeBytes)
	// sha256("hello")
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", section.FileHash)
	assert.Contains(t, section.MimeType, "text/plain")
}

func TestIngest_UnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.weird")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	section, _, err := Ingest(path)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", section.MimeType)
}

func TestIngest_MissingFile(t *testing.T) {
	_, _, err := Ingest(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage: ingest")
}
