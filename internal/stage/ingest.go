// Package stage implements the six pipeline stages. Each stage is a pure
// function over its inputs: it returns a new section snapshot plus any
// handoffs it raised, and never touches another stage's output.
package stage

import (
	"crypto/sha256"
	"encoding/hex"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/docreview-cli/internal/model"
)

// Ingest reads the source file, hashes it, and derives a MIME hint. An
// unreadable source is the one fatal input condition in the whole pipeline:
// there is no artifact to attach a handoff to yet.
func Ingest(path string) (model.IngestSection, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.IngestSection{}, nil, eris.Wrapf(err, "stage: ingest %s", path)
	}

	digest := sha256.Sum256(data)
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return model.IngestSection{
		Stage:         model.StageIngest,
		OK:            true,
		SourcePath:    path,
		FileHash:      hex.EncodeToString(digest[:]),
		FileSizeBytes: int64(len(data)),
		MimeType:      mimeType,
	}, data, nil
}
