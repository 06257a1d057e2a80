// Package pdf provides the PDF collaborators the extract stage depends on:
// text-layer extraction and page rasterization. Both operate on raw bytes and
// return empty results rather than failing on missing tooling, so the stage
// can fall through to its stub path.
package pdf

import (
	"bytes"
	"context"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// TextLayer extracts the embedded text layer from a PDF, if any.
type TextLayer interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Rasterizer converts PDF pages into PNG images for vision OCR.
type Rasterizer interface {
	Rasterize(ctx context.Context, data []byte) ([][]byte, error)
}

// Config selects the text-layer provider.
type Config struct {
	Provider      string // "poppler" or "native"
	PdfToTextPath string
	PdfToPpmPath  string
}

// NewTextLayer creates a TextLayer based on config.
func NewTextLayer(cfg Config) (TextLayer, error) {
	switch cfg.Provider {
	case "poppler", "":
		return NewPdfToText(cfg.PdfToTextPath), nil
	case "native":
		return NativeTextLayer{}, nil
	default:
		return nil, eris.Errorf("pdf: unknown provider %q", cfg.Provider)
	}
}

// NativeTextLayer extracts text in-process without external tooling.
type NativeTextLayer struct{}

// Extract reads the PDF text layer via the pure-Go reader. Malformed PDFs
// yield an empty string, not an error.
func (NativeTextLayer) Extract(_ context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", nil
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", nil
	}
	return buf.String(), nil
}

// PageCount returns the PDF's page count, preferring the native reader and
// falling back to counting page-object markers in the raw bytes. Returns 0
// when the count cannot be determined.
func PageCount(data []byte) int {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err == nil {
		if n := reader.NumPage(); n > 0 {
			return n
		}
	}
	return bytes.Count(data, []byte("/Type /Page"))
}
