package pdf

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// PdfToText extracts the PDF text layer using the pdftotext CLI tool.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty,
// "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// Extract runs pdftotext -layout against a temp copy of data and returns
// stdout. A missing binary or failed run yields an empty string: the caller
// treats "no text layer" as a fallback signal, not a fault.
func (p *PdfToText) Extract(ctx context.Context, data []byte) (string, error) {
	dir, err := os.MkdirTemp("", "docreview-pdf-")
	if err != nil {
		return "", nil
	}
	defer os.RemoveAll(dir)

	pdfPath := filepath.Join(dir, "document.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return "", nil
	}

	cmd := exec.CommandContext(ctx, p.binPath, "-layout", pdfPath, "-")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", nil
	}
	return strings.TrimSpace(stdout.String()), nil
}

// PdfToPpm rasterizes PDF pages to PNG using the pdftoppm CLI tool.
type PdfToPpm struct {
	binPath string
}

// NewPdfToPpm creates a PdfToPpm rasterizer. If binPath is empty,
// "pdftoppm" is used.
func NewPdfToPpm(binPath string) *PdfToPpm {
	if binPath == "" {
		binPath = "pdftoppm"
	}
	return &PdfToPpm{binPath: binPath}
}

// Rasterize converts each page to a PNG, returned in page order. Missing
// tooling or a failed run yields an empty slice.
func (p *PdfToPpm) Rasterize(ctx context.Context, data []byte) ([][]byte, error) {
	dir, err := os.MkdirTemp("", "docreview-ppm-")
	if err != nil {
		return nil, nil
	}
	defer os.RemoveAll(dir)

	pdfPath := filepath.Join(dir, "document.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return nil, nil
	}

	cmd := exec.CommandContext(ctx, p.binPath, "-png", pdfPath, filepath.Join(dir, "page"))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil
	}
	var names []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "page-") && strings.HasSuffix(entry.Name(), ".png") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	pages := make([][]byte, 0, len(names))
	for _, name := range names {
		page, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		pages = append(pages, page)
	}
	return pages, nil
}
