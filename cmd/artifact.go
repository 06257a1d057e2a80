package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sells-group/docreview-cli/internal/model"
)

// versionedOutputPath returns "<stem>_<UTC timestamp>.json" inside
// outputDir, appending "_vN" until the name is free. The filesystem-level
// versioning is the only arbitration between concurrent patches of the same
// stored artifact.
func versionedOutputPath(outputDir, stem string, now time.Time) string {
	timestamp := now.UTC().Format("20060102T150405Z")
	candidate := filepath.Join(outputDir, fmt.Sprintf("%s_%s.json", stem, timestamp))
	for counter := 1; ; counter++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(outputDir, fmt.Sprintf("%s_%s_v%d.json", stem, timestamp, counter))
	}
}

// writeArtifact serializes the package as indented UTF-8 JSON.
func writeArtifact(pkg *model.ReviewPackage, path string) error {
	data, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// loadArtifact reads and decodes a stored review package. Malformed JSON is
// a usage failure: there is no partial artifact to attach a handoff to.
func loadArtifact(path string) (*model.ReviewPackage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, usageErrorf("read artifact %s: %v", path, err)
	}
	var pkg model.ReviewPackage
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, usageErrorf("parse artifact %s: %v", path, err)
	}
	return &pkg, nil
}

// stem returns the input filename without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
