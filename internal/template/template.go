// Package template loads per-document-type field schemas from a directory of
// JSON definitions. The catalog is read-only configuration: loaded once per
// run, never written back.
package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/docreview-cli/internal/model"
)

// Field is one field schema inside a document template.
type Field struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Synonyms []string `json:"synonyms"`
}

// Template is the schema for one document type.
type Template struct {
	DocType     string  `json:"doc_type"`
	DisplayName string  `json:"display_name"`
	Version     string  `json:"version"`
	Fields      []Field `json:"fields"`
}

// Catalog is the loaded template set, keyed by lowercased doc type.
type Catalog map[string]Template

// Unknown returns the implicit fallback template. It is always available
// regardless of catalog contents.
func Unknown() Template {
	return Template{
		DocType:     model.DocTypeUnknown,
		DisplayName: "Unknown Document",
		Version:     "1.0",
		Fields:      []Field{},
	}
}

// LoadFile parses a single template definition.
func LoadFile(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, eris.Wrapf(err, "template: read %s", path)
	}
	var tmpl Template
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return Template{}, eris.Wrapf(err, "template: parse %s", path)
	}
	if tmpl.DocType == "" {
		return Template{}, eris.Errorf("template: %s missing doc_type", path)
	}
	return tmpl, nil
}

// Load scans dir for *.json definitions in filename order and returns the
// catalog. The "unknown" template is always injected last, overriding any
// definition that claims the reserved type.
func Load(dir string) (Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "template: read dir %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	catalog := make(Catalog, len(names)+1)
	for _, name := range names {
		tmpl, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		catalog[strings.ToLower(tmpl.DocType)] = tmpl
	}
	catalog[model.DocTypeUnknown] = Unknown()
	return catalog, nil
}

// Get returns the template for docType, falling back to the unknown template.
func (c Catalog) Get(docType string) Template {
	if tmpl, ok := c[strings.ToLower(docType)]; ok {
		return tmpl
	}
	return Unknown()
}

// DocTypes returns the catalog's document types in sorted order.
func (c Catalog) DocTypes() []string {
	types := make([]string, 0, len(c))
	for docType := range c {
		types = append(types, docType)
	}
	sort.Strings(types)
	return types
}

// Markdown renders a human-readable projection of the template.
func (t Template) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.DisplayName)
	fmt.Fprintf(&b, "- Doc Type: `%s`\n", t.DocType)
	fmt.Fprintf(&b, "- Version: `%s`\n\n", t.Version)
	b.WriteString("## Fields\n")
	if len(t.Fields) == 0 {
		b.WriteString("- No fields defined.")
		return b.String()
	}
	for i, field := range t.Fields {
		req := "optional"
		if field.Required {
			req = "required"
		}
		synonyms := "(none)"
		if len(field.Synonyms) > 0 {
			synonyms = strings.Join(field.Synonyms, ", ")
		}
		fmt.Fprintf(&b, "- `%s` (%s, %s) | synonyms: %s", field.Name, field.Type, req, synonyms)
		if i < len(t.Fields)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
