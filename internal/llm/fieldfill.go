package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sells-group/docreview-cli/internal/template"
	"github.com/sells-group/docreview-cli/pkg/anthropic"
)

const fieldFillSystemPrompt = `You are a deterministic information extraction system.
Extract values for the provided template fields from DOCUMENT_TEXT.
Rules:
- Use only explicit information in DOCUMENT_TEXT.
- If a field value is not present, set value to null.
- Do not infer or fabricate missing values.
- Confidence must be between 0 and 1.
- Provide a short evidence quote when available.
- Return JSON only matching the requested shape.`

const fieldFillShape = `Return exactly this JSON shape:
{"field_values":[{"field_name":"...", "value":null, "confidence":0.0, "evidence":null, "notes":null}]}`

// FillError is the typed failure the field-fill collaborator raises when it
// cannot complete safely. Callers decide whether it is fatal or triggers a
// fallback; it must never be papered over with an invented value.
type FillError struct {
	Reason string
	Err    error
}

func (e *FillError) Error() string {
	if e.Err != nil {
		return "llm: field fill: " + e.Reason + ": " + e.Err.Error()
	}
	return "llm: field fill: " + e.Reason
}

func (e *FillError) Unwrap() error { return e.Err }

// FillItem is one extracted field claim from the model.
type FillItem struct {
	FieldName  string  `json:"field_name"`
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

type fillResponse struct {
	FieldValues []FillItem `json:"field_values"`
}

// FieldFiller extracts template field values from document text.
type FieldFiller struct {
	client anthropic.Client
	model  string
}

// NewFieldFiller creates a FieldFiller bound to a model.
func NewFieldFiller(client anthropic.Client, model string) *FieldFiller {
	return &FieldFiller{client: client, model: model}
}

// Model returns the model ID the filler calls.
func (f *FieldFiller) Model() string { return f.model }

// Fill submits the document text and field schema and returns the parsed
// claims. Claims naming fields outside the template are discarded. Empty or
// unparseable responses surface as *FillError.
func (f *FieldFiller) Fill(ctx context.Context, text string, tmpl template.Template) ([]FillItem, error) {
	if f.client == nil {
		return nil, &FillError{Reason: "no client configured"}
	}
	if len(tmpl.Fields) == 0 {
		return nil, nil
	}

	schema, err := json.Marshal(tmpl.Fields)
	if err != nil {
		return nil, &FillError{Reason: "marshal schema", Err: err}
	}

	temperature := 0.0
	resp, err := f.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       f.model,
		MaxTokens:   4096,
		System:      fieldFillSystemPrompt,
		Temperature: &temperature,
		Messages: []anthropic.Message{
			anthropic.TextMessage("user",
				"TEMPLATE_FIELDS:\n"+string(schema)+"\n\nDOCUMENT_TEXT:\n"+text+"\n\n"+fieldFillShape),
		},
	})
	if err != nil {
		return nil, &FillError{Reason: "request failed", Err: err}
	}
	resp.Usage.Log(f.model, "field_fill")

	raw := stripFence(strings.TrimSpace(resp.Text()))
	if raw == "" {
		return nil, &FillError{Reason: "empty response"}
	}

	var parsed fillResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &FillError{Reason: "unparseable response", Err: err}
	}

	allowed := make(map[string]bool, len(tmpl.Fields))
	for _, field := range tmpl.Fields {
		allowed[field.Name] = true
	}
	items := make([]FillItem, 0, len(parsed.FieldValues))
	for _, item := range parsed.FieldValues {
		if !allowed[item.FieldName] {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// stripFence removes a surrounding markdown code fence, if present.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
