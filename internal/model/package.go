package model

// SchemaVersion is the artifact schema version written into every package.
const SchemaVersion = "1.0.0"

// FieldProposal is a single claim about a field's value. Proposals are
// immutable once created; corrections append new proposals rather than
// editing old ones.
type FieldProposal struct {
	Source     string  `json:"source"`
	Value      any     `json:"value"` // string, number, bool, or null; scalars only
	Confidence float64 `json:"confidence"`
	Stage      Stage   `json:"stage"`
	CreatedAt  string  `json:"created_at"`
	Notes      string  `json:"notes,omitempty"`
}

// FieldHistory maps field name to its ordered proposal log. Insertion order
// is arrival order and is the evidentiary history: entries are only ever
// appended, never rewritten.
type FieldHistory map[string][]FieldProposal

// Append returns a new FieldHistory with proposal appended to the named
// field's log, creating the log if absent. The receiver is not modified.
func (h FieldHistory) Append(fieldName string, proposal FieldProposal) FieldHistory {
	next := make(FieldHistory, len(h)+1)
	for name, proposals := range h {
		next[name] = append([]FieldProposal(nil), proposals...)
	}
	next[fieldName] = append(next[fieldName], proposal)
	return next
}

// Clone returns a deep copy of the history.
func (h FieldHistory) Clone() FieldHistory {
	if h == nil {
		return nil
	}
	next := make(FieldHistory, len(h))
	for name, proposals := range h {
		next[name] = append([]FieldProposal(nil), proposals...)
	}
	return next
}

// Handoff is an escalation record. It is created unresolved and transitions
// at most once to resolved; the transition never reverses. Blocking handoffs
// make the run unsafe to finalize without human action.
type Handoff struct {
	Stage      Stage         `json:"stage"`
	Reason     HandoffReason `json:"reason"`
	Action     HandoffAction `json:"action"`
	Message    string        `json:"message"`
	FieldName  string        `json:"field_name,omitempty"`
	CreatedAt  string        `json:"created_at"`
	Blocking   bool          `json:"blocking"`
	Resolved   bool          `json:"resolved"`
	ResolvedAt string        `json:"resolved_at,omitempty"`
	Resolution string        `json:"resolution,omitempty"`
	ResolvedBy string        `json:"resolved_by,omitempty"`
}

// Resolve marks the handoff resolved. Resolving an already-resolved handoff
// is a no-op so patch replay stays idempotent.
func (h *Handoff) Resolve(resolution, resolvedBy, resolvedAt string) {
	if h.Resolved {
		return
	}
	h.Resolved = true
	h.Resolution = resolution
	h.ResolvedBy = resolvedBy
	h.ResolvedAt = resolvedAt
}

// Audit is one append-only log entry. Each stage completion emits exactly
// one "completed" entry; branch decisions emit extra entries.
type Audit struct {
	Stage     Stage  `json:"stage"`
	Event     string `json:"event"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"created_at"`
}

// DocumentMetadata holds identity facts derived once at ingest.
type DocumentMetadata struct {
	DocumentID    string `json:"document_id"`
	SourcePath    string `json:"source_path"`
	FileName      string `json:"file_name"`
	FileHash      string `json:"file_hash"`
	FileSizeBytes int64  `json:"file_size_bytes"`
	Extension     string `json:"extension"`
	CreatedAt     string `json:"created_at"`
}

// IngestSection is the ingest stage's output snapshot.
type IngestSection struct {
	Stage         Stage  `json:"stage"`
	OK            bool   `json:"ok"`
	SourcePath    string `json:"source_path"`
	FileHash      string `json:"file_hash"`
	FileSizeBytes int64  `json:"file_size_bytes"`
	MimeType      string `json:"mime_type"`
}

// ExtractSection is the extract stage's output snapshot.
type ExtractSection struct {
	Stage     Stage         `json:"stage"`
	OK        bool          `json:"ok"`
	Text      string        `json:"text"`
	UsedStub  bool          `json:"used_ocr_stub"`
	Method    ExtractMethod `json:"method"`
	Model     string        `json:"model,omitempty"`
	PageCount int           `json:"page_count,omitempty"`
}

// ClassifySection is the classify stage's output snapshot.
type ClassifySection struct {
	Stage        Stage   `json:"stage"`
	OK           bool    `json:"ok"`
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
}

// NormalizeSection holds the field history produced by normalization.
type NormalizeSection struct {
	Stage  Stage        `json:"stage"`
	OK     bool         `json:"ok"`
	Mode   string       `json:"mode,omitempty"`
	Fields FieldHistory `json:"fields"`
}

// ValidateSection is the validate stage's output snapshot.
type ValidateSection struct {
	Stage                 Stage                  `json:"stage"`
	OK                    bool                   `json:"ok"`
	FieldStatus           map[string]FieldStatus `json:"field_status"`
	MissingRequiredFields []string               `json:"missing_required_fields"`
}

// RenderSection is the final human-readable projection of the package.
type RenderSection struct {
	Stage           Stage  `json:"stage"`
	OK              bool   `json:"ok"`
	MarkdownSummary string `json:"markdown_summary"`
}

// ReviewPackage is the root artifact: one section per stage plus the handoff
// and audit logs. The orchestrator constructs exactly one per input document;
// the patch engine clones and amends, never mutating an existing package.
type ReviewPackage struct {
	SchemaVersion string           `json:"schema_version"`
	ReviewID      string           `json:"review_id"`
	Metadata      DocumentMetadata `json:"metadata"`
	Ingest        IngestSection    `json:"ingest"`
	Extract       ExtractSection   `json:"extract"`
	Classify      ClassifySection  `json:"classify"`
	Normalize     NormalizeSection `json:"normalize"`
	Validate      ValidateSection  `json:"validate"`
	Render        RenderSection    `json:"render"`
	Handoffs      []Handoff        `json:"handoffs"`
	Audit         []Audit          `json:"audit"`
}

// Clone returns a structurally independent deep copy of the package.
// Proposal values are scalars, so element copies are sufficient.
func (p *ReviewPackage) Clone() *ReviewPackage {
	next := *p
	next.Normalize.Fields = p.Normalize.Fields.Clone()
	next.Handoffs = make([]Handoff, len(p.Handoffs))
	copy(next.Handoffs, p.Handoffs)
	next.Audit = make([]Audit, len(p.Audit))
	copy(next.Audit, p.Audit)
	if p.Validate.FieldStatus != nil {
		next.Validate.FieldStatus = make(map[string]FieldStatus, len(p.Validate.FieldStatus))
		for name, status := range p.Validate.FieldStatus {
			next.Validate.FieldStatus[name] = status
		}
	}
	next.Validate.MissingRequiredFields = make([]string, len(p.Validate.MissingRequiredFields))
	copy(next.Validate.MissingRequiredFields, p.Validate.MissingRequiredFields)
	return &next
}

// BlockingOpen reports whether any unresolved blocking handoff remains.
func (p *ReviewPackage) BlockingOpen() bool {
	for _, h := range p.Handoffs {
		if h.Blocking && !h.Resolved {
			return true
		}
	}
	return false
}

// OpenHandoffs counts unresolved handoffs.
func (p *ReviewPackage) OpenHandoffs() int {
	open := 0
	for _, h := range p.Handoffs {
		if !h.Resolved {
			open++
		}
	}
	return open
}
