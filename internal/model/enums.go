package model

// Stage identifies one of the six pipeline stages.
type Stage string

const (
	StageIngest    Stage = "ingest"
	StageExtract   Stage = "extract"
	StageClassify  Stage = "classify"
	StageNormalize Stage = "normalize"
	StageValidate  Stage = "validate"
	StageRender    Stage = "render"
)

// AllStages returns the stages in pipeline order.
func AllStages() []Stage {
	return []Stage{
		StageIngest,
		StageExtract,
		StageClassify,
		StageNormalize,
		StageValidate,
		StageRender,
	}
}

// HandoffReason categorizes why a handoff was raised.
// These tokens are part of the on-disk artifact contract; renaming one
// requires a schema_version bump.
type HandoffReason string

const (
	ReasonLowConfidence        HandoffReason = "low_confidence"
	ReasonUnknownDocumentType  HandoffReason = "unknown_document_type"
	ReasonOCRRequired          HandoffReason = "ocr_required"
	ReasonMissingRequiredField HandoffReason = "missing_required_field"
	ReasonInvalidInput         HandoffReason = "invalid_input"
	ReasonUnreadableInput      HandoffReason = "unreadable_input"
	ReasonPageLimitExceeded    HandoffReason = "page_limit_exceeded"
)

// HandoffAction is the remediation a handoff asks a reviewer for.
type HandoffAction string

const (
	ActionManualReview              HandoffAction = "manual_review"
	ActionProvideClearerDocument    HandoffAction = "provide_clearer_document"
	ActionProvideMissingInformation HandoffAction = "provide_missing_information"
	ActionFixInput                  HandoffAction = "fix_input"
)

// FieldStatus is the validation verdict for a single template field.
type FieldStatus string

const (
	FieldStatusProposed FieldStatus = "proposed"
	FieldStatusValid    FieldStatus = "valid"
	FieldStatusMissing  FieldStatus = "missing"
)

// ExtractMethod records which extraction path produced the document text.
type ExtractMethod string

const (
	MethodStub      ExtractMethod = "stub"
	MethodTextLayer ExtractMethod = "text_layer"
	MethodVision    ExtractMethod = "vision"
)

// DocTypeUnknown is the fallback document type when classification fails.
// It always has a template (with no fields) regardless of catalog contents.
const DocTypeUnknown = "unknown"

// FillMode selects the normalization strategy.
type FillMode string

const (
	FillModeAuto  FillMode = "auto"
	FillModeLLM   FillMode = "llm"
	FillModeRegex FillMode = "regex"
)

// ValidFillMode reports whether s is a recognized fill mode.
func ValidFillMode(s string) bool {
	switch FillMode(s) {
	case FillModeAuto, FillModeLLM, FillModeRegex:
		return true
	}
	return false
}
