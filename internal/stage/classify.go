package stage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sells-group/docreview-cli/internal/model"
	"github.com/sells-group/docreview-cli/internal/template"
)

// Classification confidence thresholds. Below the floor the document type is
// forced to "unknown"; below the hard floor the handoff blocks finalization.
const (
	classifyFloor     = 0.34
	classifyConfident = 0.67
	classifyHardFloor = 0.10
)

// docTypeKeywords seeds the keyword map with curated terms per known
// document type. Template-derived keywords are merged on top.
var docTypeKeywords = map[string][]string{
	"paystub":              {"paystub", "gross pay", "net pay", "pay period"},
	"t4":                   {"t4", "statement of remuneration paid"},
	"notice_of_assessment": {"notice of assessment", "tax year"},
	"bank_statement":       {"bank statement", "account number", "opening balance"},
	"government_id":        {"driver", "passport", "issued"},
}

// buildKeywordMap merges the curated keywords with template-derived ones:
// the spaced type name, display name, verbatim field names, and synonyms,
// all lower-cased. Field names are kept verbatim because document labels
// usually carry the underscore form ("net_pay: ...").
func buildKeywordMap(catalog template.Catalog) map[string]map[string]bool {
	keywordMap := make(map[string]map[string]bool, len(docTypeKeywords)+len(catalog))
	for docType, keywords := range docTypeKeywords {
		set := make(map[string]bool, len(keywords))
		for _, keyword := range keywords {
			set[keyword] = true
		}
		keywordMap[docType] = set
	}
	for docType, tmpl := range catalog {
		key := strings.ToLower(docType)
		set := keywordMap[key]
		if set == nil {
			set = make(map[string]bool)
			keywordMap[key] = set
		}
		set[strings.ReplaceAll(key, "_", " ")] = true
		set[strings.ToLower(tmpl.DisplayName)] = true
		for _, field := range tmpl.Fields {
			set[strings.ToLower(field.Name)] = true
			for _, synonym := range field.Synonyms {
				set[strings.ToLower(synonym)] = true
			}
		}
	}
	return keywordMap
}

// Classify scores the text against each candidate's keyword set and picks
// the argmax. Candidates are scored in sorted doc-type order, so ties break
// toward the lexicographically first type; that ordering is an
// implementation detail, not a stable guarantee across template-set changes.
func Classify(text string, catalog template.Catalog, createdAt string) (model.ClassifySection, []model.Handoff) {
	lowerText := strings.ToLower(text)
	keywordMap := buildKeywordMap(catalog)

	docTypes := make([]string, 0, len(keywordMap))
	for docType := range keywordMap {
		docTypes = append(docTypes, docType)
	}
	sort.Strings(docTypes)

	bestType := model.DocTypeUnknown
	bestScore := -1.0
	for _, docType := range docTypes {
		keywords := keywordMap[docType]
		hits := 0
		for keyword := range keywords {
			if strings.Contains(lowerText, keyword) {
				hits++
			}
		}
		size := len(keywords)
		if size == 0 {
			size = 1
		}
		score := float64(hits) / float64(size)
		if score > bestScore {
			bestScore = score
			bestType = docType
		}
	}
	if bestScore < 0 {
		bestScore = 0
	}

	var handoffs []model.Handoff
	switch {
	case bestScore < classifyFloor:
		bestType = model.DocTypeUnknown
		handoffs = append(handoffs, model.Handoff{
			Stage:     model.StageClassify,
			Reason:    model.ReasonUnknownDocumentType,
			Action:    model.ActionManualReview,
			Message:   "Unable to classify document with sufficient confidence.",
			CreatedAt: createdAt,
			Blocking:  bestScore < classifyHardFloor,
		})
	case bestScore < classifyConfident:
		handoffs = append(handoffs, model.Handoff{
			Stage:     model.StageClassify,
			Reason:    model.ReasonLowConfidence,
			Action:    model.ActionManualReview,
			Message:   fmt.Sprintf("Classification confidence is low (%.2f).", bestScore),
			CreatedAt: createdAt,
		})
	}

	section := model.ClassifySection{
		Stage:        model.StageClassify,
		OK:           true,
		DocumentType: bestType,
		Confidence:   bestScore,
	}
	return section, handoffs
}
