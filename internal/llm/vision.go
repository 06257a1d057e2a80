// Package llm implements the model-backed collaborators of the review
// pipeline: vision text extraction and schema-constrained field fill. Both
// are required to fail empty or typed rather than fabricate content.
package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/docreview-cli/pkg/anthropic"
)

const visionPrompt = "Extract all visible document text. Preserve line breaks and key-value structure. " +
	"Do not summarize or infer missing values."

// VisionExtractor runs vision OCR over page images.
type VisionExtractor struct {
	client anthropic.Client
	model  string
}

// NewVisionExtractor creates a VisionExtractor bound to a model.
func NewVisionExtractor(client anthropic.Client, model string) *VisionExtractor {
	return &VisionExtractor{client: client, model: model}
}

// Model returns the model ID the extractor calls.
func (v *VisionExtractor) Model() string { return v.model }

// Extract sends the page images in one message and returns the transcribed
// text. No images or an empty transcription yields an empty string.
func (v *VisionExtractor) Extract(ctx context.Context, images [][]byte) (string, error) {
	if len(images) == 0 {
		return "", nil
	}

	content := make([]anthropic.ContentBlock, 0, len(images)+1)
	content = append(content, anthropic.ContentBlock{Type: "text", Text: visionPrompt})
	for _, image := range images {
		content = append(content, anthropic.ContentBlock{Type: "image", Image: image})
	}

	resp, err := v.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     v.model,
		MaxTokens: 4096,
		Messages:  []anthropic.Message{{Role: "user", Content: content}},
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: vision extract")
	}
	resp.Usage.Log(v.model, "vision_extract")
	return strings.TrimSpace(resp.Text()), nil
}
