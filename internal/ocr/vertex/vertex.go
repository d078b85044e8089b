// Package vertex transcribes page images with a Gemini model on Vertex AI.
package vertex

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/Lllllllleong/tmpcompliance/internal/gcp"
	"github.com/Lllllllleong/tmpcompliance/internal/ocr"
)

// ContentGenerator is the slice of *genai.GenerativeModel the engine uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Engine implements ocr.Engine on top of a generative model.
type Engine struct {
	model ContentGenerator
}

// New wraps the transcriber model of a VertexClient.
func New(client *gcp.VertexClient) *Engine {
	return &Engine{model: client.TranscriberModel}
}

// NewWithGenerator injects a generator, used by tests.
func NewWithGenerator(model ContentGenerator) *Engine {
	return &Engine{model: model}
}

func (e *Engine) Name() string { return "vertex" }

var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot answer",
	"i cannot provide",
	"as a large language model",
}

// Recognize sends one page image to the model and returns its transcription.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	logCtx := slog.With("inputId", in.ID, "page", in.PageIndex)

	resp, err := e.model.GenerateContent(ctx, genai.ImageData("png", in.Image), genai.Text(gcp.TranscriberUserPrompt))
	if err != nil {
		logCtx.Error("Vertex AI call failed.", "error", err)
		return ocr.Result{}, fmt.Errorf("failed to generate content from gemini: %w", err)
	}

	text := extractText(logCtx, resp)

	// A refusal would otherwise be scored as page text.
	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			logCtx.Error("Gemini response indicates refusal.", "response", text)
			return ocr.Result{}, fmt.Errorf("gemini response indicates refusal for page %d", in.PageIndex)
		}
	}
	if text == "" {
		logCtx.Warn("No text extracted from response. Treating as empty page.")
	}
	return ocr.Result{InputID: in.ID, PlainText: text}, nil
}

// extractText concatenates the text parts of the first candidate.
func extractText(logCtx *slog.Logger, resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}

	var sb strings.Builder
	var textPartsFound int
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
			textPartsFound++
		}
	}
	if textPartsFound > 1 {
		logCtx.Warn("Gemini response contained multiple text parts; they have been concatenated.", "parts", textPartsFound)
	}

	content := strings.TrimSpace(sb.String())
	content = strings.TrimPrefix(content, "```text")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
