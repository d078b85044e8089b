package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

// DefaultVertexModel is used when VERTEX_MODEL is not set.
const DefaultVertexModel = "gemini-1.5-pro"

// --- Transcriber Model Prompts ---
const TranscriberSystemPrompt = "You are an optical character recognition engine. You transcribe the text visible in a scanned document page exactly as printed. You never summarize, translate, or comment."
const TranscriberUserPrompt = `You will be provided with an image of a single document page.

Transcribe every piece of text visible on the page, in natural reading order, as plain text.
Keep standard references, part numbers and abbreviations exactly as printed (for example "AS 1742.3" or "TTM Part 3").
Include text from tables, diagrams, stamps and sign illustrations.
Do not use markdown, do not describe images, and do not add any text that is not on the page.
If the page contains no text, return an empty response.`

// VertexClient holds the generative model used for page transcription.
type VertexClient struct {
	TranscriberModel *genai.GenerativeModel
	baseClient       *genai.Client
}

// NewVertexClient creates a new client with the transcriber model configured.
func NewVertexClient(ctx context.Context, projectID, region, modelName string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}
	if modelName == "" {
		modelName = DefaultVertexModel
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	transcriberModel := baseClient.GenerativeModel(modelName)
	transcriberModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(TranscriberSystemPrompt)},
	}
	transcriberModel.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "text/plain",
		Temperature:      genai.Ptr[float32](0.0),
	}

	return &VertexClient{
		TranscriberModel: transcriberModel,
		baseClient:       baseClient,
	}, nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
