package services

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"talentmatch/cv-pipeline/internal/config"
)

// GeminiService is the concrete provider behind the TextGenerator,
// VisionGenerator, and Embedder capabilities. Each call carries its own
// timeout: the model boundary is the only place real-world latency and hangs
// can occur.
type GeminiService interface {
	TextGenerator
	VisionGenerator
	Embedder
}

type geminiService struct {
	client      *genai.Client
	textModel   string
	visionModel string
	embedModel  string
	callTimeout time.Duration
}

func NewGeminiService(cfg config.GeminiConfig, callTimeout time.Duration) (GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:      client,
		textModel:   cfg.TextModel,
		visionModel: cfg.VisionModel,
		embedModel:  cfg.EmbedModel,
		callTimeout: callTimeout,
	}, nil
}

// GenerateText implements TextGenerator.
func (g *geminiService) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(
		timeoutCtx,
		g.textModel,
		genai.Text(prompt),
		g.generateConfig(system),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	return responseText(resp)
}

// GenerateVision implements VisionGenerator: one PNG part per rendered page
// plus the text prompt, sent as a single user turn.
func (g *geminiService) GenerateVision(ctx context.Context, system, prompt string, images [][]byte) (string, error) {
	if len(images) == 0 {
		return "", fmt.Errorf("no images provided")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img, "image/png"))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(
		timeoutCtx,
		g.visionModel,
		contents,
		g.generateConfig(system),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate vision analysis: %w", err)
	}

	return responseText(resp)
}

// GenerateEmbedding implements Embedder.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Stay under the embedding model's input limit.
	if len(text) > 40000 {
		text = text[:40000]
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	result, err := g.client.Models.EmbedContent(timeoutCtx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

func (g *geminiService) generateConfig(system string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		// Low temperature keeps extraction and scoring repeatable on
		// identical input.
		Temperature: genai.Ptr(float32(0.1)),
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return cfg
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}
