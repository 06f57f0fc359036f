package services

import "context"

// Capability interfaces for the external generative models. The pipeline
// depends on these, not on a concrete provider, so stages can be tested with
// fakes and the text provider can be swapped without touching pipeline code.

// TextGenerator is the language-model call capability: send a system
// instruction plus a user prompt, receive free text that should contain a JSON
// payload somewhere inside it.
type TextGenerator interface {
	GenerateText(ctx context.Context, system, prompt string) (string, error)
}

// VisionGenerator is the vision-capable model call capability: same contract
// as TextGenerator plus one PNG image per rendered page.
type VisionGenerator interface {
	GenerateVision(ctx context.Context, system, prompt string, images [][]byte) (string, error)
}

// Embedder produces embeddings for the candidate-profile index.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}
