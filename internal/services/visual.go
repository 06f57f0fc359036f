package services

import (
	"context"
	"encoding/json"
	"log"

	"talentmatch/cv-pipeline/internal/models"
)

// VisualAnalyzerService assesses document presentation from rendered page
// images. It is a supplementary signal: Analyze never returns an error, and
// its result is never nil. Any failure along the way degrades to a default
// analysis so the rest of the evaluation always completes.
type VisualAnalyzerService interface {
	Analyze(ctx context.Context, filePath, ext string) *models.VisualAnalysis
}

type visualAnalyzerService struct {
	vision        VisionGenerator
	renderer      PageRenderer
	promptBuilder *PromptBuilder
}

func NewVisualAnalyzerService(vision VisionGenerator, renderer PageRenderer) VisualAnalyzerService {
	return &visualAnalyzerService{
		vision:        vision,
		renderer:      renderer,
		promptBuilder: NewPromptBuilder(),
	}
}

func (v *visualAnalyzerService) Analyze(ctx context.Context, filePath, ext string) *models.VisualAnalysis {
	if filePath == "" || !RenderableExtension(ext) {
		return models.DegradedVisualAnalysis("document format does not support page rendering")
	}

	pages, err := v.renderer.RenderPages(filePath)
	if err != nil {
		log.Printf("❌ Visual analysis: page rendering failed: %v", err)
		return models.DegradedVisualAnalysis("page rendering failed")
	}

	response, err := v.vision.GenerateVision(ctx,
		v.promptBuilder.VisualSystemInstruction(),
		v.promptBuilder.BuildVisualPrompt(len(pages)),
		pages,
	)
	if err != nil {
		log.Printf("❌ Visual analysis: vision model call failed: %v", err)
		return models.DegradedVisualAnalysis("vision model call failed")
	}

	payload, err := ExtractJSONObject(response)
	if err != nil {
		log.Printf("❌ Visual analysis: malformed model response: %v", err)
		return models.DegradedVisualAnalysis("vision model returned a malformed response")
	}

	var analysis models.VisualAnalysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		log.Printf("❌ Visual analysis: malformed model response: %v", err)
		return models.DegradedVisualAnalysis("vision model returned a malformed response")
	}

	normalizeVisualAnalysis(&analysis)
	return &analysis
}

func normalizeVisualAnalysis(a *models.VisualAnalysis) {
	if a.VisualStrengths == nil {
		a.VisualStrengths = []string{}
	}
	if a.VisualWeaknesses == nil {
		a.VisualWeaknesses = []string{}
	}
	if a.VisualRecommendations == nil {
		a.VisualRecommendations = []string{}
	}
}
