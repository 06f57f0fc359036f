package services

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"talentmatch/cv-pipeline/internal/models"
)

// EvaluateInput names one CV to evaluate: either raw text directly, or a
// stored file to extract text from. EvaluationID links the run to a queued
// job row when the request came through the async API.
type EvaluateInput struct {
	RawText      string
	Filename     string
	FilePath     string
	EvaluationID *uuid.UUID
}

// ResultStore persists a finished evaluation. The pipeline treats persistence
// as best effort: a store failure is logged, never raised.
type ResultStore interface {
	SaveResult(evalID *uuid.UUID, key string, result *models.EvaluationResult) error
}

// EvaluationPipeline runs the full fact-then-judgment sequence: extract the
// structured CV, compute career signals, then score and visually analyze in
// parallel. Extraction and scoring failures abort the run; everything else
// degrades or is recorded in the result.
type EvaluationPipeline interface {
	Evaluate(ctx context.Context, input EvaluateInput) (*models.EvaluationResult, error)
}

type evaluationPipeline struct {
	textExtractor TextExtractionService
	extractor     ExtractorService
	validator     ValidatorService
	scorer        ScorerService
	visual        VisualAnalyzerService
	store         ResultStore
	indexer       ProfileIndexerService

	visualEnabled bool
	indexProfiles bool
}

func NewEvaluationPipeline(
	textExtractor TextExtractionService,
	extractor ExtractorService,
	validator ValidatorService,
	scorer ScorerService,
	visual VisualAnalyzerService,
	store ResultStore,
	indexer ProfileIndexerService,
	visualEnabled bool,
	indexProfiles bool,
) EvaluationPipeline {
	return &evaluationPipeline{
		textExtractor: textExtractor,
		extractor:     extractor,
		validator:     validator,
		scorer:        scorer,
		visual:        visual,
		store:         store,
		indexer:       indexer,
		visualEnabled: visualEnabled,
		indexProfiles: indexProfiles,
	}
}

func (p *evaluationPipeline) Evaluate(ctx context.Context, input EvaluateInput) (*models.EvaluationResult, error) {
	start := time.Now()
	resultID := uuid.New().String()

	log.Printf("🔄 Starting evaluation %s (%s)\n", resultID, describeInput(input))

	rawText := input.RawText
	if strings.TrimSpace(rawText) == "" && input.FilePath != "" {
		text, err := p.textExtractor.ExtractText(input.FilePath)
		if err != nil {
			return nil, &PipelineError{Stage: StageTextExtraction, Err: err}
		}
		rawText = text
	}

	// Stage 1: fact extraction.
	cv, err := p.extractor.Extract(ctx, rawText)
	if err != nil {
		return nil, &PipelineError{Stage: StageExtraction, Err: err}
	}
	log.Printf("✅ Extraction done for %s: %d roles, %d skills\n", resultID, len(cv.WorkExperience), cv.SkillCount())

	// Stage 2: deterministic validation. Never fails; problems become
	// recorded date issues and warnings.
	features := p.validator.Validate(cv)

	// Stages 3 and 4 share the same inputs and run concurrently. Scoring
	// failure aborts the run; visual analysis only ever degrades.
	var scores *models.CVScores
	var visual *models.VisualAnalysis

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := p.scorer.Score(groupCtx, cv, features)
		if err != nil {
			return err
		}
		scores = s
		return nil
	})
	// Plain text and other non-renderable formats skip the visual stage
	// entirely (nil analysis). The degraded non-nil default is reserved for
	// documents that should have rendered but failed.
	ext := strings.ToLower(filepath.Ext(input.FilePath))
	if p.visualEnabled && input.FilePath != "" && RenderableExtension(ext) {
		g.Go(func() error {
			visual = p.visual.Analyze(groupCtx, input.FilePath, ext)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &PipelineError{Stage: StageScoring, Err: err}
	}
	log.Printf("✅ Scoring done for %s: overall %d\n", resultID, scores.OverallScore)

	result := &models.EvaluationResult{
		ID:               resultID,
		Filename:         input.Filename,
		RawText:          rawText,
		StructuredCV:     cv,
		DerivedFeatures:  features,
		Scores:           scores,
		VisualAnalysis:   visual,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		Warnings:         collectWarnings(cv, features, visual),
		CreatedAt:        time.Now().UTC(),
	}

	// Persistence and indexing are side effects of a finished evaluation,
	// not part of it. Failures are logged and the result still returned.
	if p.store != nil {
		if err := p.store.SaveResult(input.EvaluationID, resultKey(input, resultID), result); err != nil {
			log.Printf("❌ Failed to persist evaluation %s: %v\n", resultID, err)
		}
	}
	if p.indexProfiles && p.indexer != nil {
		if err := p.indexer.IndexCandidate(ctx, resultID, cv); err != nil {
			log.Printf("❌ Failed to index candidate profile %s: %v\n", resultID, err)
		}
	}

	log.Printf("✅ Evaluation %s completed in %dms\n", resultID, result.ProcessingTimeMs)
	return result, nil
}

// collectWarnings merges per-stage warnings into the result-level list.
func collectWarnings(cv *models.StructuredCV, features *models.DerivedFeatures, visual *models.VisualAnalysis) []string {
	warnings := []string{}
	warnings = append(warnings, cv.ExtractionWarnings...)
	warnings = append(warnings, features.Warnings...)
	if visual != nil && strings.HasPrefix(visual.ImageQualityNotes, "Unable to analyze document visuals") {
		warnings = append(warnings, "visual analysis degraded: "+visual.ImageQualityNotes)
	}
	return warnings
}

// resultKey derives the stable storage key for a run.
func resultKey(input EvaluateInput, resultID string) string {
	if input.Filename != "" {
		base := strings.TrimSuffix(input.Filename, filepath.Ext(input.Filename))
		return fmt.Sprintf("%s_%d", base, time.Now().Unix())
	}
	return resultID
}

func describeInput(input EvaluateInput) string {
	if input.FilePath != "" {
		return "file " + filepath.Base(input.FilePath)
	}
	return "raw text"
}
