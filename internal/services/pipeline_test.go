package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentmatch/cv-pipeline/internal/models"
)

// routingTextGenerator serves both text stages, keyed off the system
// instruction, the way one provider client does in production.
type routingTextGenerator struct {
	extractionResponse string
	scoringResponse    string
	scoringErr         error
}

func (r *routingTextGenerator) GenerateText(_ context.Context, system, _ string) (string, error) {
	if strings.Contains(system, "fact extractor") {
		return r.extractionResponse, nil
	}
	if r.scoringErr != nil {
		return "", r.scoringErr
	}
	return r.scoringResponse, nil
}

type fakeFileTextExtractor struct {
	text string
	err  error
}

func (f *fakeFileTextExtractor) ExtractText(string) (string, error) {
	return f.text, f.err
}

type capturingStore struct {
	evalID *uuid.UUID
	key    string
	result *models.EvaluationResult
	err    error
}

func (c *capturingStore) SaveResult(evalID *uuid.UUID, key string, result *models.EvaluationResult) error {
	c.evalID = evalID
	c.key = key
	c.result = result
	return c.err
}

const pipelineExtractionResponse = `{
  "personal_info": {"name": "Ada Lovelace", "email": "ada@example.com", "phone": "", "location": "", "links": [], "evidence_quote": "Ada Lovelace, ada@example.com"},
  "professional_summary": "Data engineer.",
  "work_experience": [
    {"role": "Data Engineer", "company": "Numera", "start_date": "2022-03", "end_date": "", "is_current": true, "location": "", "responsibilities": ["Reduced query latency by 40%"], "evidence_quote": "Data Engineer, Numera, 2022-03 - Present"}
  ],
  "education": [],
  "skills": [{"category": "Programming", "skills": ["Python", "SQL"]}],
  "projects": [],
  "certifications": [],
  "languages": [],
  "extraction_warnings": []
}`

func newTestPipeline(llm TextGenerator, visual VisualAnalyzerService, store ResultStore, visualEnabled bool) EvaluationPipeline {
	return NewEvaluationPipeline(
		&fakeFileTextExtractor{text: "Ada Lovelace, ada@example.com ..."},
		NewExtractorService(llm),
		NewValidatorService(),
		NewScorerService(llm),
		visual,
		store,
		nil,
		visualEnabled,
		false,
	)
}

func TestEvaluateRawText(t *testing.T) {
	llm := &routingTextGenerator{
		extractionResponse: pipelineExtractionResponse,
		scoringResponse:    scoringResponse,
	}
	pipeline := newTestPipeline(llm, nil, nil, false)

	result, err := pipeline.Evaluate(context.Background(), EvaluateInput{
		RawText: "Ada Lovelace, ada@example.com. Data Engineer at Numera since 2022-03. Skills: Python, SQL.",
	})
	require.NoError(t, err)

	require.NotNil(t, result.StructuredCV)
	require.NotNil(t, result.DerivedFeatures)
	require.NotNil(t, result.Scores)
	assert.Nil(t, result.VisualAnalysis)

	features := result.DerivedFeatures
	assert.True(t, features.HasExperience)
	assert.True(t, features.HasSkills)
	assert.Equal(t, 2, features.SkillsCount)
	assert.True(t, features.HasQuantifiedResults)

	assert.GreaterOrEqual(t, result.Scores.OverallScore, 0)
	assert.LessOrEqual(t, result.Scores.OverallScore, 100)

	assert.NotEmpty(t, result.ID)
	assert.NotNil(t, result.Warnings)
	assert.False(t, result.CreatedAt.IsZero())
}

func TestEvaluateExtractsTextFromFile(t *testing.T) {
	llm := &routingTextGenerator{
		extractionResponse: pipelineExtractionResponse,
		scoringResponse:    scoringResponse,
	}
	pipeline := newTestPipeline(llm, nil, nil, false)

	result, err := pipeline.Evaluate(context.Background(), EvaluateInput{
		Filename: "ada.pdf",
		FilePath: "/tmp/uploads/ada.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace, ada@example.com ...", result.RawText)
}

func TestEvaluateTextExtractionFailure(t *testing.T) {
	pipeline := NewEvaluationPipeline(
		&fakeFileTextExtractor{err: errors.New("unreadable file")},
		NewExtractorService(&fakeTextGenerator{}),
		NewValidatorService(),
		NewScorerService(&fakeTextGenerator{}),
		nil, nil, nil, false, false,
	)

	_, err := pipeline.Evaluate(context.Background(), EvaluateInput{FilePath: "/tmp/bad.pdf"})
	require.Error(t, err)

	var pipelineErr *PipelineError
	require.ErrorAs(t, err, &pipelineErr)
	assert.Equal(t, StageTextExtraction, pipelineErr.Stage)
}

func TestEvaluateScoringFailureIsFatal(t *testing.T) {
	llm := &routingTextGenerator{
		extractionResponse: pipelineExtractionResponse,
		scoringErr:         errors.New("model unavailable"),
	}
	pipeline := newTestPipeline(llm, nil, nil, false)

	_, err := pipeline.Evaluate(context.Background(), EvaluateInput{RawText: "some cv"})
	require.Error(t, err)

	var pipelineErr *PipelineError
	require.ErrorAs(t, err, &pipelineErr)
	assert.Equal(t, StageScoring, pipelineErr.Stage)

	var scoringErr *ScoringError
	assert.ErrorAs(t, err, &scoringErr)
}

func TestEvaluateVisualFailureDoesNotAbort(t *testing.T) {
	llm := &routingTextGenerator{
		extractionResponse: pipelineExtractionResponse,
		scoringResponse:    scoringResponse,
	}
	visual := NewVisualAnalyzerService(
		&fakeVisionGenerator{err: errors.New("vision down")},
		&fakeRenderer{pages: [][]byte{{0x89}}},
	)
	pipeline := newTestPipeline(llm, visual, nil, true)

	result, err := pipeline.Evaluate(context.Background(), EvaluateInput{
		Filename: "ada.pdf",
		FilePath: "/tmp/uploads/ada.pdf",
	})
	require.NoError(t, err)

	require.NotNil(t, result.VisualAnalysis)
	assert.Contains(t, result.VisualAnalysis.ImageQualityNotes, "Unable to analyze document visuals")

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "visual analysis degraded") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestEvaluateSkipsVisualForPlainText(t *testing.T) {
	llm := &routingTextGenerator{
		extractionResponse: pipelineExtractionResponse,
		scoringResponse:    scoringResponse,
	}
	visual := NewVisualAnalyzerService(
		&fakeVisionGenerator{response: visualResponse},
		&fakeRenderer{pages: [][]byte{{0x89}}},
	)
	pipeline := newTestPipeline(llm, visual, nil, true)

	result, err := pipeline.Evaluate(context.Background(), EvaluateInput{
		Filename: "ada.txt",
		FilePath: "/tmp/uploads/ada.txt",
	})
	require.NoError(t, err)

	// A format with no layout to assess is skipped, not degraded.
	assert.Nil(t, result.VisualAnalysis)
	for _, w := range result.Warnings {
		assert.NotContains(t, w, "visual analysis degraded")
	}
}

func TestEvaluatePersistsResult(t *testing.T) {
	llm := &routingTextGenerator{
		extractionResponse: pipelineExtractionResponse,
		scoringResponse:    scoringResponse,
	}
	store := &capturingStore{}
	pipeline := newTestPipeline(llm, nil, store, false)

	evalID := uuid.New()
	result, err := pipeline.Evaluate(context.Background(), EvaluateInput{
		RawText:      "some cv",
		EvaluationID: &evalID,
	})
	require.NoError(t, err)

	require.NotNil(t, store.result)
	assert.Equal(t, result.ID, store.result.ID)
	require.NotNil(t, store.evalID)
	assert.Equal(t, evalID, *store.evalID)
	assert.NotEmpty(t, store.key)
}

func TestEvaluateStoreFailureIsNotFatal(t *testing.T) {
	llm := &routingTextGenerator{
		extractionResponse: pipelineExtractionResponse,
		scoringResponse:    scoringResponse,
	}
	store := &capturingStore{err: errors.New("database down")}
	pipeline := newTestPipeline(llm, nil, store, false)

	result, err := pipeline.Evaluate(context.Background(), EvaluateInput{RawText: "some cv"})
	require.NoError(t, err)
	assert.NotNil(t, result.Scores)
}
