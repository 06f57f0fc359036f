package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentmatch/cv-pipeline/internal/models"
)

const scoringResponse = `{
  "overall_score": 78,
  "summary": "Solid profile with quantified impact.",
  "completeness": {"score": 85, "justification": "All major sections present."},
  "experience_quality": {"score": 75, "justification": "Steady progression across two roles."},
  "skills_relevance": {"score": 80, "justification": "Python and SQL listed under Languages."},
  "impact_evidence": {"score": 70, "justification": "Two quantified achievements found."},
  "clarity": {"score": 80, "justification": "Well-ordered entries."},
  "consistency": {"score": 90, "justification": "No timeline gaps or overlaps."},
  "strengths": ["Quantified results"],
  "weaknesses": [],
  "red_flags": [],
  "recommendations": ["Add certifications"]
}`

func minimalScoringInputs() (*models.StructuredCV, *models.DerivedFeatures) {
	cv := &models.StructuredCV{
		PersonalInfo: models.PersonalInfo{Name: "Ada", Email: "ada@example.com"},
	}
	features := &models.DerivedFeatures{HasContactInfo: true}
	return cv, features
}

func TestScore(t *testing.T) {
	llm := &fakeTextGenerator{response: scoringResponse}
	scorer := NewScorerService(llm)

	cv, features := minimalScoringInputs()
	scores, err := scorer.Score(context.Background(), cv, features)
	require.NoError(t, err)

	assert.Equal(t, 78, scores.OverallScore)
	assert.Equal(t, 85, scores.Completeness.Score)
	assert.Equal(t, 90, scores.Consistency.Score)
	assert.Equal(t, []string{"Quantified results"}, scores.Strengths)
	assert.NotNil(t, scores.Weaknesses)

	// The scorer must see structured inputs, never the raw CV text.
	assert.Contains(t, llm.lastPrompt, `"ada@example.com"`)

	dims := scores.Dimensions()
	require.Len(t, dims, 6)
	for name, dim := range dims {
		assert.GreaterOrEqual(t, dim.Score, 0, name)
		assert.LessOrEqual(t, dim.Score, 100, name)
	}
}

func TestScoreClampsOutOfRange(t *testing.T) {
	response := `{
  "overall_score": 140,
  "summary": "",
  "completeness": {"score": -5, "justification": ""},
  "experience_quality": {"score": 50, "justification": ""},
  "skills_relevance": {"score": 50, "justification": ""},
  "impact_evidence": {"score": 50, "justification": ""},
  "clarity": {"score": 50, "justification": ""},
  "consistency": {"score": 50, "justification": ""}
}`
	scorer := NewScorerService(&fakeTextGenerator{response: response})

	cv, features := minimalScoringInputs()
	scores, err := scorer.Score(context.Background(), cv, features)
	require.NoError(t, err)

	assert.Equal(t, 100, scores.OverallScore)
	assert.Equal(t, 0, scores.Completeness.Score)
}

func TestScoreMissingDimension(t *testing.T) {
	response := `{"overall_score": 70, "summary": "partial"}`
	scorer := NewScorerService(&fakeTextGenerator{response: response})

	cv, features := minimalScoringInputs()
	_, err := scorer.Score(context.Background(), cv, features)
	require.Error(t, err)

	var scoringErr *ScoringError
	require.ErrorAs(t, err, &scoringErr)
	assert.ErrorContains(t, err, "completeness.score")
}

func TestScoreNilInputs(t *testing.T) {
	scorer := NewScorerService(&fakeTextGenerator{response: scoringResponse})

	_, err := scorer.Score(context.Background(), nil, nil)
	require.Error(t, err)

	var scoringErr *ScoringError
	assert.ErrorAs(t, err, &scoringErr)
}
