package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"talentmatch/cv-pipeline/internal/models"
)

// ScorerService turns the structured CV plus the computed career signals into
// dimension scores. It never sees the raw text, so every score is traceable to
// a named fact. Failures are fatal and surface as *ScoringError; no retry.
type ScorerService interface {
	Score(ctx context.Context, cv *models.StructuredCV, features *models.DerivedFeatures) (*models.CVScores, error)
}

type scorerService struct {
	llm           TextGenerator
	promptBuilder *PromptBuilder
}

func NewScorerService(llm TextGenerator) ScorerService {
	return &scorerService{
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
	}
}

// requiredScoreFields must all be present in the model payload; a payload
// missing any of them is malformed output, not a low score.
var requiredScoreFields = []string{
	"overall_score",
	"completeness.score",
	"experience_quality.score",
	"skills_relevance.score",
	"impact_evidence.score",
	"clarity.score",
	"consistency.score",
}

func (s *scorerService) Score(ctx context.Context, cv *models.StructuredCV, features *models.DerivedFeatures) (*models.CVScores, error) {
	if cv == nil || features == nil {
		return nil, &ScoringError{Reason: "missing structured inputs"}
	}

	cvJSON, err := json.Marshal(cv)
	if err != nil {
		return nil, &ScoringError{Reason: "failed to encode structured CV", Err: err}
	}
	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return nil, &ScoringError{Reason: "failed to encode derived features", Err: err}
	}

	response, err := s.llm.GenerateText(ctx,
		s.promptBuilder.ScoringSystemInstruction(),
		s.promptBuilder.BuildScoringPrompt(string(cvJSON), string(featuresJSON)),
	)
	if err != nil {
		return nil, &ScoringError{Reason: "model call failed", Err: err}
	}

	payload, err := ExtractJSONObject(response)
	if err != nil {
		return nil, &ScoringError{Reason: "malformed scoring payload", Err: err}
	}

	for _, field := range requiredScoreFields {
		if !gjson.Get(payload, field).Exists() {
			return nil, &ScoringError{Reason: fmt.Sprintf("scoring payload missing %q", field)}
		}
	}

	var scores models.CVScores
	if err := json.Unmarshal([]byte(payload), &scores); err != nil {
		return nil, &ScoringError{Reason: "malformed scoring payload", Err: err}
	}

	clampScores(&scores)
	return &scores, nil
}

// clampScores enforces the [0,100] contract at the boundary instead of
// trusting the model's arithmetic.
func clampScores(s *models.CVScores) {
	s.OverallScore = clampScore(s.OverallScore)
	s.Completeness.Score = clampScore(s.Completeness.Score)
	s.ExperienceQuality.Score = clampScore(s.ExperienceQuality.Score)
	s.SkillsRelevance.Score = clampScore(s.SkillsRelevance.Score)
	s.ImpactEvidence.Score = clampScore(s.ImpactEvidence.Score)
	s.Clarity.Score = clampScore(s.Clarity.Score)
	s.Consistency.Score = clampScore(s.Consistency.Score)

	if s.Strengths == nil {
		s.Strengths = []string{}
	}
	if s.Weaknesses == nil {
		s.Weaknesses = []string{}
	}
	if s.RedFlags == nil {
		s.RedFlags = []string{}
	}
	if s.Recommendations == nil {
		s.Recommendations = []string{}
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
