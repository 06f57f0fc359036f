package models

// DimensionScore is one scored quality dimension with its justification.
type DimensionScore struct {
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}

// CVScores is the scorer's output. Every dimension score and the overall score
// are integers in [0,100]; claims in the lists must be attributable to facts in
// the structured CV or the derived features, never to the raw text.
type CVScores struct {
	OverallScore int    `json:"overall_score"`
	Summary      string `json:"summary"`

	Completeness      DimensionScore `json:"completeness"`
	ExperienceQuality DimensionScore `json:"experience_quality"`
	SkillsRelevance   DimensionScore `json:"skills_relevance"`
	ImpactEvidence    DimensionScore `json:"impact_evidence"`
	Clarity           DimensionScore `json:"clarity"`
	Consistency       DimensionScore `json:"consistency"`

	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	RedFlags        []string `json:"red_flags"`
	Recommendations []string `json:"recommendations"`
}

// Dimensions returns the six fixed dimensions keyed by name, for callers that
// iterate rather than address fields.
func (s *CVScores) Dimensions() map[string]DimensionScore {
	return map[string]DimensionScore{
		"completeness":       s.Completeness,
		"experience_quality": s.ExperienceQuality,
		"skills_relevance":   s.SkillsRelevance,
		"impact_evidence":    s.ImpactEvidence,
		"clarity":            s.Clarity,
		"consistency":        s.Consistency,
	}
}
