package models

// VisualAnalysis is the optional layout/typography assessment produced by the
// vision model over rendered page images. It describes document structure only,
// never candidate quality. Absence (nil) means the stage was skipped; a
// degraded instance with ImageQualityNotes set means the stage was attempted
// and failed.
type VisualAnalysis struct {
	VisualStrengths       []string `json:"visual_strengths"`
	VisualWeaknesses      []string `json:"visual_weaknesses"`
	VisualRecommendations []string `json:"visual_recommendations"`

	LayoutAssessment      *string `json:"layout_assessment"`
	TypographyAssessment  *string `json:"typography_assessment"`
	ReadabilityAssessment *string `json:"readability_assessment"`

	ImageQualityNotes string `json:"image_quality_notes"`
}

// DegradedVisualAnalysis is the default returned when rendering or the vision
// call fails. Empty lists, nil assessments, explanatory notes.
func DegradedVisualAnalysis(reason string) *VisualAnalysis {
	return &VisualAnalysis{
		VisualStrengths:       []string{},
		VisualWeaknesses:      []string{},
		VisualRecommendations: []string{},
		ImageQualityNotes:     "Unable to analyze document visuals: " + reason,
	}
}
