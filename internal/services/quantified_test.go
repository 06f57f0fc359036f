package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentmatch/cv-pipeline/internal/models"
)

func TestIsQuantified(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Increased revenue by 30%", true},
		{"Saved the company $1.2M annually", true},
		{"Handled 50,000 users per day", true},
		{"Reduced latency from 800ms to 200ms", true},
		{"Achieved 3x faster build times", true},
		{"Ranked top 5 in the regional hackathon", true},
		{"8+ years of backend development", true},
		{"Led a team of 8 engineers", true},
		{"Managed 12 direct reports", true},
		{"Supervised 5 junior developers", true},
		{"Mentored a team of 3", true},
		{"Processed 2 million EUR in transactions", true},
		{"Responsible for backend development", false},
		{"Worked closely with the design team", false},
		{"Maintained the CI pipeline", false},
		{"Managed the migration in phase two", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, isQuantified(tt.text))
		})
	}
}

func TestDetectQuantifiedResults(t *testing.T) {
	cv := &models.StructuredCV{
		WorkExperience: []models.WorkExperience{
			{
				Role: "Engineer",
				Responsibilities: []string{
					"Increased revenue by 30%",
					"Maintained internal tooling",
					"Cut infrastructure costs by $40,000",
				},
			},
		},
		Projects: []models.Project{
			{Name: "Search", Description: "Scaled the index to 10M documents"},
			{Name: "Docs", Description: "Wrote onboarding documentation"},
		},
	}

	count, examples := detectQuantifiedResults(cv)

	assert.Equal(t, 3, count)
	require.Len(t, examples, 3)
	assert.Equal(t, "Increased revenue by 30%", examples[0])
}

func TestDetectQuantifiedResultsCapsExamples(t *testing.T) {
	var responsibilities []string
	for i := 0; i < 8; i++ {
		responsibilities = append(responsibilities, fmt.Sprintf("Improved throughput by %d%%", 10+i))
	}

	cv := &models.StructuredCV{
		WorkExperience: []models.WorkExperience{
			{Role: "Engineer", Responsibilities: responsibilities},
		},
	}

	count, examples := detectQuantifiedResults(cv)

	assert.Equal(t, 8, count)
	assert.Len(t, examples, maxQuantifiedExamples)
}
