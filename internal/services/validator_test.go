package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentmatch/cv-pipeline/internal/models"
)

func newTestValidator() *validatorService {
	return &validatorService{now: func() time.Time { return testNow }}
}

func job(role, company, start, end string, current bool) models.WorkExperience {
	return models.WorkExperience{
		Role:      role,
		Company:   company,
		StartDate: start,
		EndDate:   end,
		IsCurrent: current,
	}
}

func TestValidateCompleteness(t *testing.T) {
	v := newTestValidator()

	t.Run("empty CV misses every section", func(t *testing.T) {
		f := v.Validate(&models.StructuredCV{})

		assert.False(t, f.HasContactInfo)
		assert.False(t, f.HasSummary)
		assert.False(t, f.HasExperience)
		assert.False(t, f.HasEducation)
		assert.False(t, f.HasSkills)
		assert.ElementsMatch(t, []string{
			"contact_info", "professional_summary", "work_experience", "education", "skills",
		}, f.MissingSections)
	})

	t.Run("missing sections mirror the flags", func(t *testing.T) {
		f := v.Validate(&models.StructuredCV{
			PersonalInfo:        models.PersonalInfo{Email: "ada@example.com"},
			ProfessionalSummary: "Backend engineer.",
			WorkExperience:      []models.WorkExperience{job("Engineer", "Acme", "2020-01", "2022-01", false)},
			Skills:              []models.SkillCategory{{Category: "Languages", Skills: []string{"Python", "SQL"}}},
		})

		assert.True(t, f.HasContactInfo)
		assert.True(t, f.HasSummary)
		assert.True(t, f.HasExperience)
		assert.False(t, f.HasEducation)
		assert.True(t, f.HasSkills)
		assert.Equal(t, []string{"education"}, f.MissingSections)
		assert.Equal(t, 2, f.SkillsCount)
	})

	t.Run("counts are never negative", func(t *testing.T) {
		f := v.Validate(&models.StructuredCV{})

		assert.GreaterOrEqual(t, f.ExperienceCount, 0)
		assert.GreaterOrEqual(t, f.SkillsCount, 0)
		assert.GreaterOrEqual(t, f.TotalExperienceMonths, 0)
		assert.GreaterOrEqual(t, f.QuantifiedResultsCount, 0)
	})
}

func TestValidateTimelineGaps(t *testing.T) {
	v := newTestValidator()

	t.Run("gap above threshold is reported", func(t *testing.T) {
		f := v.Validate(&models.StructuredCV{
			WorkExperience: []models.WorkExperience{
				job("Dev", "Alpha", "2020-01", "2021-01", false),
				job("Dev", "Beta", "2021-09", "2023-01", false),
			},
		})

		require.Len(t, f.TimelineGaps, 1)
		gap := f.TimelineGaps[0]
		assert.Equal(t, "2021-01", gap.Start)
		assert.Equal(t, "2021-09", gap.End)
		assert.Equal(t, 8, gap.DurationMonths)
		assert.Equal(t, "Dev at Alpha", gap.PreviousRole)
		assert.Equal(t, "Dev at Beta", gap.NextRole)
	})

	t.Run("gap at threshold is not reported", func(t *testing.T) {
		f := v.Validate(&models.StructuredCV{
			WorkExperience: []models.WorkExperience{
				job("Dev", "Alpha", "2020-01", "2021-01", false),
				job("Dev", "Beta", "2021-04", "2023-01", false),
			},
		})

		assert.Empty(t, f.TimelineGaps)
	})
}

func TestValidateTimelineOverlaps(t *testing.T) {
	v := newTestValidator()

	t.Run("overlapping roles are reported with bounds", func(t *testing.T) {
		f := v.Validate(&models.StructuredCV{
			WorkExperience: []models.WorkExperience{
				job("Engineer", "Alpha", "2020-01", "2020-12", false),
				job("Consultant", "Beta", "2020-06", "2021-01", false),
			},
		})

		require.Len(t, f.TimelineOverlaps, 1)
		overlap := f.TimelineOverlaps[0]
		assert.Equal(t, "2020-06", overlap.Start)
		assert.Equal(t, "2020-12", overlap.End)
		assert.Equal(t, 6, overlap.DurationMonths)
	})

	t.Run("roles that merely touch do not overlap", func(t *testing.T) {
		f := v.Validate(&models.StructuredCV{
			WorkExperience: []models.WorkExperience{
				job("Dev", "Alpha", "2020-01", "2020-06", false),
				job("Dev", "Beta", "2020-06", "2021-01", false),
			},
		})

		assert.Empty(t, f.TimelineOverlaps)
	})
}

func TestValidateJobHopping(t *testing.T) {
	v := newTestValidator()

	t.Run("three short tenures flag job hopping", func(t *testing.T) {
		f := v.Validate(&models.StructuredCV{
			WorkExperience: []models.WorkExperience{
				job("Dev", "A", "2020-01", "2020-11", false),
				job("Dev", "B", "2020-11", "2021-09", false),
				job("Dev", "C", "2021-09", "2022-07", false),
			},
		})

		assert.True(t, f.JobHoppingFlag)
		assert.InDelta(t, 10.0, f.AvgTenureMonths, 0.01)
	})

	t.Run("three long tenures do not", func(t *testing.T) {
		f := v.Validate(&models.StructuredCV{
			WorkExperience: []models.WorkExperience{
				job("Dev", "A", "2016-01", "2018-01", false),
				job("Dev", "B", "2018-01", "2020-01", false),
				job("Dev", "C", "2020-01", "2022-01", false),
			},
		})

		assert.False(t, f.JobHoppingFlag)
		assert.InDelta(t, 24.0, f.AvgTenureMonths, 0.01)
	})

	t.Run("two short tenures are not enough", func(t *testing.T) {
		f := v.Validate(&models.StructuredCV{
			WorkExperience: []models.WorkExperience{
				job("Dev", "A", "2020-01", "2020-11", false),
				job("Dev", "B", "2020-11", "2021-09", false),
			},
		})

		assert.False(t, f.JobHoppingFlag)
	})
}

func TestValidateRangeInStartField(t *testing.T) {
	v := newTestValidator()

	f := v.Validate(&models.StructuredCV{
		WorkExperience: []models.WorkExperience{
			{Role: "Analyst", Company: "Gamma", StartDate: "August 2023 – February 2024"},
		},
	})

	assert.Equal(t, 6, f.TotalExperienceMonths)
	assert.Empty(t, f.Warnings)

	// A range in the start field stands in for the missing end date.
	for _, issue := range f.DateIssues {
		assert.NotEqual(t, models.DateIssueMissingEnd, issue.Kind)
	}
}

func TestValidateCurrentRole(t *testing.T) {
	v := newTestValidator()

	f := v.Validate(&models.StructuredCV{
		WorkExperience: []models.WorkExperience{
			job("Engineer", "Delta", "2022-03", "", true),
		},
	})

	// 2022-03 through 2026-08.
	assert.Equal(t, 53, f.TotalExperienceMonths)
	assert.Empty(t, f.DateIssues)
}

func TestValidateDateIssues(t *testing.T) {
	v := newTestValidator()

	f := v.Validate(&models.StructuredCV{
		WorkExperience: []models.WorkExperience{
			job("Dev", "A", "", "2021-01", false),
			job("Dev", "B", "garbled", "2021-01", false),
			job("Dev", "C", "2027-03", "", true),
			job("Dev", "D", "2020-01", "", false),
		},
		Education: []models.Education{
			{Degree: "BSc", Institution: "State University", StartDate: "2012", EndDate: "whenever"},
		},
	})

	kinds := map[string]int{}
	for _, issue := range f.DateIssues {
		kinds[issue.Kind]++
	}

	assert.Equal(t, 1, kinds[models.DateIssueMissingStart])
	assert.Equal(t, 2, kinds[models.DateIssueInvalidFormat])
	assert.Equal(t, 1, kinds[models.DateIssueFutureDate])
	assert.Equal(t, 1, kinds[models.DateIssueMissingEnd])
}

func TestValidateNoParseableDates(t *testing.T) {
	v := newTestValidator()

	f := v.Validate(&models.StructuredCV{
		WorkExperience: []models.WorkExperience{
			job("Dev", "A", "unknown", "unclear", false),
		},
	})

	assert.Equal(t, 0, f.TotalExperienceMonths)
	require.Len(t, f.Warnings, 1)
	assert.Contains(t, f.Warnings[0], "timeline metrics are unavailable")
}
