package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"talentmatch/cv-pipeline/internal/models"
)

const (
	// Gaps of up to this many months between consecutive jobs are normal
	// transitions and not reported.
	gapThresholdMonths = 3

	// Job-hopping heuristic: at least this many tenured jobs averaging
	// under jobHoppingAvgMonths.
	jobHoppingMinJobs   = 3
	jobHoppingAvgMonths = 18.0
)

// ValidatorService computes DerivedFeatures from a StructuredCV. It makes no
// network calls; every date problem it finds is recorded as a DateIssue or a
// warning, never raised.
type ValidatorService interface {
	Validate(cv *models.StructuredCV) *models.DerivedFeatures
}

type validatorService struct {
	now func() time.Time
}

func NewValidatorService() ValidatorService {
	return &validatorService{now: time.Now}
}

func (v *validatorService) Validate(cv *models.StructuredCV) *models.DerivedFeatures {
	now := v.now()

	features := &models.DerivedFeatures{
		ExperienceCount:     len(cv.WorkExperience),
		EducationCount:      len(cv.Education),
		SkillsCount:         cv.SkillCount(),
		ProjectsCount:       len(cv.Projects),
		CertificationsCount: len(cv.Certifications),
		LanguagesCount:      len(cv.Languages),
		MissingSections:     []string{},
		QuantifiedExamples:  []string{},
		TimelineGaps:        []models.TimelineGap{},
		TimelineOverlaps:    []models.TimelineOverlap{},
		DateIssues:          []models.DateIssue{},
		Warnings:            []string{},
	}

	v.checkCompleteness(cv, features)

	count, examples := detectQuantifiedResults(cv)
	features.QuantifiedResultsCount = count
	features.HasQuantifiedResults = count > 0
	features.QuantifiedExamples = examples

	v.validateDates(cv, features, now)
	v.reconcileTimeline(cv, features, now)

	return features
}

func (v *validatorService) checkCompleteness(cv *models.StructuredCV, f *models.DerivedFeatures) {
	f.HasContactInfo = cv.PersonalInfo.Email != "" || cv.PersonalInfo.Phone != ""
	f.HasSummary = strings.TrimSpace(cv.ProfessionalSummary) != ""
	f.HasExperience = len(cv.WorkExperience) > 0
	f.HasEducation = len(cv.Education) > 0
	f.HasSkills = f.SkillsCount > 0

	// MissingSections mirrors the completeness flags exactly.
	if !f.HasContactInfo {
		f.MissingSections = append(f.MissingSections, "contact_info")
	}
	if !f.HasSummary {
		f.MissingSections = append(f.MissingSections, "professional_summary")
	}
	if !f.HasExperience {
		f.MissingSections = append(f.MissingSections, "work_experience")
	}
	if !f.HasEducation {
		f.MissingSections = append(f.MissingSections, "education")
	}
	if !f.HasSkills {
		f.MissingSections = append(f.MissingSections, "skills")
	}
}

// timelineEntry is one work-experience entry with a fully resolved
// (start, end) month pair.
type timelineEntry struct {
	label string
	start time.Time
	end   time.Time
}

func (v *validatorService) collectTimeline(cv *models.StructuredCV, now time.Time) []timelineEntry {
	var entries []timelineEntry

	for _, exp := range cv.WorkExperience {
		start, ok := ParseCVDate(exp.StartDate, PreferStart, now)
		if !ok {
			continue
		}

		var end time.Time
		switch {
		case exp.IsCurrent:
			end = monthOf(now)
		case strings.TrimSpace(exp.EndDate) != "":
			e, ok := ParseCVDate(exp.EndDate, PreferEnd, now)
			if !ok {
				continue
			}
			end = e
		case HasDateRange(exp.StartDate):
			// The whole range was written into the start field.
			e, ok := ParseCVDate(exp.StartDate, PreferEnd, now)
			if !ok {
				continue
			}
			end = e
		default:
			continue
		}

		entries = append(entries, timelineEntry{
			label: experienceLabel(exp),
			start: start,
			end:   end,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].start.Before(entries[j].start)
	})

	return entries
}

func (v *validatorService) reconcileTimeline(cv *models.StructuredCV, f *models.DerivedFeatures, now time.Time) {
	entries := v.collectTimeline(cv, now)

	if len(entries) == 0 {
		if len(cv.WorkExperience) > 0 {
			f.Warnings = append(f.Warnings,
				"no work experience entries had parseable dates; timeline metrics are unavailable")
		}
		return
	}

	// Tenure per job in whole months; averages run over positive tenures only.
	var tenures []int
	total := 0
	for _, e := range entries {
		t := MonthsBetween(e.start, e.end)
		if t > 0 {
			tenures = append(tenures, t)
			total += t
		}
	}

	if len(tenures) > 0 {
		sum := 0
		shortest := tenures[0]
		longest := tenures[0]
		for _, t := range tenures {
			sum += t
			if t < shortest {
				shortest = t
			}
			if t > longest {
				longest = t
			}
		}
		avg := float64(sum) / float64(len(tenures))
		f.AvgTenureMonths = math.Round(avg*10) / 10
		f.ShortestTenureMonths = shortest
		f.LongestTenureMonths = longest
		f.JobHoppingFlag = len(tenures) >= jobHoppingMinJobs && avg < jobHoppingAvgMonths
	}

	f.TotalExperienceMonths = total
	f.TotalExperienceYears = math.Round(float64(total)/12*10) / 10

	// Gaps between consecutive jobs in start order.
	for i := 1; i < len(entries); i++ {
		prev, next := entries[i-1], entries[i]
		gap := MonthsBetween(prev.end, next.start)
		if gap > gapThresholdMonths {
			f.TimelineGaps = append(f.TimelineGaps, models.TimelineGap{
				Start:          formatYearMonth(prev.end),
				End:            formatYearMonth(next.start),
				DurationMonths: gap,
				PreviousRole:   prev.label,
				NextRole:       next.label,
			})
		}
	}

	// Overlaps are checked for every unordered pair, not just adjacent
	// entries: once concurrent roles exist, any two entries can intersect.
	// Quadratic, fine for realistic CV sizes.
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			start := laterOf(entries[i].start, entries[j].start)
			end := earlierOf(entries[i].end, entries[j].end)
			if start.Before(end) {
				f.TimelineOverlaps = append(f.TimelineOverlaps, models.TimelineOverlap{
					RoleA:          entries[i].label,
					RoleB:          entries[j].label,
					Start:          formatYearMonth(start),
					End:            formatYearMonth(end),
					DurationMonths: MonthsBetween(start, end),
				})
			}
		}
	}
}

func (v *validatorService) validateDates(cv *models.StructuredCV, f *models.DerivedFeatures, now time.Time) {
	addIssue := func(kind, section, entry, field, value string) {
		f.DateIssues = append(f.DateIssues, models.DateIssue{
			Kind:    kind,
			Section: section,
			Entry:   entry,
			Field:   field,
			Value:   value,
		})
	}

	checkEntry := func(section, label, startDate, endDate string, isCurrent bool) {
		startDate = strings.TrimSpace(startDate)
		endDate = strings.TrimSpace(endDate)

		if startDate == "" {
			addIssue(models.DateIssueMissingStart, section, label, "start_date", "")
		} else if start, ok := ParseCVDate(startDate, PreferStart, now); !ok {
			addIssue(models.DateIssueInvalidFormat, section, label, "start_date", startDate)
		} else if start.After(monthOf(now)) {
			addIssue(models.DateIssueFutureDate, section, label, "start_date", startDate)
		}

		if isCurrent {
			return
		}
		if endDate == "" {
			if !HasDateRange(startDate) {
				addIssue(models.DateIssueMissingEnd, section, label, "end_date", "")
			}
		} else if _, ok := ParseCVDate(endDate, PreferEnd, now); !ok {
			addIssue(models.DateIssueInvalidFormat, section, label, "end_date", endDate)
		}
	}

	for _, exp := range cv.WorkExperience {
		checkEntry(models.SectionWorkExperience, experienceLabel(exp), exp.StartDate, exp.EndDate, exp.IsCurrent)
	}
	for _, edu := range cv.Education {
		checkEntry(models.SectionEducation, educationLabel(edu), edu.StartDate, edu.EndDate, false)
	}
}

func experienceLabel(exp models.WorkExperience) string {
	switch {
	case exp.Role != "" && exp.Company != "":
		return fmt.Sprintf("%s at %s", exp.Role, exp.Company)
	case exp.Role != "":
		return exp.Role
	case exp.Company != "":
		return exp.Company
	default:
		return "(unnamed position)"
	}
}

func educationLabel(edu models.Education) string {
	switch {
	case edu.Degree != "" && edu.Institution != "":
		return fmt.Sprintf("%s at %s", edu.Degree, edu.Institution)
	case edu.Degree != "":
		return edu.Degree
	case edu.Institution != "":
		return edu.Institution
	default:
		return "(unnamed education)"
	}
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
