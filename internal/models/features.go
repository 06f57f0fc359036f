package models

// DateIssue kinds reported by the validator's date validation pass.
const (
	DateIssueMissingStart  = "missing_start_date"
	DateIssueMissingEnd    = "missing_end_date"
	DateIssueInvalidFormat = "invalid_format"
	DateIssueFutureDate    = "future_date"
)

// Sections a DateIssue can point at.
const (
	SectionWorkExperience = "work_experience"
	SectionEducation      = "education"
)

// DerivedFeatures is the validator's output: career signals computed
// deterministically from a StructuredCV, with no model involvement.
type DerivedFeatures struct {
	ExperienceCount     int `json:"experience_count"`
	EducationCount      int `json:"education_count"`
	SkillsCount         int `json:"skills_count"`
	ProjectsCount       int `json:"projects_count"`
	CertificationsCount int `json:"certifications_count"`
	LanguagesCount      int `json:"languages_count"`

	HasContactInfo  bool     `json:"has_contact_info"`
	HasSummary      bool     `json:"has_summary"`
	HasExperience   bool     `json:"has_experience"`
	HasEducation    bool     `json:"has_education"`
	HasSkills       bool     `json:"has_skills"`
	MissingSections []string `json:"missing_sections"`

	QuantifiedResultsCount int      `json:"quantified_results_count"`
	HasQuantifiedResults   bool     `json:"has_quantified_results"`
	QuantifiedExamples     []string `json:"quantified_examples"`

	AvgTenureMonths       float64 `json:"avg_tenure_months"`
	ShortestTenureMonths  int     `json:"shortest_tenure_months"`
	LongestTenureMonths   int     `json:"longest_tenure_months"`
	TotalExperienceMonths int     `json:"total_experience_months"`
	TotalExperienceYears  float64 `json:"total_experience_years"`
	JobHoppingFlag        bool    `json:"job_hopping_flag"`

	TimelineGaps     []TimelineGap     `json:"timeline_gaps"`
	TimelineOverlaps []TimelineOverlap `json:"timeline_overlaps"`
	DateIssues       []DateIssue       `json:"date_issues"`

	// Warnings holds non-fatal validation notes, e.g. when no experience
	// entry had parseable dates and timeline metrics are degraded.
	Warnings []string `json:"warnings"`
}

// TimelineGap is a period longer than the gap threshold between the end of one
// job and the start of the next, in sorted start-date order.
type TimelineGap struct {
	Start          string `json:"start"` // YYYY-MM
	End            string `json:"end"`   // YYYY-MM
	DurationMonths int    `json:"duration_months"`
	PreviousRole   string `json:"previous_role"`
	NextRole       string `json:"next_role"`
}

// TimelineOverlap is the intersection of two work-experience intervals. Checked
// pairwise over all entries, not just adjacent ones, since concurrent roles can
// overlap entries that are far apart in start order.
type TimelineOverlap struct {
	RoleA          string `json:"role_a"`
	RoleB          string `json:"role_b"`
	Start          string `json:"start"` // YYYY-MM
	End            string `json:"end"`   // YYYY-MM
	DurationMonths int    `json:"duration_months"`
}

// DateIssue records a missing, unparseable, or future-dated date on a single
// experience or education entry. Issues are data, never errors.
type DateIssue struct {
	Kind    string `json:"kind"`
	Section string `json:"section"`
	Entry   string `json:"entry"`
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
}
