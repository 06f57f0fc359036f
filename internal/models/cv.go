package models

// StructuredCV is the fact extractor's output: the CV reorganized into a fixed
// schema where every leaf fact carries a verbatim evidence quote from the source
// text. Dates are kept exactly as written; parsing them is the validator's job.
type StructuredCV struct {
	PersonalInfo        PersonalInfo     `json:"personal_info"`
	ProfessionalSummary string           `json:"professional_summary,omitempty"`
	WorkExperience      []WorkExperience `json:"work_experience"`
	Education           []Education      `json:"education"`
	Skills              []SkillCategory  `json:"skills"`
	Projects            []Project        `json:"projects"`
	Certifications      []Certification  `json:"certifications"`
	Languages           []Language       `json:"languages"`
	ExtractionWarnings  []string         `json:"extraction_warnings"`
}

type PersonalInfo struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Location      string   `json:"location"`
	Links         []string `json:"links"`
	EvidenceQuote string   `json:"evidence_quote"`
}

type WorkExperience struct {
	Role             string   `json:"role"`
	Company          string   `json:"company"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	IsCurrent        bool     `json:"is_current"`
	Location         string   `json:"location"`
	Responsibilities []string `json:"responsibilities"`
	EvidenceQuote    string   `json:"evidence_quote"`
}

type Education struct {
	Degree        string `json:"degree"`
	FieldOfStudy  string `json:"field_of_study"`
	Institution   string `json:"institution"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	GPA           string `json:"gpa"`
	Honors        string `json:"honors"`
	EvidenceQuote string `json:"evidence_quote"`
}

type SkillCategory struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

type Project struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Technologies  []string `json:"technologies"`
	URL           string   `json:"url"`
	EvidenceQuote string   `json:"evidence_quote"`
}

type Certification struct {
	Name          string `json:"name"`
	Issuer        string `json:"issuer"`
	Date          string `json:"date"`
	EvidenceQuote string `json:"evidence_quote"`
}

type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// SkillCount returns the total number of individual skills across categories.
func (cv *StructuredCV) SkillCount() int {
	count := 0
	for _, cat := range cv.Skills {
		count += len(cat.Skills)
	}
	return count
}
