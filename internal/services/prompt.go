package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// ExtractionSystemInstruction pins the extractor to verbatim facts. The
// pipeline's traceability guarantee starts here: nothing may enter the
// structured CV without an evidence quote from the source text.
func (pb *PromptBuilder) ExtractionSystemInstruction() string {
	return `You are a meticulous CV fact extractor. You convert raw CV text into a strict JSON structure.
Rules you must never break:
- Extract ONLY facts explicitly stated in the text. Never infer, guess, or embellish.
- Every extracted fact must include an "evidence_quote": a verbatim excerpt from the source text that contains it.
- Information that is absent stays null or empty. Never fabricate values.
- Copy dates exactly as written ("2019 - Present", "août 2023", "03/2021"). Do not normalize or reformat them.
- When the text is ambiguous, pick nothing and describe the ambiguity in "extraction_warnings".
- Respond with a single JSON object and nothing else.`
}

// BuildExtractionPrompt asks for the fixed StructuredCV schema over the raw text.
func (pb *PromptBuilder) BuildExtractionPrompt(rawText string) string {
	return fmt.Sprintf(`Extract the following CV into this exact JSON schema:

{
  "personal_info": {"name": "", "email": "", "phone": "", "location": "", "links": [], "evidence_quote": ""},
  "professional_summary": "",
  "work_experience": [
    {"role": "", "company": "", "start_date": "", "end_date": "", "is_current": false, "location": "", "responsibilities": [], "evidence_quote": ""}
  ],
  "education": [
    {"degree": "", "field_of_study": "", "institution": "", "start_date": "", "end_date": "", "gpa": "", "honors": "", "evidence_quote": ""}
  ],
  "skills": [{"category": "", "skills": []}],
  "projects": [{"name": "", "description": "", "technologies": [], "url": "", "evidence_quote": ""}],
  "certifications": [{"name": "", "issuer": "", "date": "", "evidence_quote": ""}],
  "languages": [{"name": "", "proficiency": ""}],
  "extraction_warnings": []
}

Keep work experience, education, responsibilities, and skills in the order they appear in the text.
Set "is_current" to true only when the text says so (e.g. "Present", "en cours", no end date on the latest role).

CV TEXT:
%s`, rawText)
}

// ScoringSystemInstruction restricts the scorer to the structured inputs.
func (pb *PromptBuilder) ScoringSystemInstruction() string {
	return `You are an expert CV reviewer producing a structured quality assessment.
You are given a structured CV and deterministically computed career signals. They are your ONLY sources:
do not assume anything that is not present in them, and reference specific facts from them in every justification.
All scores are integers from 0 to 100. Respond with a single JSON object and nothing else.`
}

// BuildScoringPrompt carries the structured CV and the derived features as
// JSON. The raw text is deliberately absent so every score stays traceable to
// named facts.
func (pb *PromptBuilder) BuildScoringPrompt(cvJSON, featuresJSON string) string {
	return fmt.Sprintf(`Assess the CV below on six fixed dimensions and return this exact JSON schema:

{
  "overall_score": <0-100>,
  "summary": "<2-4 sentence overall assessment>",
  "completeness": {"score": <0-100>, "justification": ""},
  "experience_quality": {"score": <0-100>, "justification": ""},
  "skills_relevance": {"score": <0-100>, "justification": ""},
  "impact_evidence": {"score": <0-100>, "justification": ""},
  "clarity": {"score": <0-100>, "justification": ""},
  "consistency": {"score": <0-100>, "justification": ""},
  "strengths": ["..."],
  "weaknesses": ["..."],
  "red_flags": ["..."],
  "recommendations": ["..."]
}

Weigh the computed career signals: timeline gaps and overlaps, job-hopping flag, missing sections,
date issues, and quantified-achievement counts are pre-computed facts, not suggestions.
A red flag must cite the signal or fact that triggered it.

STRUCTURED CV:
%s

COMPUTED CAREER SIGNALS:
%s`, cvJSON, featuresJSON)
}

// VisualSystemInstruction scopes the vision model to document structure.
// Content and candidate quality belong to the scorer, never to this stage.
func (pb *PromptBuilder) VisualSystemInstruction() string {
	return `You are a document design reviewer. You assess ONLY the visual presentation of CV pages:
layout, typography, spacing, visual hierarchy, and readability.
Never comment on the candidate, the content, or its quality. Respond with a single JSON object and nothing else.`
}

// BuildVisualPrompt is the fixed analysis prompt sent alongside the page images.
func (pb *PromptBuilder) BuildVisualPrompt(pageCount int) string {
	return fmt.Sprintf(`You are given %d rendered page image(s) of a CV. Assess the document's visual presentation and return this exact JSON schema:

{
  "visual_strengths": ["..."],
  "visual_weaknesses": ["..."],
  "visual_recommendations": ["..."],
  "layout_assessment": "<1-2 sentences on structure and use of space>",
  "typography_assessment": "<1-2 sentences on fonts, sizes, emphasis>",
  "readability_assessment": "<1-2 sentences on scanability>",
  "image_quality_notes": "<notes on rendering quality of the provided images>"
}`, pageCount)
}
