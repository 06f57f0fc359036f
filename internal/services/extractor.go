package services

import (
	"context"
	"strings"

	"talentmatch/cv-pipeline/internal/models"
)

// ExtractorService turns raw CV text into a StructuredCV via one language
// model call. There is no retry here: a failure is fatal to the pipeline and
// surfaces as *ExtractionError.
type ExtractorService interface {
	Extract(ctx context.Context, rawText string) (*models.StructuredCV, error)
}

type extractorService struct {
	llm           TextGenerator
	promptBuilder *PromptBuilder
}

func NewExtractorService(llm TextGenerator) ExtractorService {
	return &extractorService{
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
	}
}

func (e *extractorService) Extract(ctx context.Context, rawText string) (*models.StructuredCV, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, &ExtractionError{Reason: "empty CV text"}
	}

	response, err := e.llm.GenerateText(ctx,
		e.promptBuilder.ExtractionSystemInstruction(),
		e.promptBuilder.BuildExtractionPrompt(rawText),
	)
	if err != nil {
		return nil, &ExtractionError{Reason: "model call failed", Err: err}
	}

	var cv models.StructuredCV
	if err := DecodeJSONResponse(response, &cv); err != nil {
		return nil, &ExtractionError{Reason: "malformed structured document", Err: err}
	}

	normalizeStructuredCV(&cv)
	return &cv, nil
}

// normalizeStructuredCV replaces nil collections with empty ones so downstream
// stages and the persisted JSON never see null where a list belongs.
func normalizeStructuredCV(cv *models.StructuredCV) {
	if cv.PersonalInfo.Links == nil {
		cv.PersonalInfo.Links = []string{}
	}
	if cv.WorkExperience == nil {
		cv.WorkExperience = []models.WorkExperience{}
	}
	for i := range cv.WorkExperience {
		if cv.WorkExperience[i].Responsibilities == nil {
			cv.WorkExperience[i].Responsibilities = []string{}
		}
	}
	if cv.Education == nil {
		cv.Education = []models.Education{}
	}
	if cv.Skills == nil {
		cv.Skills = []models.SkillCategory{}
	}
	for i := range cv.Skills {
		if cv.Skills[i].Skills == nil {
			cv.Skills[i].Skills = []string{}
		}
	}
	if cv.Projects == nil {
		cv.Projects = []models.Project{}
	}
	if cv.Certifications == nil {
		cv.Certifications = []models.Certification{}
	}
	if cv.Languages == nil {
		cv.Languages = []models.Language{}
	}
	if cv.ExtractionWarnings == nil {
		cv.ExtractionWarnings = []string{}
	}
}
