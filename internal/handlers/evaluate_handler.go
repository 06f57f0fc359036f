package handlers

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"talentmatch/cv-pipeline/internal/models"
	"talentmatch/cv-pipeline/internal/repositories"
	"talentmatch/cv-pipeline/internal/services"
)

type EvaluationHandler struct {
	evalRepo  repositories.EvaluationRepository
	docRepo   repositories.DocumentRepository
	worker    services.Worker
	validator *validator.Validate
}

func NewEvaluationHandler(
	evalRepo repositories.EvaluationRepository,
	docRepo repositories.DocumentRepository,
	worker services.Worker,
) *EvaluationHandler {
	return &EvaluationHandler{
		evalRepo:  evalRepo,
		docRepo:   docRepo,
		worker:    worker,
		validator: validator.New(),
	}
}

// HandleEvaluate handles POST /evaluate. Accepts either a previously uploaded
// document ID or raw CV text, queues the evaluation, and returns the job ID
// immediately.
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Provide either document_id (uuid) or raw_text",
		})
	}

	evaluation := &models.Evaluation{
		ID:        uuid.New(),
		Status:    models.StatusQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if req.DocumentID != "" {
		docID, err := uuid.Parse(req.DocumentID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid document_id format",
			})
		}

		doc, err := h.docRepo.FindByID(docID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Document not found",
			})
		}

		evaluation.DocumentID = &doc.ID
		evaluation.OriginalFilename = doc.OriginalFileName
	} else {
		if strings.TrimSpace(req.RawText) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "raw_text must not be empty",
			})
		}
		evaluation.RawText = req.RawText
	}

	if err := h.evalRepo.Create(evaluation); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create evaluation job",
		})
	}

	h.worker.EnqueueJob(evaluation.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.EvaluateResponse{
		ID:     evaluation.ID.String(),
		Status: string(models.StatusQueued),
	})
}
