package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"talentmatch/cv-pipeline/internal/services"
)

type SearchHandler struct {
	indexer services.ProfileIndexerService
}

func NewSearchHandler(indexer services.ProfileIndexerService) *SearchHandler {
	return &SearchHandler{
		indexer: indexer,
	}
}

// HandleSearch handles GET /candidates/search?q=...&limit=N over the
// candidate-profile index.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query parameter 'q' is required",
		})
	}

	limit := c.QueryInt("limit", 5)

	matches, err := h.indexer.SearchSimilarProfiles(c.Context(), query, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search candidate profiles",
		})
	}

	results := make([]fiber.Map, 0, len(matches))
	for _, m := range matches {
		results = append(results, fiber.Map{
			"result_id": m.ResultID,
			"score":     m.Score,
			"excerpt":   m.Excerpt,
		})
	}

	return c.JSON(fiber.Map{
		"query":   query,
		"results": results,
	})
}
