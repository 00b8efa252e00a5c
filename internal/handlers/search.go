package handlers

import (
	"errors"

	"github.com/SumantMunagala/civiclens/internal/config"
	"github.com/SumantMunagala/civiclens/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	svc *services.SearchService
}

func NewSearchHandler(cfg *config.Config) *SearchHandler {
	return &SearchHandler{
		svc: services.NewSearchService(cfg.MapboxAccessToken),
	}
}

func SetupSearchRoutes(router fiber.Router, cfg *config.Config) {
	h := NewSearchHandler(cfg)

	router.Get("/search", h.Search)
}

// Search godoc
// @Summary Free-text place search
// @Description Geocodes a query within the service area, up to 8 candidates
// @Tags search
// @Produce json
// @Param q query string true "Search query (min 2 characters)"
// @Success 200 {object} services.SearchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/search [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	result, err := h.svc.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		if errors.Is(err, services.ErrQueryTooShort) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Query must be at least 2 characters",
			})
		}
		if errors.Is(err, services.ErrNotConfigured) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Search service not configured",
			})
		}
		var provider *services.ProviderError
		if errors.As(err, &provider) {
			return c.Status(provider.Status).JSON(fiber.Map{
				"error": "Search service unavailable",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(result)
}
