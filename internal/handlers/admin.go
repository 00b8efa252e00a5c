package handlers

import (
	"strings"

	"github.com/SumantMunagala/civiclens/internal/config"
	"github.com/SumantMunagala/civiclens/internal/logger"
	"github.com/SumantMunagala/civiclens/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	cache *services.CacheService
	cfg   *config.Config
}

func NewAdminHandler(cache *services.CacheService, cfg *config.Config) *AdminHandler {
	return &AdminHandler{cache: cache, cfg: cfg}
}

func SetupAdminRoutes(router fiber.Router, cache *services.CacheService, cfg *config.Config) {
	h := NewAdminHandler(cache, cfg)

	router.Get("/clear-cache", h.ClearCacheUsage)
	router.Post("/clear-cache", h.ClearCache)
}

// ClearCacheUsage godoc
// @Summary Cache admin usage help
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/admin/clear-cache [get]
func (h *AdminHandler) ClearCacheUsage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Cache admin endpoint",
		"usage": fiber.Map{
			"clearSpecific": "POST /api/admin/clear-cache?key=crime_data (requires Bearer token)",
			"clearAll":      "POST /api/admin/clear-cache?all=true (requires Bearer token)",
		},
	})
}

// ClearCache godoc
// @Summary Invalidate one or all cache entries
// @Description Requires the operator-configured bearer secret
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param key query string false "Cache key to clear"
// @Param all query bool false "Clear every entry"
// @Success 200 {object} map[string]any
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/clear-cache [post]
func (h *AdminHandler) ClearCache(c *fiber.Ctx) error {
	log := logger.GetLogger("admin")

	// Missing secret is a deployment mistake, not a client error
	if h.cfg.CacheAdminSecret == "" {
		log.Error("CACHE_ADMIN_SECRET not configured")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Admin route not configured",
		})
	}

	provided := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
	if provided != h.cfg.CacheAdminSecret {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	key := c.Query("key")
	clearAll := c.Query("all") == "true"

	switch {
	case clearAll:
		if err := h.cache.DeleteAll(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to clear all cache",
			})
		}
		log.Info("all cache entries cleared by admin")
		return c.JSON(fiber.Map{
			"success": true,
			"message": "All cache entries cleared",
		})

	case key != "":
		if _, err := h.cache.Delete(key); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to clear cache for key: " + key,
			})
		}
		log.Infof("cache cleared for key %s", key)
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Cache cleared for key: " + key,
		})

	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing parameter: provide 'key' or 'all=true'",
		})
	}
}
