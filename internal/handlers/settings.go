package handlers

import (
	"encoding/json"

	"github.com/SumantMunagala/civiclens/internal/database"
	"github.com/SumantMunagala/civiclens/internal/logger"
	"github.com/SumantMunagala/civiclens/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	svc *services.SettingsService
}

func NewSettingsHandler(db *database.DB) *SettingsHandler {
	return &SettingsHandler{
		svc: services.NewSettingsService(db),
	}
}

// SetupSettingsRoutes wires the settings endpoints. The router is expected
// to carry the auth middleware.
func SetupSettingsRoutes(router fiber.Router, db *database.DB) {
	h := NewSettingsHandler(db)

	router.Get("/settings", h.GetSettings)
	router.Post("/settings", h.UpdateSettings)
}

// GetSettings godoc
// @Summary Current user's dashboard settings
// @Description Creates the default row on a first-time read
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserSettings
// @Failure 401 {object} ErrorResponse
// @Router /api/settings [get]
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	settings, err := h.svc.GetOrCreate(userID)
	if err != nil {
		logger.GetLogger("handler.settings").Errorf("settings read failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch settings",
		})
	}

	return c.JSON(settings)
}

// UpdateSettings godoc
// @Summary Update the current user's settings
// @Description Mistyped fields are coerced to safe defaults, then the full row is upserted
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserSettings
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/settings [post]
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var body map[string]any
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	settings, err := h.svc.Update(userID, body)
	if err != nil {
		logger.GetLogger("handler.settings").Errorf("settings update failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update settings",
		})
	}

	return c.JSON(settings)
}
