package handlers

import (
	"github.com/SumantMunagala/civiclens/internal/config"
	"github.com/SumantMunagala/civiclens/internal/datasets"
	"github.com/SumantMunagala/civiclens/internal/logger"
	"github.com/SumantMunagala/civiclens/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DatasetHandler struct {
	svc     *services.DatasetService
	crime   *datasets.Crime
	service *datasets.Service
	fire    *datasets.Fire
	transit *datasets.Transit
}

func NewDatasetHandler(svc *services.DatasetService, cfg *config.Config) *DatasetHandler {
	return &DatasetHandler{
		svc:     svc,
		crime:   datasets.NewCrime(cfg.CrimeAPIURL),
		service: datasets.NewService(cfg.ServiceAPIURL),
		fire:    datasets.NewFire(cfg.FireAPIURL),
		transit: datasets.NewTransit(cfg.TransitAPIURL),
	}
}

func SetupDatasetRoutes(router fiber.Router, svc *services.DatasetService, cfg *config.Config) {
	h := NewDatasetHandler(svc, cfg)

	router.Get("/crime", h.GetCrime)
	router.Get("/311", h.GetService)
	router.Get("/fire", h.GetFire)
	router.Get("/transit", h.GetTransit)
}

// GetCrime godoc
// @Summary Police incident reports
// @Description Normalized crime records with valid coordinates, cache-first with stale fallback
// @Tags datasets
// @Produce json
// @Success 200 {array} datasets.CrimeRecord
// @Failure 500 {object} ErrorResponse
// @Router /api/crime [get]
func (h *DatasetHandler) GetCrime(c *fiber.Ctx) error {
	return h.serve(c, h.crime, "crime")
}

// GetService godoc
// @Summary 311 service requests
// @Tags datasets
// @Produce json
// @Success 200 {array} datasets.ServiceRequest
// @Failure 500 {object} ErrorResponse
// @Router /api/311 [get]
func (h *DatasetHandler) GetService(c *fiber.Ctx) error {
	return h.serve(c, h.service, "311")
}

// GetFire godoc
// @Summary Fire and emergency incidents
// @Tags datasets
// @Produce json
// @Success 200 {array} datasets.FireIncident
// @Failure 500 {object} ErrorResponse
// @Router /api/fire [get]
func (h *DatasetHandler) GetFire(c *fiber.Ctx) error {
	return h.serve(c, h.fire, "fire")
}

// GetTransit godoc
// @Summary Live transit vehicle positions
// @Description Never returns an error body: any failure yields an empty array
// @Tags datasets
// @Produce json
// @Success 200 {array} datasets.TransitVehicle
// @Router /api/transit [get]
func (h *DatasetHandler) GetTransit(c *fiber.Ctx) error {
	payload, err := h.svc.Fetch(c.UserContext(), h.transit)
	if err != nil {
		// A map with no buses beats a broken map
		logger.GetLogger("handler.transit").Warnf("transit fetch failed: %v", err)
		return c.JSON([]datasets.TransitVehicle{})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}

func (h *DatasetHandler) serve(c *fiber.Ctx, ds datasets.Dataset, name string) error {
	payload, err := h.svc.Fetch(c.UserContext(), ds)
	if err != nil {
		logger.GetLogger("handler."+name).Errorf("dataset %s unavailable: %v", ds.Key(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch " + name + " data",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}
