package http

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/flowpark/backend/internal/domain"
	"github.com/flowpark/backend/internal/service"
)

var validate = validator.New()

// Handler contains all HTTP handlers
type Handler struct {
	aggregationSvc *service.AggregationService
	repo           domain.AuditRepository
}

// NewHandler creates a new handler
func NewHandler(aggregationSvc *service.AggregationService, repo domain.AuditRepository) *Handler {
	return &Handler{
		aggregationSvc: aggregationSvc,
		repo:           repo,
	}
}

// Root returns service identity
func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "flowpark-backend",
		"version": "1.0.0",
		"message": "Bienvenue sur l'API FlowPark",
	})
}

// Health returns service health with audit store and registry checks
func (h *Handler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	auditStatus := "up"
	status := "ok"
	if err := h.repo.Health(ctx); err != nil {
		log.Printf("Health check: audit store down: %v", err)
		auditStatus = "down"
		status = "degraded"
	}

	return c.JSON(fiber.Map{
		"status": status,
		"checks": fiber.Map{
			"audit_store":      auditStatus,
			"cities_supported": h.aggregationSvc.SupportedCities(),
		},
	})
}

// Aggregate returns the urban snapshot for a city
func (h *Handler) Aggregate(c *fiber.Ctx) error {
	city := c.Params("city")

	snapshot, err := h.aggregationSvc.Aggregate(c.Context(), city, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedCity) {
			return fiber.NewError(fiber.StatusNotFound, "Ville non supportée")
		}
		log.Printf("Aggregation failed for %s: %v", city, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to aggregate city data")
	}

	return c.JSON(snapshot)
}

// gpsFlowRequest is the POST /gps-flow body. Lat/Lon are pointers so that a
// missing field fails validation while 0.0 stays a legal coordinate.
type gpsFlowRequest struct {
	Lat  *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon  *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
	City string   `json:"city"`
}

// GPSFlow accepts an anonymized GPS sample. Whatever identity authenticated
// the request is never forwarded to storage.
func (h *Handler) GPSFlow(c *fiber.Ctx) error {
	var req gpsFlowRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "lat and lon are required")
	}

	h.aggregationSvc.RecordGPSFlow(*req.Lat, *req.Lon, req.City)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "accepted",
		"message": "Données GPS reçues et anonymisées",
	})
}
