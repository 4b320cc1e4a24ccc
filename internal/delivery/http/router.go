package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowpark/backend/internal/domain"
	"github.com/flowpark/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, aggregationSvc *service.AggregationService, repo domain.AuditRepository, verifier domain.TokenVerifier, allowAnonymous bool) {
	handler := NewHandler(aggregationSvc, repo)
	authRequired := NewAuthMiddleware(verifier, allowAnonymous)

	// Public endpoints
	app.Get("/", handler.Root)
	app.Get("/health", handler.Health)

	// Authenticated endpoints
	app.Get("/aggregate/:city", authRequired, handler.Aggregate)
	app.Post("/gps-flow", authRequired, handler.GPSFlow)
}
