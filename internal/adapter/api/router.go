package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRouter(app *fiber.App, handler *GatewayHandler) {
	// Middleware
	app.Use(logger.New())

	app.Get("/health", handler.HandleHealth)

	// API Versioning
	v1 := app.Group("/v1")
	// Endpoints
	v1.Post("/classify", handler.HandleClassify)
	v1.Post("/evaluate_confidence", handler.HandleEvaluate)
	v1.Post("/escalate", handler.HandleEscalate)
	v1.Post("/thresholds", handler.HandleThresholds)
	v1.Get("/escalation/statistics", handler.HandleEscalationStatistics)
	v1.Get("/cache/statistics", handler.HandleCacheStatistics)
}
