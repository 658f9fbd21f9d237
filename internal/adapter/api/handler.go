package api

import (
	"github.com/gofiber/fiber/v2"

	"hybridgate/internal/domain/entity"
	"hybridgate/internal/domain/repository"
	"hybridgate/internal/usecase"
)

type GatewayHandler struct {
	classifier *usecase.Classifier
	evaluator  *usecase.ConfidenceEvaluator
	gateway    *usecase.EscalationGateway
	cache      repository.ResponseCache
	probe      repository.ConnectivityProbe
	providers  []string
}

func NewGatewayHandler(
	classifier *usecase.Classifier,
	evaluator *usecase.ConfidenceEvaluator,
	gateway *usecase.EscalationGateway,
	cache repository.ResponseCache,
	probe repository.ConnectivityProbe,
	providers []string,
) *GatewayHandler {
	return &GatewayHandler{
		classifier: classifier,
		evaluator:  evaluator,
		gateway:    gateway,
		cache:      cache,
		probe:      probe,
		providers:  providers,
	}
}

type classifyRequest struct {
	Query string `json:"query"`
}

func (h *GatewayHandler) HandleClassify(c *fiber.Ctx) error {
	var req classifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": entity.ErrInvalidRequest.Error()})
	}

	return c.Status(200).JSON(h.classifier.Classify(req.Query))
}

type evaluateRequest struct {
	Query      string  `json:"query"`
	Confidence float64 `json:"confidence"`
	Response   string  `json:"response,omitempty"`
}

func (h *GatewayHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req evaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": entity.ErrInvalidRequest.Error()})
	}
	if req.Query == "" {
		return c.Status(400).JSON(fiber.Map{"error": "query is required"})
	}

	return c.Status(200).JSON(h.evaluator.Evaluate(req.Query, req.Confidence, req.Response))
}

func (h *GatewayHandler) HandleEscalate(c *fiber.Ctx) error {
	var req entity.EscalateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": entity.ErrInvalidRequest.Error()})
	}
	if req.Query == "" {
		return c.Status(400).JSON(fiber.Map{"error": "query is required"})
	}

	result := h.gateway.Escalate(c.Context(), req)

	c.Set("X-Gateway-Cache-Hit", "false")
	if result.Cached {
		c.Set("X-Gateway-Cache-Hit", "true")
	}
	return c.Status(200).JSON(result)
}

func (h *GatewayHandler) HandleThresholds(c *fiber.Ctx) error {
	var update entity.ThresholdUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": entity.ErrInvalidRequest.Error()})
	}

	return c.Status(200).JSON(h.evaluator.AdjustThresholds(update))
}

func (h *GatewayHandler) HandleEscalationStatistics(c *fiber.Ctx) error {
	return c.Status(200).JSON(h.evaluator.Statistics())
}

func (h *GatewayHandler) HandleCacheStatistics(c *fiber.Ctx) error {
	if h.cache == nil {
		return c.Status(200).JSON(fiber.Map{"enabled": false})
	}
	stats, err := h.cache.Statistics(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": entity.ErrCacheUnavailable.Error()})
	}
	return c.Status(200).JSON(fiber.Map{
		"enabled":    true,
		"backend":    h.cache.Backend(),
		"statistics": stats,
	})
}

func (h *GatewayHandler) HandleHealth(c *fiber.Ctx) error {
	status := fiber.Map{
		"status":    "healthy",
		"providers": h.providers,
	}
	if h.cache != nil {
		status["cache_backend"] = h.cache.Backend()
	}
	if h.probe != nil {
		status["online"] = h.probe.Online(c.Context())
	}
	return c.Status(fiber.StatusOK).JSON(status)
}
