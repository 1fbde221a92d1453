package handlers

import (
	"time"

	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports process and store health.
type HealthHandler struct {
	service *services.ProductService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(service *services.ProductService) *HealthHandler {
	return &HealthHandler{service: service}
}

// RegisterRoutes registers the health route with the Fiber app.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth answers 200 when the store responds to a ping and 503
// otherwise.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	store := fiber.Map{"driver": h.service.StoreDriver(), "status": "connected"}
	status, code := "healthy", fiber.StatusOK
	if err := h.service.PingStore(c.UserContext()); err != nil {
		store["status"] = "unreachable"
		store["error"] = err.Error()
		status, code = "degraded", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
		"store":  store,
	})
}
