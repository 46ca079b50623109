package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe проверяет готовность: каталог устройств загружен.
func (h *Handler) ReadinessProbe(c fiber.Ctx) error {
	if h.catalog == nil || len(h.catalog.List()) == 0 {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "catalog not loaded",
		})
	}
	return c.JSON(fiber.Map{
		"status":       "ready",
		"device_types": len(h.catalog.List()),
	})
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
