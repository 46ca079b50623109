// Package handlers exposes the planner engine over HTTP.
package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"iot-planner/internal/planner/mapper"
	"iot-planner/internal/planner/placement"
	"iot-planner/internal/planner/projection"
	"iot-planner/internal/planner/raycast"
)

type Handler struct {
	logger    *zap.Logger
	catalog   *placement.Catalog
	cast      raycast.Config
	projector *projection.Projector
	pdf       *mapper.PDFExporter
}

// New собирает обработчики. При clearance <= 0 остается значение по умолчанию.
func New(logger *zap.Logger, catalog *placement.Catalog, clearance float64) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalog == nil {
		catalog = placement.DefaultCatalog()
	}
	cast := raycast.DefaultConfig()
	if clearance > 0 {
		cast.Clearance = clearance
	}
	return &Handler{
		logger:    logger,
		catalog:   catalog,
		cast:      cast,
		projector: projection.NewProjector(logger),
		pdf:       mapper.NewPDFExporter(catalog),
	}
}

// Register регистрирует все маршруты сервиса.
func (h *Handler) Register(app *fiber.App) {
	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", LivenessProbe)
	app.Get("/health/ready", h.ReadinessProbe)
	app.Get("/health/startup", StartupProbe)

	// ============================================================
	// Floor Plan Routes
	// ============================================================

	plans := app.Group("/floorplans")
	plans.Post("/import", h.ImportPlan)
	plans.Post("/render", h.RenderPlan)
	plans.Post("/pdf", h.ExportPDF)
	plans.Post("/convert", h.ConvertSVG)
	plans.Post("/project", h.ProjectPlan)

	// ============================================================
	// Building / Placement Routes
	// ============================================================

	app.Post("/buildings/project", h.ProjectBuilding)
	app.Get("/devices/types", h.ListDeviceTypes)
	app.Post("/placement/pick", h.Pick)
}

func (h *Handler) ListDeviceTypes(c fiber.Ctx) error {
	return c.JSON(h.catalog.List())
}

func badRequest(c fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}
