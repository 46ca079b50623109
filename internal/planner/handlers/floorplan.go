package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"iot-planner/internal/planner/floorplan"
	"iot-planner/internal/planner/mapper"
	"iot-planner/internal/planner/models"
)

// ============================================================
// Floor Plan Handlers
// ============================================================

type planRequest struct {
	Plan    json.RawMessage          `json:"plan"`
	Devices []models.InstalledDevice `json:"devices"`
}

// decodePlanRequest accepts either {"plan": ..., "devices": [...]} or a bare
// floor plan document.
func decodePlanRequest(body []byte) (models.FloorPlan, []models.InstalledDevice, error) {
	var req planRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return models.FloorPlan{}, nil, fmt.Errorf("%w: %v", floorplan.ErrInvalidDocument, err)
	}
	raw := []byte(req.Plan)
	if len(req.Plan) == 0 {
		raw = body
	}
	plan, err := floorplan.DecodePlan(raw)
	if err != nil {
		return models.FloorPlan{}, nil, err
	}
	return plan, req.Devices, nil
}

// ImportPlan валидирует и нормализует документ плана.
func (h *Handler) ImportPlan(c fiber.Ctx) error {
	plan, err := floorplan.DecodePlan(c.Body())
	if err != nil {
		h.logger.Warn("import rejected", zap.Error(err))
		return badRequest(c, err)
	}
	h.logger.Info("floor plan imported",
		zap.String("plan_id", plan.ID),
		zap.Int("rooms", len(plan.Rooms)),
		zap.Int("walls", len(plan.Walls)),
	)
	return c.JSON(plan)
}

// RenderPlan рендерит план в SVG
func (h *Handler) RenderPlan(c fiber.Ctx) error {
	plan, devices, err := decodePlanRequest(c.Body())
	if err != nil {
		return badRequest(c, err)
	}

	opts := mapper.DefaultRenderOptions()
	opts.Palette = h.catalog
	svg, err := mapper.NewRenderer(opts).Render(plan, devices)
	if err != nil {
		h.logger.Warn("render failed", zap.String("plan_id", plan.ID), zap.Error(err))
		return badRequest(c, err)
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// ExportPDF рендерит план в PDF (A4, альбомная ориентация).
func (h *Handler) ExportPDF(c fiber.Ctx) error {
	plan, devices, err := decodePlanRequest(c.Body())
	if err != nil {
		return badRequest(c, err)
	}

	var buf bytes.Buffer
	if err := h.pdf.Export(&buf, plan, devices); err != nil {
		h.logger.Warn("pdf export failed", zap.String("plan_id", plan.ID), zap.Error(err))
		return badRequest(c, err)
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", plan.Name+".pdf"))
	return c.Send(buf.Bytes())
}

// ConvertSVG конвертирует SVG-чертеж в план этажа и здание.
// Параметры запроса: scale (единицы SVG -> метры), mirror, height.
func (h *Handler) ConvertSVG(c fiber.Ctx) error {
	// Получаем файл из multipart/form-data
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file required in multipart/form-data",
		})
	}

	opts := mapper.DefaultConvertOptions()
	if v := c.Query("scale"); v != "" {
		s, err := strconv.ParseFloat(v, 64)
		if err != nil || s <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scale must be a positive number"})
		}
		opts.Scale = s
	}
	if v := c.Query("mirror"); v != "" {
		m, err := strconv.ParseBool(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mirror must be a boolean"})
		}
		opts.Mirror = m
	}
	if v := c.Query("height"); v != "" {
		hgt, err := strconv.ParseFloat(v, 64)
		if err != nil || hgt <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "height must be a positive number"})
		}
		opts.WallHeight = hgt
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to open file",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read file",
		})
	}

	h.logger.Info("converting svg",
		zap.String("file", file.Filename),
		zap.Int("bytes", len(data)),
		zap.Float64("scale", opts.Scale),
		zap.Bool("mirror", opts.Mirror),
	)
	conv, err := mapper.New(opts, h.logger).Convert(bytes.NewReader(data), file.Filename)
	if err != nil {
		h.logger.Warn("conversion failed", zap.String("file", file.Filename), zap.Error(err))
		return badRequest(c, err)
	}
	return c.JSON(conv)
}

// ProjectPlan строит 3D-трансформы стен и полов для плана.
func (h *Handler) ProjectPlan(c fiber.Ctx) error {
	plan, _, err := decodePlanRequest(c.Body())
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(h.projector.ProjectFloorPlan(plan))
}
