package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"iot-planner/internal/planner/models"
	"iot-planner/internal/planner/projection"
	"iot-planner/internal/planner/raycast"
)

// ============================================================
// Building Handlers
// ============================================================

func bodyFormat(contentType string) projection.Format {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "yaml") || strings.Contains(ct, "yml") {
		return projection.FormatYAML
	}
	return projection.FormatJSON
}

// ProjectBuilding строит 3D-трансформы здания (JSON или YAML по Content-Type).
func (h *Handler) ProjectBuilding(c fiber.Ctx) error {
	b, err := projection.DecodeBuilding(c.Body(), bodyFormat(c.Get("Content-Type")))
	if err != nil {
		return badRequest(c, err)
	}

	proj, err := h.projector.ProjectBuilding(b)
	if err != nil {
		h.logger.Warn("projection failed", zap.String("building", b.Name), zap.Error(err))
		if errors.Is(err, projection.ErrPositionOutOfRange) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(proj)
}

// ============================================================
// Placement Pick
// ============================================================

type pointer struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type pickRequest struct {
	Building     json.RawMessage `json:"building"`
	Camera       *raycast.Camera `json:"camera"`
	Pointer      *pointer        `json:"pointer"`
	NDC          *mgl64.Vec2     `json:"ndc"`
	Depth        float64         `json:"depth"`
	DeviceTypeID string          `json:"deviceTypeId"`
}

type pickResponse struct {
	models.Preview
	Event *models.PlacementEvent `json:"event,omitempty"`
}

// camera fills unset fields of the requested camera from the default one.
func (r pickRequest) camera() raycast.Camera {
	def := raycast.DefaultCamera()
	if r.Camera == nil {
		return def
	}
	cam := *r.Camera
	if cam.Up.Len() == 0 {
		cam.Up = def.Up
	}
	if cam.FovY <= 0 {
		cam.FovY = def.FovY
	}
	if cam.Aspect <= 0 {
		cam.Aspect = def.Aspect
		if r.Pointer != nil && r.Pointer.Height > 0 {
			cam.Aspect = r.Pointer.Width / r.Pointer.Height
		}
	}
	if cam.Near <= 0 {
		cam.Near = def.Near
	}
	if cam.Far <= cam.Near {
		cam.Far = def.Far
	}
	return cam
}

func (r pickRequest) ndc() (mgl64.Vec2, error) {
	switch {
	case r.NDC != nil:
		return *r.NDC, nil
	case r.Pointer != nil:
		if r.Pointer.Width <= 0 || r.Pointer.Height <= 0 {
			return mgl64.Vec2{}, fmt.Errorf("pointer canvas size must be positive")
		}
		return raycast.PointerToNDC(r.Pointer.X, r.Pointer.Y, r.Pointer.Width, r.Pointer.Height), nil
	}
	return mgl64.Vec2{}, fmt.Errorf("pointer or ndc required")
}

// Pick бросает луч в сцену здания и возвращает позу устройства.
// Промах не считается ошибкой: в ответе isValid=false.
func (h *Handler) Pick(c fiber.Ctx) error {
	var req pickRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, err)
	}
	if len(req.Building) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "building required"})
	}
	b, err := projection.DecodeBuilding(req.Building, projection.FormatJSON)
	if err != nil {
		return badRequest(c, err)
	}
	ndc, err := req.ndc()
	if err != nil {
		return badRequest(c, err)
	}

	depth := req.Depth
	if req.DeviceTypeID != "" {
		dt, ok := h.catalog.Lookup(req.DeviceTypeID)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": fmt.Sprintf("unknown device type %q", req.DeviceTypeID),
			})
		}
		depth = dt.Size.Depth
	}

	proj, err := h.projector.ProjectBuilding(b)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	root := projection.SceneFromBuilding(b, proj)

	ev, ok := raycast.Pick(req.camera(), root, ndc, depth, h.cast)
	if !ok {
		h.logger.Debug("pick missed", zap.Float64("ndc_x", ndc[0]), zap.Float64("ndc_y", ndc[1]))
		return c.JSON(pickResponse{Preview: models.InvalidPreview()})
	}

	h.logger.Debug("pick hit",
		zap.String("attached_to", ev.AttachedTo),
		zap.String("attached_to_id", ev.AttachedToID),
	)
	pos, rot := ev.Position, ev.Rotation
	return c.JSON(pickResponse{
		Preview: models.Preview{Position: &pos, Rotation: &rot, IsValid: true},
		Event:   &ev,
	})
}
