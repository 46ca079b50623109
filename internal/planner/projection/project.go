package projection

import (
	"fmt"

	"go.uber.org/zap"

	"iot-planner/internal/planner/geometry"
	"iot-planner/internal/planner/models"
)

// ============================================================
// Projection result
// ============================================================

type ColumnTransform struct {
	ID       string      `json:"id"`
	Position models.Vec3 `json:"position"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Depth    float64     `json:"depth"`
}

// FloorSlab is a room floor split into triangles on the plan plane.
type FloorSlab struct {
	RoomID    string                `json:"roomId"`
	Triangles [][3]geometry.Point2D `json:"triangles"`
	Area      float64               `json:"area"`
}

type Projection struct {
	Walls   []WallTransform    `json:"walls"`
	Columns []ColumnTransform  `json:"columns"`
	Doors   []OpeningTransform `json:"doors"`
	Windows []OpeningTransform `json:"windows"`
	Floors  []FloorSlab        `json:"floors"`
	// Orphans lists openings whose wall does not exist.
	Orphans []string `json:"orphans,omitempty"`
}

func newProjection() Projection {
	return Projection{
		Walls:   []WallTransform{},
		Columns: []ColumnTransform{},
		Doors:   []OpeningTransform{},
		Windows: []OpeningTransform{},
		Floors:  []FloorSlab{},
	}
}

// ============================================================
// Projector
// ============================================================

type Projector struct {
	logger *zap.Logger
}

func NewProjector(logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{logger: logger}
}

// ProjectBuilding turns a building document into 3D transforms. Openings
// referencing a missing wall are left out; an opening position outside
// [0, 1] fails the whole projection.
func (p *Projector) ProjectBuilding(b models.Building) (Projection, error) {
	out := newProjection()
	walls := b.WallIndex()

	for _, w := range b.Walls {
		out.Walls = append(out.Walls, WallBoxFor(w))
	}
	for _, c := range b.Columns {
		out.Columns = append(out.Columns, ColumnTransform{
			ID:       c.ID,
			Position: models.Vec3{X: c.Position.X, Y: c.Height / 2, Z: c.Position.Y},
			Width:    c.Width,
			Height:   c.Height,
			Depth:    c.Depth,
		})
	}

	openings := make([]Opening, 0, len(b.Doors)+len(b.Windows))
	for _, d := range b.Doors {
		openings = append(openings, DoorOpening(d))
	}
	for _, w := range b.Windows {
		openings = append(openings, WindowOpening(w))
	}
	for _, o := range openings {
		wall, ok := walls[o.WallID]
		if !ok {
			p.logger.Debug("orphaned opening skipped",
				zap.String("opening_id", o.ID),
				zap.String("wall_id", o.WallID),
			)
			out.Orphans = append(out.Orphans, o.ID)
			continue
		}
		t, err := PlaceOpening(wall, o)
		if err != nil {
			return Projection{}, err
		}
		if o.Kind == OpeningDoor {
			out.Doors = append(out.Doors, t)
		} else {
			out.Windows = append(out.Windows, t)
		}
	}

	if b.Dimensions.Width > 0 && b.Dimensions.Depth > 0 {
		floor := geometry.Rectangle{Width: b.Dimensions.Width, Height: b.Dimensions.Depth}
		corners := floor.Corners()
		if slab, err := floorSlab("floor", corners[:]); err == nil {
			out.Floors = append(out.Floors, slab)
		}
	}
	return out, nil
}

// ProjectFloorPlan extrudes floor-plan walls and triangulates room floors.
// Rooms that cannot be triangulated are skipped.
func (p *Projector) ProjectFloorPlan(plan models.FloorPlan) Projection {
	out := newProjection()
	for _, w := range plan.Walls {
		out.Walls = append(out.Walls, WallBoxFor(w))
	}
	for _, r := range plan.Rooms {
		slab, err := floorSlab(r.ID, r.Outline())
		if err != nil {
			p.logger.Warn("room floor skipped", zap.String("room_id", r.ID), zap.Error(err))
			continue
		}
		out.Floors = append(out.Floors, slab)
	}
	return out
}

func floorSlab(id string, outline []geometry.Point2D) (FloorSlab, error) {
	tris, err := geometry.Triangulate(outline)
	if err != nil {
		return FloorSlab{}, fmt.Errorf("room %s: %w", id, err)
	}
	return FloorSlab{RoomID: id, Triangles: tris, Area: geometry.PolygonArea(outline)}, nil
}
