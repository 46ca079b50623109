// Package mapper converts floor plans between their document forms: SVG
// drawings in, SVG and PDF out.
package mapper

import (
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"iot-planner/internal/planner/geometry"
	"iot-planner/internal/planner/graph"
	"iot-planner/internal/planner/models"
	"iot-planner/internal/planner/parser"
)

// ============================================================
// Converter
// ============================================================

// Default opening sizes (meters) for SVG sources that only give a width.
const (
	defaultDoorHeight     = 2.15
	defaultWindowHeight   = 1.0
	defaultWindowAltitude = 0.9
)

type ConvertOptions struct {
	// Scale converts SVG units to world units (0.01 for centimeter drawings).
	Scale float64
	// Mirror flips the drawing vertically so SVG's downward Y becomes up.
	Mirror     bool
	WallHeight float64
	// Tolerances are given in SVG units and scaled with the drawing.
	Tolerances graph.Tolerances
}

func DefaultConvertOptions() ConvertOptions {
	return ConvertOptions{
		Scale:      0.01,
		WallHeight: models.DefaultWallHeight,
		Tolerances: graph.DefaultTolerances(),
	}
}

// Conversion is the outcome of one SVG import: the editable floor plan and
// the same walls as a building document with their openings attached.
type Conversion struct {
	Plan     models.FloorPlan `json:"plan"`
	Building models.Building  `json:"building"`
}

type Converter struct {
	opts    ConvertOptions
	builder *graph.GraphBuilder
	logger  *zap.Logger
}

func New(opts ConvertOptions, logger *zap.Logger) *Converter {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.WallHeight <= 0 {
		opts.WallHeight = models.DefaultWallHeight
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		opts:    opts,
		builder: graph.NewGraphBuilder(scaleTolerances(opts.Tolerances, opts.Scale)),
		logger:  logger,
	}
}

// Convert конвертирует SVG в FloorPlan и Building
func (c *Converter) Convert(r io.Reader, name string) (*Conversion, error) {
	doc, err := parser.ParseSVG(r)
	if err != nil {
		return nil, fmt.Errorf("parse SVG: %w", err)
	}

	transform := c.transform(doc.Canvas)
	c.builder.SetTransform(transform)

	// Разделяем элементы по типам
	var walls, doors, windows, rooms []models.SVGElement
	for _, elem := range doc.Elements {
		switch elem.Type {
		case "wall":
			walls = append(walls, elem)
		case "door":
			doors = append(doors, elem)
		case "window":
			windows = append(windows, elem)
		case "room":
			rooms = append(rooms, elem)
		}
	}

	// Строим граф стен
	segments := make([]graph.Segment, 0, len(walls))
	for _, w := range walls {
		seg, err := wallSegment(w)
		if err != nil {
			c.logger.Warn("wall skipped", zap.String("element_id", w.ID), zap.Error(err))
			continue
		}
		seg.Thickness *= c.opts.Scale
		if seg.Thickness == 0 {
			seg.Thickness = models.DefaultWallThickness
		}
		segments = append(segments, seg)
	}
	c.builder.Build(segments)
	planWalls := c.builder.Walls(c.opts.WallHeight, models.WallExterior)

	plan := models.FloorPlan{
		ID:       uuid.NewString(),
		Name:     name,
		Metadata: models.Metadata{Scale: c.opts.Scale, Unit: "m"},
		Rooms:    []models.Room{},
		Walls:    planWalls,
	}
	for _, room := range rooms {
		if r, ok := c.createRoom(room, transform); ok {
			plan.Rooms = append(plan.Rooms, r)
		}
	}

	building := models.Building{
		Name:    name,
		Walls:   planWalls,
		Doors:   []models.Door{},
		Windows: []models.Window{},
	}
	bounds := geometry.Bounds(wallPoints(planWalls))
	building.Dimensions = models.Dimensions{Width: bounds.X + bounds.Width, Depth: bounds.Y + bounds.Height, Height: c.opts.WallHeight}

	// Создаем проемы (двери + окна)
	for _, d := range doors {
		wallID, pos, width, ok := c.attachOpening(d, planWalls, transform)
		if !ok {
			continue
		}
		building.Doors = append(building.Doors, models.Door{
			ID: d.ID, WallID: wallID, Position: pos, Width: width, Height: defaultDoorHeight,
		})
	}
	for _, w := range windows {
		wallID, pos, width, ok := c.attachOpening(w, planWalls, transform)
		if !ok {
			continue
		}
		building.Windows = append(building.Windows, models.Window{
			ID: w.ID, WallID: wallID, Position: pos, Width: width,
			Height: defaultWindowHeight, YPosition: defaultWindowAltitude,
		})
	}

	c.logger.Info("svg converted",
		zap.String("name", name),
		zap.Int("walls", len(planWalls)),
		zap.Int("rooms", len(plan.Rooms)),
		zap.Int("doors", len(building.Doors)),
		zap.Int("windows", len(building.Windows)),
	)
	return &Conversion{Plan: plan, Building: building}, nil
}

// transform maps SVG coordinates to world coordinates.
func (c *Converter) transform(canvas geometry.Rectangle) func(geometry.Point2D) geometry.Point2D {
	t := geometry.Scale(c.opts.Scale, c.opts.Scale)
	if c.opts.Mirror {
		t = t.Mul(geometry.Mirror(canvas.Y*2 + canvas.Height))
	}
	return t.MulPoint
}

// createRoom создает комнату из элемента
func (c *Converter) createRoom(elem models.SVGElement, transform func(geometry.Point2D) geometry.Point2D) (models.Room, bool) {
	points, err := elementPoints(elem)
	if err != nil || len(points) < 3 {
		return models.Room{}, false
	}
	for i := range points {
		points[i] = transform(points[i])
	}

	if _, isRect := elem.Geometry.(models.RectGeometry); isRect {
		b := geometry.Bounds(points)
		return models.Room{ID: elem.ID, Type: models.RoomRectangle, Name: elem.ID, Bounds: &b}, true
	}
	return models.Room{ID: elem.ID, Type: models.RoomPolygon, Name: elem.ID, Vertices: points}, true
}

// attachOpening ищет ближайшую стену для проема
func (c *Converter) attachOpening(elem models.SVGElement, walls []models.Wall, transform func(geometry.Point2D) geometry.Point2D) (string, float64, float64, bool) {
	points, err := elementPoints(elem)
	if err != nil || len(points) == 0 {
		return "", 0, 0, false
	}
	for i := range points {
		points[i] = transform(points[i])
	}

	var center geometry.Point2D
	for _, p := range points {
		center = center.Add(p)
	}
	center = center.Scale(1 / float64(len(points)))

	wall, pos, _, ok := graph.NearestWall(center, walls)
	if !ok {
		c.logger.Debug("opening without wall", zap.String("element_id", elem.ID))
		return "", 0, 0, false
	}
	b := geometry.Bounds(points)
	return wall.ID, pos, math.Max(b.Width, b.Height), true
}

// ============================================================
// Geometry helpers
// ============================================================

// wallSegment turns a wall element into its centerline. Rects and paths
// both use the long side of their bounding box, the short side becomes
// the thickness.
func wallSegment(elem models.SVGElement) (graph.Segment, error) {
	points, err := elementPoints(elem)
	if err != nil {
		return graph.Segment{}, err
	}
	if len(points) < 2 {
		return graph.Segment{}, fmt.Errorf("wall %s has %d points", elem.ID, len(points))
	}

	// Отрезок из двух точек берем как есть
	if _, ok := elem.Geometry.(models.PathGeometry); ok && len(points) == 2 {
		return graph.Segment{ID: elem.ID, Start: points[0], End: points[1]}, nil
	}

	b := geometry.Bounds(points)
	if b.Width >= b.Height {
		// горизонтальная: середина по Y, края по X
		y := b.Y + b.Height/2
		return graph.Segment{ID: elem.ID, Start: geometry.Pt(b.X, y), End: geometry.Pt(b.X+b.Width, y), Thickness: b.Height}, nil
	}
	// вертикальная: середина по X, края по Y
	x := b.X + b.Width/2
	return graph.Segment{ID: elem.ID, Start: geometry.Pt(x, b.Y), End: geometry.Pt(x, b.Y+b.Height), Thickness: b.Width}, nil
}

func elementPoints(elem models.SVGElement) ([]geometry.Point2D, error) {
	switch geom := elem.Geometry.(type) {
	case models.PathGeometry:
		points, err := parser.ParsePath(geom.D)
		if err != nil {
			return nil, err
		}
		// убираем дубль замыкания
		if n := len(points); n > 2 && points[0] == points[n-1] {
			points = points[:n-1]
		}
		return points, nil
	case models.RectGeometry:
		c := geometry.Rectangle{X: geom.X, Y: geom.Y, Width: geom.Width, Height: geom.Height}.Corners()
		return c[:], nil
	}
	return nil, fmt.Errorf("unknown geometry type %T", elem.Geometry)
}

func wallPoints(walls []models.Wall) []geometry.Point2D {
	out := make([]geometry.Point2D, 0, len(walls)*2)
	for _, w := range walls {
		out = append(out, w.Start, w.End)
	}
	return out
}

func scaleTolerances(t graph.Tolerances, s float64) graph.Tolerances {
	return graph.Tolerances{
		Vertex:   t.Vertex * s,
		Connect:  t.Connect * s,
		Merge:    t.Merge * s,
		AxisSnap: t.AxisSnap * s,
	}
}
