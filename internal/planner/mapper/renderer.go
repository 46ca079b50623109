package mapper

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"iot-planner/internal/planner/geometry"
	"iot-planner/internal/planner/models"
)

// ============================================================
// Renderer
// ============================================================

// Palette colors device markers by device type id. *placement.Catalog
// satisfies it.
type Palette interface {
	Color(typeID string) colorful.Color
}

type RenderOptions struct {
	// Scale is SVG units per world unit.
	Scale float64
	// Padding around the drawing, in world units.
	Padding      float64
	MarkerRadius float64
	Palette      Palette
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Scale: 100, Padding: 0.5, MarkerRadius: 0.15}
}

type Renderer struct {
	opts RenderOptions
}

func NewRenderer(opts RenderOptions) *Renderer {
	if opts.Scale <= 0 {
		opts.Scale = 100
	}
	return &Renderer{opts: opts}
}

// Render builds an SVG document from a floor plan. Element ids are kept so
// the result can be converted back with a Scale of 1/opts.Scale.
func (r *Renderer) Render(plan models.FloorPlan, devices []models.InstalledDevice) (string, error) {
	bounds, ok := planBounds(plan, devices)
	if !ok {
		return "", fmt.Errorf("floor plan %q is empty", plan.ID)
	}
	pad := r.opts.Padding
	vb := geometry.Rectangle{
		X:      (bounds.X - pad) * r.opts.Scale,
		Y:      (bounds.Y - pad) * r.opts.Scale,
		Width:  (bounds.Width + 2*pad) * r.opts.Scale,
		Height: (bounds.Height + 2*pad) * r.opts.Scale,
	}

	var elements []string
	elements = append(elements, r.renderRooms(plan.Rooms)...)
	elements = append(elements, r.renderWalls(plan.Walls)...)
	elements = append(elements, r.renderDevices(devices)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(vb.Width), formatFloat(vb.Height),
		formatFloat(vb.X), formatFloat(vb.Y), formatFloat(vb.Width), formatFloat(vb.Height)))
	builder.WriteString("\n")
	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}
	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderRooms(rooms []models.Room) []string {
	out := make([]string, 0, len(rooms))
	for i, room := range rooms {
		fill := roomFill(i)
		if room.Type == models.RoomRectangle && room.Bounds != nil {
			b := *room.Bounds
			out = append(out, fmt.Sprintf(`<rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="#888" />`,
				attr(room.ID), r.f(b.X), r.f(b.Y), r.f(b.Width), r.f(b.Height), fill))
			continue
		}
		if len(room.Vertices) < 3 {
			continue
		}
		var path strings.Builder
		path.WriteString(`<path id="`)
		path.WriteString(attr(room.ID))
		path.WriteString(`" d="M `)
		path.WriteString(r.point(room.Vertices[0]))
		for _, p := range room.Vertices[1:] {
			path.WriteString(" L ")
			path.WriteString(r.point(p))
		}
		path.WriteString(` Z" fill="`)
		path.WriteString(fill)
		path.WriteString(`" stroke="#888" />`)
		out = append(out, path.String())
	}
	return out
}

func (r *Renderer) renderWalls(walls []models.Wall) []string {
	out := make([]string, 0, len(walls))
	for _, w := range walls {
		stroke := "#000"
		if w.Type == models.WallInterior {
			stroke = "#444"
		}
		out = append(out, fmt.Sprintf(`<line id="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-linecap="square" />`,
			attr(w.ID), r.f(w.Start.X), r.f(w.Start.Y), r.f(w.End.X), r.f(w.End.Y), stroke, r.f(w.Thickness)))
	}
	return out
}

func (r *Renderer) renderDevices(devices []models.InstalledDevice) []string {
	out := make([]string, 0, len(devices))
	for _, d := range devices {
		color := colorful.Color{R: 0.5, G: 0.5, B: 0.5}
		if r.opts.Palette != nil {
			color = r.opts.Palette.Color(d.SerialNumber)
		}
		if d.Status != models.DeviceActive {
			color = color.BlendLab(colorful.Color{R: 0.5, G: 0.5, B: 0.5}, 0.6).Clamped()
		}
		out = append(out, fmt.Sprintf(`<circle id="device-%s" cx="%s" cy="%s" r="%s" fill="%s" stroke="#fff" />`,
			attr(d.ID), r.f(d.Position.X), r.f(d.Position.Z), r.f(r.opts.MarkerRadius), color.Hex()))
	}
	return out
}

// ============================================================
// Geometry helpers
// ============================================================

// planBounds covers walls, rooms and device markers in world units.
func planBounds(plan models.FloorPlan, devices []models.InstalledDevice) (geometry.Rectangle, bool) {
	var pts []geometry.Point2D
	for _, w := range plan.Walls {
		pts = append(pts, w.Start, w.End)
	}
	for _, room := range plan.Rooms {
		pts = append(pts, room.Outline()...)
	}
	for _, d := range devices {
		pts = append(pts, geometry.Pt(d.Position.X, d.Position.Z))
	}
	if len(pts) == 0 {
		return geometry.Rectangle{}, false
	}
	return geometry.Bounds(pts), true
}

// roomFill spreads room colors around the hue circle, keeping them pale.
func roomFill(i int) string {
	hue := math.Mod(float64(i)*47, 360)
	return colorful.Hcl(hue, 0.15, 0.93).Clamped().Hex()
}

// ============================================================
// Formatting helpers
// ============================================================

// attr escapes caller-supplied ids for use inside a quoted attribute.
func attr(s string) string { return html.EscapeString(s) }

func (r *Renderer) f(v float64) string { return formatFloat(v * r.opts.Scale) }

func (r *Renderer) point(p geometry.Point2D) string { return r.f(p.X) + " " + r.f(p.Y) }

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
