package models

// ============================================================
// SVG Elements
// ============================================================

// SVGElement is a classified element of an imported SVG floor plan.
type SVGElement struct {
	ID       string
	Type     string // wall, door, window, room
	Geometry interface{}
}

type RectGeometry struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type PathGeometry struct {
	D string
}
