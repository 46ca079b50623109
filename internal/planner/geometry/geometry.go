// Package geometry holds the 2D primitives shared by the floor-plan editor,
// the SVG converter and the structural projection.
package geometry

import "math"

// ============================================================
// Primitives
// ============================================================

// Point2D is a world-space coordinate on the floor-plan plane.
type Point2D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Rectangle is an axis-aligned box. Only NormalizeRectangle guarantees
// non-negative Width/Height.
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ViewBox is the visible world-space window mapped onto the editor's pixels.
type ViewBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func Pt(x, y float64) Point2D { return Point2D{X: x, Y: y} }

func (p Point2D) Add(q Point2D) Point2D   { return Point2D{p.X + q.X, p.Y + q.Y} }
func (p Point2D) Sub(q Point2D) Point2D   { return Point2D{p.X - q.X, p.Y - q.Y} }
func (p Point2D) Scale(s float64) Point2D { return Point2D{p.X * s, p.Y * s} }
func (p Point2D) Length() float64         { return math.Hypot(p.X, p.Y) }
func (p Point2D) Lerp(q Point2D, t float64) Point2D {
	return Point2D{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Distance returns the euclidean distance between two points.
func Distance(p1, p2 Point2D) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Angle returns atan2(dy, dx) of the vector p1->p2, in (-π, π].
func Angle(p1, p2 Point2D) float64 {
	return math.Atan2(p2.Y-p1.Y, p2.X-p1.X)
}

// ============================================================
// Rectangles
// ============================================================

// NormalizeRectangle turns a rectangle dragged in any direction into its
// canonical form with non-negative width and height.
func NormalizeRectangle(r Rectangle) Rectangle {
	return Rectangle{
		X:      math.Min(r.X, r.X+r.Width),
		Y:      math.Min(r.Y, r.Y+r.Height),
		Width:  math.Abs(r.Width),
		Height: math.Abs(r.Height),
	}
}

// RectangleFromCorners builds the normalized rectangle spanned by two
// arbitrary corner points.
func RectangleFromCorners(a, b Point2D) Rectangle {
	return NormalizeRectangle(Rectangle{X: a.X, Y: a.Y, Width: b.X - a.X, Height: b.Y - a.Y})
}

// Corners returns the four corners in drawing order, starting at (X, Y).
func (r Rectangle) Corners() [4]Point2D {
	return [4]Point2D{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}

func (r Rectangle) Area() float64 { return math.Abs(r.Width * r.Height) }

func (r Rectangle) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// PointInRectangle reports whether p lies inside r, edges included.
func PointInRectangle(p Point2D, r Rectangle) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// RectanglesIntersect is the standard AABB overlap test: true unless one
// rectangle lies strictly to one side of the other on either axis.
func RectanglesIntersect(a, b Rectangle) bool {
	return !(a.X+a.Width < b.X ||
		b.X+b.Width < a.X ||
		a.Y+a.Height < b.Y ||
		b.Y+b.Height < a.Y)
}

// ============================================================
// Screen <-> World
// ============================================================

// ScreenToWorld maps a pixel position inside an svgWidth x svgHeight
// viewport to world coordinates. A zero-size viewport yields Inf/NaN.
func ScreenToWorld(screenX, screenY float64, vb ViewBox, svgWidth, svgHeight float64) Point2D {
	scaleX := vb.Width / svgWidth
	scaleY := vb.Height / svgHeight
	return Point2D{
		X: vb.X + screenX*scaleX,
		Y: vb.Y + screenY*scaleY,
	}
}

// WorldToScreen is the inverse of ScreenToWorld.
func WorldToScreen(worldX, worldY float64, vb ViewBox, svgWidth, svgHeight float64) Point2D {
	scaleX := vb.Width / svgWidth
	scaleY := vb.Height / svgHeight
	return Point2D{
		X: (worldX - vb.X) / scaleX,
		Y: (worldY - vb.Y) / scaleY,
	}
}

// ScreenTransform returns the world->screen map of the view box as an affine
// transform. It never rotates.
func (vb ViewBox) ScreenTransform(svgWidth, svgHeight float64) Affine {
	sx := svgWidth / vb.Width
	sy := svgHeight / vb.Height
	return MakeAffine(sx, 0, -vb.X*sx, 0, sy, -vb.Y*sy)
}

// ============================================================
// Snapping
// ============================================================

// SnapToAxis constrains p so the segment anchor->p is axis-aligned:
// horizontal when |dx| > |dy|, vertical otherwise.
func SnapToAxis(anchor, p Point2D) Point2D {
	dx := p.X - anchor.X
	dy := p.Y - anchor.Y
	if math.Abs(dx) > math.Abs(dy) {
		return Point2D{X: p.X, Y: anchor.Y}
	}
	return Point2D{X: anchor.X, Y: p.Y}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
