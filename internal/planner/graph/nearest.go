package graph

import (
	"math"

	"iot-planner/internal/planner/geometry"
	"iot-planner/internal/planner/models"
)

// NearestWall finds the wall closest to p. It returns the wall, the
// parametric position of p's projection along it (0..1) and the distance.
// ok is false when walls is empty or all walls are degenerate.
func NearestWall(p geometry.Point2D, walls []models.Wall) (wall models.Wall, position, dist float64, ok bool) {
	dist = math.MaxFloat64
	for _, w := range walls {
		d, t, valid := pointToSegment(p, w.Start, w.End)
		if !valid || d >= dist {
			continue
		}
		wall, position, dist, ok = w, t, d, true
	}
	return wall, position, dist, ok
}

// pointToSegment returns the distance from p to segment ab and the
// clamped parametric position of the projection.
func pointToSegment(p, a, b geometry.Point2D) (float64, float64, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return 0, 0, false
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = clamp(t, 0, 1)

	proj := geometry.Pt(a.X+t*dx, a.Y+t*dy)
	return geometry.Distance(p, proj), t, true
}
