package geometry

import (
	"fmt"
	"math"

	"github.com/rclancey/earcut"
)

// Triangulate splits a simple polygon into triangles using earcut. Vertex
// order does not matter; a closing duplicate of the first vertex is dropped.
func Triangulate(polygon []Point2D) ([][3]Point2D, error) {
	polygon = dropClosingVertex(polygon)
	if len(polygon) < 3 {
		return nil, fmt.Errorf("degenerate polygon (%d vertices < 3)", len(polygon))
	}

	// Flat [x0, y0, x1, y1, ...] as earcut expects.
	coords := make([]float64, len(polygon)*2)
	for i, p := range polygon {
		coords[i*2] = p.X
		coords[i*2+1] = p.Y
	}

	indices, err := earcut.Earcut(coords, nil /* holeIndices */, 2 /* dim */)
	if err != nil {
		return nil, fmt.Errorf("triangulate %d-vertex polygon: %w", len(polygon), err)
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("invalid triangle index count %d", len(indices))
	}

	triangles := make([][3]Point2D, len(indices)/3)
	for i := range triangles {
		base := i * 3
		triangles[i] = [3]Point2D{
			polygon[indices[base]],
			polygon[indices[base+1]],
			polygon[indices[base+2]],
		}
	}
	return triangles, nil
}

// PolygonArea returns the absolute shoelace area.
func PolygonArea(polygon []Point2D) float64 {
	polygon = dropClosingVertex(polygon)
	if len(polygon) < 3 {
		return 0
	}
	var sum float64
	for i := range polygon {
		j := (i + 1) % len(polygon)
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return math.Abs(sum) / 2
}

// Bounds returns the bounding rectangle of a point set.
func Bounds(points []Point2D) Rectangle {
	if len(points) == 0 {
		return Rectangle{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func dropClosingVertex(polygon []Point2D) []Point2D {
	if n := len(polygon); n > 1 {
		first, last := polygon[0], polygon[n-1]
		if almostEqual(first.X, last.X) && almostEqual(first.Y, last.Y) {
			return polygon[:n-1]
		}
	}
	return polygon
}
