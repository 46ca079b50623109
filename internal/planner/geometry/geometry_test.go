package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestDistanceAndAngle(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(Pt(0, 0), Pt(3, 4)), eps)
	assert.InDelta(t, 0.0, Angle(Pt(0, 0), Pt(1, 0)), eps)
	assert.InDelta(t, math.Pi/2, Angle(Pt(0, 0), Pt(0, 2)), eps)
	assert.InDelta(t, math.Pi, Angle(Pt(0, 0), Pt(-1, 0)), eps)
}

func TestNormalizeRectangle(t *testing.T) {
	tests := []struct {
		name string
		in   Rectangle
		want Rectangle
	}{
		{"positive", Rectangle{1, 2, 3, 4}, Rectangle{1, 2, 3, 4}},
		{"negative width", Rectangle{5, 2, -3, 4}, Rectangle{2, 2, 3, 4}},
		{"negative height", Rectangle{1, 6, 3, -4}, Rectangle{1, 2, 3, 4}},
		{"both negative", Rectangle{0, 0, -2, -2}, Rectangle{-2, -2, 2, 2}},
		{"zero", Rectangle{1, 1, 0, 0}, Rectangle{1, 1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRectangle(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRectangle_PreservesCorners(t *testing.T) {
	for _, w := range []float64{-7.5, -1, 0, 2, 9.25} {
		for _, h := range []float64{-3, -0.5, 0, 4, 11} {
			in := Rectangle{X: 1.5, Y: -2, Width: w, Height: h}
			out := NormalizeRectangle(in)

			require.GreaterOrEqual(t, out.Width, 0.0)
			require.GreaterOrEqual(t, out.Height, 0.0)

			// Same corner set, ignoring order.
			inCorners := map[Point2D]bool{}
			for _, c := range in.Corners() {
				inCorners[c] = true
			}
			for _, c := range out.Corners() {
				assert.True(t, inCorners[c], "corner %v of %v not in input %v", c, out, in)
			}
		}
	}
}

func TestRectangleFromCorners(t *testing.T) {
	got := RectangleFromCorners(Pt(2, 2), Pt(-1, 5))
	assert.Equal(t, Rectangle{X: -1, Y: 2, Width: 3, Height: 3}, got)
}

func TestPointInRectangle(t *testing.T) {
	r := Rectangle{0, 0, 10, 5}
	assert.True(t, PointInRectangle(Pt(5, 2), r))
	assert.True(t, PointInRectangle(Pt(10, 5), r))
	assert.False(t, PointInRectangle(Pt(10.1, 2), r))
	assert.False(t, PointInRectangle(Pt(5, -0.1), r))
}

func TestRectanglesIntersect(t *testing.T) {
	a := Rectangle{0, 0, 2, 2}
	assert.True(t, RectanglesIntersect(a, Rectangle{1, 1, 2, 2}))
	assert.True(t, RectanglesIntersect(a, Rectangle{2, 0, 1, 1}), "touching edges overlap")
	assert.False(t, RectanglesIntersect(a, Rectangle{2.5, 0, 1, 1}))
	assert.False(t, RectanglesIntersect(a, Rectangle{0, -3, 1, 1}))
}

func TestScreenWorldRoundTrip(t *testing.T) {
	vb := ViewBox{X: -20, Y: 5, Width: 40, Height: 30}
	const w, h = 800.0, 600.0

	for _, sx := range []float64{0, 13, 400, 799.5} {
		for _, sy := range []float64{0, 17.25, 300, 600} {
			world := ScreenToWorld(sx, sy, vb, w, h)
			back := WorldToScreen(world.X, world.Y, vb, w, h)
			assert.InDelta(t, sx, back.X, 1e-9)
			assert.InDelta(t, sy, back.Y, 1e-9)
		}
	}

	center := ScreenToWorld(400, 300, vb, w, h)
	assert.InDelta(t, 0.0, center.X, eps)
	assert.InDelta(t, 20.0, center.Y, eps)
}

func TestScreenTransformMatchesWorldToScreen(t *testing.T) {
	vb := ViewBox{X: 3, Y: -4, Width: 12, Height: 9}
	tr := vb.ScreenTransform(640, 480)

	p := Pt(7.5, 1.25)
	want := WorldToScreen(p.X, p.Y, vb, 640, 480)
	got := tr.MulPoint(p)
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)

	inv, err := tr.Inv()
	require.NoError(t, err)
	back := inv.MulPoint(got)
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestAffineInvSingular(t *testing.T) {
	_, err := Scale(0, 1).Inv()
	assert.Error(t, err)
}

func TestSnapToAxis(t *testing.T) {
	anchor := Pt(1, 1)
	assert.Equal(t, Pt(6, 1), SnapToAxis(anchor, Pt(6, 2)))
	assert.Equal(t, Pt(1, 7), SnapToAxis(anchor, Pt(2, 7)))
	// |dx| == |dy| goes vertical.
	assert.Equal(t, Pt(1, 4), SnapToAxis(anchor, Pt(4, 4)))
}

func TestTriangulate(t *testing.T) {
	square := []Point2D{Pt(0, 0), Pt(4, 0), Pt(4, 4), Pt(0, 4), Pt(0, 0)}
	tris, err := Triangulate(square)
	require.NoError(t, err)
	require.Len(t, tris, 2)

	var area float64
	for _, tri := range tris {
		area += PolygonArea(tri[:])
	}
	assert.InDelta(t, 16.0, area, 1e-9)
	assert.InDelta(t, 16.0, PolygonArea(square), 1e-9)

	_, err = Triangulate([]Point2D{Pt(0, 0), Pt(1, 1)})
	assert.Error(t, err)
}

func TestBounds(t *testing.T) {
	got := Bounds([]Point2D{Pt(2, -1), Pt(-3, 4), Pt(0, 0)})
	assert.Equal(t, Rectangle{X: -3, Y: -1, Width: 5, Height: 5}, got)
	assert.Equal(t, Rectangle{}, Bounds(nil))
}
