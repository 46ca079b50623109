package geometry

import (
	"fmt"
	"math"
)

// Affine represents a 2D affine transform in row-major form:
// [ a b c ]
// [ d e f ]
// where (x', y') = (a*x + b*y + c, d*x + e*y + f)
type Affine struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
}

func MakeAffine(a, b, c, d, e, f float64) Affine { return Affine{A: a, B: b, C: c, D: d, E: e, F: f} }

// Identity returns the transform that maps every point to itself.
func Identity() Affine { return MakeAffine(1, 0, 0, 0, 1, 0) }

// MulPoint applies the transform to a point.
func (t Affine) MulPoint(p Point2D) Point2D {
	return Point2D{
		X: t.A*p.X + t.B*p.Y + t.C,
		Y: t.D*p.X + t.E*p.Y + t.F,
	}
}

// Mul composes two transforms (applies u then t).
func (t Affine) Mul(u Affine) Affine {
	return MakeAffine(
		t.A*u.A+t.B*u.D,
		t.A*u.B+t.B*u.E,
		t.A*u.C+t.B*u.F+t.C,
		t.D*u.A+t.E*u.D,
		t.D*u.B+t.E*u.E,
		t.D*u.C+t.E*u.F+t.F,
	)
}

// Inv returns the inverse transform, or an error when the determinant is ~0.
func (t Affine) Inv() (Affine, error) {
	det := t.A*t.E - t.B*t.D
	if math.Abs(det) < 1e-12 {
		return Affine{}, fmt.Errorf("affine transform is not invertible (determinant ≈ 0)")
	}
	return MakeAffine(
		t.E/det, -t.B/det, (t.B*t.F-t.C*t.E)/det,
		-t.D/det, t.A/det, (t.C*t.D-t.A*t.F)/det,
	), nil
}

// Translate and Scale are the only building blocks the 2D view needs.
func Translate(tx, ty float64) Affine { return MakeAffine(1, 0, tx, 0, 1, ty) }
func Scale(sx, sy float64) Affine     { return MakeAffine(sx, 0, 0, 0, sy, 0) }

// Mirror returns a transform flipping the Y axis around y = height/2. SVG
// sources drawn with a downward Y axis go through it on import.
func Mirror(height float64) Affine { return MakeAffine(1, 0, 0, 0, -1, height) }
