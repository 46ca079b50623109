// Package raycast picks placement poses on 3D building surfaces: it casts a
// ray from the camera through the pointer, intersects it with a candidate
// surface set and derives a position and yaw flush with the surface hit.
package raycast

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================
// Camera & Ray
// ============================================================

// Camera is a perspective camera. FovY is in degrees.
type Camera struct {
	Position mgl64.Vec3 `json:"position"`
	Target   mgl64.Vec3 `json:"target"`
	Up       mgl64.Vec3 `json:"up"`
	FovY     float64    `json:"fov"`
	Aspect   float64    `json:"aspect"`
	Near     float64    `json:"near"`
	Far      float64    `json:"far"`
}

// DefaultCamera looks at the origin from above and in front, Y up.
func DefaultCamera() Camera {
	return Camera{
		Position: mgl64.Vec3{20, 20, 20},
		Target:   mgl64.Vec3{0, 0, 0},
		Up:       mgl64.Vec3{0, 1, 0},
		FovY:     50,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      1000,
	}
}

func (c Camera) View() mgl64.Mat4 {
	up := c.Up
	if up.Len() == 0 {
		up = mgl64.Vec3{0, 1, 0}
	}
	return mgl64.LookAtV(c.Position, c.Target, up)
}

func (c Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// Ray is a half-line with a unit Direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func (r Ray) At(t float64) mgl64.Vec3 { return r.Origin.Add(r.Direction.Mul(t)) }

// RayFromNDC casts a ray from the camera through a point given in
// normalized device coordinates (both axes in [-1, 1], +Y up).
func (c Camera) RayFromNDC(ndc mgl64.Vec2) Ray {
	inv := c.Projection().Mul4(c.View()).Inv()
	far := mgl64.TransformCoordinate(mgl64.Vec3{ndc[0], ndc[1], 1}, inv)
	return Ray{
		Origin:    c.Position,
		Direction: far.Sub(c.Position).Normalize(),
	}
}

// PointerToNDC maps a pixel position inside a width x height canvas to
// normalized device coordinates, inverting Y.
func PointerToNDC(px, py, width, height float64) mgl64.Vec2 {
	return mgl64.Vec2{
		(px/width)*2 - 1,
		-(py/height)*2 + 1,
	}
}
