// Package projection extrudes 2D plans into 3D transforms: wall boxes,
// door and window openings placed along their walls, columns and floor
// slabs.
package projection

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"iot-planner/internal/planner/geometry"
	"iot-planner/internal/planner/models"
)

// Clearance keeps openings off the wall surface.
const Clearance = 0.01

var ErrPositionOutOfRange = errors.New("opening position outside [0, 1]")

// ============================================================
// Walls
// ============================================================

// WallTransform is a wall box: Length along the wall, Height up, Thickness
// across. RotationY is the plan angle of the wall measured from +X toward
// +Z.
type WallTransform struct {
	ID        string      `json:"id,omitempty"`
	Position  models.Vec3 `json:"position"`
	RotationY float64     `json:"rotationY"`
	Length    float64     `json:"length"`
	Height    float64     `json:"height"`
	Thickness float64     `json:"thickness"`
}

// WallBox is the one wall transform every consumer uses: centered on the
// segment midpoint at half height and turned by the segment angle. Plan Y
// maps to world Z.
func WallBox(start, end geometry.Point2D, height, thickness float64) WallTransform {
	mid := start.Lerp(end, 0.5)
	return WallTransform{
		Position:  models.Vec3{X: mid.X, Y: height / 2, Z: mid.Y},
		RotationY: geometry.Angle(start, end),
		Length:    geometry.Distance(start, end),
		Height:    height,
		Thickness: thickness,
	}
}

// WallBoxFor applies WallBox to a stored wall.
func WallBoxFor(w models.Wall) WallTransform {
	t := WallBox(w.Start, w.End, w.Height, w.Thickness)
	t.ID = w.ID
	return t
}

// Matrix is the world matrix of a unit box scaled to the wall. Right-handed
// Y-up rotations turn +X toward -Z, hence the negated angle.
func (t WallTransform) Matrix() mgl64.Mat4 {
	return boxMatrix(t.Position, t.RotationY, t.Length, t.Height, t.Thickness)
}

func boxMatrix(pos models.Vec3, rotationY, sx, sy, sz float64) mgl64.Mat4 {
	return mgl64.Translate3D(pos.X, pos.Y, pos.Z).
		Mul4(mgl64.HomogRotate3DY(-rotationY)).
		Mul4(mgl64.Scale3D(sx, sy, sz))
}

// ============================================================
// Openings
// ============================================================

type OpeningKind string

const (
	OpeningDoor   OpeningKind = "door"
	OpeningWindow OpeningKind = "window"
)

// Opening is a door or window positioned parametrically along a wall.
type Opening struct {
	ID        string
	WallID    string
	Kind      OpeningKind
	Position  float64
	Width     float64
	Height    float64
	YPosition float64 // sill height, windows only
}

func DoorOpening(d models.Door) Opening {
	return Opening{ID: d.ID, WallID: d.WallID, Kind: OpeningDoor, Position: d.Position, Width: d.Width, Height: d.Height}
}

func WindowOpening(w models.Window) Opening {
	return Opening{
		ID: w.ID, WallID: w.WallID, Kind: OpeningWindow,
		Position: w.Position, Width: w.Width, Height: w.Height, YPosition: w.YPosition,
	}
}

type OpeningTransform struct {
	ID        string      `json:"id"`
	WallID    string      `json:"wallId"`
	Kind      OpeningKind `json:"kind"`
	Anchor    models.Vec3 `json:"anchor"`
	Position  models.Vec3 `json:"position"`
	RotationY float64     `json:"rotationY"`
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
}

// PlaceOpening locates o on wall. The anchor is the point on the wall
// centerline; Position is pushed off the wall by half its thickness plus
// Clearance along the wall normal (angle + π/2).
func PlaceOpening(wall models.Wall, o Opening) (OpeningTransform, error) {
	if o.Position < 0 || o.Position > 1 || math.IsNaN(o.Position) {
		return OpeningTransform{}, fmt.Errorf("%s %s at %g: %w", o.Kind, o.ID, o.Position, ErrPositionOutOfRange)
	}

	anchor := wall.Start.Lerp(wall.End, o.Position)
	angle := geometry.Angle(wall.Start, wall.End)
	centerY := o.Height / 2
	if o.Kind == OpeningWindow {
		centerY = o.YPosition + o.Height/2
	}
	offset := wall.Thickness/2 + Clearance
	normal := geometry.Pt(math.Cos(angle+math.Pi/2), math.Sin(angle+math.Pi/2))
	pushed := anchor.Add(normal.Scale(offset))

	return OpeningTransform{
		ID:        o.ID,
		WallID:    wall.ID,
		Kind:      o.Kind,
		Anchor:    models.Vec3{X: anchor.X, Y: centerY, Z: anchor.Y},
		Position:  models.Vec3{X: pushed.X, Y: centerY, Z: pushed.Y},
		RotationY: angle,
		Width:     o.Width,
		Height:    o.Height,
	}, nil
}

// Matrix is the world matrix of a unit box scaled to the opening.
func (t OpeningTransform) Matrix(depth float64) mgl64.Mat4 {
	return boxMatrix(t.Position, t.RotationY, t.Width, t.Height, depth)
}
