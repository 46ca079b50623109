package raycast

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"iot-planner/internal/planner/models"
)

// horizontalEpsilon is the projected-normal length under which a surface
// counts as horizontal (floor, ceiling, top of a column).
const horizontalEpsilon = 1e-6

// Pose is a placement position plus yaw about the vertical axis.
type Pose struct {
	Position mgl64.Vec3
	Yaw      float64
}

// Yaw aligns a placed object's face with a surface: the normal is projected
// onto the horizontal plane and measured as atan2(z, x). Horizontal surfaces
// yield zero.
func Yaw(normal mgl64.Vec3) float64 {
	flat := mgl64.Vec2{normal[0], normal[2]}
	if flat.Len() < horizontalEpsilon {
		return 0
	}
	flat = flat.Normalize()
	return math.Atan2(flat[1], flat[0])
}

// PlacementPose pushes an object of the given depth off the surface along
// its normal so it sits flush without z-fighting.
func PlacementPose(point, normal mgl64.Vec3, depth, clearance float64) Pose {
	n := normal.Normalize()
	return Pose{
		Position: point.Add(n.Mul(depth/2 + clearance)),
		Yaw:      Yaw(n),
	}
}

func (p Pose) PositionVec() models.Vec3 {
	return models.Vec3{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]}
}

// RotationVec is the Euler form sent to renderers; only Y is ever set.
func (p Pose) RotationVec() models.Vec3 {
	return models.Vec3{Y: p.Yaw}
}

func (p Pose) Preview() models.Preview {
	pos, rot := p.PositionVec(), p.RotationVec()
	return models.Preview{Position: &pos, Rotation: &rot, IsValid: true}
}
