package projection

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"iot-planner/internal/planner/geometry"
	"iot-planner/internal/planner/models"
	"iot-planner/internal/planner/raycast"
)

// ============================================================
// Scene building
// ============================================================

var (
	wallColor   = colorful.Color{R: 0.82, G: 0.82, B: 0.8}
	columnColor = colorful.Color{R: 0.6, G: 0.6, B: 0.62}
	floorColor  = colorful.Color{R: 0.93, G: 0.93, B: 0.9}
	doorColor   = colorful.Color{R: 0.55, G: 0.36, B: 0.2}
	windowColor = colorful.Color{R: 0.6, G: 0.8, B: 0.95}
)

// SceneFromBuilding builds the pickable scene graph of a building. Walls,
// columns and the floor are tagged as surfaces; openings are decoration.
// Every box shares raycast.UnitBox.
func SceneFromBuilding(b models.Building, proj Projection) *raycast.Node {
	root := raycast.NewNode("building", raycast.KindNone, nil)

	for _, f := range proj.Floors {
		root.AddChild(slabNode(f))
	}
	for _, w := range proj.Walls {
		n := root.AddChild(raycast.NewNode("wall", raycast.KindWall, raycast.UnitBox))
		n.ID = w.ID
		n.Local = w.Matrix()
		n.Color = wallColor
	}
	for _, c := range proj.Columns {
		n := root.AddChild(raycast.NewNode("column", raycast.KindColumn, raycast.UnitBox))
		n.ID = c.ID
		n.Local = boxMatrix(c.Position, 0, c.Width, c.Height, c.Depth)
		n.Color = columnColor
	}

	walls := b.WallIndex()
	addOpenings := func(list []OpeningTransform, color colorful.Color) {
		for _, o := range list {
			n := root.AddChild(raycast.NewNode(string(o.Kind), raycast.KindNone, raycast.UnitBox))
			n.ID = o.ID
			n.Local = o.Matrix(walls[o.WallID].Thickness / 4)
			n.Color = color
		}
	}
	addOpenings(proj.Doors, doorColor)
	addOpenings(proj.Windows, windowColor)
	return root
}

// SceneFromFloorPlan builds a pickable scene from an extruded floor plan.
func SceneFromFloorPlan(proj Projection) *raycast.Node {
	root := raycast.NewNode("floorplan", raycast.KindNone, nil)
	for _, f := range proj.Floors {
		root.AddChild(slabNode(f))
	}
	for _, w := range proj.Walls {
		n := root.AddChild(raycast.NewNode("wall", raycast.KindWall, raycast.UnitBox))
		n.ID = w.ID
		n.Local = w.Matrix()
		n.Color = wallColor
	}
	return root
}

// slabNode lays slab triangles on the y = 0 plane, wound to face +Y.
func slabNode(f FloorSlab) *raycast.Node {
	mesh := &raycast.Mesh{}
	for _, tri := range f.Triangles {
		a, b, c := tri[0], tri[1], tri[2]
		if cross2(b.Sub(a), c.Sub(a)) > 0 {
			b, c = c, b
		}
		base := len(mesh.Vertices)
		for _, p := range []geometry.Point2D{a, b, c} {
			mesh.Vertices = append(mesh.Vertices, mgl64.Vec3{p.X, 0, p.Y})
		}
		mesh.Indices = append(mesh.Indices, base, base+1, base+2)
	}
	n := raycast.NewNode("floor", raycast.KindFloor, mesh)
	n.ID = f.RoomID
	n.Color = floorColor
	return n
}

func cross2(u, v geometry.Point2D) float64 { return u.X*v.Y - u.Y*v.X }
