package raycast

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// ============================================================
// Scene graph
// ============================================================

// SurfaceKind tags nodes that devices may attach to.
type SurfaceKind string

const (
	KindNone   SurfaceKind = ""
	KindFloor  SurfaceKind = "floor"
	KindWall   SurfaceKind = "wall"
	KindColumn SurfaceKind = "column"
	KindMesh   SurfaceKind = "mesh"
)

// Mesh is local-space triangle geometry. A single Mesh may be shared by
// many nodes; per-instance placement lives in Node.Local.
type Mesh struct {
	Vertices []mgl64.Vec3
	Indices  []int // three per triangle
}

func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// NewBoxMesh returns a width x height x depth box centered at the origin
// (X = width, Y = height, Z = depth), outward-wound.
func NewBoxMesh(width, height, depth float64) *Mesh {
	x, y, z := width/2, height/2, depth/2
	v := []mgl64.Vec3{
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z}, // +Z
		{x, -y, -z}, {-x, -y, -z}, {-x, y, -z}, {x, y, -z}, // -Z
		{x, -y, z}, {x, -y, -z}, {x, y, -z}, {x, y, z}, // +X
		{-x, -y, -z}, {-x, -y, z}, {-x, y, z}, {-x, y, -z}, // -X
		{-x, y, z}, {x, y, z}, {x, y, -z}, {-x, y, -z}, // +Y
		{-x, -y, -z}, {x, -y, -z}, {x, -y, z}, {-x, -y, z}, // -Y
	}
	idx := make([]int, 0, 36)
	for face := 0; face < 6; face++ {
		b := face * 4
		idx = append(idx, b, b+1, b+2, b, b+2, b+3)
	}
	return &Mesh{Vertices: v, Indices: idx}
}

// NewPlaneMesh returns a width x depth horizontal quad facing +Y.
func NewPlaneMesh(width, depth float64) *Mesh {
	x, z := width/2, depth/2
	return &Mesh{
		Vertices: []mgl64.Vec3{{-x, 0, z}, {x, 0, z}, {x, 0, -z}, {-x, 0, -z}},
		Indices:  []int{0, 1, 2, 0, 2, 3},
	}
}

// UnitBox is the shared template for walls, columns and device markers;
// instances scale it through their local transform.
var UnitBox = NewBoxMesh(1, 1, 1)

// Node is an element of the scene graph.
type Node struct {
	Name     string
	ID       string
	Kind     SurfaceKind
	Local    mgl64.Mat4
	Mesh     *Mesh
	Color    colorful.Color
	Emissive colorful.Color
	Children []*Node

	parent *Node
}

// NewNode returns a node with an identity transform.
func NewNode(name string, kind SurfaceKind, mesh *Mesh) *Node {
	return &Node{Name: name, Kind: kind, Mesh: mesh, Local: mgl64.Ident4()}
}

// AddChild attaches child under n and returns child.
func (n *Node) AddChild(child *Node) *Node {
	child.parent = n
	n.Children = append(n.Children, child)
	return child
}

func (n *Node) Parent() *Node { return n.parent }

// World returns the node's world transform (parent chain applied).
func (n *Node) World() mgl64.Mat4 {
	m := n.Local
	for p := n.parent; p != nil; p = p.parent {
		m = p.Local.Mul4(m)
	}
	return m
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Transform composes translation, yaw and scale in the usual T*R*S order.
func Transform(position mgl64.Vec3, yaw float64, scale mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(position[0], position[1], position[2]).
		Mul4(mgl64.HomogRotate3DY(yaw)).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}
