package raycast

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================
// Candidate surfaces
// ============================================================

const parallelEpsilon = 1e-9

// Surface is a pickable node snapshot: its world-space triangles plus the
// normal matrix needed to bring local face normals into world space. The
// snapshot is taken once; rebuild the candidate list when the scene changes.
type Surface struct {
	Node *Node
	Kind SurfaceKind

	normalMatrix mgl64.Mat3
	triangles    []triangle
	min, max     mgl64.Vec3
}

type triangle struct {
	a, b, c     mgl64.Vec3 // world space
	localNormal mgl64.Vec3
}

// ID returns the stable identity reported in placement events.
func (s *Surface) ID() string {
	if s.Node.ID != "" {
		return s.Node.ID
	}
	return s.Node.Name
}

// AttachedTo returns the coarse category reported in placement events:
// the surface kind, or the mesh name for arbitrary model surfaces.
func (s *Surface) AttachedTo() string {
	if s.Kind == KindMesh && s.Node.Name != "" {
		return s.Node.Name
	}
	return string(s.Kind)
}

// CollectSurfaces walks the graph under root and snapshots every node with
// a mesh whose kind is in kinds. With no kinds, any tagged node qualifies.
func CollectSurfaces(root *Node, kinds ...SurfaceKind) []*Surface {
	if root == nil {
		return nil
	}
	accept := func(k SurfaceKind) bool {
		if k == KindNone {
			return false
		}
		if len(kinds) == 0 {
			return true
		}
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}

	var out []*Surface
	root.Walk(func(n *Node) bool {
		if n.Mesh != nil && accept(n.Kind) {
			if s := newSurface(n); s != nil {
				out = append(out, s)
			}
		}
		return true
	})
	return out
}

func newSurface(n *Node) *Surface {
	world := n.World()
	s := &Surface{
		Node:         n,
		Kind:         n.Kind,
		normalMatrix: world.Mat3().Inv().Transpose(),
		min:          mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		max:          mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}

	m := n.Mesh
	for i := 0; i+2 < len(m.Indices); i += 3 {
		la, lb, lc := m.Vertices[m.Indices[i]], m.Vertices[m.Indices[i+1]], m.Vertices[m.Indices[i+2]]
		ln := lb.Sub(la).Cross(lc.Sub(la))
		if ln.Len() < parallelEpsilon {
			continue
		}
		t := triangle{
			a:           mgl64.TransformCoordinate(la, world),
			b:           mgl64.TransformCoordinate(lb, world),
			c:           mgl64.TransformCoordinate(lc, world),
			localNormal: ln.Normalize(),
		}
		for _, p := range []mgl64.Vec3{t.a, t.b, t.c} {
			for k := 0; k < 3; k++ {
				s.min[k] = math.Min(s.min[k], p[k])
				s.max[k] = math.Max(s.max[k], p[k])
			}
		}
		s.triangles = append(s.triangles, t)
	}
	if len(s.triangles) == 0 {
		return nil
	}
	return s
}

// ============================================================
// Intersection
// ============================================================

// Hit is the nearest intersection of a ray with one surface.
type Hit struct {
	Point       mgl64.Vec3
	Distance    float64
	LocalNormal mgl64.Vec3
	Surface     *Surface
}

// WorldNormal brings the hit face's normal into world space. Only the
// linear part of the world matrix applies, so translation never leaks in.
func (h Hit) WorldNormal() mgl64.Vec3 {
	return h.Surface.normalMatrix.Mul3x1(h.LocalNormal).Normalize()
}

// FacingNormal is WorldNormal flipped, if needed, to face the ray origin.
// Thin double-sided surfaces may be hit from behind.
func (h Hit) FacingNormal(ray Ray) mgl64.Vec3 {
	n := h.WorldNormal()
	if n.Dot(ray.Direction) > 0 {
		return n.Mul(-1)
	}
	return n
}

// IntersectSurfaces tests ray against the candidates only and returns at
// most one hit per surface, nearest first. Equal distances keep candidate
// order.
func IntersectSurfaces(ray Ray, surfaces []*Surface) []Hit {
	var hits []Hit
	for _, s := range surfaces {
		if !ray.hitsBox(s.min, s.max) {
			continue
		}
		best := math.Inf(1)
		var bestTri *triangle
		for i := range s.triangles {
			t := &s.triangles[i]
			if d, ok := ray.intersectTriangle(t.a, t.b, t.c); ok && d < best {
				best = d
				bestTri = t
			}
		}
		if bestTri != nil {
			hits = append(hits, Hit{
				Point:       ray.At(best),
				Distance:    best,
				LocalNormal: bestTri.localNormal,
				Surface:     s,
			})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// Nearest returns the closest hit, if any.
func Nearest(ray Ray, surfaces []*Surface) (Hit, bool) {
	hits := IntersectSurfaces(ray, surfaces)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}

// intersectTriangle is a double-sided Möller–Trumbore test.
func (r Ray) intersectTriangle(a, b, c mgl64.Vec3) (float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < parallelEpsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t <= parallelEpsilon {
		return 0, false
	}
	return t, true
}

// hitsBox is the slab test against an axis-aligned box.
func (r Ray) hitsBox(min, max mgl64.Vec3) bool {
	tMin, tMax := math.Inf(-1), math.Inf(1)
	for k := 0; k < 3; k++ {
		if math.Abs(r.Direction[k]) < parallelEpsilon {
			if r.Origin[k] < min[k] || r.Origin[k] > max[k] {
				return false
			}
			continue
		}
		t1 := (min[k] - r.Origin[k]) / r.Direction[k]
		t2 := (max[k] - r.Origin[k]) / r.Direction[k]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return tMax >= 0
}
