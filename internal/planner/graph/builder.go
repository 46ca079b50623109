// Package graph turns loose wall segments (as drawn in an imported plan) into
// a connected wall network: crossing walls are split at their junctions,
// nearly coincident endpoints are merged and almost axis-aligned walls are
// straightened.
package graph

import (
	"fmt"
	"math"
	"sort"

	"iot-planner/internal/planner/geometry"
	"iot-planner/internal/planner/models"
)

// ============================================================
// Graph Builder
// ============================================================

// Tolerances apply to transformed coordinates.
type Tolerances struct {
	Vertex   float64 // reuse an existing vertex closer than this
	Connect  float64 // reach for a perpendicular wall when looking for junctions
	Merge    float64 // merge vertices after splitting
	AxisSnap float64 // straighten walls whose off-axis drift is below this
}

func DefaultTolerances() Tolerances {
	return Tolerances{Vertex: 2, Connect: 15, Merge: 8, AxisSnap: 4}
}

// Segment is an input wall centerline.
type Segment struct {
	ID        string
	Start     geometry.Point2D
	End       geometry.Point2D
	Thickness float64
}

type edge struct {
	id        string
	v1, v2    string
	thickness float64
}

type GraphBuilder struct {
	tol       Tolerances
	vertices  map[string]geometry.Point2D
	edges     map[string]edge
	segments  []Segment
	vertexID  int
	transform func(geometry.Point2D) geometry.Point2D
}

func NewGraphBuilder(tol Tolerances) *GraphBuilder {
	return &GraphBuilder{
		tol:       tol,
		vertices:  make(map[string]geometry.Point2D),
		edges:     make(map[string]edge),
		transform: func(p geometry.Point2D) geometry.Point2D { return p },
	}
}

// SetTransform sets the coordinate transform applied to every input point
// (mirroring, scaling). nil restores the identity.
func (g *GraphBuilder) SetTransform(f func(geometry.Point2D) geometry.Point2D) {
	if f == nil {
		g.transform = func(p geometry.Point2D) geometry.Point2D { return p }
		return
	}
	g.transform = f
}

// Build replaces the network with one built from segs.
func (g *GraphBuilder) Build(segs []Segment) {
	g.reset()
	for _, s := range segs {
		s.Start = g.transform(s.Start)
		s.End = g.transform(s.End)
		if geometry.Distance(s.Start, s.End) == 0 {
			continue
		}
		g.segments = append(g.segments, s)
	}
	g.buildConnectedGraph()
}

// Walls returns the network as floor-plan walls sorted by id.
func (g *GraphBuilder) Walls(height float64, wallType models.WallType) []models.Wall {
	ids := make([]string, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	walls := make([]models.Wall, 0, len(ids))
	for _, id := range ids {
		e := g.edges[id]
		walls = append(walls, models.Wall{
			ID:        e.id,
			Start:     g.vertices[e.v1],
			End:       g.vertices[e.v2],
			Height:    height,
			Thickness: e.thickness,
			Type:      wallType,
		})
	}
	return walls
}

// VertexCount is the number of distinct junctions in the network.
func (g *GraphBuilder) VertexCount() int { return len(g.vertices) }

func (g *GraphBuilder) reset() {
	g.vertices = make(map[string]geometry.Point2D)
	g.edges = make(map[string]edge)
	g.segments = g.segments[:0]
	g.vertexID = 0
}

func (g *GraphBuilder) findOrCreateVertex(p geometry.Point2D) string {
	ids := make([]string, 0, len(g.vertices))
	for id := range g.vertices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if geometry.Distance(p, g.vertices[id]) < g.tol.Vertex {
			return id
		}
	}

	g.vertexID++
	id := fmt.Sprintf("v%03d", g.vertexID)
	g.vertices[id] = p
	return id
}

// ============================================================
// Segment splitting
// ============================================================

type segmentInfo struct {
	segment     Segment
	horizontal  bool
	start       float64
	end         float64
	constant    float64
	splitPoints []float64
}

func (g *GraphBuilder) buildConnectedGraph() {
	for _, seg := range g.splitSegments(g.segments) {
		v1 := g.findOrCreateVertex(seg.Start)
		v2 := g.findOrCreateVertex(seg.End)
		if v1 == v2 {
			continue
		}
		g.edges[seg.ID] = edge{id: seg.ID, v1: v1, v2: v2, thickness: seg.Thickness}
	}

	g.mergeCloseVertices()
	g.snapAxisAligned()
}

// splitSegments cuts axis-aligned walls at every junction with a
// perpendicular wall. Diagonal walls pass through untouched.
func (g *GraphBuilder) splitSegments(segments []Segment) []Segment {
	if len(segments) == 0 {
		return nil
	}

	var infos []*segmentInfo
	var result []Segment
	for _, seg := range segments {
		dx := math.Abs(seg.End.X - seg.Start.X)
		dy := math.Abs(seg.End.Y - seg.Start.Y)
		if dx > g.tol.AxisSnap && dy > g.tol.AxisSnap {
			result = append(result, seg)
			continue
		}

		horizontal := dy <= dx
		start, end, constant := seg.Start.X, seg.End.X, (seg.Start.Y+seg.End.Y)/2
		if !horizontal {
			start, end, constant = seg.Start.Y, seg.End.Y, (seg.Start.X+seg.End.X)/2
		}
		if start > end {
			start, end = end, start
		}

		infos = append(infos, &segmentInfo{
			segment:     seg,
			horizontal:  horizontal,
			start:       start,
			end:         end,
			constant:    constant,
			splitPoints: []float64{start, end},
		})
	}

	for i := 0; i < len(infos); i++ {
		for j := i + 1; j < len(infos); j++ {
			a, b := infos[i], infos[j]
			if a.horizontal == b.horizontal {
				continue
			}
			h, v := a, b
			if !a.horizontal {
				h, v = b, a
			}
			g.tryAddIntersection(h, v)
		}
	}

	for _, info := range infos {
		points := append([]float64{}, info.splitPoints...)
		sort.Float64s(points)
		points = uniquePoints(points)
		if len(points) < 2 {
			continue
		}

		parts := len(points) - 1
		for idx := 0; idx < parts; idx++ {
			start, end := points[idx], points[idx+1]

			var p1, p2 geometry.Point2D
			if info.horizontal {
				p1 = geometry.Pt(start, info.constant)
				p2 = geometry.Pt(end, info.constant)
			} else {
				p1 = geometry.Pt(info.constant, start)
				p2 = geometry.Pt(info.constant, end)
			}

			id := info.segment.ID
			if parts > 1 {
				id = fmt.Sprintf("%s_%d", info.segment.ID, idx+1)
			}
			result = append(result, Segment{ID: id, Start: p1, End: p2, Thickness: info.segment.Thickness})
		}
	}

	return result
}

func (g *GraphBuilder) tryAddIntersection(h, v *segmentInfo) {
	vx := v.constant
	hy := h.constant

	if vx < h.start-g.tol.Connect || vx > h.end+g.tol.Connect {
		return
	}
	if hy < v.start-g.tol.Connect || hy > v.end+g.tol.Connect {
		return
	}

	h.splitPoints = append(h.splitPoints, clamp(vx, h.start, h.end))
	v.splitPoints = append(v.splitPoints, clamp(hy, v.start, v.end))
}

// ============================================================
// Vertex merging & axis snapping
// ============================================================

// mergeCloseVertices collapses vertices that ended up within the merge
// radius after splitting. Edges collapsing to a point are dropped.
func (g *GraphBuilder) mergeCloseVertices() {
	if len(g.vertices) == 0 {
		return
	}

	ids := make([]string, 0, len(g.vertices))
	for id := range g.vertices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rep := make(map[string]string, len(ids))
	for i, id := range ids {
		if _, ok := rep[id]; ok {
			continue
		}
		rep[id] = id
		for _, other := range ids[i+1:] {
			if _, ok := rep[other]; ok {
				continue
			}
			if geometry.Distance(g.vertices[id], g.vertices[other]) <= g.tol.Merge {
				rep[other] = id
			}
		}
	}

	edges := make(map[string]edge, len(g.edges))
	for id, e := range g.edges {
		e.v1, e.v2 = rep[e.v1], rep[e.v2]
		if e.v1 == e.v2 {
			continue
		}
		edges[id] = e
	}

	vertices := make(map[string]geometry.Point2D)
	for id, p := range g.vertices {
		if rep[id] == id {
			vertices[id] = p
		}
	}

	g.vertices = vertices
	g.edges = edges
}

// snapAxisAligned pins vertices of nearly horizontal/vertical walls to the
// wall's mean coordinate.
func (g *GraphBuilder) snapAxisAligned() {
	type agg struct {
		sumX, sumY float64
		cntX, cntY int
	}
	aggMap := make(map[string]*agg)
	get := func(id string) *agg {
		a := aggMap[id]
		if a == nil {
			a = &agg{}
			aggMap[id] = a
		}
		return a
	}

	for _, e := range g.edges {
		p1, p2 := g.vertices[e.v1], g.vertices[e.v2]
		dx, dy := p1.X-p2.X, p1.Y-p2.Y

		switch {
		case math.Abs(dy) <= g.tol.AxisSnap:
			y := (p1.Y + p2.Y) / 2
			for _, id := range []string{e.v1, e.v2} {
				a := get(id)
				a.sumY += y
				a.cntY++
			}
		case math.Abs(dx) <= g.tol.AxisSnap:
			x := (p1.X + p2.X) / 2
			for _, id := range []string{e.v1, e.v2} {
				a := get(id)
				a.sumX += x
				a.cntX++
			}
		}
	}

	for id, a := range aggMap {
		p := g.vertices[id]
		if a.cntX > 0 {
			p.X = a.sumX / float64(a.cntX)
		}
		if a.cntY > 0 {
			p.Y = a.sumY / float64(a.cntY)
		}
		g.vertices[id] = p
	}
}

// ============================================================
// Helpers
// ============================================================

func uniquePoints(points []float64) []float64 {
	if len(points) == 0 {
		return points
	}
	out := points[:1]
	for i := 1; i < len(points); i++ {
		if !almostEqual(points[i], points[i-1]) {
			out = append(out, points[i])
		}
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
