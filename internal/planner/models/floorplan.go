package models

import (
	"time"

	"iot-planner/internal/planner/geometry"
)

// ============================================================
// Floor plan aggregate
// ============================================================

type RoomType string

const (
	RoomRectangle RoomType = "rectangle"
	RoomPolygon   RoomType = "polygon"
)

type WallType string

const (
	WallExterior WallType = "exterior"
	WallInterior WallType = "interior"
)

// ElementKind identifies what a floor-plan selection points at.
type ElementKind string

const (
	ElementRoom ElementKind = "room"
	ElementWall ElementKind = "wall"
)

// Defaults applied to every wall committed from the editor.
const (
	DefaultWallHeight    = 2.5
	DefaultWallThickness = 0.2
)

// Room is a closed 2D area. Rectangle rooms carry Bounds, polygon rooms
// carry Vertices.
type Room struct {
	ID       string              `json:"id"`
	Type     RoomType            `json:"type"`
	Name     string              `json:"name,omitempty"`
	Bounds   *geometry.Rectangle `json:"bounds,omitempty"`
	Vertices []geometry.Point2D  `json:"vertices,omitempty"`
}

// Outline returns the room boundary as a polygon.
func (r Room) Outline() []geometry.Point2D {
	if r.Type == RoomRectangle && r.Bounds != nil {
		c := r.Bounds.Corners()
		return c[:]
	}
	return r.Vertices
}

// Wall is a straight floor-plan segment.
type Wall struct {
	ID        string           `json:"id" yaml:"id"`
	Start     geometry.Point2D `json:"start" yaml:"start"`
	End       geometry.Point2D `json:"end" yaml:"end"`
	Height    float64          `json:"height" yaml:"height"`
	Thickness float64          `json:"thickness" yaml:"thickness"`
	Type      WallType         `json:"type" yaml:"type"`
}

func (w Wall) Length() float64 { return geometry.Distance(w.Start, w.End) }

type Metadata struct {
	Scale     float64   `json:"scale"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FloorPlan is the aggregate root owned by the floor-plan store.
type FloorPlan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Metadata Metadata `json:"metadata"`
	Rooms    []Room   `json:"rooms"`
	Walls    []Wall   `json:"walls"`
}

// Clone returns a deep copy, so callers never share slices with the store.
func (p FloorPlan) Clone() FloorPlan {
	out := p
	out.Rooms = make([]Room, len(p.Rooms))
	for i, r := range p.Rooms {
		if r.Bounds != nil {
			b := *r.Bounds
			r.Bounds = &b
		}
		if r.Vertices != nil {
			r.Vertices = append([]geometry.Point2D(nil), r.Vertices...)
		}
		out.Rooms[i] = r
	}
	out.Walls = append([]Wall{}, p.Walls...)
	return out
}

// WallByID returns the wall with the given id.
func (p FloorPlan) WallByID(id string) (Wall, bool) {
	for _, w := range p.Walls {
		if w.ID == id {
			return w, true
		}
	}
	return Wall{}, false
}
