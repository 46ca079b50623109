package models

import "iot-planner/internal/planner/geometry"

// ============================================================
// Building description (static document)
// ============================================================

// Building is the hand-authored warehouse/building document. Walls are
// referenced by doors and windows through WallID.
type Building struct {
	Name       string     `json:"name" yaml:"name"`
	Dimensions Dimensions `json:"dimensions" yaml:"dimensions"`
	Walls      []Wall     `json:"walls" yaml:"walls"`
	Columns    []Column   `json:"columns" yaml:"columns"`
	Doors      []Door     `json:"doors" yaml:"doors"`
	Windows    []Window   `json:"windows" yaml:"windows"`
}

type Dimensions struct {
	Width  float64 `json:"width" yaml:"width"`
	Depth  float64 `json:"depth" yaml:"depth"`
	Height float64 `json:"height" yaml:"height"`
}

// Column is a vertical box standing on the floor, centered at Position.
type Column struct {
	ID       string           `json:"id" yaml:"id"`
	Position geometry.Point2D `json:"position" yaml:"position"`
	Width    float64          `json:"width" yaml:"width"`
	Depth    float64          `json:"depth" yaml:"depth"`
	Height   float64          `json:"height" yaml:"height"`
}

// Door sits on the floor at a parametric Position along its wall
// (0 = wall start, 1 = wall end).
type Door struct {
	ID       string  `json:"id" yaml:"id"`
	WallID   string  `json:"wallId" yaml:"wallId"`
	Position float64 `json:"position" yaml:"position"`
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
}

// Window is like Door but anchored at its sill height YPosition.
type Window struct {
	ID        string  `json:"id" yaml:"id"`
	WallID    string  `json:"wallId" yaml:"wallId"`
	Position  float64 `json:"position" yaml:"position"`
	Width     float64 `json:"width" yaml:"width"`
	Height    float64 `json:"height" yaml:"height"`
	YPosition float64 `json:"yPosition" yaml:"yPosition"`
}

// WallIndex maps wall ids to walls for opening lookups.
func (b Building) WallIndex() map[string]Wall {
	idx := make(map[string]Wall, len(b.Walls))
	for _, w := range b.Walls {
		idx[w.ID] = w
	}
	return idx
}
