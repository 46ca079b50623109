package models

import "time"

// ============================================================
// Devices
// ============================================================

// Vec3 is the wire form of a 3D position or Euler rotation.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Size3 struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Depth  float64 `json:"depth" yaml:"depth"`
}

// DeviceType is a catalog entry.
type DeviceType struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Model string `json:"model" yaml:"model"`
	Size  Size3  `json:"size" yaml:"size"`
	Color string `json:"color" yaml:"color"`
}

type DeviceStatus string

const (
	DeviceActive   DeviceStatus = "active"
	DeviceInactive DeviceStatus = "inactive"
	DeviceError    DeviceStatus = "error"
)

// Coarse attachment categories. Mesh surfaces use the mesh name instead.
const (
	AttachFloor  = "floor"
	AttachWall   = "wall"
	AttachColumn = "column"
)

// Telemetry is placeholder sensor data for devices without a live feed.
type Telemetry struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// InstalledDevice is a device placed on a building surface.
type InstalledDevice struct {
	ID           string       `json:"id"`
	SerialNumber string       `json:"serialNumber"`
	Position     Vec3         `json:"position"`
	Rotation     *Vec3        `json:"rotation,omitempty"`
	AttachedTo   string       `json:"attachedTo"`
	AttachedToID string       `json:"attachedToId"`
	InstalledAt  time.Time    `json:"installedAt"`
	Status       DeviceStatus `json:"status"`
	Telemetry    Telemetry    `json:"telemetry"`
}

// PlacementEvent is emitted when a click commits a placement.
type PlacementEvent struct {
	Position     Vec3   `json:"position"`
	Rotation     Vec3   `json:"rotation"`
	AttachedTo   string `json:"attachedTo"`
	AttachedToID string `json:"attachedToId"`
}

// Preview is the ephemeral per-frame placement pose. Position and Rotation
// are nil when nothing was hit.
type Preview struct {
	Position *Vec3 `json:"position"`
	Rotation *Vec3 `json:"rotation"`
	IsValid  bool  `json:"isValid"`
}

// InvalidPreview is the "no surface hit" signal.
func InvalidPreview() Preview { return Preview{} }
