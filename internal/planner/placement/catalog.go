package placement

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"iot-planner/internal/planner/models"
)

// ============================================================
// Catalog
// ============================================================

// Catalog resolves device types by id (the serial number stored on an
// installed device).
type Catalog struct {
	types []models.DeviceType
	index map[string]int
}

// NewCatalog validates and indexes types. Ids must be unique and colors
// must be #rrggbb hex.
func NewCatalog(types []models.DeviceType) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(types))}
	for _, t := range types {
		if t.ID == "" {
			return nil, fmt.Errorf("device type %q: %w", t.Name, ErrEmptyDeviceType)
		}
		if _, dup := c.index[t.ID]; dup {
			return nil, fmt.Errorf("duplicate device type %q", t.ID)
		}
		if _, err := colorful.Hex(t.Color); err != nil {
			return nil, fmt.Errorf("device type %q: color: %w", t.ID, err)
		}
		if t.Size.Width <= 0 || t.Size.Height <= 0 || t.Size.Depth <= 0 {
			return nil, fmt.Errorf("device type %q: size must be positive", t.ID)
		}
		c.index[t.ID] = len(c.types)
		c.types = append(c.types, t)
	}
	return c, nil
}

// ParseCatalog reads a YAML (or JSON) list of device types.
func ParseCatalog(data []byte) (*Catalog, error) {
	var types []models.DeviceType
	if err := yaml.Unmarshal(data, &types); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return NewCatalog(types)
}

func (c *Catalog) Lookup(id string) (models.DeviceType, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.DeviceType{}, false
	}
	return c.types[i], true
}

func (c *Catalog) List() []models.DeviceType {
	return append([]models.DeviceType(nil), c.types...)
}

// Color returns the parsed display color of a type, or gray for unknown ids.
func (c *Catalog) Color(id string) colorful.Color {
	if t, ok := c.Lookup(id); ok {
		if col, err := colorful.Hex(t.Color); err == nil {
			return col
		}
	}
	return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
}

// DefaultCatalog is the built-in sensor line-up.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]models.DeviceType{
		{ID: "TH-100", Name: "Temperature & humidity sensor", Model: "TH-100", Size: models.Size3{Width: 0.08, Height: 0.08, Depth: 0.03}, Color: "#2e86de"},
		{ID: "CO2-200", Name: "CO2 sensor", Model: "CO2-200", Size: models.Size3{Width: 0.12, Height: 0.12, Depth: 0.04}, Color: "#10ac84"},
		{ID: "MS-50", Name: "Motion sensor", Model: "MS-50", Size: models.Size3{Width: 0.06, Height: 0.06, Depth: 0.05}, Color: "#ee5253"},
		{ID: "LX-10", Name: "Light sensor", Model: "LX-10", Size: models.Size3{Width: 0.05, Height: 0.05, Depth: 0.02}, Color: "#feca57"},
		{ID: "GW-1", Name: "Gateway", Model: "GW-1", Size: models.Size3{Width: 0.2, Height: 0.15, Depth: 0.05}, Color: "#576574"},
	})
	if err != nil {
		panic(err)
	}
	return c
}
