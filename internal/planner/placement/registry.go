package placement

import (
	"fmt"

	"iot-planner/internal/planner/models"
)

// DeviceRegistry is the in-memory installed-device collection, kept in
// installation order.
type DeviceRegistry struct {
	order []string
	byID  map[string]*models.InstalledDevice
}

func NewDeviceRegistry() *DeviceRegistry {
	return &DeviceRegistry{byID: make(map[string]*models.InstalledDevice)}
}

// Add inserts d, replacing any device with the same id in place.
func (r *DeviceRegistry) Add(d *models.InstalledDevice) {
	if _, ok := r.byID[d.ID]; !ok {
		r.order = append(r.order, d.ID)
	}
	r.byID[d.ID] = d
}

func (r *DeviceRegistry) Get(id string) (*models.InstalledDevice, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Update applies fn to the stored device.
func (r *DeviceRegistry) Update(id string, fn func(*models.InstalledDevice)) (*models.InstalledDevice, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("device %s: %w", id, ErrDeviceNotFound)
	}
	fn(d)
	return d, nil
}

func (r *DeviceRegistry) Delete(id string) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns the devices in installation order.
func (r *DeviceRegistry) List() []*models.InstalledDevice {
	out := make([]*models.InstalledDevice, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *DeviceRegistry) Len() int { return len(r.order) }
