package placement

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iot-planner/internal/planner/models"
)

type fakeSource struct {
	active bool
	depths []float64
	deacts int
}

func (f *fakeSource) Activate(depth float64) {
	f.active = true
	f.depths = append(f.depths, depth)
}

func (f *fakeSource) Deactivate() {
	f.active = false
	f.deacts++
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T) (*Session, *fakeSource, *[]State) {
	t.Helper()
	src := &fakeSource{}
	var states []State
	s := NewSession(Options{
		Source:       src,
		Rand:         rand.New(rand.NewSource(1)),
		Now:          func() time.Time { return fixedNow },
		OnTransition: func(_, to State) { states = append(states, to) },
	})
	return s, src, &states
}

func validPreview() models.Preview {
	return models.Preview{Position: &models.Vec3{X: 1}, Rotation: &models.Vec3{}, IsValid: true}
}

func wallEvent() models.PlacementEvent {
	return models.PlacementEvent{
		Position:     models.Vec3{X: 1, Y: 1.5, Z: 0.13},
		Rotation:     models.Vec3{Y: 1.5707963},
		AttachedTo:   models.AttachWall,
		AttachedToID: "wall-1",
	}
}

func TestToggleAddDevice(t *testing.T) {
	s, src, states := newTestSession(t)

	s.ToggleAddDevice()
	assert.Equal(t, AwaitingDeviceSelection, s.State())
	assert.False(t, src.active)

	s.ToggleAddDevice()
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, []State{AwaitingDeviceSelection, Cancelled, Idle}, *states)
}

func TestSelectDeviceType(t *testing.T) {
	s, src, states := newTestSession(t)

	assert.ErrorIs(t, s.SelectDeviceType("TH-100"), ErrNotSelecting)
	assert.Equal(t, Idle, s.State())
	assert.False(t, src.active)
	assert.Empty(t, *states)

	s.ToggleAddDevice()

	assert.ErrorIs(t, s.SelectDeviceType(""), ErrEmptyDeviceType)
	assert.Equal(t, AwaitingDeviceSelection, s.State())

	require.NoError(t, s.SelectDeviceType("TH-100"))
	assert.Equal(t, Previewing, s.State())
	assert.True(t, src.active)
	require.Len(t, src.depths, 1)
	assert.InDelta(t, 0.03, src.depths[0], 1e-9)
	assert.False(t, s.Preview().IsValid)
}

func TestCommitCreatesDevice(t *testing.T) {
	s, src, states := newTestSession(t)
	s.ToggleAddDevice()
	require.NoError(t, s.SelectDeviceType("CO2-200"))
	s.UpdatePreview(validPreview())

	d, err := s.Commit(wallEvent())
	require.NoError(t, err)

	_, err = uuid.Parse(d.ID)
	assert.NoError(t, err)
	assert.Equal(t, "CO2-200", d.SerialNumber)
	assert.Equal(t, models.DeviceActive, d.Status)
	assert.Equal(t, fixedNow, d.InstalledAt)
	assert.Equal(t, "wall-1", d.AttachedToID)
	require.NotNil(t, d.Rotation)
	assert.InDelta(t, 1.5707963, d.Rotation.Y, 1e-9)
	assert.GreaterOrEqual(t, d.Telemetry.Temperature, 18.0)
	assert.Less(t, d.Telemetry.Temperature, 26.0)
	assert.GreaterOrEqual(t, d.Telemetry.Humidity, 30.0)
	assert.Less(t, d.Telemetry.Humidity, 60.0)

	assert.Equal(t, Idle, s.State())
	assert.Empty(t, s.DeviceTypeID())
	assert.False(t, s.Preview().IsValid)
	assert.False(t, src.active)
	assert.Equal(t, 1, s.Registry().Len())
	assert.Equal(t, []State{AwaitingDeviceSelection, Previewing, Committed, Idle}, *states)
}

func TestCommitErrors(t *testing.T) {
	s, _, _ := newTestSession(t)

	_, err := s.Commit(wallEvent())
	assert.ErrorIs(t, err, ErrNotPreviewing)

	s.ToggleAddDevice()
	require.NoError(t, s.SelectDeviceType("TH-100"))
	_, err = s.Commit(wallEvent())
	assert.ErrorIs(t, err, ErrNoValidPreview)
	assert.Equal(t, Previewing, s.State())

	s.UpdatePreview(models.InvalidPreview())
	_, err = s.Commit(wallEvent())
	assert.ErrorIs(t, err, ErrNoValidPreview)
	assert.Zero(t, s.Registry().Len())
}

func TestUpdatePreviewIgnoredOutsidePreviewing(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.UpdatePreview(validPreview())
	assert.False(t, s.Preview().IsValid)
}

func TestCancelLeavesRegistryUntouched(t *testing.T) {
	s, src, states := newTestSession(t)
	s.ToggleAddDevice()
	require.NoError(t, s.SelectDeviceType("TH-100"))
	s.UpdatePreview(validPreview())

	s.Cancel()
	assert.Equal(t, Idle, s.State())
	assert.Zero(t, s.Registry().Len())
	assert.False(t, src.active)
	assert.Equal(t, Idle, (*states)[len(*states)-1])
	assert.Equal(t, Cancelled, (*states)[len(*states)-2])

	n := len(*states)
	s.Cancel()
	assert.Len(t, *states, n, "cancel from idle is a no-op")
}

func TestReposition(t *testing.T) {
	s, src, states := newTestSession(t)
	s.ToggleAddDevice()
	require.NoError(t, s.SelectDeviceType("MS-50"))
	s.UpdatePreview(validPreview())
	d, err := s.Commit(wallEvent())
	require.NoError(t, err)
	*states = nil

	require.NoError(t, s.Reposition(d.ID))
	assert.Equal(t, d.ID, s.EditingDeviceID())
	assert.Equal(t, "MS-50", s.DeviceTypeID())
	assert.Equal(t, Previewing, s.State())
	assert.True(t, src.active)
	assert.Equal(t, []State{Previewing}, *states, "device picker is skipped")

	s.UpdatePreview(validPreview())
	moved, err := s.Commit(models.PlacementEvent{
		Position:     models.Vec3{X: 4, Y: 0.03, Z: 2},
		AttachedTo:   models.AttachFloor,
		AttachedToID: "floor",
	})
	require.NoError(t, err)
	assert.Same(t, d, moved)
	assert.Equal(t, 1, s.Registry().Len())
	assert.Equal(t, models.Vec3{X: 4, Y: 0.03, Z: 2}, moved.Position)
	assert.Equal(t, models.AttachFloor, moved.AttachedTo)
	assert.Empty(t, s.EditingDeviceID())
	assert.Equal(t, Idle, s.State())
}

func TestRepositionUnknownDevice(t *testing.T) {
	s, _, _ := newTestSession(t)
	assert.ErrorIs(t, s.Reposition("nope"), ErrDeviceNotFound)
	assert.Equal(t, Idle, s.State())
}

func TestToggleOffClearsEditing(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Registry().Add(&models.InstalledDevice{ID: "d1", SerialNumber: "TH-100"})
	require.NoError(t, s.Reposition("d1"))

	s.ToggleAddDevice()
	assert.Equal(t, Idle, s.State())
	assert.Empty(t, s.EditingDeviceID())
}

func TestDeviceRegistry(t *testing.T) {
	r := NewDeviceRegistry()
	r.Add(&models.InstalledDevice{ID: "a"})
	r.Add(&models.InstalledDevice{ID: "b"})
	r.Add(&models.InstalledDevice{ID: "c"})
	r.Add(&models.InstalledDevice{ID: "b", SerialNumber: "x"})

	ids := func() []string {
		var out []string
		for _, d := range r.List() {
			out = append(out, d.ID)
		}
		return out
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids())
	got, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, "x", got.SerialNumber)

	assert.True(t, r.Delete("b"))
	assert.False(t, r.Delete("b"))
	assert.Equal(t, []string{"a", "c"}, ids())

	_, err := r.Update("zzz", func(*models.InstalledDevice) {})
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestCatalog(t *testing.T) {
	c := DefaultCatalog()
	dt, ok := c.Lookup("TH-100")
	require.True(t, ok)
	assert.Equal(t, "TH-100", dt.Model)
	_, ok = c.Lookup("missing")
	assert.False(t, ok)

	col := c.Color("TH-100")
	assert.Equal(t, "#2e86de", col.Hex())
	assert.Equal(t, "#808080", c.Color("missing").Hex())

	_, err := NewCatalog([]models.DeviceType{{ID: "x", Color: "blue", Size: models.Size3{Width: 1, Height: 1, Depth: 1}}})
	assert.Error(t, err)
	_, err = NewCatalog([]models.DeviceType{{ID: "x", Color: "#fff000", Size: models.Size3{Width: 1, Height: 1}}})
	assert.Error(t, err)
	_, err = NewCatalog([]models.DeviceType{{Name: "nameless", Color: "#fff000"}})
	assert.ErrorIs(t, err, ErrEmptyDeviceType)
}

func TestParseCatalog(t *testing.T) {
	src := []byte(`
- id: PIR-1
  name: PIR sensor
  model: PIR-1
  size: {width: 0.05, height: 0.05, depth: 0.02}
  color: "#aabbcc"
`)
	c, err := ParseCatalog(src)
	require.NoError(t, err)
	dt, ok := c.Lookup("PIR-1")
	require.True(t, ok)
	assert.InDelta(t, 0.02, dt.Size.Depth, 1e-9)

	_, err = ParseCatalog([]byte("- id: [unterminated"))
	assert.Error(t, err)
}
