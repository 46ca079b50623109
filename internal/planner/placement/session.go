// Package placement drives the add/reposition device flow: it decides when
// the raycaster is live, turns a confirmed click into an InstalledDevice and
// keeps at most one device in flight.
package placement

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"iot-planner/internal/planner/models"
)

var (
	ErrEmptyDeviceType = errors.New("device type id is empty")
	ErrNotSelecting    = errors.New("device picker is not open")
	ErrNotPreviewing   = errors.New("placement is not previewing")
	ErrNoValidPreview  = errors.New("no valid placement preview")
	ErrDeviceNotFound  = errors.New("device not found")
)

// ============================================================
// States
// ============================================================

type State int

const (
	Idle State = iota
	AwaitingDeviceSelection
	Previewing
	Committed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingDeviceSelection:
		return "awaiting-device-selection"
	case Previewing:
		return "previewing"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// PreviewSource is the surface picker the session switches on and off.
// *raycast.Raycaster satisfies it.
type PreviewSource interface {
	Activate(depth float64)
	Deactivate()
}

// ============================================================
// Session
// ============================================================

// Options configures a Session. Zero values pick sensible defaults.
type Options struct {
	Catalog  *Catalog
	Registry *DeviceRegistry
	Source   PreviewSource
	Logger   *zap.Logger
	Rand     *rand.Rand
	Now      func() time.Time
	// OnTransition observes every state change, including the transient
	// Committed and Cancelled states.
	OnTransition func(from, to State)
}

// Session is the single-device placement state machine.
type Session struct {
	catalog  *Catalog
	registry *DeviceRegistry
	source   PreviewSource
	logger   *zap.Logger
	rnd      *rand.Rand
	now      func() time.Time
	onChange func(from, to State)

	state        State
	deviceTypeID string
	editingID    string
	preview      models.Preview
}

func NewSession(opts Options) *Session {
	s := &Session{
		catalog:  opts.Catalog,
		registry: opts.Registry,
		source:   opts.Source,
		logger:   opts.Logger,
		rnd:      opts.Rand,
		now:      opts.Now,
		onChange: opts.OnTransition,
	}
	if s.catalog == nil {
		s.catalog = DefaultCatalog()
	}
	if s.registry == nil {
		s.registry = NewDeviceRegistry()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Session) State() State              { return s.state }
func (s *Session) DeviceTypeID() string      { return s.deviceTypeID }
func (s *Session) EditingDeviceID() string   { return s.editingID }
func (s *Session) Preview() models.Preview   { return s.preview }
func (s *Session) Registry() *DeviceRegistry { return s.registry }
func (s *Session) Catalog() *Catalog         { return s.catalog }

// ToggleAddDevice opens the device picker, or closes the flow when it is
// already open.
func (s *Session) ToggleAddDevice() {
	if s.state == Idle {
		s.deviceTypeID = ""
		s.editingID = ""
		s.transition(AwaitingDeviceSelection)
		return
	}
	s.editingID = ""
	s.cancel()
}

// SelectDeviceType picks what to place and starts previewing. The picker
// must be open, or a preview already running.
func (s *Session) SelectDeviceType(id string) error {
	if s.state != AwaitingDeviceSelection && s.state != Previewing {
		return ErrNotSelecting
	}
	if id == "" {
		return ErrEmptyDeviceType
	}
	s.deviceTypeID = id
	s.startPreview()
	return nil
}

// UpdatePreview stores the latest pose from the preview source. Outside
// Previewing it is ignored.
func (s *Session) UpdatePreview(p models.Preview) {
	if s.state != Previewing {
		return
	}
	s.preview = p
}

// Commit finalizes a click. A new device is created, or the device being
// repositioned is moved in place. The session always settles in Idle on
// success.
func (s *Session) Commit(ev models.PlacementEvent) (*models.InstalledDevice, error) {
	if s.state != Previewing {
		return nil, ErrNotPreviewing
	}
	if !s.preview.IsValid {
		return nil, ErrNoValidPreview
	}

	var (
		device *models.InstalledDevice
		err    error
	)
	if s.editingID != "" {
		device, err = s.registry.Update(s.editingID, func(d *models.InstalledDevice) {
			d.Position = ev.Position
			rot := ev.Rotation
			d.Rotation = &rot
			d.AttachedTo = ev.AttachedTo
			d.AttachedToID = ev.AttachedToID
		})
		if err != nil {
			return nil, fmt.Errorf("reposition %s: %w", s.editingID, err)
		}
		s.logger.Info("device repositioned",
			zap.String("device_id", device.ID),
			zap.String("attached_to", device.AttachedTo),
			zap.String("attached_to_id", device.AttachedToID),
		)
	} else {
		device = s.newDevice(ev)
		s.registry.Add(device)
		s.logger.Info("device installed",
			zap.String("device_id", device.ID),
			zap.String("serial", device.SerialNumber),
			zap.String("attached_to", device.AttachedTo),
		)
	}

	s.transition(Committed)
	s.reset()
	s.transition(Idle)
	return device, nil
}

// Cancel abandons the flow without touching the registry.
func (s *Session) Cancel() {
	if s.state == Idle {
		return
	}
	s.cancel()
}

// Reposition jumps straight to Previewing for an existing device, skipping
// the device picker.
func (s *Session) Reposition(deviceID string) error {
	d, ok := s.registry.Get(deviceID)
	if !ok {
		return fmt.Errorf("reposition %s: %w", deviceID, ErrDeviceNotFound)
	}
	s.editingID = d.ID
	s.deviceTypeID = d.SerialNumber
	s.startPreview()
	return nil
}

func (s *Session) startPreview() {
	if s.state == Previewing && s.source != nil {
		s.source.Deactivate()
	}
	s.preview = models.InvalidPreview()
	s.transition(Previewing)
	if s.source != nil {
		s.source.Activate(s.depth())
	}
}

// depth is the placed object's thickness, used to push it off the surface.
func (s *Session) depth() float64 {
	if dt, ok := s.catalog.Lookup(s.deviceTypeID); ok {
		return dt.Size.Depth
	}
	return 0
}

func (s *Session) newDevice(ev models.PlacementEvent) *models.InstalledDevice {
	rot := ev.Rotation
	return &models.InstalledDevice{
		ID:           uuid.NewString(),
		SerialNumber: s.deviceTypeID,
		Position:     ev.Position,
		Rotation:     &rot,
		AttachedTo:   ev.AttachedTo,
		AttachedToID: ev.AttachedToID,
		InstalledAt:  s.now(),
		Status:       models.DeviceActive,
		Telemetry: models.Telemetry{
			Temperature: 18 + s.rnd.Float64()*8,
			Humidity:    30 + s.rnd.Float64()*30,
		},
	}
}

func (s *Session) cancel() {
	s.transition(Cancelled)
	s.reset()
	s.transition(Idle)
}

func (s *Session) reset() {
	if s.source != nil {
		s.source.Deactivate()
	}
	s.deviceTypeID = ""
	s.editingID = ""
	s.preview = models.InvalidPreview()
}

func (s *Session) transition(to State) {
	from := s.state
	s.state = to
	s.logger.Debug("placement state", zap.Stringer("from", from), zap.Stringer("to", to))
	if s.onChange != nil {
		s.onChange(from, to)
	}
}
