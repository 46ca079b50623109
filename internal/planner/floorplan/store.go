// Package floorplan is the 2D floor-plan editor: a copy-on-write store that
// owns the FloorPlan aggregate, and an Editor that turns pointer and key
// events into store mutations.
package floorplan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"iot-planner/internal/planner/geometry"
	"iot-planner/internal/planner/models"
)

// MinSize is the smallest wall length or room side that gets committed.
const MinSize = 0.5

var ErrInvalidDocument = errors.New("invalid floor plan document")

const (
	roomPrefix = "room-"
	wallPrefix = "wall-"
)

// ============================================================
// Store
// ============================================================

// Store owns one FloorPlan. Every mutation builds a new aggregate and swaps
// it in, so a plan returned by Plan is never modified afterwards.
type Store struct {
	plan     models.FloorPlan
	nextRoom int
	nextWall int

	now      func() time.Time
	logger   *zap.Logger
	onChange func(models.FloorPlan)
}

type StoreOption func(*Store)

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithOnChange registers a listener called with every new plan.
func WithOnChange(fn func(models.FloorPlan)) StoreOption {
	return func(s *Store) { s.onChange = fn }
}

// NewStore returns a store holding an empty plan.
func NewStore(name string, opts ...StoreOption) *Store {
	s := &Store{
		nextRoom: 1,
		nextWall: 1,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	ts := s.now()
	s.plan = models.FloorPlan{
		ID:   uuid.NewString(),
		Name: name,
		Metadata: models.Metadata{
			Scale:     1,
			Unit:      "m",
			CreatedAt: ts,
			UpdatedAt: ts,
		},
		Rooms: []models.Room{},
		Walls: []models.Wall{},
	}
	return s
}

// Plan returns a deep copy of the current aggregate; writes to it never reach
// the store.
func (s *Store) Plan() models.FloorPlan { return s.plan.Clone() }

// AddRectangleRoom normalizes r and appends it as a room. Rooms with a side
// under MinSize are dropped.
func (s *Store) AddRectangleRoom(r geometry.Rectangle) (models.Room, bool) {
	r = geometry.NormalizeRectangle(r)
	if r.Width < MinSize || r.Height < MinSize {
		return models.Room{}, false
	}
	room := models.Room{
		ID:     s.allocRoomID(),
		Type:   models.RoomRectangle,
		Bounds: &r,
	}
	s.commit(func(p *models.FloorPlan) { p.Rooms = append(p.Rooms, room) })
	s.logger.Debug("room added", zap.String("room_id", room.ID))
	return room, true
}

// AddPolygonRoom appends a polygon room. A closing duplicate vertex is
// dropped; fewer than three vertices or an area under MinSize is ignored.
func (s *Store) AddPolygonRoom(vertices []geometry.Point2D) (models.Room, bool) {
	if n := len(vertices); n > 1 && vertices[0] == vertices[n-1] {
		vertices = vertices[:n-1]
	}
	if len(vertices) < 3 || geometry.PolygonArea(vertices) < MinSize {
		return models.Room{}, false
	}
	room := models.Room{
		ID:       s.allocRoomID(),
		Type:     models.RoomPolygon,
		Vertices: append([]geometry.Point2D(nil), vertices...),
	}
	s.commit(func(p *models.FloorPlan) { p.Rooms = append(p.Rooms, room) })
	s.logger.Debug("room added", zap.String("room_id", room.ID), zap.Int("vertices", len(vertices)))
	return room, true
}

// AddWall commits an interior wall with default height and thickness.
// Walls shorter than MinSize are ignored.
func (s *Store) AddWall(start, end geometry.Point2D) (models.Wall, bool) {
	if geometry.Distance(start, end) < MinSize {
		return models.Wall{}, false
	}
	w := models.Wall{
		ID:        s.allocWallID(),
		Start:     start,
		End:       end,
		Height:    models.DefaultWallHeight,
		Thickness: models.DefaultWallThickness,
		Type:      models.WallInterior,
	}
	s.commit(func(p *models.FloorPlan) { p.Walls = append(p.Walls, w) })
	s.logger.Debug("wall added", zap.String("wall_id", w.ID), zap.Float64("length", w.Length()))
	return w, true
}

// UpdateRoom replaces the room with the same id.
func (s *Store) UpdateRoom(room models.Room) bool {
	idx := -1
	for i, r := range s.plan.Rooms {
		if r.ID == room.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	if room.Bounds != nil {
		b := geometry.NormalizeRectangle(*room.Bounds)
		room.Bounds = &b
	}
	s.commit(func(p *models.FloorPlan) { p.Rooms[idx] = room })
	return true
}

// Remove deletes the element with the given id and kind.
func (s *Store) Remove(id string, kind models.ElementKind) bool {
	switch kind {
	case models.ElementRoom:
		for i, r := range s.plan.Rooms {
			if r.ID == id {
				s.commit(func(p *models.FloorPlan) { p.Rooms = append(p.Rooms[:i], p.Rooms[i+1:]...) })
				return true
			}
		}
	case models.ElementWall:
		for i, w := range s.plan.Walls {
			if w.ID == id {
				s.commit(func(p *models.FloorPlan) { p.Walls = append(p.Walls[:i], p.Walls[i+1:]...) })
				return true
			}
		}
	}
	return false
}

// Replace swaps in a whole new plan.
func (s *Store) Replace(plan models.FloorPlan) {
	next := plan.Clone()
	next.Metadata.UpdatedAt = s.now()
	s.plan = next
	s.syncCounters()
	s.notify()
}

// ============================================================
// Import / Export
// ============================================================

// ExportJSON serializes the current plan.
func (s *Store) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s.plan, "", "  ")
}

// ImportJSON replaces the plan with a serialized one. On error the current
// plan is left untouched.
func (s *Store) ImportJSON(data []byte) error {
	plan, err := DecodePlan(data)
	if err != nil {
		return err
	}
	s.Replace(plan)
	s.logger.Info("floor plan imported",
		zap.String("plan_id", plan.ID),
		zap.Int("rooms", len(plan.Rooms)),
		zap.Int("walls", len(plan.Walls)),
	)
	return nil
}

// DecodePlan parses and validates a serialized plan.
func DecodePlan(data []byte) (models.FloorPlan, error) {
	var plan models.FloorPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return models.FloorPlan{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := Validate(plan); err != nil {
		return models.FloorPlan{}, err
	}
	if plan.Rooms == nil {
		plan.Rooms = []models.Room{}
	}
	if plan.Walls == nil {
		plan.Walls = []models.Wall{}
	}
	for i, r := range plan.Rooms {
		if r.Type == models.RoomRectangle {
			b := geometry.NormalizeRectangle(*r.Bounds)
			plan.Rooms[i].Bounds = &b
		}
	}
	return plan, nil
}

// Validate checks the structural rules a plan must satisfy.
func Validate(plan models.FloorPlan) error {
	seen := make(map[string]bool)
	for i, r := range plan.Rooms {
		if r.ID == "" {
			return fmt.Errorf("%w: room %d has no id", ErrInvalidDocument, i)
		}
		if seen[r.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidDocument, r.ID)
		}
		seen[r.ID] = true
		switch r.Type {
		case models.RoomRectangle:
			if r.Bounds == nil {
				return fmt.Errorf("%w: room %q has no bounds", ErrInvalidDocument, r.ID)
			}
		case models.RoomPolygon:
			if len(r.Vertices) < 3 {
				return fmt.Errorf("%w: room %q needs at least 3 vertices", ErrInvalidDocument, r.ID)
			}
		default:
			return fmt.Errorf("%w: room %q has unknown type %q", ErrInvalidDocument, r.ID, r.Type)
		}
	}
	for i, w := range plan.Walls {
		if w.ID == "" {
			return fmt.Errorf("%w: wall %d has no id", ErrInvalidDocument, i)
		}
		if seen[w.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidDocument, w.ID)
		}
		seen[w.ID] = true
		if w.Height < 0 || w.Thickness < 0 {
			return fmt.Errorf("%w: wall %q has negative extents", ErrInvalidDocument, w.ID)
		}
	}
	return nil
}

// ============================================================
// Helpers
// ============================================================

func (s *Store) commit(mutate func(*models.FloorPlan)) {
	next := s.plan.Clone()
	mutate(&next)
	next.Metadata.UpdatedAt = s.now()
	s.plan = next
	s.notify()
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange(s.plan.Clone())
	}
}

func (s *Store) allocRoomID() string {
	id := roomPrefix + strconv.Itoa(s.nextRoom)
	s.nextRoom++
	return id
}

func (s *Store) allocWallID() string {
	id := wallPrefix + strconv.Itoa(s.nextWall)
	s.nextWall++
	return id
}

// syncCounters moves the id counters past every numeric suffix in the
// plan, so imported ids are never reissued.
func (s *Store) syncCounters() {
	s.nextRoom, s.nextWall = 1, 1
	for _, r := range s.plan.Rooms {
		if n, ok := idSuffix(r.ID, roomPrefix); ok && n >= s.nextRoom {
			s.nextRoom = n + 1
		}
	}
	for _, w := range s.plan.Walls {
		if n, ok := idSuffix(w.ID, wallPrefix); ok && n >= s.nextWall {
			s.nextWall = n + 1
		}
	}
}

func idSuffix(id, prefix string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
