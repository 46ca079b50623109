package raycast

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"iot-planner/internal/planner/models"
)

// ============================================================
// Config
// ============================================================

type Config struct {
	// Clearance is the gap left between a surface and the placed object.
	Clearance float64
	// Epsilon is the minimum pose change that produces a new preview.
	Epsilon float64
	// Kinds restricts candidate surfaces; empty means every tagged node.
	Kinds     []SurfaceKind
	Highlight colorful.Color
}

func DefaultConfig() Config {
	return Config{
		Clearance: 0.01,
		Epsilon:   0.01,
		Kinds:     []SurfaceKind{KindFloor, KindWall, KindColumn, KindMesh},
		Highlight: DefaultHighlight,
	}
}

// ClickEvent is a pointer click in normalized device coordinates. OverUI
// marks clicks that landed on interface chrome rather than the viewport.
type ClickEvent struct {
	NDC    mgl64.Vec2
	OverUI bool
}

// ============================================================
// Raycaster
// ============================================================

// frameState is everything carried from one frame to the next.
type frameState struct {
	pointer    mgl64.Vec2
	hasPointer bool
	suppressed bool // set by Escape until the pointer moves again
	preview    models.Preview
	pose       Pose
	emitted    bool
}

// Raycaster turns pointer positions into placement previews against the
// candidate surfaces of a scene. It is driven from a single goroutine: the
// host calls SetPointer on input and Frame once per render tick.
type Raycaster struct {
	cfg    Config
	camera Camera
	root   *Node
	logger *zap.Logger

	active   bool
	depth    float64
	surfaces []*Surface
	frame    frameState
	hl       highlighter
}

func New(cfg Config, logger *zap.Logger) *Raycaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Raycaster{
		cfg:    cfg,
		camera: DefaultCamera(),
		logger: logger,
		hl:     highlighter{color: cfg.Highlight},
	}
}

// SetScene swaps the scene graph. While active the candidate list is
// rebuilt from the new graph.
func (r *Raycaster) SetScene(root *Node) {
	r.root = root
	if !r.active {
		return
	}
	r.hl.restore()
	r.surfaces = CollectSurfaces(root, r.cfg.Kinds...)
	r.frame.emitted = false
	r.logger.Debug("candidate surfaces rebuilt", zap.Int("surfaces", len(r.surfaces)))
}

func (r *Raycaster) SetCamera(c Camera) { r.camera = c }

func (r *Raycaster) Camera() Camera { return r.camera }

// Activate enters placement mode for an object of the given depth.
func (r *Raycaster) Activate(depth float64) {
	r.active = true
	r.depth = depth
	r.surfaces = CollectSurfaces(r.root, r.cfg.Kinds...)
	r.frame = frameState{pointer: r.frame.pointer, hasPointer: r.frame.hasPointer}
	r.logger.Debug("placement raycaster activated",
		zap.Float64("depth", depth),
		zap.Int("surfaces", len(r.surfaces)),
	)
}

// Deactivate leaves placement mode, dropping candidates and undoing any
// hover highlight.
func (r *Raycaster) Deactivate() {
	if !r.active {
		return
	}
	r.active = false
	r.surfaces = nil
	r.hl.restore()
	r.frame = frameState{pointer: r.frame.pointer, hasPointer: r.frame.hasPointer}
	r.logger.Debug("placement raycaster deactivated")
}

func (r *Raycaster) Active() bool { return r.active }

// Surfaces returns the current candidate list. Callers must not modify it.
func (r *Raycaster) Surfaces() []*Surface { return r.surfaces }

// SetPointer records the latest pointer position. It also lifts an Escape
// suppression.
func (r *Raycaster) SetPointer(ndc mgl64.Vec2) {
	r.frame.pointer = ndc
	r.frame.hasPointer = true
	r.frame.suppressed = false
}

// Preview returns the last emitted preview.
func (r *Raycaster) Preview() models.Preview { return r.frame.preview }

// Hovered returns the highlighted node, if any.
func (r *Raycaster) Hovered() *Node { return r.hl.hovered() }

// Frame recomputes the preview for the latest pointer. The bool reports
// whether the preview changed; moves under Epsilon are skipped.
func (r *Raycaster) Frame() (models.Preview, bool) {
	if !r.active || !r.frame.hasPointer || r.frame.suppressed {
		return r.frame.preview, false
	}

	hit, pose, ok := r.cast(r.frame.pointer)
	if !ok {
		r.hl.hover(nil)
		if r.frame.emitted && !r.frame.preview.IsValid {
			return r.frame.preview, false
		}
		r.frame.preview = models.InvalidPreview()
		r.frame.emitted = true
		return r.frame.preview, true
	}

	r.hl.hover(hit.Surface.Node)
	if r.frame.emitted && r.frame.preview.IsValid && r.samePose(pose) {
		return r.frame.preview, false
	}
	r.frame.pose = pose
	r.frame.preview = pose.Preview()
	r.frame.emitted = true
	return r.frame.preview, true
}

// Click re-casts at click time and returns the finalized placement. Clicks
// over UI chrome and misses return false.
func (r *Raycaster) Click(ev ClickEvent) (models.PlacementEvent, bool) {
	if ev.OverUI || !r.active {
		return models.PlacementEvent{}, false
	}
	hit, pose, ok := r.cast(ev.NDC)
	if !ok {
		return models.PlacementEvent{}, false
	}
	return placementEvent(hit, pose), true
}

// Escape clears the current preview but stays in placement mode.
func (r *Raycaster) Escape() {
	r.hl.restore()
	r.frame.preview = models.InvalidPreview()
	r.frame.emitted = false
	r.frame.suppressed = true
}

func (r *Raycaster) cast(ndc mgl64.Vec2) (Hit, Pose, bool) {
	ray := r.camera.RayFromNDC(ndc)
	hit, ok := Nearest(ray, r.surfaces)
	if !ok {
		return Hit{}, Pose{}, false
	}
	return hit, PlacementPose(hit.Point, hit.FacingNormal(ray), r.depth, r.cfg.Clearance), true
}

func (r *Raycaster) samePose(p Pose) bool {
	prev := r.frame.pose
	return prev.Position.Sub(p.Position).Len() < r.cfg.Epsilon &&
		math.Abs(prev.Yaw-p.Yaw) < r.cfg.Epsilon
}

// ============================================================
// Stateless picking
// ============================================================

// Pick is a one-shot cast for callers without frame state.
func Pick(camera Camera, root *Node, ndc mgl64.Vec2, depth float64, cfg Config) (models.PlacementEvent, bool) {
	ray := camera.RayFromNDC(ndc)
	hit, ok := Nearest(ray, CollectSurfaces(root, cfg.Kinds...))
	if !ok {
		return models.PlacementEvent{}, false
	}
	pose := PlacementPose(hit.Point, hit.FacingNormal(ray), depth, cfg.Clearance)
	return placementEvent(hit, pose), true
}

func placementEvent(hit Hit, pose Pose) models.PlacementEvent {
	return models.PlacementEvent{
		Position:     pose.PositionVec(),
		Rotation:     pose.RotationVec(),
		AttachedTo:   hit.Surface.AttachedTo(),
		AttachedToID: hit.Surface.ID(),
	}
}
