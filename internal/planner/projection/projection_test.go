package projection

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iot-planner/internal/planner/geometry"
	"iot-planner/internal/planner/models"
	"iot-planner/internal/planner/raycast"
)

const delta = 1e-9

func straightWall() models.Wall {
	return models.Wall{ID: "w1", Start: geometry.Pt(0, 0), End: geometry.Pt(10, 0), Height: 3, Thickness: 0.2}
}

func TestWallBox(t *testing.T) {
	got := WallBox(geometry.Pt(0, 0), geometry.Pt(10, 0), 3, 0.2)
	assert.Equal(t, WallTransform{
		Position:  models.Vec3{X: 5, Y: 1.5, Z: 0},
		RotationY: 0,
		Length:    10,
		Height:    3,
		Thickness: 0.2,
	}, got)

	vertical := WallBox(geometry.Pt(0, 0), geometry.Pt(0, 4), 2.5, 0.2)
	assert.InDelta(t, math.Pi/2, vertical.RotationY, delta)
	assert.InDelta(t, 2, vertical.Position.Z, delta)
	assert.InDelta(t, 4, vertical.Length, delta)
}

func TestWallBoxForMatchesWallBox(t *testing.T) {
	w := models.Wall{ID: "x", Start: geometry.Pt(1, 2), End: geometry.Pt(-3, 7), Height: 2.5, Thickness: 0.2}
	want := WallBox(w.Start, w.End, w.Height, w.Thickness)
	want.ID = "x"
	assert.Equal(t, want, WallBoxFor(w))
}

func TestWallMatrixSpansSegment(t *testing.T) {
	start, end := geometry.Pt(1, 1), geometry.Pt(4, 5)
	m := WallBox(start, end, 2, 0.2).Matrix()

	a := mgl64.TransformCoordinate(mgl64.Vec3{-0.5, 0, 0}, m)
	b := mgl64.TransformCoordinate(mgl64.Vec3{0.5, 0, 0}, m)
	assert.True(t, a.ApproxEqualThreshold(mgl64.Vec3{1, 1, 1}, 1e-9), "start %v", a)
	assert.True(t, b.ApproxEqualThreshold(mgl64.Vec3{4, 1, 5}, 1e-9), "end %v", b)
}

func TestPlaceDoor(t *testing.T) {
	door := DoorOpening(models.Door{ID: "d1", WallID: "w1", Position: 0.5, Width: 1, Height: 2})
	got, err := PlaceOpening(straightWall(), door)
	require.NoError(t, err)

	assert.Equal(t, models.Vec3{X: 5, Y: 1, Z: 0}, got.Anchor)
	assert.InDelta(t, 5, got.Position.X, delta)
	assert.InDelta(t, 1, got.Position.Y, delta)
	assert.InDelta(t, 0.1+Clearance, got.Position.Z, delta)
	assert.InDelta(t, 0, got.RotationY, delta)
	assert.Equal(t, OpeningDoor, got.Kind)
}

func TestPlaceWindowUsesSill(t *testing.T) {
	win := WindowOpening(models.Window{ID: "win", WallID: "w1", Position: 0.25, Width: 1.2, Height: 1, YPosition: 0.9})
	got, err := PlaceOpening(straightWall(), win)
	require.NoError(t, err)
	assert.InDelta(t, 1.4, got.Position.Y, delta)
	assert.InDelta(t, 2.5, got.Anchor.X, delta)
}

func TestPlaceOpeningOffsetIsPerpendicular(t *testing.T) {
	w := models.Wall{ID: "d", Start: geometry.Pt(0, 0), End: geometry.Pt(3, 4), Thickness: 0.4}
	got, err := PlaceOpening(w, DoorOpening(models.Door{Position: 1, Height: 2}))
	require.NoError(t, err)

	anchor := geometry.Pt(got.Anchor.X, got.Anchor.Z)
	pushed := geometry.Pt(got.Position.X, got.Position.Z)
	off := pushed.Sub(anchor)
	assert.InDelta(t, 0.2+Clearance, off.Length(), delta)
	dir := w.End.Sub(w.Start)
	assert.InDelta(t, 0, off.X*dir.X+off.Y*dir.Y, delta)
	assert.Equal(t, models.Vec3{X: 3, Y: 1, Z: 4}, got.Anchor)
}

func TestPlaceOpeningOutOfRange(t *testing.T) {
	for _, pos := range []float64{-0.01, 1.01, math.NaN()} {
		_, err := PlaceOpening(straightWall(), DoorOpening(models.Door{ID: "d", Position: pos}))
		assert.ErrorIs(t, err, ErrPositionOutOfRange, "position %v", pos)
	}
	for _, pos := range []float64{0, 1} {
		_, err := PlaceOpening(straightWall(), DoorOpening(models.Door{ID: "d", Position: pos}))
		assert.NoError(t, err)
	}
}

func testBuilding() models.Building {
	return models.Building{
		Name:       "warehouse",
		Dimensions: models.Dimensions{Width: 20, Depth: 10, Height: 3},
		Walls: []models.Wall{
			{ID: "north", Start: geometry.Pt(0, 0), End: geometry.Pt(20, 0), Height: 3, Thickness: 0.2},
			{ID: "east", Start: geometry.Pt(20, 0), End: geometry.Pt(20, 10), Height: 3, Thickness: 0.2},
		},
		Columns: []models.Column{{ID: "c1", Position: geometry.Pt(10, 5), Width: 0.4, Depth: 0.4, Height: 3}},
		Doors: []models.Door{
			{ID: "d1", WallID: "north", Position: 0.1, Width: 1, Height: 2},
			{ID: "ghost", WallID: "missing", Position: 0.5, Width: 1, Height: 2},
		},
		Windows: []models.Window{{ID: "win1", WallID: "east", Position: 0.5, Width: 1, Height: 1, YPosition: 1}},
	}
}

func TestProjectBuilding(t *testing.T) {
	proj, err := NewProjector(nil).ProjectBuilding(testBuilding())
	require.NoError(t, err)

	require.Len(t, proj.Walls, 2)
	assert.Equal(t, "north", proj.Walls[0].ID)
	require.Len(t, proj.Doors, 1, "orphaned door is omitted")
	assert.Equal(t, "d1", proj.Doors[0].ID)
	assert.Equal(t, []string{"ghost"}, proj.Orphans)
	require.Len(t, proj.Windows, 1)
	assert.InDelta(t, 1.5, proj.Windows[0].Position.Y, delta)

	require.Len(t, proj.Columns, 1)
	assert.Equal(t, models.Vec3{X: 10, Y: 1.5, Z: 5}, proj.Columns[0].Position)

	require.Len(t, proj.Floors, 1)
	assert.InDelta(t, 200, proj.Floors[0].Area, delta)
}

func TestProjectBuildingRejectsBadPosition(t *testing.T) {
	b := testBuilding()
	b.Doors[0].Position = 1.5
	_, err := NewProjector(nil).ProjectBuilding(b)
	assert.ErrorIs(t, err, ErrPositionOutOfRange)
}

func TestProjectFloorPlan(t *testing.T) {
	plan := models.FloorPlan{
		Rooms: []models.Room{
			{ID: "room-1", Type: models.RoomRectangle, Bounds: &geometry.Rectangle{X: 0, Y: 0, Width: 4, Height: 3}},
			{ID: "room-2", Type: models.RoomPolygon, Vertices: []geometry.Point2D{geometry.Pt(0, 0), geometry.Pt(1, 1)}},
		},
		Walls: []models.Wall{{ID: "wall-1", Start: geometry.Pt(0, 0), End: geometry.Pt(4, 0), Height: 2.5, Thickness: 0.2}},
	}
	proj := NewProjector(nil).ProjectFloorPlan(plan)

	require.Len(t, proj.Walls, 1)
	assert.Equal(t, WallBoxFor(plan.Walls[0]), proj.Walls[0])
	require.Len(t, proj.Floors, 1, "degenerate room is skipped")
	assert.Equal(t, "room-1", proj.Floors[0].RoomID)
	assert.Len(t, proj.Floors[0].Triangles, 2)
	assert.InDelta(t, 12, proj.Floors[0].Area, delta)
}

func TestSceneFromBuildingIsPickable(t *testing.T) {
	b := testBuilding()
	proj, err := NewProjector(nil).ProjectBuilding(b)
	require.NoError(t, err)
	root := SceneFromBuilding(b, proj)

	surfaces := raycast.CollectSurfaces(root)
	assert.Len(t, surfaces, 4, "floor, two walls, one column")

	cam := raycast.DefaultCamera()
	cam.Position = mgl64.Vec3{15, 1.5, 8}
	cam.Target = mgl64.Vec3{15, 1.5, 0}
	ev, ok := raycast.Pick(cam, root, mgl64.Vec2{0, 0}, 0.04, raycast.DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, "wall", ev.AttachedTo)
	assert.Equal(t, "north", ev.AttachedToID)
	assert.InDelta(t, 0.1+0.02+0.01, ev.Position.Z, 1e-6)
	assert.InDelta(t, math.Pi/2, ev.Rotation.Y, 1e-6)

	cam.Position = mgl64.Vec3{5, 10, 5}
	cam.Target = mgl64.Vec3{5, 0, 5}
	cam.Up = mgl64.Vec3{0, 0, -1}
	ev, ok = raycast.Pick(cam, root, mgl64.Vec2{0, 0}, 0.04, raycast.DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, "floor", ev.AttachedTo)
	assert.InDelta(t, 0.03, ev.Position.Y, 1e-6)
}

func TestSceneFromFloorPlanSharesBoxTemplate(t *testing.T) {
	plan := models.FloorPlan{Walls: []models.Wall{
		{ID: "wall-1", Start: geometry.Pt(0, 0), End: geometry.Pt(4, 0), Height: 2.5, Thickness: 0.2},
		{ID: "wall-2", Start: geometry.Pt(4, 0), End: geometry.Pt(4, 4), Height: 2.5, Thickness: 0.2},
	}}
	root := SceneFromFloorPlan(NewProjector(nil).ProjectFloorPlan(plan))
	require.Len(t, root.Children, 2)
	assert.Same(t, root.Children[0].Mesh, root.Children[1].Mesh)
	assert.Same(t, raycast.UnitBox, root.Children[0].Mesh)
}

func TestDecodeBuilding(t *testing.T) {
	yamlDoc := `
name: depot
dimensions: {width: 12, depth: 8, height: 4}
walls:
  - id: a
    start: {x: 0, y: 0}
    end: {x: 12, y: 0}
    height: 4
    thickness: 0.3
doors:
  - {id: d, wallId: a, position: 0.5, width: 1, height: 2}
`
	b, err := DecodeBuilding([]byte(yamlDoc), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "depot", b.Name)
	require.Len(t, b.Walls, 1)
	assert.Equal(t, geometry.Pt(12, 0), b.Walls[0].End)
	assert.Equal(t, "a", b.Doors[0].WallID)

	jsonDoc := `{"name":"depot","walls":[{"id":"a","start":{"x":0,"y":0},"end":{"x":1,"y":0}}],
		"windows":[{"id":"w","wallId":"a","position":0.2,"width":1,"height":1,"yPosition":1.1}]}`
	b, err = DecodeBuilding([]byte(jsonDoc), FormatJSON)
	require.NoError(t, err)
	assert.InDelta(t, 1.1, b.Windows[0].YPosition, delta)

	_, err = DecodeBuilding([]byte(`{"walls":[{"id":"a"},{"id":"a"}]}`), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidBuilding)
	_, err = DecodeBuilding([]byte(`{"walls":[{}]}`), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidBuilding)
	_, err = DecodeBuilding([]byte(`walls: [`), FormatYAML)
	assert.ErrorIs(t, err, ErrInvalidBuilding)
}

func TestLoadBuilding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: site\nwalls: []\n"), 0o644))

	b, err := LoadBuilding(path)
	require.NoError(t, err)
	assert.Equal(t, "site", b.Name)

	_, err = LoadBuilding(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	assert.Equal(t, FormatYAML, FormatFromPath("a/b.YAML"))
	assert.Equal(t, FormatJSON, FormatFromPath("a/b.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("noext"))
}
