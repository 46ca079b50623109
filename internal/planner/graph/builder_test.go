package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iot-planner/internal/planner/geometry"
	"iot-planner/internal/planner/models"
)

func TestBuild_SplitsCrossingWalls(t *testing.T) {
	g := NewGraphBuilder(DefaultTolerances())
	g.Build([]Segment{
		{ID: "H", Start: geometry.Pt(0, 50), End: geometry.Pt(200, 50), Thickness: 10},
		{ID: "V", Start: geometry.Pt(100, 0), End: geometry.Pt(100, 200), Thickness: 10},
	})

	walls := g.Walls(300, models.WallExterior)
	require.Len(t, walls, 4)
	assert.Equal(t, 5, g.VertexCount())

	ids := make([]string, len(walls))
	for i, w := range walls {
		ids[i] = w.ID
	}
	assert.Equal(t, []string{"H_1", "H_2", "V_1", "V_2"}, ids)

	assert.Equal(t, geometry.Pt(0, 50), walls[0].Start)
	assert.Equal(t, geometry.Pt(100, 50), walls[0].End)
	assert.Equal(t, 300.0, walls[0].Height)
	assert.Equal(t, models.WallExterior, walls[0].Type)
}

func TestBuild_MergesNearMissJunction(t *testing.T) {
	g := NewGraphBuilder(DefaultTolerances())
	g.Build([]Segment{
		{ID: "H", Start: geometry.Pt(0, 0), End: geometry.Pt(100, 0), Thickness: 10},
		{ID: "V", Start: geometry.Pt(50, 5), End: geometry.Pt(50, 100), Thickness: 10},
	})

	walls := g.Walls(250, models.WallInterior)
	want := []models.Wall{
		{ID: "H_1", Start: geometry.Pt(0, 0), End: geometry.Pt(50, 0), Height: 250, Thickness: 10, Type: models.WallInterior},
		{ID: "H_2", Start: geometry.Pt(50, 0), End: geometry.Pt(100, 0), Height: 250, Thickness: 10, Type: models.WallInterior},
		{ID: "V", Start: geometry.Pt(50, 0), End: geometry.Pt(50, 100), Height: 250, Thickness: 10, Type: models.WallInterior},
	}
	if diff := cmp.Diff(want, walls); diff != "" {
		t.Errorf("walls mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, g.VertexCount())
}

func TestBuild_TransformAndDegenerate(t *testing.T) {
	g := NewGraphBuilder(DefaultTolerances())
	g.SetTransform(func(p geometry.Point2D) geometry.Point2D { return p.Scale(0.01) })
	g.Build([]Segment{
		{ID: "A", Start: geometry.Pt(0, 0), End: geometry.Pt(0, 0)},
		{ID: "B", Start: geometry.Pt(0, 0), End: geometry.Pt(800, 600), Thickness: 0.2},
	})

	walls := g.Walls(2.5, models.WallInterior)
	require.Len(t, walls, 1)
	assert.Equal(t, "B", walls[0].ID)
	assert.InDelta(t, 8.0, walls[0].End.X, 1e-9)
	assert.InDelta(t, 6.0, walls[0].End.Y, 1e-9)
}

func TestNearestWall(t *testing.T) {
	walls := []models.Wall{
		{ID: "a", Start: geometry.Pt(0, 0), End: geometry.Pt(10, 0)},
		{ID: "b", Start: geometry.Pt(0, 5), End: geometry.Pt(10, 5)},
		{ID: "degenerate", Start: geometry.Pt(3, 1), End: geometry.Pt(3, 1)},
	}

	w, pos, dist, ok := NearestWall(geometry.Pt(2.5, 1), walls)
	require.True(t, ok)
	assert.Equal(t, "a", w.ID)
	assert.InDelta(t, 0.25, pos, 1e-9)
	assert.InDelta(t, 1.0, dist, 1e-9)

	_, _, _, ok = NearestWall(geometry.Pt(0, 0), nil)
	assert.False(t, ok)
}
