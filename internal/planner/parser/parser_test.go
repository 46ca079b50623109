package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iot-planner/internal/planner/geometry"
	"iot-planner/internal/planner/models"
)

func TestParsePath_AbsoluteAndRelative(t *testing.T) {
	points, err := ParsePath("M 0 0 L 10 0 l 0 5 H 2 v -5 Z")
	require.NoError(t, err)

	want := []geometry.Point2D{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 5},
		{X: 2, Y: 5},
		{X: 2, Y: 0},
		{X: 0, Y: 0},
	}
	assert.Equal(t, want, points)
}

func TestParsePath_ImplicitLineTo(t *testing.T) {
	points, err := ParsePath("M1,1 4,1 4,3")
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point2D{{X: 1, Y: 1}, {X: 4, Y: 1}, {X: 4, Y: 3}}, points)
}

func TestParsePath_Empty(t *testing.T) {
	_, err := ParsePath("   ")
	assert.Error(t, err)

	_, err = ParsePath("garbage")
	assert.Error(t, err)
}

func TestParseSVG(t *testing.T) {
	src := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800 600">
  <rect id="Wall_1" x="0" y="0" width="400" height="10"/>
  <rect id="Decoration" x="1" y="1" width="1" height="1"/>
  <g>
    <path id="Kitchen_room" d="M 0 0 L 100 0 L 100 100 Z"/>
    <line id="Wall_2" x1="0" y1="0" x2="0" y2="300"/>
  </g>
  <rect id="Door_1" x="100" y="0" width="40" height="10"/>
</svg>`

	doc, err := ParseSVG(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, geometry.Rectangle{Width: 800, Height: 600}, doc.Canvas)

	types := map[string]string{}
	for _, e := range doc.Elements {
		types[e.ID] = e.Type
	}
	assert.Equal(t, map[string]string{
		"Wall_1":       "wall",
		"Door_1":       "door",
		"Kitchen_room": "room",
		"Wall_2":       "wall",
	}, types)

	for _, e := range doc.Elements {
		if e.ID == "Wall_2" {
			path, ok := e.Geometry.(models.PathGeometry)
			require.True(t, ok)
			pts, err := ParsePath(path.D)
			require.NoError(t, err)
			assert.Equal(t, []geometry.Point2D{{X: 0, Y: 0}, {X: 0, Y: 300}}, pts)
		}
	}
}

func TestParseSVG_CanvasFromWidthHeight(t *testing.T) {
	doc, err := ParseSVG(strings.NewReader(`<svg width="120px" height="80"></svg>`))
	require.NoError(t, err)
	assert.Equal(t, geometry.Rectangle{Width: 120, Height: 80}, doc.Canvas)
}

func TestParseSVG_Malformed(t *testing.T) {
	_, err := ParseSVG(strings.NewReader(`<svg><rect`))
	assert.Error(t, err)
}

func TestClassifyElementByID(t *testing.T) {
	tests := map[string]string{
		"Wall_1":       "wall",
		"wall-12":      "wall",
		"DOOR_a":       "door",
		"window-3":     "window",
		"Room_Lab":     "room",
		"room-2":       "room",
		"Kitchen_room": "room",
		"Wallpaper":    "",
		"":             "",
	}
	for id, want := range tests {
		assert.Equal(t, want, classifyElementByID(id), id)
	}
}
