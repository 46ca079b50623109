package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"iot-planner/internal/planner/geometry"
	"iot-planner/internal/planner/models"
)

// ============================================================
// XML Structures
// ============================================================

type svgDocument struct {
	XMLName xml.Name `xml:"svg"`
	ViewBox string   `xml:"viewBox,attr"`
	Width   string   `xml:"width,attr"`
	Height  string   `xml:"height,attr"`
	svgContainer
}

// svgContainer is the shared content model of <svg> and <g>.
type svgContainer struct {
	Rects  []svgRect      `xml:"rect"`
	Paths  []svgPath      `xml:"path"`
	Lines  []svgLine      `xml:"line"`
	Groups []svgContainer `xml:"g"`
}

type svgRect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type svgPath struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

type svgLine struct {
	ID string  `xml:"id,attr"`
	X1 float64 `xml:"x1,attr"`
	Y1 float64 `xml:"y1,attr"`
	X2 float64 `xml:"x2,attr"`
	Y2 float64 `xml:"y2,attr"`
}

// Document is a parsed SVG floor plan.
type Document struct {
	// Canvas is the declared drawing area (viewBox, or width/height).
	Canvas   geometry.Rectangle
	Elements []models.SVGElement
}

// ============================================================
// Parser
// ============================================================

// ParseSVG reads an SVG document and keeps the elements whose id marks them
// as walls, doors, windows or rooms. Nested groups are flattened.
func ParseSVG(r io.Reader) (*Document, error) {
	var svg svgDocument
	if err := xml.NewDecoder(r).Decode(&svg); err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}

	doc := &Document{Canvas: parseCanvas(svg)}
	collectElements(svg.svgContainer, &doc.Elements)
	return doc, nil
}

func collectElements(svg svgContainer, out *[]models.SVGElement) {
	for _, rect := range svg.Rects {
		elemType := classifyElementByID(rect.ID)
		if elemType == "" {
			continue
		}
		*out = append(*out, models.SVGElement{
			ID:   rect.ID,
			Type: elemType,
			Geometry: models.RectGeometry{
				X:      rect.X,
				Y:      rect.Y,
				Width:  rect.Width,
				Height: rect.Height,
			},
		})
	}

	for _, path := range svg.Paths {
		elemType := classifyElementByID(path.ID)
		if elemType == "" {
			continue
		}
		*out = append(*out, models.SVGElement{
			ID:       path.ID,
			Type:     elemType,
			Geometry: models.PathGeometry{D: path.D},
		})
	}

	// <line> is sugar for a two-point path.
	for _, line := range svg.Lines {
		elemType := classifyElementByID(line.ID)
		if elemType == "" {
			continue
		}
		d := fmt.Sprintf("M %s %s L %s %s",
			formatFloat(line.X1), formatFloat(line.Y1), formatFloat(line.X2), formatFloat(line.Y2))
		*out = append(*out, models.SVGElement{
			ID:       line.ID,
			Type:     elemType,
			Geometry: models.PathGeometry{D: d},
		})
	}

	for _, group := range svg.Groups {
		collectElements(group, out)
	}
}

func parseCanvas(svg svgDocument) geometry.Rectangle {
	if fields := strings.Fields(strings.ReplaceAll(svg.ViewBox, ",", " ")); len(fields) == 4 {
		var vals [4]float64
		ok := true
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if ok {
			return geometry.Rectangle{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
		}
	}
	return geometry.Rectangle{Width: parseLength(svg.Width), Height: parseLength(svg.Height)}
}

// parseLength reads "120", "120px" or "120.5mm" as a bare number.
func parseLength(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "abcdefghijklmnopqrstuvwxyz%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// classifyElementByID maps ids like "Wall_3", "door-1" or "Kitchen_room" to
// an element type. Unclassified elements are ignored.
func classifyElementByID(id string) string {
	lower := strings.ToLower(id)
	for _, kind := range []string{"wall", "door", "window", "room"} {
		if strings.HasPrefix(lower, kind+"_") || strings.HasPrefix(lower, kind+"-") {
			return kind
		}
	}
	if strings.HasSuffix(lower, "_room") {
		return "room"
	}
	return ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
