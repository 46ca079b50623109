package mapper

import (
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"
	"github.com/lucasb-eyer/go-colorful"

	"iot-planner/internal/planner/geometry"
	"iot-planner/internal/planner/models"
)

// ============================================================
// PDF export
// ============================================================

const (
	pageWidth  = 297.0 // A4 landscape, mm
	pageHeight = 210.0
	pageMargin = 12.0
)

type PDFExporter struct {
	palette Palette
}

func NewPDFExporter(palette Palette) *PDFExporter {
	return &PDFExporter{palette: palette}
}

// Export draws the plan scaled to fit an A4 landscape page and writes the
// document to w.
func (e *PDFExporter) Export(w io.Writer, plan models.FloorPlan, devices []models.InstalledDevice) error {
	bounds, ok := planBounds(plan, devices)
	if !ok {
		return fmt.Errorf("floor plan %q is empty", plan.ID)
	}

	p := gofpdf.New("L", "mm", "A4", "")
	p.SetTitle(plan.Name, true)
	p.AddPage()

	scale := fitScale(bounds)
	toPage := func(pt geometry.Point2D) (float64, float64) {
		return pageMargin + (pt.X-bounds.X)*scale, pageMargin + (pt.Y-bounds.Y)*scale
	}

	p.SetFont("Helvetica", "", 9)
	p.Text(pageMargin, pageMargin-4, fmt.Sprintf("%s  (1 %s = %.2f mm)", plan.Name, plan.Metadata.Unit, scale))

	for i, room := range plan.Rooms {
		outline := room.Outline()
		if len(outline) < 3 {
			continue
		}
		pts := make([]gofpdf.PointType, len(outline))
		for j, v := range outline {
			x, y := toPage(v)
			pts[j] = gofpdf.PointType{X: x, Y: y}
		}
		fill, _ := colorful.Hex(roomFill(i))
		r, g, b := fill.RGB255()
		p.SetFillColor(int(r), int(g), int(b))
		p.SetDrawColor(136, 136, 136)
		p.SetLineWidth(0.2)
		p.Polygon(pts, "DF")
	}

	p.SetDrawColor(0, 0, 0)
	for _, wall := range plan.Walls {
		p.SetLineWidth(math.Max(wall.Thickness*scale, 0.2))
		x1, y1 := toPage(wall.Start)
		x2, y2 := toPage(wall.End)
		p.Line(x1, y1, x2, y2)
	}

	p.SetLineWidth(0.2)
	for _, d := range devices {
		c := colorful.Color{R: 0.5, G: 0.5, B: 0.5}
		if e.palette != nil {
			c = e.palette.Color(d.SerialNumber)
		}
		r, g, b := c.RGB255()
		p.SetFillColor(int(r), int(g), int(b))
		x, y := toPage(geometry.Pt(d.Position.X, d.Position.Z))
		p.Circle(x, y, 1.5, "F")
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// fitScale is millimeters per world unit for the printable area.
func fitScale(b geometry.Rectangle) float64 {
	w := math.Max(b.Width, 1e-6)
	h := math.Max(b.Height, 1e-6)
	return math.Min((pageWidth-2*pageMargin)/w, (pageHeight-2*pageMargin)/h)
}
