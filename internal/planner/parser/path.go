package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"iot-planner/internal/planner/geometry"
)

// ============================================================
// Path Parser
// ============================================================

var pathCommandRe = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath flattens SVG path data into a point list. Only straight-line
// commands (M, L, H, V, Z and their relative forms) are understood; extra
// coordinate pairs after M/L are treated as implicit line-tos.
func ParsePath(d string) ([]geometry.Point2D, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []geometry.Point2D
	var cur geometry.Point2D
	subpathStart := 0

	matches := pathCommandRe.FindAllStringSubmatch(d, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no path commands in %q", d)
	}

	for _, match := range matches {
		cmd := match[1]
		coords := parseCoords(match[2])
		relative := cmd == strings.ToLower(cmd)

		switch strings.ToUpper(cmd) {
		case "M", "L":
			for i := 0; i+1 < len(coords); i += 2 {
				next := geometry.Pt(coords[i], coords[i+1])
				if relative {
					next = cur.Add(next)
				}
				cur = next
				if strings.ToUpper(cmd) == "M" && i == 0 {
					subpathStart = len(points)
				}
				points = append(points, cur)
			}

		case "H":
			for _, x := range coords {
				if relative {
					cur.X += x
				} else {
					cur.X = x
				}
				points = append(points, cur)
			}

		case "V":
			for _, y := range coords {
				if relative {
					cur.Y += y
				} else {
					cur.Y = y
				}
				points = append(points, cur)
			}

		case "Z":
			// Close back to the start of the current subpath.
			if subpathStart < len(points) {
				cur = points[subpathStart]
				points = append(points, cur)
			}
		}
	}

	return points, nil
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// Separator: comma or whitespace.
	s = strings.ReplaceAll(s, ",", " ")
	parts := strings.Fields(s)

	coords := make([]float64, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err == nil {
			coords = append(coords, val)
		}
	}
	return coords
}
