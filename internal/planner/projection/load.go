package projection

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"iot-planner/internal/planner/models"
)

var ErrInvalidBuilding = errors.New("invalid building document")

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the document format from a file extension. Anything
// that is not .yaml/.yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadBuilding reads a building document from disk.
func LoadBuilding(path string) (models.Building, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Building{}, fmt.Errorf("read building: %w", err)
	}
	return DecodeBuilding(data, FormatFromPath(path))
}

// DecodeBuilding parses and validates a building document.
func DecodeBuilding(data []byte, format Format) (models.Building, error) {
	var b models.Building
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &b)
	default:
		err = json.Unmarshal(data, &b)
	}
	if err != nil {
		return models.Building{}, fmt.Errorf("%w: %v", ErrInvalidBuilding, err)
	}

	seen := make(map[string]bool, len(b.Walls))
	for i, w := range b.Walls {
		if w.ID == "" {
			return models.Building{}, fmt.Errorf("%w: wall %d has no id", ErrInvalidBuilding, i)
		}
		if seen[w.ID] {
			return models.Building{}, fmt.Errorf("%w: duplicate wall id %q", ErrInvalidBuilding, w.ID)
		}
		seen[w.ID] = true
	}
	return b, nil
}
