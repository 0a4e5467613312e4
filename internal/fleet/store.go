package fleet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ukydev/transit-simulator/internal/models"
)

// SaveFile writes vehicles to path as an indented JSON array, creating the
// parent directory if needed.
func SaveFile(path string, vehicles []*models.Vehicle) error {
	if vehicles == nil {
		vehicles = []*models.Vehicle{}
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(vehicles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal vehicles: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write vehicle file: %w", err)
	}
	return nil
}

// LoadFile reads a vehicle file written by SaveFile. Position indexes are
// wrapped into range so hand-edited files cannot point past a path.
func LoadFile(path string) ([]*models.Vehicle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vehicle file: %w", err)
	}
	var vehicles []*models.Vehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		return nil, fmt.Errorf("failed to decode vehicle file %s: %w", path, err)
	}
	out := vehicles[:0]
	for _, v := range vehicles {
		if v == nil {
			continue
		}
		v.PositionIndex = v.Cursor()
		out = append(out, v)
	}
	return out, nil
}
