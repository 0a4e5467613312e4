// Package routes reads the route geometry dataset.
package routes

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/ukydev/transit-simulator/internal/models"
)

// Load reads a GeoJSON FeatureCollection of routes from path.
func Load(path string) ([]models.RouteFeature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route dataset: %w", err)
	}
	features, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return features, nil
}

// Parse decodes a GeoJSON FeatureCollection into routes, keeping dataset order.
// Only a malformed document is an error; a feature whose geometry cannot be
// decoded is kept with an empty path.
func Parse(data []byte) ([]models.RouteFeature, error) {
	var fc struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse route dataset: %w", err)
	}

	out := make([]models.RouteFeature, 0, len(fc.Features))
	for i, raw := range fc.Features {
		out = append(out, parseFeature(i, raw))
	}
	return out, nil
}

func parseFeature(index int, raw json.RawMessage) models.RouteFeature {
	route := models.RouteFeature{Index: index, Mode: models.UnknownMode}

	f, err := geojson.UnmarshalFeature(raw)
	if err != nil {
		var bare struct {
			Properties geojson.Properties `json:"properties"`
		}
		if json.Unmarshal(raw, &bare) == nil {
			route.Mode = modeOf(bare.Properties)
		}
		return route
	}

	route.Mode = modeOf(f.Properties)
	route.Path = pathOf(f.Geometry)
	return route
}

func modeOf(props geojson.Properties) string {
	mode, _ := props["mode"].(string)
	if mode = strings.TrimSpace(mode); mode == "" {
		return models.UnknownMode
	}
	return mode
}

// pathOf flattens a geometry into one ordered path. Multi-segment lines are
// joined end to end; area geometries yield no path.
func pathOf(g orb.Geometry) orb.LineString {
	switch g := g.(type) {
	case orb.LineString:
		return g
	case orb.MultiLineString:
		var path orb.LineString
		for _, ls := range g {
			path = append(path, ls...)
		}
		return path
	case orb.MultiPoint:
		return orb.LineString(g)
	case orb.Point:
		return orb.LineString{g}
	default:
		return nil
	}
}
