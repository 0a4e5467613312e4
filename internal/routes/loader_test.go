package routes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/transit-simulator/internal/models"
)

const dataset = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"mode": "Taxi"},
     "geometry": {"type": "LineString", "coordinates": [[-13.21, 8.46], [-13.22, 8.47]]}},
    {"type": "Feature", "properties": {"name": "no mode"},
     "geometry": {"type": "LineString", "coordinates": [[-13.30, 8.40], [-13.31, 8.41], [-13.32, 8.42]]}},
    {"type": "Feature", "properties": {"mode": "Keke"},
     "geometry": {"type": "MultiLineString", "coordinates": [[[1, 1], [2, 2]], [[3, 3]]]}},
    {"type": "Feature", "properties": {"mode": "Podapoda"},
     "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 0]]]}},
    {"type": "Feature", "properties": {"mode": "   "},
     "geometry": {"type": "Point", "coordinates": [7, 8]}}
  ]
}`

func TestParse(t *testing.T) {
	features, err := Parse([]byte(dataset))
	require.NoError(t, err)
	require.Len(t, features, 5)

	assert.Equal(t, 0, features[0].Index)
	assert.Equal(t, "Taxi", features[0].Mode)
	assert.Equal(t, orb.LineString{{-13.21, 8.46}, {-13.22, 8.47}}, features[0].Path)

	assert.Equal(t, models.UnknownMode, features[1].Mode)
	assert.Len(t, features[1].Path, 3)

	assert.Equal(t, "Keke", features[2].Mode)
	assert.Equal(t, orb.LineString{{1, 1}, {2, 2}, {3, 3}}, features[2].Path)

	assert.Equal(t, "Podapoda", features[3].Mode)
	assert.False(t, features[3].Usable())

	assert.Equal(t, models.UnknownMode, features[4].Mode)
	assert.Equal(t, orb.LineString{{7, 8}}, features[4].Path)
	assert.Equal(t, 4, features[4].Index)
}

func TestParse_NonStringMode(t *testing.T) {
	data := `{"type": "FeatureCollection", "features": [
    {"type": "Feature", "properties": {"mode": 3},
     "geometry": {"type": "LineString", "coordinates": [[1, 1], [2, 2]]}},
    {"type": "Feature", "properties": {"mode": null},
     "geometry": {"type": "LineString", "coordinates": [[3, 3]]}},
    {"type": "Feature", "properties": null,
     "geometry": {"type": "Point", "coordinates": [4, 4]}}
  ]}`

	features, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, features, 3)
	for _, f := range features {
		assert.Equal(t, models.UnknownMode, f.Mode)
		assert.True(t, f.Usable())
	}
}

func TestParse_UndecodableGeometryKeepsOtherRoutes(t *testing.T) {
	data := `{"type": "FeatureCollection", "features": [
    {"type": "Feature", "properties": {"mode": "Taxi"}, "geometry": {"type": "LineString"}},
    {"type": "Feature", "properties": {"mode": "Keke"},
     "geometry": {"type": "LineString", "coordinates": [[-13.25, 8.48], [-13.24, 8.485]]}},
    {"type": "Feature", "properties": {"mode": "Podapoda"}, "geometry": null}
  ]}`

	features, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, features, 3)

	assert.Equal(t, 0, features[0].Index)
	assert.Equal(t, "Taxi", features[0].Mode)
	assert.False(t, features[0].Usable())

	assert.Equal(t, 1, features[1].Index)
	assert.Equal(t, "Keke", features[1].Mode)
	assert.Equal(t, orb.LineString{{-13.25, 8.48}, {-13.24, 8.485}}, features[1].Path)

	assert.Equal(t, "Podapoda", features[2].Mode)
	assert.False(t, features[2].Usable())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("{not json"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.geojson"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.geojson")
	require.NoError(t, os.WriteFile(path, []byte(dataset), 0o644))

	features, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, features, 5)
}
