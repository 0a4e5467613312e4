package fleet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadFile_RoundTrip(t *testing.T) {
	b, _ := newTestBuilder(2)
	vehicles := b.EveryRoute(sampleRoutes())
	path := filepath.Join(t.TempDir(), "simulator", "vehicle_data.json")

	require.NoError(t, SaveFile(path, vehicles))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, len(vehicles))
	for i, v := range loaded {
		assert.Equal(t, vehicles[i].ID, v.ID)
		assert.Equal(t, vehicles[i].Mode, v.Mode)
		assert.Equal(t, vehicles[i].Path, v.Path)
		assert.GreaterOrEqual(t, v.PositionIndex, 0)
		assert.Less(t, v.PositionIndex, len(v.Path))
	}
}

func TestSaveFile_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicles.json")
	vehicles := NewBuilder(1, fixedRand(1), nil).EveryRoute(sampleRoutes()[:1])

	require.NoError(t, SaveFile(path, vehicles))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"id\": \"taxi_0_1\",")

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "Taxi", raw[0]["mode"])
	assert.Equal(t, float64(1), raw[0]["positionIndex"])
	assert.Equal(t, []interface{}{
		[]interface{}{-13.21, 8.46},
		[]interface{}{-13.22, 8.47},
	}, raw[0]["path"])
}

func TestSaveFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicles.json")
	require.NoError(t, SaveFile(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestLoadFile_WrapsIndexes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicles.json")
	body := `[{"id":"taxi_0_1","mode":"Taxi","path":[[1,2],[3,4],[5,6]],"positionIndex":7},
	          {"id":"keke_1_1","mode":"Keke","path":[[1,2],[3,4]],"positionIndex":-1},
	          null]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	vehicles, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, vehicles, 2)
	assert.Equal(t, 1, vehicles[0].PositionIndex)
	assert.Equal(t, 1, vehicles[1].PositionIndex)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"id": 1}`), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}
