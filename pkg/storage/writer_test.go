package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geofetch/pkg/geojson"
)

func sampleCollection() *geojson.FeatureCollection {
	return geojson.NewCollection([]geojson.Feature{
		geojson.NewFeature(geojson.NewPoint(144.96, -37.81), geojson.Properties{
			Source: "Twitter",
			Time:   "2014-03-17T16:00:00Z",
			Text:   "hello",
		}),
	})
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter().Encode(&buf, sampleCollection()))

	var decoded geojson.FeatureCollection
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "FeatureCollection", decoded.Type)
	require.Len(t, decoded.Features, 1)
	assert.Equal(t, []float64{144.96, -37.81}, decoded.Features[0].Geometry.Coordinates)
	assert.Equal(t, "hello", decoded.Features[0].Properties.Text)
}

func TestEncodeEmptyCollection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter().Encode(&buf, geojson.NewCollection(nil)))
	assert.Contains(t, buf.String(), `"features": []`)
}

func TestSaveCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "result.geojson")
	require.NoError(t, NewWriter().Save(path, sampleCollection()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded geojson.FeatureCollection
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Features, 1)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.geojson")
	require.NoError(t, NewWriter().Save(path, sampleCollection()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "result.geojson", entries[0].Name())
}

func TestSaveOverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.geojson")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	require.NoError(t, NewWriter().Save(path, sampleCollection()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}
