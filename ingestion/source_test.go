package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPlacesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "places.json")
	content := `[
		{
			"name": "Parque Ibirapuera",
			"description": "Large urban park with museums and lakes.",
			"location": {"lat": -23.5874, "lng": -46.6576},
			"keywords": ["park", "nature"]
		},
		{
			"name": "Pinacoteca",
			"description": "Art museum in a restored 1900s building.",
			"location": {"lat": -23.5340, "lng": -46.6337}
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	raws, err := LoadPlacesFile(path)
	require.NoError(t, err)
	require.Len(t, raws, 2)

	assert.Equal(t, "Parque Ibirapuera", raws[0].Name)
	assert.Equal(t, -23.5874, raws[0].Location.Lat)
	assert.Equal(t, []string{"park", "nature"}, raws[0].Keywords)
	assert.Nil(t, raws[1].Keywords)
}

func TestLoadPlacesFileMissing(t *testing.T) {
	_, err := LoadPlacesFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadPlacesFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadPlacesFile(path)
	assert.Error(t, err)
}
