package ingestion

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wayline/guidepost/core"
)

// LoadPlacesFile reads a batch of raw places from a JSON file. The file
// holds a single array of place objects:
//
//	[{"name": "...", "description": "...",
//	  "location": {"lat": -23.55, "lng": -46.63},
//	  "keywords": ["..."]}, ...]
func LoadPlacesFile(path string) ([]core.RawPlace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read places file: %w", err)
	}

	var raws []core.RawPlace
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to parse places file %s: %w", path, err)
	}
	return raws, nil
}
