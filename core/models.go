// Copyright 2025 Wayline Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Location is a point on the globe in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BoundingBox is an axis-aligned rectangle over latitude and longitude.
// A nil *BoundingBox means unrestricted.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// NewBoundingBox builds a rectangle of the given half-width in degrees,
// centered on the location. Coordinates are not clamped or wrapped; the
// corpus this system targets sits well inside valid ranges.
func NewBoundingBox(center Location, halfWidth float64) BoundingBox {
	return BoundingBox{
		MinLat: center.Lat - halfWidth,
		MaxLat: center.Lat + halfWidth,
		MinLng: center.Lng - halfWidth,
		MaxLng: center.Lng + halfWidth,
	}
}

// Contains reports whether the location lies inside the rectangle,
// boundaries included.
func (b BoundingBox) Contains(loc Location) bool {
	return loc.Lat >= b.MinLat && loc.Lat <= b.MaxLat &&
		loc.Lng >= b.MinLng && loc.Lng <= b.MaxLng
}

// RawPlace is a place of interest as provided by a batch source,
// before an embedding has been computed for it.
type RawPlace struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    Location `json:"location"`
	Keywords    []string `json:"keywords"`
}

// Place is a stored point of interest. The embedding is derived from the
// description during ingestion and is never hand-authored.
type Place struct {
	Id          ID
	Name        string
	Description string
	Location    Location
	Keywords    []string
	Embedding   []float32
	InsertedAt  time.Time
}

// IdentityKey returns the canonical string form of the (name, lat, lng)
// identity triple. Floats are formatted with the shortest round-trip
// representation so the same coordinates always produce the same key.
func IdentityKey(name string, lat, lng float64) string {
	return name + "|" +
		strconv.FormatFloat(lat, 'f', -1, 64) + "|" +
		strconv.FormatFloat(lng, 'f', -1, 64)
}

// IdentityID returns the deterministic ID of the identity triple.
func IdentityID(name string, lat, lng float64) ID {
	return IDFromContent(IdentityKey(name, lat, lng))
}

// IdentityID returns the deterministic ID of this place's identity triple.
func (p *Place) IdentityID() ID {
	return IdentityID(p.Name, p.Location.Lat, p.Location.Lng)
}

// Query is an ephemeral retrieval request. Origin is optional; when present
// it scopes retrieval to places near the asker.
type Query struct {
	Text   string
	Origin *Location
}

// PlaceSummary is the caller-facing projection of a stored place,
// used for answer sources.
type PlaceSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    Location `json:"location"`
}

// Summary returns the caller-facing projection of the place.
func (p *Place) Summary() PlaceSummary {
	return PlaceSummary{
		Name:        p.Name,
		Description: p.Description,
		Location:    p.Location,
	}
}

// SearchResult pairs a retrieved place with its similarity score.
type SearchResult struct {
	Place *Place
	Score float32
}
