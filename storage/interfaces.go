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


package storage

import (
	"context"

	"github.com/wayline/guidepost/core"
)

// PlaceRepository provides operations for managing stored places of interest.
// Implementations must be safe for concurrent use: ingestion and retrieval
// requests may run against the same repository at the same time.
type PlaceRepository interface {
	// AddPlace inserts a new place. For places with ID=0, generates a new ID
	// from sequence and sets InsertedAt. The insert is rejected with
	// ErrDuplicateKey if a place with the same (name, lat, lng) identity
	// triple is already stored; implementations must make the identity check
	// and the insert atomic so the constraint holds under concurrent
	// ingestion. Returns the place with ID and timestamp populated.
	AddPlace(ctx context.Context, place *core.Place) (*core.Place, error)

	// FindByIdentity retrieves the place with the given identity triple.
	// Returns ErrNotFound if no such place is stored. Implementations must
	// back this with an index over the identity triple; scanning degrades
	// only performance, not semantics.
	FindByIdentity(ctx context.Context, name string, lat, lng float64) (*core.Place, error)

	// FindSimilar returns up to limit places ranked by descending similarity
	// between vector and each stored embedding. When bounds is non-nil, only
	// places whose location falls inside the rectangle are considered; the
	// filter is applied before ranking so the result is not under-filled.
	// Ties are broken by record ID so repeated identical calls against an
	// unchanged store return the same ordering. numCandidates bounds the
	// candidate pool for approximate backends; exact backends ignore it.
	FindSimilar(ctx context.Context, vector []float32, bounds *core.BoundingBox, limit, numCandidates int) ([]*core.SearchResult, error)

	// ListPlaces retrieves up to limit places with ID greater than afterID,
	// in ascending ID order. Used for administrative iteration over the
	// whole corpus (e.g. re-embedding); pass afterID=0 to start.
	ListPlaces(ctx context.Context, afterID core.ID, limit int) ([]*core.Place, error)

	// UpdatePlace overwrites an existing place record. Administrative use
	// only (embedding-model migrations); the ingestion pipeline never
	// updates in place. Returns ErrNotFound if the place doesn't exist.
	UpdatePlace(ctx context.Context, place *core.Place) (*core.Place, error)

	// Close closes the repository and releases resources.
	Close() error
}
