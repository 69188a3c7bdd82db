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


// Package memory provides an in-memory PlaceRepository using brute-force
// similarity search. It is intended for tests and small ephemeral
// deployments; data does not survive process restarts.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wayline/guidepost/core"
	"github.com/wayline/guidepost/storage"
)

// PlaceRepository is a mutex-guarded in-memory implementation of
// storage.PlaceRepository.
type PlaceRepository struct {
	mu       sync.RWMutex
	closed   bool
	nextID   core.ID
	places   map[core.ID]*core.Place
	identity map[core.ID]core.ID // identity hash -> record ID
}

var _ storage.PlaceRepository = (*PlaceRepository)(nil)

// NewPlaceRepository creates an empty in-memory repository.
func NewPlaceRepository() *PlaceRepository {
	return &PlaceRepository{
		nextID:   1,
		places:   make(map[core.ID]*core.Place),
		identity: make(map[core.ID]core.ID),
	}
}

func (r *PlaceRepository) AddPlace(ctx context.Context, place *core.Place) (*core.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, storage.ErrStorageClosed
	}

	stored := clonePlace(place)
	identityID := stored.IdentityID()
	if _, taken := r.identity[identityID]; taken {
		return nil, storage.ErrDuplicateKey
	}

	if stored.Id == 0 {
		stored.Id = r.nextID
		r.nextID++
	} else if stored.Id >= r.nextID {
		r.nextID = stored.Id + 1
	}
	if stored.InsertedAt.IsZero() {
		stored.InsertedAt = time.Now().UTC()
	}

	r.places[stored.Id] = stored
	r.identity[identityID] = stored.Id
	return clonePlace(stored), nil
}

func (r *PlaceRepository) FindByIdentity(ctx context.Context, name string, lat, lng float64) (*core.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, storage.ErrStorageClosed
	}

	probe := core.Place{Name: name, Location: core.Location{Lat: lat, Lng: lng}}
	recordID, ok := r.identity[probe.IdentityID()]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clonePlace(r.places[recordID]), nil
}

func (r *PlaceRepository) FindSimilar(ctx context.Context, vector []float32, bounds *core.BoundingBox, limit, numCandidates int) ([]*core.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", storage.ErrInvalidQuery)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, storage.ErrStorageClosed
	}

	var results []*core.SearchResult
	for _, place := range r.places {
		if bounds != nil && !bounds.Contains(place.Location) {
			continue
		}
		if len(place.Embedding) != len(vector) {
			continue
		}
		results = append(results, &core.SearchResult{
			Place: clonePlace(place),
			Score: dot(vector, place.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Place.Id < results[j].Place.Id
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (r *PlaceRepository) ListPlaces(ctx context.Context, afterID core.ID, limit int) ([]*core.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, storage.ErrStorageClosed
	}

	ids := make([]core.ID, 0, len(r.places))
	for id := range r.places {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}

	places := make([]*core.Place, 0, len(ids))
	for _, id := range ids {
		places = append(places, clonePlace(r.places[id]))
	}
	return places, nil
}

func (r *PlaceRepository) UpdatePlace(ctx context.Context, place *core.Place) (*core.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if place.Id == 0 {
		return nil, fmt.Errorf("%w: place has no ID", storage.ErrInvalidQuery)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, storage.ErrStorageClosed
	}

	existing, ok := r.places[place.Id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	updated := clonePlace(place)
	if updated.InsertedAt.IsZero() {
		updated.InsertedAt = existing.InsertedAt
	}

	oldIdentity := existing.IdentityID()
	newIdentity := updated.IdentityID()
	if oldIdentity != newIdentity {
		delete(r.identity, oldIdentity)
		r.identity[newIdentity] = updated.Id
	}
	r.places[updated.Id] = updated
	return clonePlace(updated), nil
}

func (r *PlaceRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func clonePlace(p *core.Place) *core.Place {
	c := *p
	if p.Keywords != nil {
		c.Keywords = append([]string(nil), p.Keywords...)
	}
	if p.Embedding != nil {
		c.Embedding = append([]float32(nil), p.Embedding...)
	}
	return &c
}

// dot assumes L2-normalized vectors, so the result equals cosine similarity.
func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
