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


package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/wayline/guidepost/core"
	"github.com/wayline/guidepost/storage"
)

// PlaceRepository implements storage.PlaceRepository on top of BadgerDB.
type PlaceRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
	logger  *slog.Logger
}

var _ storage.PlaceRepository = (*PlaceRepository)(nil)

// PlaceRepositoryOption configures a PlaceRepository.
type PlaceRepositoryOption func(*PlaceRepository)

// WithLogger sets the logger for the repository.
func WithLogger(logger *slog.Logger) PlaceRepositoryOption {
	return func(r *PlaceRepository) {
		r.logger = logger
	}
}

// NewPlaceRepository creates a repository backed by the given Backend.
func NewPlaceRepository(backend *Backend, opts ...PlaceRepositoryOption) (storage.PlaceRepository, error) {
	idSeq, err := backend.GetSequence(placeSeqName)
	if err != nil {
		return nil, fmt.Errorf("failed to get place sequence: %w", err)
	}

	repo := &PlaceRepository{
		backend: backend,
		idSeq:   idSeq,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo, nil
}

// AddPlace persists a new place. The identity index lookup and the two
// writes happen in one transaction, so concurrent inserts of the same
// identity cannot both succeed.
func (r *PlaceRepository) AddPlace(ctx context.Context, place *core.Place) (*core.Place, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored := *place
	identityKey := makeIdentityKey(stored.IdentityID())

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(identityKey)
		if err == nil {
			return storage.ErrDuplicateKey
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if stored.Id == 0 {
			next, err := r.idSeq.Next()
			if err != nil {
				return fmt.Errorf("failed to generate place ID: %w", err)
			}
			// Sequences start at 0 and ID 0 means "unassigned".
			stored.Id = core.ID(next + 1)
		}
		if stored.InsertedAt.IsZero() {
			stored.InsertedAt = time.Now().UTC()
		}

		data := storage.MarshalPlace(&stored)
		idData := storage.MarshalID(stored.Id)

		if err := tx.Set(makePlaceKey(stored.Id), data); err != nil {
			return err
		}
		if err := tx.Set(identityKey, idData); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("place added", "id", stored.Id, "name", stored.Name)
	return &stored, nil
}

// FindByIdentity looks up a place by its identity triple.
func (r *PlaceRepository) FindByIdentity(ctx context.Context, name string, lat, lng float64) (*core.Place, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	probe := core.Place{Name: name, Location: core.Location{Lat: lat, Lng: lng}}
	identityKey := makeIdentityKey(probe.IdentityID())

	var place *core.Place
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(identityKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		var recordID core.ID
		if err := item.Value(func(val []byte) error {
			id, err := storage.UnmarshalID(val)
			if err != nil {
				return err
			}
			recordID = id
			return nil
		}); err != nil {
			return err
		}

		place, err = r.getByID(tx, recordID)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return place, nil
}

// FindSimilar scans all stored places, keeps those inside bounds (if
// given), ranks them by dot product against the query vector, and
// returns the top limit results. Ties are broken by record ID so
// repeated identical calls return the same ordering. numCandidates is
// advisory; the exhaustive scan already considers every record.
func (r *PlaceRepository) FindSimilar(ctx context.Context, vector []float32, bounds *core.BoundingBox, limit, numCandidates int) ([]*core.SearchResult, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", storage.ErrInvalidQuery)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	var results []*core.SearchResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(placePrefix)
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var place *core.Place
			if err := it.Item().Value(func(val []byte) error {
				p, err := storage.UnmarshalPlace(val)
				if err != nil {
					return err
				}
				place = p
				return nil
			}); err != nil {
				return err
			}

			if bounds != nil && !bounds.Contains(place.Location) {
				continue
			}
			if len(place.Embedding) != len(vector) {
				r.logger.Warn("skipping place with mismatched embedding dimension",
					"id", place.Id, "want", len(vector), "got", len(place.Embedding))
				continue
			}

			results = append(results, &core.SearchResult{
				Place: place,
				Score: dotProduct(vector, place.Embedding),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
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

// ListPlaces returns up to limit places with IDs greater than afterID,
// in ascending ID order. Pass afterID 0 to start from the beginning.
func (r *PlaceRepository) ListPlaces(ctx context.Context, afterID core.ID, limit int) ([]*core.Place, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	var places []*core.Place
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(placePrefix)
		it := tx.NewIterator(opts)
		defer it.Close()

		// Big-endian ID keys iterate in ascending numeric order.
		for it.Seek(makePlaceKey(afterID + 1)); it.Valid() && len(places) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := it.Item().Value(func(val []byte) error {
				p, err := storage.UnmarshalPlace(val)
				if err != nil {
					return err
				}
				places = append(places, p)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return places, nil
}

// UpdatePlace replaces an existing record in full. The identity index
// is moved when the update changes the identity triple.
func (r *PlaceRepository) UpdatePlace(ctx context.Context, place *core.Place) (*core.Place, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if place.Id == 0 {
		return nil, fmt.Errorf("%w: place has no ID", storage.ErrInvalidQuery)
	}

	updated := *place
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		existing, err := r.getByID(tx, updated.Id)
		if err != nil {
			return err
		}

		if updated.InsertedAt.IsZero() {
			updated.InsertedAt = existing.InsertedAt
		}

		data := storage.MarshalPlace(&updated)
		if err := tx.Set(makePlaceKey(updated.Id), data); err != nil {
			return err
		}

		oldIdentity := existing.IdentityID()
		newIdentity := updated.IdentityID()
		if oldIdentity != newIdentity {
			if err := tx.Delete(makeIdentityKey(oldIdentity)); err != nil {
				return err
			}
			if err := tx.Set(makeIdentityKey(newIdentity), storage.MarshalID(updated.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("place updated", "id", updated.Id)
	return &updated, nil
}

// Close releases the ID sequence. The Backend is owned by the caller
// and is closed separately.
func (r *PlaceRepository) Close() error {
	if r.idSeq != nil {
		return r.idSeq.Release()
	}
	return nil
}

func (r *PlaceRepository) getByID(tx *badger.Txn, id core.ID) (*core.Place, error) {
	item, err := tx.Get(makePlaceKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var place *core.Place
	if err := item.Value(func(val []byte) error {
		p, err := storage.UnmarshalPlace(val)
		if err != nil {
			return err
		}
		place = p
		return nil
	}); err != nil {
		return nil, err
	}
	return place, nil
}

// dotProduct computes the dot product of two equal-length vectors.
// Embeddings from the gateway are unit length, so this equals cosine
// similarity.
func dotProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
