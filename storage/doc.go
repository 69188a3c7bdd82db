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


// Package storage defines the persistence abstraction for places of interest.
//
// The PlaceRepository interface models the document store the pipelines talk
// to: exact-match lookup over the (name, lat, lng) identity triple, atomic
// insert-if-absent, and similarity search over embeddings combined with an
// optional geospatial bounding rectangle. Keeping the capability interface
// narrow keeps the pipelines portable across concrete storage engines.
//
// Two implementations are provided:
//   - storage/badger: the production backend on BadgerDB
//   - storage/memory: a mutex-guarded in-memory repository for tests and
//     ephemeral runs
//
// Serialization of stored documents uses hand-written MUS serializers from
// the core package.
package storage
