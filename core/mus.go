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
	"time"

	mus "github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted document layout.
// Timestamps are stored as Unix microseconds.

var (
	// IDMUS serializes an ID.
	IDMUS = idMUS{}

	// PlaceMUS serializes a Place.
	PlaceMUS = placeMUS{}

	embeddingMUS = ord.NewSliceSer[float32](raw.Float32)
	keywordsMUS  = ord.NewSliceSer[string](ord.String)
)

var (
	_ mus.Serializer[ID]    = IDMUS
	_ mus.Serializer[Place] = PlaceMUS
)

type idMUS struct{}

func (s idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (s idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (s idMUS) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type placeMUS struct{}

func (s placeMUS) Marshal(p Place, bs []byte) (n int) {
	n = IDMUS.Marshal(p.Id, bs)
	n += ord.String.Marshal(p.Name, bs[n:])
	n += ord.String.Marshal(p.Description, bs[n:])
	n += raw.Float64.Marshal(p.Location.Lat, bs[n:])
	n += raw.Float64.Marshal(p.Location.Lng, bs[n:])
	n += keywordsMUS.Marshal(p.Keywords, bs[n:])
	n += embeddingMUS.Marshal(p.Embedding, bs[n:])
	n += varint.Int64.Marshal(p.InsertedAt.UnixMicro(), bs[n:])
	return n
}

func (s placeMUS) Unmarshal(bs []byte) (p Place, n int, err error) {
	var n1 int
	p.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	p.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.Location.Lat, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.Location.Lng, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.Keywords, n1, err = keywordsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.Embedding, n1, err = embeddingMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var usec int64
	usec, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.InsertedAt = time.UnixMicro(usec).UTC()
	return
}

func (s placeMUS) Size(p Place) (size int) {
	size = IDMUS.Size(p.Id)
	size += ord.String.Size(p.Name)
	size += ord.String.Size(p.Description)
	size += raw.Float64.Size(p.Location.Lat)
	size += raw.Float64.Size(p.Location.Lng)
	size += keywordsMUS.Size(p.Keywords)
	size += embeddingMUS.Size(p.Embedding)
	size += varint.Int64.Size(p.InsertedAt.UnixMicro())
	return size
}

func (s placeMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	for i := 0; i < 2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for i := 0; i < 2; i++ {
		n1, err = raw.Float64.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = keywordsMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = embeddingMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}
