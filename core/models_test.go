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

import "testing"

func TestIDFromContent_Deterministic(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "simple content", content: "Praia do Leblon"},
		{name: "empty string", content: ""},
		{name: "identity key", content: "Ibirapuera Park|-23.5874|-46.6576"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestIdentityKey(t *testing.T) {
	tests := []struct {
		name string
		in   Place
		want string
	}{
		{
			name: "negative coordinates",
			in: Place{
				Name:     "Beco do Batman",
				Location: Location{Lat: -23.5587, Lng: -46.6888},
			},
			want: "Beco do Batman|-23.5587|-46.6888",
		},
		{
			name: "integral coordinates keep shortest form",
			in: Place{
				Name:     "Null Island Viewpoint",
				Location: Location{Lat: 0, Lng: 0},
			},
			want: "Null Island Viewpoint|0|0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IdentityKey(tt.in.Name, tt.in.Location.Lat, tt.in.Location.Lng)
			if got != tt.want {
				t.Errorf("IdentityKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIdentityID_DistinguishesTriple(t *testing.T) {
	base := Place{Name: "Mercado Municipal", Location: Location{Lat: -23.5417, Lng: -46.6293}}

	sameTriple := Place{Name: base.Name, Location: base.Location, Description: "different text"}
	if base.IdentityID() != sameTriple.IdentityID() {
		t.Errorf("IdentityID() differs for identical (name, lat, lng) triples")
	}

	movedPlace := Place{Name: base.Name, Location: Location{Lat: -23.5418, Lng: -46.6293}}
	if base.IdentityID() == movedPlace.IdentityID() {
		t.Errorf("IdentityID() collides for different coordinates")
	}

	renamedPlace := Place{Name: "Mercadao", Location: base.Location}
	if base.IdentityID() == renamedPlace.IdentityID() {
		t.Errorf("IdentityID() collides for different names")
	}
}

func TestBoundingBox_Contains(t *testing.T) {
	box := NewBoundingBox(Location{Lat: -23.55, Lng: -46.63}, 0.045)

	tests := []struct {
		name string
		loc  Location
		want bool
	}{
		{name: "center", loc: Location{Lat: -23.55, Lng: -46.63}, want: true},
		{name: "near the center", loc: Location{Lat: -23.56, Lng: -46.64}, want: true},
		{name: "on the boundary", loc: Location{Lat: -23.595, Lng: -46.63}, want: true},
		{name: "just outside latitude", loc: Location{Lat: -23.596, Lng: -46.63}, want: false},
		{name: "far away", loc: Location{Lat: 10, Lng: 10}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Contains(tt.loc); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.loc, got, tt.want)
			}
		})
	}
}

func TestPlace_Summary(t *testing.T) {
	place := Place{
		Id:          42,
		Name:        "Pinacoteca",
		Description: "Art museum in a former lyceum building.",
		Location:    Location{Lat: -23.5346, Lng: -46.6336},
		Keywords:    []string{"art", "museum"},
		Embedding:   []float32{0.1, 0.2},
	}

	summary := place.Summary()
	if summary.Name != place.Name || summary.Description != place.Description {
		t.Errorf("Summary() dropped fields: %+v", summary)
	}
	if summary.Location != place.Location {
		t.Errorf("Summary() location = %v, want %v", summary.Location, place.Location)
	}
}
