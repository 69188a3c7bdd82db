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
	"fmt"
	"strings"
)

// ValidateRawPlace validates a batch-source place according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Description must not be empty (it is the embedded text)
//   - Location must be a valid coordinate pair
//
// NOT validated:
//   - Keywords (inert metadata, any value is acceptable)
func ValidateRawPlace(place *RawPlace) error {
	if place == nil {
		return fmt.Errorf("%w: place is nil", ErrInvalidPlace)
	}

	if place.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPlace, ErrEmptyName)
	}

	if place.Description == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPlace, ErrEmptyDescription)
	}

	if err := ValidateLocation(place.Location); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPlace, err)
	}

	return nil
}

// ValidateLocation validates that a coordinate pair is within range.
func ValidateLocation(loc Location) error {
	if loc.Lat < -90 || loc.Lat > 90 {
		return fmt.Errorf("%w: value %v", ErrInvalidLatitude, loc.Lat)
	}
	if loc.Lng < -180 || loc.Lng > 180 {
		return fmt.Errorf("%w: value %v", ErrInvalidLongitude, loc.Lng)
	}
	return nil
}

// ValidateQuery validates a retrieval query. Text must be non-empty after
// trimming; the origin, when present, must be a valid coordinate pair.
func ValidateQuery(query Query) error {
	if strings.TrimSpace(query.Text) == "" {
		return ErrEmptyQuery
	}
	if query.Origin != nil {
		return ValidateLocation(*query.Origin)
	}
	return nil
}
