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

import "errors"

// Domain validation errors
var (
	// ErrInvalidPlace indicates a place record failed validation.
	ErrInvalidPlace = errors.New("invalid place")

	// ErrEmptyName indicates the Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyDescription indicates the Description field is empty.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrInvalidLatitude indicates a latitude outside [-90, 90].
	ErrInvalidLatitude = errors.New("latitude must be in [-90, 90]")

	// ErrInvalidLongitude indicates a longitude outside [-180, 180].
	ErrInvalidLongitude = errors.New("longitude must be in [-180, 180]")

	// ErrEmptyQuery indicates a query with no text after trimming.
	ErrEmptyQuery = errors.New("query text cannot be empty")
)
