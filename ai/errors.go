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


package ai

import "errors"

var (
	// ErrUnavailable indicates that an external AI service is unreachable,
	// rejected the request, or returned malformed output. Callers treat it
	// as fatal for the enclosing request; retry policy, if any, belongs to
	// the caller.
	ErrUnavailable = errors.New("ai service unavailable")

	// ErrEmptyResponse indicates the generative model returned no choices.
	ErrEmptyResponse = errors.New("ai service returned an empty response")
)
