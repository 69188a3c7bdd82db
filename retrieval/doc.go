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


// Package retrieval answers traveler questions from the stored corpus.
//
// The Retriever type implements the query-time pipeline:
//   - Embed the question text
//   - Similarity-search the place store, optionally constrained to a
//     rectangle around the caller's location
//   - Format the ranked places into a context block
//   - Ask the language model for an answer grounded in that context
//
// An empty retrieval still reaches generation; the model is instructed
// to admit insufficient information rather than the pipeline
// short-circuiting.
package retrieval
