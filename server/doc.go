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


// Package server exposes the ingestion and retrieval pipelines over HTTP.
//
// The surface is deliberately small: POST /ingest runs the batch pipeline
// over the configured places file, GET /search answers a question, and
// GET /healthz reports liveness. Validation problems come back as 400,
// everything else as a terse 500; internal detail is logged, never leaked.
package server
