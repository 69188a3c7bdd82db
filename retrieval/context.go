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


package retrieval

import (
	"strings"

	"github.com/wayline/guidepost/core"
)

// FormatContext renders ranked places into the context block handed to
// the language model. Each place becomes a Place/Description pair;
// pairs are separated by a blank line and keep their ranking order.
// An empty result set yields an empty string.
func FormatContext(results []*core.SearchResult) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		var b strings.Builder
		b.WriteString("Place: ")
		b.WriteString(r.Place.Name)
		b.WriteString("\nDescription: ")
		b.WriteString(r.Place.Description)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// buildSystemPrompt embeds the context block into the grounding
// instructions for the model.
func buildSystemPrompt(contextBlock string) string {
	var b strings.Builder
	b.WriteString("You are a travel guide assistant. Answer the user's question using ONLY the context below.\n")
	b.WriteString("If unsure, say \"I don't have enough information.\"\n\n")
	b.WriteString("Context:\n")
	b.WriteString(contextBlock)
	return b.String()
}

// buildUserPrompt carries the raw question text.
func buildUserPrompt(query string) string {
	return "Question: " + query
}
