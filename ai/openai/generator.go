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


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/wayline/guidepost/ai"
)

// Generator implements ai.AnswerGenerator using OpenAI-compatible chat APIs.
type Generator struct {
	client      llms.Model
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat completion
	client, err := openai.New(
		openai.WithBaseURL(config.AnswerHost),
		openai.WithToken(config.APIToken),
		openai.WithModel(config.AnswerModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		temperature: config.Temperature,
		maxTokens:   config.MaxAnswerTokens,
		logger:      slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new answer generator using the provided configuration.
//
// Returns ai.AnswerGenerator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.AnswerGenerator, error) {
	return newGenerator(config)
}

// GenerateAnswer invokes the chat model with a system instruction and a user
// message, and returns the model's text output.
func (g *Generator) GenerateAnswer(ctx context.Context, system, user string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(system),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(user),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", fmt.Errorf("%w: %w", ai.ErrUnavailable, err)
	}

	if len(response.Choices) < 1 {
		g.logger.Warn("no choices returned from model")
		return "", ai.ErrEmptyResponse
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
