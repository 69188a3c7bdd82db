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

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "https://api.openai.com/v1", or "http://localhost:11434/v1"
	// for a local OpenAI-compatible server.
	EmbeddingHost string

	// AnswerHost is the base URL for the generative-language service API.
	AnswerHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-3-small"
	EmbeddingModel string

	// AnswerModel is the model identifier to use for answer generation.
	// Example: "gpt-4o"
	AnswerModel string

	// APIToken authenticates against the AI services. Use "none" for local
	// OpenAI-compatible services that don't require authentication.
	APIToken string

	// Temperature controls decoding randomness for answer generation.
	// Low but nonzero keeps answers grounded without being robotic.
	// Default: 0.2
	Temperature float64

	// MaxAnswerTokens bounds the length of a generated answer.
	// Default: 500
	MaxAnswerTokens int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithAnswerHost sets the generative service host URL.
func WithAnswerHost(host string) ConfigOption {
	return func(c *Config) {
		c.AnswerHost = host
	}
}

// WithHost sets both embedding and answer hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.AnswerHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithAnswerModel sets the answer model identifier.
func WithAnswerModel(model string) ConfigOption {
	return func(c *Config) {
		c.AnswerModel = model
	}
}

// WithAPIToken sets the API token for both services.
func WithAPIToken(token string) ConfigOption {
	return func(c *Config) {
		c.APIToken = token
	}
}

// WithTemperature sets the decoding temperature for answer generation.
func WithTemperature(temperature float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

// WithMaxAnswerTokens sets the output length bound for answer generation.
func WithMaxAnswerTokens(tokens int) ConfigOption {
	return func(c *Config) {
		c.MaxAnswerTokens = tokens
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. By default, both services use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:   defaultHost,
		AnswerHost:      defaultHost,
		EmbeddingModel:  "text-embedding-3-small",
		AnswerModel:     "gpt-4o",
		APIToken:        "none",
		Temperature:     0.2,
		MaxAnswerTokens: 500,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("https://api.openai.com/v1"),
//	    WithAPIToken(os.Getenv("OPENAI_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize adjusts host URLs to the form expected by OpenAI-compatible APIs.
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	if c.AnswerHost != "" && !strings.HasSuffix(c.AnswerHost, "/v1") {
		c.AnswerHost = strings.TrimSuffix(c.AnswerHost, "/")
		c.AnswerHost = c.AnswerHost + "/v1"
	}
	if c.APIToken == "" {
		c.APIToken = "none"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	// Normalize first to ensure hosts are in correct format
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.AnswerHost == "" {
		return errors.New("ai config: AnswerHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.AnswerModel == "" {
		return errors.New("ai config: AnswerModel is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	if c.MaxAnswerTokens < 1 {
		return errors.New("ai config: MaxAnswerTokens must be positive")
	}
	return nil
}
