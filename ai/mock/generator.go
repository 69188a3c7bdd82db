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


package mock

import "context"

// DefaultMockAnswer is returned by MockGenerator when no behavior is injected.
const DefaultMockAnswer = "This is a mock answer grounded in the supplied context."

// MockGenerator is a test double for ai.AnswerGenerator.
// It allows custom behavior injection via a function field and records the
// prompts it was invoked with.
type MockGenerator struct {
	// GenerateAnswerFunc is called by GenerateAnswer if set.
	// If nil, returns DefaultMockAnswer.
	GenerateAnswerFunc func(ctx context.Context, system, user string) (string, error)

	lastSystem string
	lastUser   string
	callCount  int
}

// NewMockGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateAnswer records the prompt and returns the injected or canned answer.
func (m *MockGenerator) GenerateAnswer(ctx context.Context, system, user string) (string, error) {
	m.callCount++
	m.lastSystem = system
	m.lastUser = user

	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, system, user)
	}

	return DefaultMockAnswer, nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// LastSystem returns the system message from the most recent invocation.
func (m *MockGenerator) LastSystem() string {
	return m.lastSystem
}

// LastUser returns the user message from the most recent invocation.
func (m *MockGenerator) LastUser() string {
	return m.lastUser
}

// Reset clears recorded prompts, the call count, and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.lastSystem = ""
	m.lastUser = ""
	m.GenerateAnswerFunc = nil
}
