package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a place repository is not provided.
	ErrRepositoryRequired = errors.New("place repository required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrEmptyBatch is returned when an ingestion batch contains no places.
	ErrEmptyBatch = errors.New("ingestion batch is empty")
)
