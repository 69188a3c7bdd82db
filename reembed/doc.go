// Package reembed provides functionality for reembedding stored places
// with a new or updated embedding model.
//
// Switching embedding models invalidates every stored vector, since
// vectors from different models are not comparable. This package walks
// the whole place store in batches, regenerates each embedding from the
// place description, and writes the records back. It includes progress
// tracking, retry with exponential backoff, and vector normalization so
// dot-product ranking keeps working after the migration.
package reembed
