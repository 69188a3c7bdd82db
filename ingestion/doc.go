// Package ingestion provides the pipeline that turns raw place data into
// stored, embedded records.
//
// The Pipeline type processes batches sequentially: each place is
// validated, embedded, checked against the identity index, and inserted
// only if no record with the same (name, lat, lng) triple exists.
// Running the same batch twice therefore yields the same store contents.
// Duplicate places are skipped, not errors; embedding failures abort the
// batch because without a vector there is nothing useful to store.
package ingestion
