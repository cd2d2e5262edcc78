// Package reembed provides functionality for reembedding indexed segments
// with new or updated embedding models.
//
// This package walks the indexed pages of the archive, regenerates the
// embedding vector of every segment, and writes the vectors back in place.
// Segment text, hashes and timestamps are untouched: reembedding changes
// how segments are retrieved, never what they are.
//
// It supports batch processing, progress tracking, retry with exponential
// backoff, and vector normalization for cosine similarity search.
package reembed
