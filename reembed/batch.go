package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/archivista/archivista/ai"
	"github.com/archivista/archivista/core"
	"github.com/archivista/archivista/storage"
)

// BatchProcessor handles embedding regeneration for batches of segments.
type BatchProcessor struct {
	index          storage.IndexRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(index storage.IndexRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		index:          index,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process regenerates embeddings for a batch of segments and writes the
// vectors back to the index. Vectors are normalized after embedding to
// ensure compatibility with cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, segments []*core.Segment) error {
	if len(segments) == 0 {
		return nil
	}

	// Extract text content
	texts := make([]string, len(segments))
	for i, segment := range segments {
		texts[i] = segment.Text
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := ai.RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(segments) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(segments), len(embeddings))
	}

	// Normalize vectors and assign to segments
	for i := range segments {
		segments[i].Vector = ai.NormalizeVector(embeddings[i])
	}

	// Write vectors back to the index
	_, err = bp.index.UpdateSegmentVectors(ctx, segments...)
	if err != nil {
		return fmt.Errorf("failed to update segments: %w", err)
	}

	return nil
}
