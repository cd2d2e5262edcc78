// Copyright 2025 Archivista Contributors
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


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/archivista/archivista/ai"
	"github.com/archivista/archivista/core"
	"github.com/archivista/archivista/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of segments to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of segments)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder orchestrates the reembedding of every indexed segment.
type Reembedder struct {
	archive   storage.ArchiveRepository
	index     storage.IndexRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *SegmentIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(archive storage.ArchiveRepository, index storage.IndexRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if archive == nil {
		return nil, ErrArchiveRepositoryRequired
	}
	if index == nil {
		return nil, ErrIndexRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	processor := NewBatchProcessor(index, embedder, config.MaxRetries, config.RetryDelay)
	iterator := NewSegmentIterator(archive, index, config.BatchSize)

	return &Reembedder{
		archive:   archive,
		index:     index,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: processor,
		iterator:  iterator,
	}, nil
}

// Run executes the reembedding operation.
// Every indexed segment will be reembedded with the configured embedder.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	totalSegments, err := r.iterator.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count segments: %w", err)
	}

	if totalSegments == 0 {
		fmt.Fprintf(r.progress, "No segments found in index (0 segments)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d segments (batch size: %d)\n",
		totalSegments, r.config.BatchSize)

	// Initialize progress tracker
	tracker := NewProgressTracker(r.progress, totalSegments, r.config.ReportInterval)
	tracker.Start()

	processed := 0

	// Process all segments in batches
	err = r.iterator.ForEach(ctx, func(segments []*core.Segment) error {
		// Process this batch
		if err := r.processor.Process(ctx, segments); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		// Update progress
		processed += len(segments)
		tracker.Update(processed)

		return nil
	})

	if err != nil {
		return err
	}

	// Finish progress tracking
	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d segments in %v (%.1f segments/sec)\n",
		totalSegments, elapsed.Round(time.Second), float64(totalSegments)/elapsed.Seconds())

	return nil
}
