package reembed

import (
	"context"

	"github.com/archivista/archivista/core"
	"github.com/archivista/archivista/storage"
)

// SegmentIterator walks every indexed segment of the archive, grouped into
// batches. Iteration is page-driven: segments are fetched per indexed page
// so a batch never splits beyond what the archive actually holds.
type SegmentIterator struct {
	archive   storage.ArchiveRepository
	index     storage.IndexRepository
	batchSize int
}

// NewSegmentIterator creates a new segment iterator.
// batchSize: maximum number of segments handed to the callback at once
func NewSegmentIterator(archive storage.ArchiveRepository, index storage.IndexRepository, batchSize int) *SegmentIterator {
	if batchSize < 1 {
		batchSize = 1
	}
	return &SegmentIterator{
		archive:   archive,
		index:     index,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of segments.
// Iteration stops at the first error from fn.
func (it *SegmentIterator) ForEach(ctx context.Context, fn func(segments []*core.Segment) error) error {
	pages, err := it.archive.ListPagesByStatus(ctx, core.PageStatusIndexed, 0)
	if err != nil {
		return err
	}

	batch := make([]*core.Segment, 0, it.batchSize)
	for _, page := range pages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		segments, err := it.index.SegmentsByPage(ctx, page.Id)
		if err != nil {
			return err
		}

		for _, segment := range segments {
			batch = append(batch, segment)
			if len(batch) >= it.batchSize {
				if err := fn(batch); err != nil {
					return err
				}
				batch = make([]*core.Segment, 0, it.batchSize)
			}
		}
	}

	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}

// Count returns the total number of segments the iterator will visit.
func (it *SegmentIterator) Count(ctx context.Context) (int, error) {
	pages, err := it.archive.ListPagesByStatus(ctx, core.PageStatusIndexed, 0)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, page := range pages {
		segments, err := it.index.SegmentsByPage(ctx, page.Id)
		if err != nil {
			return 0, err
		}
		total += len(segments)
	}
	return total, nil
}
