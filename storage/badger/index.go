package badger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/archivista/archivista/core"
	"github.com/archivista/archivista/storage"
	"github.com/dgraph-io/badger/v4"
)

// IndexRepository implements storage.IndexRepository for BadgerDB.
//
// Segments live under a composite (page, segment) key and carry
// content-derived IDs, so re-indexing identical text lands on the same
// key and collapses to a no-op.
type IndexRepository struct {
	backend *Backend
}

var _ storage.IndexRepository = (*IndexRepository)(nil)

// NewIndexRepository creates a new IndexRepository.
func NewIndexRepository(backend *Backend) (*IndexRepository, error) {
	return &IndexRepository{
		backend: backend,
	}, nil
}

// Close releases resources. IndexRepository has no resources to release.
func (r *IndexRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *IndexRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// FindSimilar delegates to the backend.
func (r *IndexRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SegmentMatch, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// segmentID derives a content-based ID from the segment's page and hash.
func segmentID(pageID core.ID, hash string) core.ID {
	return core.IDFromContent(fmt.Sprintf("%d:%s", pageID, hash))
}

// UpsertSegment inserts a segment keyed by (page, content hash).
func (r *IndexRepository) UpsertSegment(ctx context.Context, segment *core.Segment) (*core.Segment, bool, error) {
	if err := core.ValidateSegment(segment); err != nil {
		return nil, false, err
	}

	var (
		stored  *core.Segment
		created bool
	)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		segment.Id = segmentID(segment.PageId, segment.Hash)
		key := makeSegmentKey(segment.PageId, segment.Id)

		existing, err := readSegment(tx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			// Same page and hash: keep the stored record and its CreatedAt.
			stored = existing
			created = false
			return nil
		}

		segment.CreatedAt = time.Now().UTC()
		if err := tx.Set(key, storage.MarshalSegment(segment)); err != nil {
			return err
		}
		stored = segment
		created = true
		return tx.Commit()
	}, true)

	return stored, created, err
}

// DeleteStaleSegments removes segments of a page whose hash is not in validHashes.
func (r *IndexRepository) DeleteStaleSegments(ctx context.Context, pageID core.ID, validHashes map[string]struct{}) (int, error) {
	var removed int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var staleKeys [][]byte

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialSegmentKey(pageID)
		iter := tx.NewIterator(opts)

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var segment *core.Segment
			err := item.Value(func(val []byte) error {
				var err error
				segment, err = storage.UnmarshalSegment(val)
				return err
			})
			if err != nil {
				iter.Close()
				return err
			}
			if segment == nil {
				continue
			}

			if _, ok := validHashes[segment.Hash]; !ok {
				staleKeys = append(staleKeys, item.KeyCopy(nil))
			}
		}
		iter.Close()

		for _, key := range staleKeys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		removed = len(staleKeys)
		return tx.Commit()
	}, true)

	if err != nil {
		return 0, err
	}
	return removed, nil
}

// SegmentsByPage retrieves all segments of a page ordered by segment index.
func (r *IndexRepository) SegmentsByPage(ctx context.Context, pageID core.ID) ([]*core.Segment, error) {
	var results []*core.Segment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialSegmentKey(pageID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var segment *core.Segment
			err := iter.Item().Value(func(val []byte) error {
				var err error
				segment, err = storage.UnmarshalSegment(val)
				return err
			})
			if err != nil {
				return err
			}
			if segment != nil {
				results = append(results, segment)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.Segment) int {
		return a.Index - b.Index
	})
	return results, nil
}

// UpdateSegmentVectors replaces the stored vectors of existing segments.
func (r *IndexRepository) UpdateSegmentVectors(ctx context.Context, segments ...*core.Segment) ([]*core.Segment, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, segment := range segments {
			key := makeSegmentKey(segment.PageId, segment.Id)

			stored, err := readSegment(tx, key)
			if err != nil {
				return err
			}
			if stored == nil {
				return storage.ErrNotFound
			}

			stored.Vector = segment.Vector
			if err := tx.Set(key, storage.MarshalSegment(stored)); err != nil {
				return err
			}
			*segment = *stored
		}
		return tx.Commit()
	}, true)

	return segments, err
}

// CountSegments returns the total number of indexed segments.
func (r *IndexRepository) CountSegments(ctx context.Context) (int, error) {
	var count int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(segmentRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// DropAll removes every segment from the index.
func (r *IndexRepository) DropAll(ctx context.Context) error {
	return r.backend.db.DropPrefix([]byte(segmentRecordPrefix + ":"))
}

// readSegment reads a segment from the transaction.
func readSegment(tx *badger.Txn, key []byte) (*core.Segment, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var segment *core.Segment
	err = item.Value(func(val []byte) error {
		var err error
		segment, err = storage.UnmarshalSegment(val)
		return err
	})
	return segment, err
}
