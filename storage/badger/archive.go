package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/archivista/archivista/core"
	"github.com/archivista/archivista/storage"
	"github.com/dgraph-io/badger/v4"
)

// ArchiveRepository implements storage.ArchiveRepository for BadgerDB.
type ArchiveRepository struct {
	backend      *Backend
	newspaperSeq *badger.Sequence
	issueSeq     *badger.Sequence
	pageSeq      *badger.Sequence
}

var _ storage.ArchiveRepository = (*ArchiveRepository)(nil)

// NewArchiveRepository creates a new ArchiveRepository.
func NewArchiveRepository(backend *Backend) (*ArchiveRepository, error) {
	newspaperSeq, err := backend.GetSequence(newspaperIDSeq)
	if err != nil {
		return nil, err
	}
	issueSeq, err := backend.GetSequence(issueIDSeq)
	if err != nil {
		newspaperSeq.Release()
		return nil, err
	}
	pageSeq, err := backend.GetSequence(pageIDSeq)
	if err != nil {
		newspaperSeq.Release()
		issueSeq.Release()
		return nil, err
	}

	return &ArchiveRepository{
		backend:      backend,
		newspaperSeq: newspaperSeq,
		issueSeq:     issueSeq,
		pageSeq:      pageSeq,
	}, nil
}

// Close releases the ID sequences.
func (r *ArchiveRepository) Close() error {
	return errors.Join(
		r.newspaperSeq.Release(),
		r.issueSeq.Release(),
		r.pageSeq.Release(),
	)
}

// WithTransaction delegates to the backend.
func (r *ArchiveRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// CreateNewspaper adds a newspaper title to the archive.
func (r *ArchiveRepository) CreateNewspaper(ctx context.Context, newspaper *core.Newspaper) (*core.Newspaper, error) {
	if err := core.ValidateNewspaper(newspaper); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if newspaper.Id == 0 {
			nextID, err := r.nextID(r.newspaperSeq)
			if err != nil {
				return err
			}
			newspaper.Id = nextID
		}
		if newspaper.CreatedAt.IsZero() {
			newspaper.CreatedAt = time.Now().UTC()
		}

		key := makeNewspaperKey(newspaper.Id)
		if err := tx.Set(key, storage.MarshalNewspaper(newspaper)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return newspaper, err
}

// GetNewspaper retrieves a single newspaper by ID.
func (r *ArchiveRepository) GetNewspaper(ctx context.Context, id core.ID) (*core.Newspaper, error) {
	var result *core.Newspaper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readNewspaper(tx, makeNewspaperKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListNewspapers retrieves all newspaper titles.
func (r *ArchiveRepository) ListNewspapers(ctx context.Context) ([]*core.Newspaper, error) {
	var results []*core.Newspaper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(newspaperRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var newspaper *core.Newspaper
			err := iter.Item().Value(func(val []byte) error {
				var err error
				newspaper, err = storage.UnmarshalNewspaper(val)
				return err
			})
			if err != nil {
				return err
			}
			if newspaper != nil {
				results = append(results, newspaper)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.Newspaper) int {
		return int(a.Id) - int(b.Id)
	})
	return results, nil
}

// GetOrCreateIssue finds or creates an issue by newspaper and date.
func (r *ArchiveRepository) GetOrCreateIssue(ctx context.Context, issue *core.Issue) (*core.Issue, error) {
	if err := core.ValidateIssue(issue); err != nil {
		return nil, err
	}

	var result *core.Issue
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		dateKey := makeIssueDateKey(issue.NewspaperId, issue.Date)

		existing, err := lookupByIDIndex(tx, dateKey, readIssue, makeIssueKey)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		nextID, err := r.nextID(r.issueSeq)
		if err != nil {
			return err
		}
		issue.Id = nextID
		issue.CreatedAt = time.Now().UTC()

		if err := tx.Set(makeIssueKey(issue.Id), storage.MarshalIssue(issue)); err != nil {
			return err
		}
		if err := tx.Set(dateKey, storage.MarshalID(issue.Id)); err != nil {
			return err
		}
		result = issue
		return tx.Commit()
	}, true)

	// A concurrent creator may have won the race; resolve to their record.
	if errors.Is(err, badger.ErrConflict) {
		return r.findIssueByDate(ctx, issue.NewspaperId, issue.Date)
	}
	return result, err
}

// GetIssue retrieves a single issue by ID.
func (r *ArchiveRepository) GetIssue(ctx context.Context, id core.ID) (*core.Issue, error) {
	var result *core.Issue
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readIssue(tx, makeIssueKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListIssuesByNewspaper retrieves issues of a newspaper ordered by publication date.
func (r *ArchiveRepository) ListIssuesByNewspaper(ctx context.Context, newspaperID core.ID, offset, limit int) ([]*core.Issue, error) {
	if offset < 0 || limit < 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.Issue
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialIssueDateKey(newspaperID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		skipped := 0
		for iter.Rewind(); iter.Valid(); iter.Next() {
			if skipped < offset {
				skipped++
				continue
			}
			if limit > 0 && len(results) >= limit {
				break
			}

			var issueID core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				issueID, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			issue, err := readIssue(tx, makeIssueKey(issueID))
			if err != nil {
				return err
			}
			if issue != nil {
				results = append(results, issue)
			}
		}
		return nil
	}, false)
	return results, err
}

// GetOrCreatePage finds or creates a page by issue and page number.
func (r *ArchiveRepository) GetOrCreatePage(ctx context.Context, page *core.Page) (*core.Page, error) {
	if page.Status == 0 {
		page.Status = core.PageStatusPending
	}
	if err := core.ValidatePage(page); err != nil {
		return nil, err
	}

	var result *core.Page
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		numberKey := makePageNumberKey(page.IssueId, page.Number)

		existing, err := lookupByIDIndex(tx, numberKey, readPage, makePageKey)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		nextID, err := r.nextID(r.pageSeq)
		if err != nil {
			return err
		}
		page.Id = nextID
		page.CreatedAt = time.Now().UTC()
		page.UpdatedAt = page.CreatedAt

		if err := tx.Set(makePageKey(page.Id), storage.MarshalPage(page)); err != nil {
			return err
		}
		if err := tx.Set(numberKey, storage.MarshalID(page.Id)); err != nil {
			return err
		}
		result = page
		return tx.Commit()
	}, true)

	if errors.Is(err, badger.ErrConflict) {
		return r.findPageByNumber(ctx, page.IssueId, page.Number)
	}
	return result, err
}

// GetPage retrieves a single page by ID.
func (r *ArchiveRepository) GetPage(ctx context.Context, id core.ID) (*core.Page, error) {
	var result *core.Page
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readPage(tx, makePageKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// UpdatePageOCR stores OCR output on a page and marks OCR as completed.
func (r *ArchiveRepository) UpdatePageOCR(ctx context.Context, id core.ID, text string, confidence float64, provider string, receivedAt time.Time) (*core.Page, error) {
	return r.mutatePage(id, func(page *core.Page) error {
		page.OCRText = text
		page.OCRConfidence = confidence
		page.OCRProvider = provider
		page.Status = core.PageStatusOCRCompleted
		if receivedAt.IsZero() {
			receivedAt = time.Now().UTC()
		}
		page.UpdatedAt = receivedAt
		return nil
	})
}

// UpdatePageStatus transitions a page to a new lifecycle status.
func (r *ArchiveRepository) UpdatePageStatus(ctx context.Context, id core.ID, status core.PageStatus) (*core.Page, error) {
	if err := core.ValidatePageStatus(status); err != nil {
		return nil, err
	}
	return r.mutatePage(id, func(page *core.Page) error {
		page.Status = status
		page.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// ListPagesByIssue retrieves all pages of an issue ordered by page number.
func (r *ArchiveRepository) ListPagesByIssue(ctx context.Context, issueID core.ID) ([]*core.Page, error) {
	var results []*core.Page
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialPageNumberKey(issueID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var pageID core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				pageID, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			page, err := readPage(tx, makePageKey(pageID))
			if err != nil {
				return err
			}
			if page != nil {
				results = append(results, page)
			}
		}
		return nil
	}, false)
	return results, err
}

// ListPagesByStatus retrieves pages in the given lifecycle status.
func (r *ArchiveRepository) ListPagesByStatus(ctx context.Context, status core.PageStatus, limit int) ([]*core.Page, error) {
	if err := core.ValidatePageStatus(status); err != nil {
		return nil, err
	}

	var results []*core.Page
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pageRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}

			var page *core.Page
			err := iter.Item().Value(func(val []byte) error {
				var err error
				page, err = storage.UnmarshalPage(val)
				return err
			})
			if err != nil {
				return err
			}
			if page != nil && page.Status == status {
				results = append(results, page)
			}
		}
		return nil
	}, false)
	return results, err
}

// Helper methods

// nextID draws the next non-zero ID from a sequence.
func (r *ArchiveRepository) nextID(seq *badger.Sequence) (core.ID, error) {
	nextID, err := seq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if nextID == 0 {
		nextID, err = seq.Next()
		if err != nil {
			return 0, err
		}
	}
	return core.ID(nextID), nil
}

// mutatePage applies fn to a stored page within a write transaction.
func (r *ArchiveRepository) mutatePage(id core.ID, fn func(page *core.Page) error) (*core.Page, error) {
	var result *core.Page
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makePageKey(id)
		page, err := readPage(tx, key)
		if err != nil {
			return err
		}
		if page == nil {
			return storage.ErrNotFound
		}

		if err := fn(page); err != nil {
			return err
		}

		if err := tx.Set(key, storage.MarshalPage(page)); err != nil {
			return err
		}
		result = page
		return tx.Commit()
	}, true)
	return result, err
}

func (r *ArchiveRepository) findIssueByDate(ctx context.Context, newspaperID core.ID, date time.Time) (*core.Issue, error) {
	var result *core.Issue
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = lookupByIDIndex(tx, makeIssueDateKey(newspaperID, date), readIssue, makeIssueKey)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

func (r *ArchiveRepository) findPageByNumber(ctx context.Context, issueID core.ID, number int) (*core.Page, error) {
	var result *core.Page
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = lookupByIDIndex(tx, makePageNumberKey(issueID, number), readPage, makePageKey)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// lookupByIDIndex resolves a unique index entry to its full record.
// Returns nil when the index entry is absent.
func lookupByIDIndex[T any](tx *badger.Txn, indexKey []byte, read func(*badger.Txn, []byte) (*T, error), makeKey func(core.ID) []byte) (*T, error) {
	item, err := tx.Get(indexKey)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var id core.ID
	err = item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	})
	if err != nil {
		return nil, err
	}

	return read(tx, makeKey(id))
}

// readNewspaper reads a newspaper from the transaction.
func readNewspaper(tx *badger.Txn, key []byte) (*core.Newspaper, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var newspaper *core.Newspaper
	err = item.Value(func(val []byte) error {
		var err error
		newspaper, err = storage.UnmarshalNewspaper(val)
		return err
	})
	return newspaper, err
}

// readIssue reads an issue from the transaction.
func readIssue(tx *badger.Txn, key []byte) (*core.Issue, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var issue *core.Issue
	err = item.Value(func(val []byte) error {
		var err error
		issue, err = storage.UnmarshalIssue(val)
		return err
	})
	return issue, err
}

// readPage reads a page from the transaction.
func readPage(tx *badger.Txn, key []byte) (*core.Page, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var page *core.Page
	err = item.Value(func(val []byte) error {
		var err error
		page, err = storage.UnmarshalPage(val)
		return err
	})
	return page, err
}
