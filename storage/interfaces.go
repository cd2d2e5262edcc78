package storage

import (
	"context"
	"time"

	"github.com/archivista/archivista/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ArchiveRepository provides operations for the canonical archive records:
// newspapers, issues and pages. Archive records are the source of truth;
// the derived index can always be rebuilt from them.
type ArchiveRepository interface {
	Repository
	// CreateNewspaper adds a newspaper title to the archive.
	// For newspapers with ID=0, generates a new ID from sequence.
	// Sets CreatedAt if not already set.
	CreateNewspaper(ctx context.Context, newspaper *core.Newspaper) (*core.Newspaper, error)

	// GetNewspaper retrieves a single newspaper by ID.
	// Returns ErrNotFound if the newspaper doesn't exist.
	GetNewspaper(ctx context.Context, id core.ID) (*core.Newspaper, error)

	// ListNewspapers retrieves all newspaper titles, ordered by ID.
	ListNewspapers(ctx context.Context) ([]*core.Newspaper, error)

	// GetOrCreateIssue finds or creates an issue by newspaper and date.
	// An issue is unique per (newspaper, publication date); concurrent
	// creation attempts collapse to a single record.
	GetOrCreateIssue(ctx context.Context, issue *core.Issue) (*core.Issue, error)

	// GetIssue retrieves a single issue by ID.
	// Returns ErrNotFound if the issue doesn't exist.
	GetIssue(ctx context.Context, id core.ID) (*core.Issue, error)

	// ListIssuesByNewspaper retrieves issues of a newspaper ordered by
	// publication date. Returns up to limit issues starting at offset.
	ListIssuesByNewspaper(ctx context.Context, newspaperID core.ID, offset, limit int) ([]*core.Issue, error)

	// GetOrCreatePage finds or creates a page by issue and page number.
	// A page is unique per (issue, number); concurrent creation attempts
	// collapse to a single record.
	GetOrCreatePage(ctx context.Context, page *core.Page) (*core.Page, error)

	// GetPage retrieves a single page by ID.
	// Returns ErrNotFound if the page doesn't exist.
	GetPage(ctx context.Context, id core.ID) (*core.Page, error)

	// UpdatePageOCR stores OCR output on a page and moves it to
	// StatusOCRCompleted. An empty text is still a completed OCR run;
	// such pages simply produce no segments during indexing.
	// Updates the UpdatedAt timestamp automatically.
	UpdatePageOCR(ctx context.Context, id core.ID, text string, confidence float64, provider string, receivedAt time.Time) (*core.Page, error)

	// UpdatePageStatus transitions a page to a new lifecycle status.
	// Returns ErrNotFound if the page doesn't exist.
	UpdatePageStatus(ctx context.Context, id core.ID, status core.PageStatus) (*core.Page, error)

	// ListPagesByIssue retrieves all pages of an issue ordered by page number.
	ListPagesByIssue(ctx context.Context, issueID core.ID) ([]*core.Page, error)

	// ListPagesByStatus retrieves pages in the given lifecycle status,
	// up to limit results. A limit of 0 means no limit.
	ListPagesByStatus(ctx context.Context, status core.PageStatus, limit int) ([]*core.Page, error)
}

// IndexRepository provides operations for the derived retrieval index:
// text segments and their embedding vectors. Everything stored here can be
// dropped and rebuilt from the archive records.
type IndexRepository interface {
	Repository
	// UpsertSegment inserts a segment keyed by (page, content hash).
	// If a segment with the same page and hash already exists, the stored
	// record is returned unchanged and created reports false. Re-indexing
	// unchanged content is therefore a no-op that preserves CreatedAt.
	UpsertSegment(ctx context.Context, segment *core.Segment) (stored *core.Segment, created bool, err error)

	// DeleteStaleSegments removes segments of a page whose content hash is
	// not in validHashes. Returns the number of segments removed.
	DeleteStaleSegments(ctx context.Context, pageID core.ID, validHashes map[string]struct{}) (int, error)

	// SegmentsByPage retrieves all segments of a page ordered by segment index.
	SegmentsByPage(ctx context.Context, pageID core.ID) ([]*core.Segment, error)

	// UpdateSegmentVectors replaces the stored vectors of existing segments,
	// typically after an embedding model change. Text, hash and CreatedAt
	// are untouched. Returns ErrNotFound if any segment doesn't exist.
	UpdateSegmentVectors(ctx context.Context, segments ...*core.Segment) ([]*core.Segment, error)

	// FindSimilar finds segments similar to the given vector.
	// Returns segments with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SegmentMatch, error)

	// CountSegments returns the total number of indexed segments.
	CountSegments(ctx context.Context) (int, error)

	// DropAll removes every segment from the index.
	// Archive records are untouched.
	DropAll(ctx context.Context) error
}

// JobRepository provides operations for ingestion job bookkeeping.
type JobRepository interface {
	Repository
	// GetOrCreateJob finds or creates a job by idempotency key.
	// If a job with the key exists, it is returned with created=false
	// regardless of its status; callers decide how to treat replays.
	// Concurrent creation attempts collapse to a single record.
	GetOrCreateJob(ctx context.Context, job *core.IngestJob) (stored *core.IngestJob, created bool, err error)

	// GetJob retrieves a single job by ID.
	// Returns ErrNotFound if the job doesn't exist.
	GetJob(ctx context.Context, id core.ID) (*core.IngestJob, error)

	// GetJobByKey retrieves a job by its idempotency key.
	// Returns ErrNotFound if no job has the key.
	GetJobByKey(ctx context.Context, key string) (*core.IngestJob, error)

	// UpdateJobStatus transitions a job to a new status. The error message
	// is stored only for StatusJobFailed. Transitions out of a terminal
	// status return ErrInvalidJobStatus.
	UpdateJobStatus(ctx context.Context, id core.ID, status core.JobStatus, errorMessage string) (*core.IngestJob, error)

	// SetPagesTotal records the number of pages the job will process and
	// moves the progress stage to JobStageProcessing. Counters and error
	// descriptors carry over from earlier runs of the same job, so
	// PagesProcessed never regresses for a polling observer.
	SetPagesTotal(ctx context.Context, id core.ID, total int) (*core.IngestJob, error)

	// IncrementProgress atomically records the outcome of one page; a nil
	// pageErr means success. Outcomes are keyed by page: a repeated
	// failure refreshes the stored descriptor without recounting, and a
	// success after a recorded failure moves the page from failed to
	// succeeded. Safe under concurrent page workers.
	IncrementProgress(ctx context.Context, id core.ID, pageID core.ID, pageErr *core.JobError) (*core.IngestJob, error)

	// RequestCancel flags a running job for cancellation. In-flight pages
	// finish; no new pages start. No-op for terminal jobs.
	RequestCancel(ctx context.Context, id core.ID) (*core.IngestJob, error)

	// ListRecentJobs retrieves the N most recently created jobs,
	// most recent first.
	ListRecentJobs(ctx context.Context, limit int) ([]*core.IngestJob, error)

	// ListJobsByStatus retrieves jobs in the given status, up to limit
	// results. A limit of 0 means no limit.
	ListJobsByStatus(ctx context.Context, status core.JobStatus, limit int) ([]*core.IngestJob, error)
}
