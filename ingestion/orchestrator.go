package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/archivista/archivista/ai"
	"github.com/archivista/archivista/core"
	"github.com/archivista/archivista/segment"
	"github.com/archivista/archivista/storage"
	"github.com/panjf2000/ants/v2"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
)

// Orchestrator drives ingestion jobs: it walks an issue's pages, segments
// their OCR text, embeds the segments and reconciles the retrieval index.
// Page failures are isolated; a failed page never sinks the whole job.
type Orchestrator struct {
	archive     storage.ArchiveRepository
	index       storage.IndexRepository
	jobs        storage.JobRepository
	embedder    ai.Embedder
	segmenter   *segment.Segmenter
	pool        *ants.Pool
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithPoolSize sets the worker pool size for concurrent page processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}

		if o.pool != nil {
			o.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithSegmenter sets a custom segmentation policy.
// Default is segment.New().
func WithSegmenter(s *segment.Segmenter) Option {
	return func(o *Orchestrator) error {
		if s != nil {
			o.segmenter = s
		}
		return nil
	}
}

// WithRetryPolicy sets the retry behavior for transient embedding failures.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) Option {
	return func(o *Orchestrator) error {
		if maxAttempts <= 0 {
			return ai.ErrInvalidMaxAttempts
		}
		o.maxAttempts = maxAttempts
		o.baseDelay = baseDelay
		return nil
	}
}

// NewOrchestrator creates a new ingestion orchestrator.
func NewOrchestrator(
	archive storage.ArchiveRepository,
	index storage.IndexRepository,
	jobs storage.JobRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Orchestrator, error) {
	if archive == nil {
		return nil, ErrArchiveRepositoryRequired
	}
	if index == nil {
		return nil, ErrIndexRepositoryRequired
	}
	if jobs == nil {
		return nil, ErrJobRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		archive:     archive,
		index:       index,
		jobs:        jobs,
		embedder:    embedder,
		segmenter:   segment.New(),
		pool:        pool,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			o.Release()
			return nil, optErr
		}
	}

	return o, nil
}

// Submit registers an ingestion job for an issue under an idempotency key.
// Replaying the same key with the same issue returns the stored job, in
// whatever state it is in. Reusing the key for a different issue returns
// ErrIdempotencyKeyConflict.
func (o *Orchestrator) Submit(ctx context.Context, idempotencyKey string, issueID core.ID) (*core.IngestJob, error) {
	job, created, err := o.jobs.GetOrCreateJob(ctx, &core.IngestJob{
		IdempotencyKey: idempotencyKey,
		IssueId:        issueID,
	})
	if err != nil {
		return nil, err
	}

	if !created && job.IssueId != issueID {
		return nil, ErrIdempotencyKeyConflict
	}

	if created {
		o.logger.Info("ingestion job created", "jobID", job.Id, "issueID", issueID, "key", idempotencyKey)
	} else {
		o.logger.Info("ingestion job replayed", "jobID", job.Id, "status", job.Status.String(), "key", idempotencyKey)
	}
	return job, nil
}

// Run executes an ingestion job to a stable state. Terminal jobs return
// immediately with their stored result. Pages fan out across the worker
// pool; Run returns once every dispatched page has finished.
//
// A job whose issue still has pages awaiting OCR is left in
// JobStatusProcessing so a later run can pick up the remainder. The same
// holds when ctx dies mid-run: dispatch stops and the job stays resumable.
// Only Cancel drives a job to a terminal state early.
func (o *Orchestrator) Run(ctx context.Context, jobID core.ID) (*core.IngestJob, error) {
	job, err := o.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status.Terminal() {
		return job, nil
	}

	job, err = o.jobs.UpdateJobStatus(ctx, job.Id, core.JobStatusProcessing, "")
	if err != nil {
		return nil, err
	}

	issue, err := o.archive.GetIssue(ctx, job.IssueId)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Job-fatal: nothing to process without the issue
			return o.jobs.UpdateJobStatus(ctx, job.Id, core.JobStatusFailed, "issue not found")
		}
		return nil, err
	}

	pages, err := o.archive.ListPagesByIssue(ctx, issue.Id)
	if err != nil {
		return nil, err
	}

	job, err = o.jobs.SetPagesTotal(ctx, job.Id, len(pages))
	if err != nil {
		return nil, err
	}

	var (
		wg          sync.WaitGroup
		awaitingOCR int
		cancelled   bool
		interrupted bool
	)

	for _, page := range pages {
		// Honor cancellation between pages; in-flight pages finish
		current, err := o.jobs.GetJob(ctx, job.Id)
		if err != nil {
			wg.Wait()
			return nil, err
		}
		if current.CancelRequested {
			cancelled = true
			break
		}
		// A dead caller context stops dispatch but is not a cancellation:
		// only the persisted flag terminates the job. The job stays
		// resumable under its idempotency key.
		if ctx.Err() != nil {
			interrupted = true
			break
		}

		switch page.Status {
		case core.PageStatusPending, core.PageStatusOCRPending:
			// OCR hasn't delivered yet; a later run picks these up
			awaitingOCR++
			continue
		case core.PageStatusOCRFailed:
			if _, err := o.jobs.IncrementProgress(ctx, job.Id, page.Id, o.pageError(page, "ocr failed")); err != nil {
				wg.Wait()
				return nil, err
			}
			continue
		case core.PageStatusIndexed:
			// Already in the index and already accounted for when it got
			// there; overlapping runs converge here
			continue
		}

		wg.Add(1)
		p := page
		task := func() {
			defer wg.Done()
			o.runPage(ctx, job.Id, p)
		}
		if err := o.pool.Submit(task); err != nil {
			// Pool unavailable; degrade to inline processing
			task()
		}
	}

	wg.Wait()

	if cancelled {
		o.logger.Info("ingestion job cancelled", "jobID", job.Id)
		return o.jobs.UpdateJobStatus(ctx, job.Id, core.JobStatusFailed, "cancelled by request")
	}
	if interrupted {
		o.logger.Info("ingestion run interrupted", "jobID", job.Id, "err", ctx.Err())
		return o.jobs.GetJob(ctx, job.Id)
	}
	if awaitingOCR > 0 {
		o.logger.Info("ingestion job waiting on OCR", "jobID", job.Id, "pagesAwaiting", awaitingOCR)
		return o.jobs.GetJob(ctx, job.Id)
	}

	return o.jobs.UpdateJobStatus(ctx, job.Id, core.JobStatusCompleted, "")
}

// Cancel flags a job for cancellation. In-flight pages finish.
func (o *Orchestrator) Cancel(ctx context.Context, jobID core.ID) (*core.IngestJob, error) {
	return o.jobs.RequestCancel(ctx, jobID)
}

// Release releases the worker pool.
// The orchestrator should not be used after calling Release.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}

// runPage processes one page and records the outcome on the job.
func (o *Orchestrator) runPage(ctx context.Context, jobID core.ID, page *core.Page) {
	if err := o.processPage(ctx, page); err != nil {
		o.logger.Error("page processing failed", "jobID", jobID, "pageID", page.Id, "pageNumber", page.Number, "err", err)
		if _, incErr := o.jobs.IncrementProgress(ctx, jobID, page.Id, o.pageError(page, err.Error())); incErr != nil {
			o.logger.Error("failed to record page failure", "jobID", jobID, "pageID", page.Id, "err", incErr)
		}
		return
	}

	if _, err := o.jobs.IncrementProgress(ctx, jobID, page.Id, nil); err != nil {
		o.logger.Error("failed to record page success", "jobID", jobID, "pageID", page.Id, "err", err)
	}
}

// processPage segments a page's OCR text, embeds the segments and
// reconciles the index so it mirrors the current text exactly.
func (o *Orchestrator) processPage(ctx context.Context, page *core.Page) error {
	candidates := o.segmenter.Split(page.OCRText)
	validHashes := make(map[string]struct{}, len(candidates))

	if len(candidates) > 0 {
		texts := make([]string, len(candidates))
		for i, candidate := range candidates {
			texts[i] = candidate.Text
		}

		var vectors [][]float32
		err := ai.RetryWithBackoff(ctx, func() error {
			var embedErr error
			vectors, embedErr = o.embedder.EmbedTexts(ctx, texts)
			return embedErr
		}, o.maxAttempts, o.baseDelay)
		if err != nil {
			return err
		}

		for i, candidate := range candidates {
			seg := &core.Segment{
				PageId:           page.Id,
				Index:            candidate.Index,
				Text:             candidate.Text,
				Hash:             candidate.Hash,
				SegmenterVersion: o.segmenter.Version(),
				Vector:           ai.NormalizeVector(vectors[i]),
			}
			if _, _, err := o.index.UpsertSegment(ctx, seg); err != nil {
				return err
			}
			validHashes[candidate.Hash] = struct{}{}
		}
	}

	// Drop segments that no longer correspond to the page's text
	if _, err := o.index.DeleteStaleSegments(ctx, page.Id, validHashes); err != nil {
		return err
	}

	if _, err := o.archive.UpdatePageStatus(ctx, page.Id, core.PageStatusIndexed); err != nil {
		return err
	}
	return nil
}

func (o *Orchestrator) pageError(page *core.Page, message string) *core.JobError {
	return &core.JobError{
		PageId:     page.Id,
		PageNumber: page.Number,
		Message:    message,
		Timestamp:  time.Now().UTC(),
	}
}
