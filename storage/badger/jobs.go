package badger

import (
	"context"
	"errors"
	"time"

	"github.com/archivista/archivista/core"
	"github.com/archivista/archivista/storage"
	"github.com/dgraph-io/badger/v4"
)

// progressRetryLimit bounds optimistic retries when concurrent page workers
// race on the same job record.
const progressRetryLimit = 16

// JobRepository implements storage.JobRepository for BadgerDB.
type JobRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.JobRepository = (*JobRepository)(nil)

// NewJobRepository creates a new JobRepository.
func NewJobRepository(backend *Backend) (*JobRepository, error) {
	idSeq, err := backend.GetSequence(jobIDSeq)
	if err != nil {
		return nil, err
	}

	return &JobRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *JobRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *JobRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// GetOrCreateJob finds or creates a job by idempotency key.
func (r *JobRepository) GetOrCreateJob(ctx context.Context, job *core.IngestJob) (*core.IngestJob, bool, error) {
	if job.Status == 0 {
		job.Status = core.JobStatusPending
	}
	if err := core.ValidateIngestJob(job); err != nil {
		return nil, false, err
	}

	var (
		stored  *core.IngestJob
		created bool
	)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		keyIndex := makeJobIdempotencyKey(job.IdempotencyKey)

		existing, err := lookupByIDIndex(tx, keyIndex, readJob, makeJobKey)
		if err != nil {
			return err
		}
		if existing != nil {
			stored = existing
			created = false
			return nil
		}

		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		job.Id = core.ID(nextID)
		job.CreatedAt = time.Now().UTC()
		job.UpdatedAt = job.CreatedAt
		if job.Progress.Stage == 0 {
			job.Progress.Stage = core.JobStageInitializing
		}

		if err := tx.Set(makeJobKey(job.Id), storage.MarshalIngestJob(job)); err != nil {
			return err
		}
		if err := tx.Set(keyIndex, storage.MarshalID(job.Id)); err != nil {
			return err
		}
		createdKey := makeJobCreatedKey(job.CreatedAt, job.Id)
		if err := tx.Set(createdKey, storage.MarshalID(job.Id)); err != nil {
			return err
		}
		stored = job
		created = true
		return tx.Commit()
	}, true)

	// A concurrent submitter may have won the race; resolve to their record.
	if errors.Is(err, badger.ErrConflict) {
		existing, findErr := r.GetJobByKey(ctx, job.IdempotencyKey)
		if findErr != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	return stored, created, err
}

// GetJob retrieves a single job by ID.
func (r *JobRepository) GetJob(ctx context.Context, id core.ID) (*core.IngestJob, error) {
	var result *core.IngestJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readJob(tx, makeJobKey(id))
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

// GetJobByKey retrieves a job by its idempotency key.
func (r *JobRepository) GetJobByKey(ctx context.Context, key string) (*core.IngestJob, error) {
	var result *core.IngestJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = lookupByIDIndex(tx, makeJobIdempotencyKey(key), readJob, makeJobKey)
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

// UpdateJobStatus transitions a job to a new status.
func (r *JobRepository) UpdateJobStatus(ctx context.Context, id core.ID, status core.JobStatus, errorMessage string) (*core.IngestJob, error) {
	if err := core.ValidateJobStatus(status); err != nil {
		return nil, err
	}

	return r.mutateJob(id, func(job *core.IngestJob) error {
		// Terminal statuses are final; replays must not resurrect a job.
		if job.Status.Terminal() && job.Status != status {
			return core.ErrInvalidJobStatus
		}

		job.Status = status
		if status == core.JobStatusFailed {
			job.ErrorMessage = errorMessage
		}
		if status.Terminal() {
			job.Progress.Stage = core.JobStageFinalizing
		}
		job.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// SetPagesTotal records the number of pages the job will process.
// Counters survive across runs of the same job so PagesProcessed never
// regresses for an observer polling a resumed job.
func (r *JobRepository) SetPagesTotal(ctx context.Context, id core.ID, total int) (*core.IngestJob, error) {
	if total < 0 {
		return nil, storage.ErrInvalidQuery
	}

	return r.mutateJob(id, func(job *core.IngestJob) error {
		job.Progress.PagesTotal = total
		job.Progress.Stage = core.JobStageProcessing
		job.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// IncrementProgress atomically records the outcome of one page; a nil
// pageErr means the page succeeded. Outcomes are per page, not per run:
// a repeated failure refreshes the stored descriptor without recounting,
// and a success after a recorded failure moves the page from failed to
// succeeded, leaving PagesProcessed untouched. Retries on transaction
// conflicts from concurrent page workers.
func (r *JobRepository) IncrementProgress(ctx context.Context, id core.ID, pageID core.ID, pageErr *core.JobError) (*core.IngestJob, error) {
	var (
		result *core.IngestJob
		err    error
	)
	for attempt := 0; attempt < progressRetryLimit; attempt++ {
		result, err = r.mutateJob(id, func(job *core.IngestJob) error {
			prior := -1
			for i := range job.Progress.Errors {
				if job.Progress.Errors[i].PageId == pageID {
					prior = i
					break
				}
			}

			if pageErr == nil {
				if prior >= 0 {
					job.Progress.Errors = append(job.Progress.Errors[:prior], job.Progress.Errors[prior+1:]...)
					job.Progress.PagesFailed--
				} else {
					job.Progress.PagesProcessed++
				}
				job.Progress.PagesSucceeded++
			} else {
				if prior >= 0 {
					job.Progress.Errors[prior] = *pageErr
				} else {
					job.Progress.PagesProcessed++
					job.Progress.PagesFailed++
					job.Progress.Errors = append(job.Progress.Errors, *pageErr)
					if len(job.Progress.Errors) > core.MaxJobErrors {
						job.Progress.Errors = job.Progress.Errors[len(job.Progress.Errors)-core.MaxJobErrors:]
					}
				}
			}
			job.UpdatedAt = time.Now().UTC()
			return nil
		})
		if !errors.Is(err, badger.ErrConflict) {
			return result, err
		}
	}
	return nil, storage.ErrConflict
}

// RequestCancel flags a running job for cancellation.
func (r *JobRepository) RequestCancel(ctx context.Context, id core.ID) (*core.IngestJob, error) {
	return r.mutateJob(id, func(job *core.IngestJob) error {
		if job.Status.Terminal() {
			return nil
		}
		job.CancelRequested = true
		job.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// ListRecentJobs retrieves the N most recently created jobs, most recent first.
func (r *JobRepository) ListRecentJobs(ctx context.Context, limit int) ([]*core.IngestJob, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.IngestJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(jobCreatedPrefix + ":")
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Reverse iteration starts past the last key of the prefix.
		seekKey := append([]byte(jobCreatedPrefix+":"), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		for iter.Seek(seekKey); iter.Valid(); iter.Next() {
			if len(results) >= limit {
				break
			}

			var jobID core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				jobID, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			job, err := readJob(tx, makeJobKey(jobID))
			if err != nil {
				return err
			}
			if job != nil {
				results = append(results, job)
			}
		}
		return nil
	}, false)
	return results, err
}

// ListJobsByStatus retrieves jobs in the given status.
func (r *JobRepository) ListJobsByStatus(ctx context.Context, status core.JobStatus, limit int) ([]*core.IngestJob, error) {
	if err := core.ValidateJobStatus(status); err != nil {
		return nil, err
	}

	var results []*core.IngestJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(jobRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}

			var job *core.IngestJob
			err := iter.Item().Value(func(val []byte) error {
				var err error
				job, err = storage.UnmarshalIngestJob(val)
				return err
			})
			if err != nil {
				return err
			}
			if job != nil && job.Status == status {
				results = append(results, job)
			}
		}
		return nil
	}, false)
	return results, err
}

// mutateJob applies fn to a stored job within a write transaction.
func (r *JobRepository) mutateJob(id core.ID, fn func(job *core.IngestJob) error) (*core.IngestJob, error) {
	var result *core.IngestJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeJobKey(id)
		job, err := readJob(tx, key)
		if err != nil {
			return err
		}
		if job == nil {
			return storage.ErrNotFound
		}

		if err := fn(job); err != nil {
			return err
		}

		if err := tx.Set(key, storage.MarshalIngestJob(job)); err != nil {
			return err
		}
		result = job
		return tx.Commit()
	}, true)
	return result, err
}

// readJob reads a job from the transaction.
func readJob(tx *badger.Txn, key []byte) (*core.IngestJob, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var job *core.IngestJob
	err = item.Value(func(val []byte) error {
		var err error
		job, err = storage.UnmarshalIngestJob(val)
		return err
	})
	return job, err
}
