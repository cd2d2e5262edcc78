package ingestion

import "errors"

var (
	// ErrArchiveRepositoryRequired is returned when an archive repository is not provided.
	ErrArchiveRepositoryRequired = errors.New("archive repository required")

	// ErrIndexRepositoryRequired is returned when an index repository is not provided.
	ErrIndexRepositoryRequired = errors.New("index repository required")

	// ErrJobRepositoryRequired is returned when a job repository is not provided.
	ErrJobRepositoryRequired = errors.New("job repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrIdempotencyKeyConflict is returned when a submission reuses an
	// idempotency key with a different issue than the stored job.
	ErrIdempotencyKeyConflict = errors.New("idempotency key already used for a different issue")
)
