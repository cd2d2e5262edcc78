package reembed

import "errors"

var (
	// ErrArchiveRepositoryRequired is returned when an archive repository is not provided.
	ErrArchiveRepositoryRequired = errors.New("archive repository required")

	// ErrIndexRepositoryRequired is returned when an index repository is not provided.
	ErrIndexRepositoryRequired = errors.New("index repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
