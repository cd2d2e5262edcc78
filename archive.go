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


package archivista

import (
	"context"
	"io"
	"log/slog"

	"github.com/archivista/archivista/ai"
	"github.com/archivista/archivista/ai/openai"
	"github.com/archivista/archivista/core"
	"github.com/archivista/archivista/ingestion"
	"github.com/archivista/archivista/reembed"
	"github.com/archivista/archivista/search"
	"github.com/archivista/archivista/storage"
	"github.com/archivista/archivista/storage/badger"
)

// Archive is the top-level handle to a newspaper archive: the canonical
// records, the derived retrieval index, and the embedding gateway.
type Archive struct {
	backend     *badger.Backend
	archiveRepo storage.ArchiveRepository
	indexRepo   storage.IndexRepository
	jobRepo     storage.JobRepository
	embedder    ai.Embedder
	logger      *slog.Logger
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*archiveOptions)

type archiveOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) ArchiveOption {
	return func(o *archiveOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithEmbedder injects a pre-built embedder, bypassing the provider
// configuration. Intended for tests.
func WithEmbedder(embedder ai.Embedder) ArchiveOption {
	return func(o *archiveOptions) {
		o.embedder = embedder
	}
}

// OpenArchive opens (or creates) an archive at the given path.
func OpenArchive(filePath string, opts ...ArchiveOption) (*Archive, error) {
	// Apply options
	options := &archiveOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}
	return newArchive(backend, options)
}

// OpenMemoryArchive opens a fully in-memory archive. Intended for tests.
func OpenMemoryArchive(opts ...ArchiveOption) (*Archive, error) {
	options := &archiveOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return newArchive(backend, options)
}

func newArchive(backend *badger.Backend, options *archiveOptions) (*Archive, error) {
	archiveRepo, err := badger.NewArchiveRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	indexRepo, err := badger.NewIndexRepository(backend)
	if err != nil {
		archiveRepo.Close()
		backend.Close()
		return nil, err
	}

	jobRepo, err := badger.NewJobRepository(backend)
	if err != nil {
		indexRepo.Close()
		archiveRepo.Close()
		backend.Close()
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			jobRepo.Close()
			indexRepo.Close()
			archiveRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Archive{
		backend:     backend,
		archiveRepo: archiveRepo,
		indexRepo:   indexRepo,
		jobRepo:     jobRepo,
		embedder:    embedder,
		logger:      slog.Default(),
	}, nil
}

// Close releases repositories and the underlying storage.
func (a *Archive) Close() error {
	if err := a.jobRepo.Close(); err != nil {
		a.logger.Error("error closing job repository", "err", err)
		return err
	}
	if err := a.indexRepo.Close(); err != nil {
		a.logger.Error("error closing index repository", "err", err)
		return err
	}
	if err := a.archiveRepo.Close(); err != nil {
		a.logger.Error("error closing archive repository", "err", err)
		return err
	}

	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (a *Archive) ArchiveRepository() storage.ArchiveRepository {
	return a.archiveRepo
}

func (a *Archive) IndexRepository() storage.IndexRepository {
	return a.indexRepo
}

func (a *Archive) JobRepository() storage.JobRepository {
	return a.jobRepo
}

func (a *Archive) Embedder() ai.Embedder {
	return a.embedder
}

// NewOrchestrator creates an ingestion orchestrator over this archive.
func (a *Archive) NewOrchestrator(opts ...ingestion.Option) (*ingestion.Orchestrator, error) {
	return ingestion.NewOrchestrator(a.archiveRepo, a.indexRepo, a.jobRepo, a.embedder, opts...)
}

// NewSearchEngine creates a search engine over this archive.
func (a *Archive) NewSearchEngine(opts ...search.Option) (*search.Engine, error) {
	return search.NewEngine(a.archiveRepo, a.indexRepo, a.embedder, opts...)
}

// NewReembedder creates a reembedder over this archive.
// progress: where to write progress output (typically os.Stderr)
func (a *Archive) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(a.archiveRepo, a.indexRepo, a.embedder, config, progress)
}

// RebuildIndex drops the entire retrieval index and resets every indexed
// page to awaiting indexing. The canonical archive records are untouched;
// a subsequent ingestion run over the affected issues repopulates the
// index from them.
func (a *Archive) RebuildIndex(ctx context.Context) (int, error) {
	if err := a.indexRepo.DropAll(ctx); err != nil {
		return 0, err
	}

	pages, err := a.archiveRepo.ListPagesByStatus(ctx, core.PageStatusIndexed, 0)
	if err != nil {
		return 0, err
	}
	for _, page := range pages {
		if _, err := a.archiveRepo.UpdatePageStatus(ctx, page.Id, core.PageStatusOCRCompleted); err != nil {
			return 0, err
		}
	}

	a.logger.Info("retrieval index dropped", "pagesReset", len(pages))
	return len(pages), nil
}
