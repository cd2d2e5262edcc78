package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/archivista/archivista/ai"
	"github.com/archivista/archivista/core"
	"github.com/archivista/archivista/storage"
)

const (
	// defaultMinSimilarity filters out segments with weak cosine similarity.
	defaultMinSimilarity = 0.60

	// overFetchFactor widens the segment search so that collapsing
	// multiple segments of the same page still yields maxHits pages.
	overFetchFactor = 4
)

// Engine provides page-centric semantic search over the newspaper archive.
// Queries match against indexed segments, but results always come back as
// pages; segments stay an internal detail of the index.
type Engine struct {
	archive       storage.ArchiveRepository
	index         storage.IndexRepository
	embedder      ai.Embedder
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithMinSimilarity sets the similarity floor for segment matches.
func WithMinSimilarity(min float32) Option {
	return func(e *Engine) error {
		e.minSimilarity = min
		return nil
	}
}

// NewEngine creates a new search engine.
func NewEngine(
	archive storage.ArchiveRepository,
	index storage.IndexRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Engine, error) {
	if archive == nil {
		return nil, ErrArchiveRepositoryRequired
	}
	if index == nil {
		return nil, ErrIndexRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Engine{
		archive:       archive,
		index:         index,
		embedder:      embedder,
		minSimilarity: defaultMinSimilarity,
		logger:        slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Search finds pages relevant to the query.
// Returns up to maxHits page hits, ranked by relevance score.
func (e *Engine) Search(ctx context.Context, query string, maxHits int) ([]*core.PageHit, error) {
	return e.SearchWithMonitor(ctx, query, maxHits, nil)
}

// SearchWithMonitor finds pages relevant to the query with monitoring.
// The monitor receives callbacks at each stage of the search process.
//
// Search fails closed: if the embedder or the index cannot answer, the
// whole query errors with ErrRetrievalUnavailable rather than degrading
// to partial results.
func (e *Engine) SearchWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]*core.PageHit, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if maxHits < 1 {
		maxHits = 1
	}

	monitor.Start(query)

	// 1. Embed the query
	embedding, err := e.embedder.EmbedText(ctx, query)
	if err != nil {
		e.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrRetrievalUnavailable, err)
	}
	embedding = ai.NormalizeVector(embedding)
	monitor.AfterQueryEmbedding(len(embedding))

	// 2. Find similar segments; over-fetch so page collapsing still fills maxHits
	matches, err := e.index.FindSimilar(ctx, embedding, e.minSimilarity, maxHits*overFetchFactor)
	if err != nil {
		e.logger.Error("error querying for similar segments", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrRetrievalUnavailable, err)
	}
	monitor.AfterSegmentSearch(matches)

	// 3. Collapse segment matches into page hits: a page scores as its best segment
	bestByPage := make(map[core.ID]*core.SegmentMatch)
	for _, match := range matches {
		best, ok := bestByPage[match.Segment.PageId]
		if !ok || match.Score > best.Score {
			bestByPage[match.Segment.PageId] = match
		}
	}

	pageIds := make([]uint64, 0, len(bestByPage))
	for pageID := range bestByPage {
		pageIds = append(pageIds, uint64(pageID))
	}
	monitor.AfterPageCollapse(pageIds)

	// 4. Join archive metadata and build hits
	hits := make([]*core.PageHit, 0, len(bestByPage))
	for pageID, match := range bestByPage {
		hit, err := e.buildHit(ctx, pageID, match)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// The canonical record is gone; the stale index entry
				// must not surface in results
				e.logger.Warn("skipping hit without archive records", "pageID", pageID)
				continue
			}
			return nil, fmt.Errorf("%w: %w", ErrRetrievalUnavailable, err)
		}
		hits = append(hits, hit)
	}

	// Sort by score descending
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > maxHits {
		hits = hits[:maxHits]
	}
	monitor.Finish(hits)

	return hits, nil
}

// buildHit joins a collapsed segment match with its page, issue and
// newspaper records.
func (e *Engine) buildHit(ctx context.Context, pageID core.ID, match *core.SegmentMatch) (*core.PageHit, error) {
	page, err := e.archive.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	issue, err := e.archive.GetIssue(ctx, page.IssueId)
	if err != nil {
		return nil, err
	}
	newspaper, err := e.archive.GetNewspaper(ctx, issue.NewspaperId)
	if err != nil {
		return nil, err
	}

	return &core.PageHit{
		PageId:        page.Id,
		PageNumber:    page.Number,
		IssueId:       issue.Id,
		IssueDate:     issue.Date,
		NewspaperId:   newspaper.Id,
		NewspaperName: newspaper.Name,
		Snippet:       makeSnippet(match.Segment.Text),
		Score:         match.Score,
	}, nil
}
