package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/archivista/archivista/ai/mock"
	"github.com/archivista/archivista/core"
	"github.com/archivista/archivista/storage"
	"github.com/archivista/archivista/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	archive  storage.ArchiveRepository
	index    storage.IndexRepository
	jobs     storage.JobRepository
	embedder *mock.MockEmbedder
	orch     *Orchestrator
}

func newTestFixture(t *testing.T, opts ...Option) *testFixture {
	t.Helper()

	archiveRepo, indexRepo, jobRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()

	opts = append([]Option{WithRetryPolicy(2, time.Millisecond)}, opts...)
	orch, err := NewOrchestrator(archiveRepo, indexRepo, jobRepo, embedder, opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		orch.Release()
		jobRepo.Close()
		indexRepo.Close()
		archiveRepo.Close()
		backend.Close()
	})

	return &testFixture{
		archive:  archiveRepo,
		index:    indexRepo,
		jobs:     jobRepo,
		embedder: embedder,
		orch:     orch,
	}
}

// seedIssue creates a newspaper, an issue, and pages with the given OCR texts.
// A nil entry leaves the page pending (no OCR yet).
func (f *testFixture) seedIssue(t *testing.T, ocrTexts []*string) *core.Issue {
	t.Helper()
	ctx := context.Background()

	paper, err := f.archive.CreateNewspaper(ctx, &core.Newspaper{Name: "The Gazette"})
	require.NoError(t, err)

	issue, err := f.archive.GetOrCreateIssue(ctx, &core.Issue{
		NewspaperId: paper.Id,
		Date:        time.Date(1923, 6, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	for i, text := range ocrTexts {
		page, err := f.archive.GetOrCreatePage(ctx, &core.Page{IssueId: issue.Id, Number: i + 1})
		require.NoError(t, err)
		if text != nil {
			_, err = f.archive.UpdatePageOCR(ctx, page.Id, *text, 0.9, "tesseract", time.Now().UTC())
			require.NoError(t, err)
		}
	}
	return issue
}

func strPtr(s string) *string { return &s }

func TestSubmitIdempotent(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	issue := f.seedIssue(t, []*string{strPtr("page text")})

	job1, err := f.orch.Submit(ctx, "key-1", issue.Id)
	require.NoError(t, err)

	job2, err := f.orch.Submit(ctx, "key-1", issue.Id)
	require.NoError(t, err)
	assert.Equal(t, job1.Id, job2.Id)

	// Same key with a different issue is a conflict
	_, err = f.orch.Submit(ctx, "key-1", issue.Id+1)
	assert.ErrorIs(t, err, ErrIdempotencyKeyConflict)
}

func TestRunIndexesIssue(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()

	// One page of 900 chars splits into two overlapping windows;
	// the empty page succeeds without producing segments.
	longText := strings.Repeat("A", 900)
	issue := f.seedIssue(t, []*string{strPtr(longText), strPtr("")})

	job, err := f.orch.Submit(ctx, "run-1", issue.Id)
	require.NoError(t, err)

	done, err := f.orch.Run(ctx, job.Id)
	require.NoError(t, err)

	assert.Equal(t, core.JobStatusCompleted, done.Status)
	assert.Equal(t, 2, done.Progress.PagesTotal)
	assert.Equal(t, 2, done.Progress.PagesProcessed)
	assert.Equal(t, 2, done.Progress.PagesSucceeded)
	assert.Equal(t, 0, done.Progress.PagesFailed)
	assert.Empty(t, done.Progress.Errors)

	count, err := f.index.CountSegments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	pages, err := f.archive.ListPagesByIssue(ctx, issue.Id)
	require.NoError(t, err)
	for _, page := range pages {
		assert.Equal(t, core.PageStatusIndexed, page.Status)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	issue := f.seedIssue(t, []*string{strPtr("stable page text")})

	job, err := f.orch.Submit(ctx, "rerun", issue.Id)
	require.NoError(t, err)

	first, err := f.orch.Run(ctx, job.Id)
	require.NoError(t, err)
	require.Equal(t, core.JobStatusCompleted, first.Status)

	segments, err := f.index.SegmentsByPage(ctx, pagesOf(t, f, issue.Id)[0].Id)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	firstCreatedAt := segments[0].CreatedAt

	callsAfterFirst := f.embedder.CallCount()

	// A terminal job replays its stored result without reprocessing
	second, err := f.orch.Run(ctx, job.Id)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusCompleted, second.Status)
	assert.Equal(t, callsAfterFirst, f.embedder.CallCount())

	segments, err = f.index.SegmentsByPage(ctx, pagesOf(t, f, issue.Id)[0].Id)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.True(t, segments[0].CreatedAt.Equal(firstCreatedAt))
}

func pagesOf(t *testing.T, f *testFixture, issueID core.ID) []*core.Page {
	t.Helper()
	pages, err := f.archive.ListPagesByIssue(context.Background(), issueID)
	require.NoError(t, err)
	return pages
}

func TestPartialFailureIsolation(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	issue := f.seedIssue(t, []*string{
		strPtr("first page text"),
		strPtr("POISON page text"),
		strPtr("third page text"),
	})

	f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		for _, text := range texts {
			if strings.Contains(text, "POISON") {
				return nil, errors.New("provider timeout")
			}
		}
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{0.1, 0.2}
		}
		return vectors, nil
	}

	job, err := f.orch.Submit(ctx, "partial", issue.Id)
	require.NoError(t, err)

	done, err := f.orch.Run(ctx, job.Id)
	require.NoError(t, err)

	// One poisoned page never sinks the job
	assert.Equal(t, core.JobStatusCompleted, done.Status)
	assert.Equal(t, 3, done.Progress.PagesProcessed)
	assert.Equal(t, 2, done.Progress.PagesSucceeded)
	assert.Equal(t, 1, done.Progress.PagesFailed)
	require.Len(t, done.Progress.Errors, 1)
	assert.Equal(t, 2, done.Progress.Errors[0].PageNumber)
	assert.Contains(t, done.Progress.Errors[0].Message, "provider timeout")
}

func TestRunMissingIssueFailsJob(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()

	job, err := f.orch.Submit(ctx, "ghost", 9999)
	require.NoError(t, err)

	done, err := f.orch.Run(ctx, job.Id)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusFailed, done.Status)
	assert.Equal(t, "issue not found", done.ErrorMessage)
}

func TestRunLeavesJobProcessingWhilePagesAwaitOCR(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	issue := f.seedIssue(t, []*string{strPtr("ready page"), nil})

	job, err := f.orch.Submit(ctx, "await-ocr", issue.Id)
	require.NoError(t, err)

	done, err := f.orch.Run(ctx, job.Id)
	require.NoError(t, err)

	assert.Equal(t, core.JobStatusProcessing, done.Status)
	assert.Equal(t, 2, done.Progress.PagesTotal)
	assert.Equal(t, 1, done.Progress.PagesProcessed)

	// Once OCR delivers, a later run completes the job
	pages := pagesOf(t, f, issue.Id)
	_, err = f.archive.UpdatePageOCR(ctx, pages[1].Id, "late ocr text", 0.8, "tesseract", time.Now().UTC())
	require.NoError(t, err)

	done, err = f.orch.Run(ctx, job.Id)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusCompleted, done.Status)
	assert.Equal(t, 2, done.Progress.PagesProcessed)
	assert.Equal(t, 2, done.Progress.PagesSucceeded)
}

func TestRunFailedOCRPageCountsAsFailed(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	issue := f.seedIssue(t, []*string{strPtr("good page")})

	page, err := f.archive.GetOrCreatePage(ctx, &core.Page{IssueId: issue.Id, Number: 2})
	require.NoError(t, err)
	_, err = f.archive.UpdatePageStatus(ctx, page.Id, core.PageStatusOCRFailed)
	require.NoError(t, err)

	job, err := f.orch.Submit(ctx, "ocr-failed", issue.Id)
	require.NoError(t, err)

	done, err := f.orch.Run(ctx, job.Id)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusCompleted, done.Status)
	assert.Equal(t, 1, done.Progress.PagesSucceeded)
	assert.Equal(t, 1, done.Progress.PagesFailed)
	require.Len(t, done.Progress.Errors, 1)
	assert.Equal(t, "ocr failed", done.Progress.Errors[0].Message)
}

func TestRunWithDeadContextLeavesJobResumable(t *testing.T) {
	f := newTestFixture(t)
	issue := f.seedIssue(t, []*string{strPtr("page one"), strPtr("page two")})

	job, err := f.orch.Submit(context.Background(), "caller-went-away", issue.Id)
	require.NoError(t, err)

	// The caller's context dying is not a cancellation: dispatch stops
	// but the job must stay resumable under its idempotency key
	dead, cancel := context.WithCancel(context.Background())
	cancel()
	interrupted, err := f.orch.Run(dead, job.Id)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusProcessing, interrupted.Status)

	count, err := f.index.CountSegments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// A retry with a live context picks the job up and finishes it
	done, err := f.orch.Run(context.Background(), job.Id)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusCompleted, done.Status)
	assert.Equal(t, 2, done.Progress.PagesProcessed)
	assert.Equal(t, 2, done.Progress.PagesSucceeded)

	count, err = f.index.CountSegments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestResumedRunsKeepSingleOCRFailureDescriptor(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	issue := f.seedIssue(t, []*string{strPtr("good page"), nil})

	broken, err := f.archive.GetOrCreatePage(ctx, &core.Page{IssueId: issue.Id, Number: 3})
	require.NoError(t, err)
	_, err = f.archive.UpdatePageStatus(ctx, broken.Id, core.PageStatusOCRFailed)
	require.NoError(t, err)

	job, err := f.orch.Submit(ctx, "sticky-failure", issue.Id)
	require.NoError(t, err)

	// Every run revisits the OCR-failed page while page 2 awaits OCR;
	// its descriptor and counts must not pile up
	for i := 0; i < 3; i++ {
		running, err := f.orch.Run(ctx, job.Id)
		require.NoError(t, err)
		require.Equal(t, core.JobStatusProcessing, running.Status)
		assert.Equal(t, 1, running.Progress.PagesFailed)
		require.Len(t, running.Progress.Errors, 1)
		assert.Equal(t, 3, running.Progress.Errors[0].PageNumber)
	}

	pages := pagesOf(t, f, issue.Id)
	_, err = f.archive.UpdatePageOCR(ctx, pages[1].Id, "late ocr text", 0.8, "tesseract", time.Now().UTC())
	require.NoError(t, err)

	done, err := f.orch.Run(ctx, job.Id)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusCompleted, done.Status)
	assert.Equal(t, 3, done.Progress.PagesProcessed)
	assert.Equal(t, 2, done.Progress.PagesSucceeded)
	assert.Equal(t, 1, done.Progress.PagesFailed)
	require.Len(t, done.Progress.Errors, 1)
}

func TestCancelBeforeRun(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	issue := f.seedIssue(t, []*string{strPtr("page one"), strPtr("page two")})

	job, err := f.orch.Submit(ctx, "cancel-me", issue.Id)
	require.NoError(t, err)

	_, err = f.orch.Cancel(ctx, job.Id)
	require.NoError(t, err)

	done, err := f.orch.Run(ctx, job.Id)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusFailed, done.Status)
	assert.Equal(t, "cancelled by request", done.ErrorMessage)

	// No pages were dispatched
	count, err := f.index.CountSegments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestReconciliationDropsStaleSegments(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	issue := f.seedIssue(t, []*string{strPtr("original page text")})

	job, err := f.orch.Submit(ctx, "reconcile-1", issue.Id)
	require.NoError(t, err)
	_, err = f.orch.Run(ctx, job.Id)
	require.NoError(t, err)

	page := pagesOf(t, f, issue.Id)[0]
	before, err := f.index.SegmentsByPage(ctx, page.Id)
	require.NoError(t, err)
	require.Len(t, before, 1)

	// New OCR delivery changes the text; a fresh job reconciles the index
	_, err = f.archive.UpdatePageOCR(ctx, page.Id, "corrected page text", 0.95, "tesseract", time.Now().UTC())
	require.NoError(t, err)

	job2, err := f.orch.Submit(ctx, "reconcile-2", issue.Id)
	require.NoError(t, err)
	_, err = f.orch.Run(ctx, job2.Id)
	require.NoError(t, err)

	after, err := f.index.SegmentsByPage(ctx, page.Id)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.NotEqual(t, before[0].Hash, after[0].Hash)
	assert.Equal(t, "corrected page text", after[0].Text)
}

func TestNewOrchestratorValidation(t *testing.T) {
	archiveRepo, indexRepo, jobRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		jobRepo.Close()
		indexRepo.Close()
		archiveRepo.Close()
		backend.Close()
	}()

	_, err = NewOrchestrator(nil, indexRepo, jobRepo, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrArchiveRepositoryRequired)

	_, err = NewOrchestrator(archiveRepo, nil, jobRepo, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrIndexRepositoryRequired)

	_, err = NewOrchestrator(archiveRepo, indexRepo, nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrJobRepositoryRequired)

	_, err = NewOrchestrator(archiveRepo, indexRepo, jobRepo, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}
