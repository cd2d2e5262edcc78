package badger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/archivista/archivista/core"
	"github.com/archivista/archivista/storage"
)

func TestGetOrCreateJob(t *testing.T) {
	_, _, jobRepo := newTestRepos(t)
	ctx := context.Background()

	job1, created, err := jobRepo.GetOrCreateJob(ctx, &core.IngestJob{
		IdempotencyKey: "ingest-1923-06-15",
		IssueId:        42,
	})
	if err != nil {
		t.Fatalf("Failed to create job: %v", err)
	}
	if !created {
		t.Fatal("Expected first call to create the job")
	}
	if job1.Status != core.JobStatusPending {
		t.Fatalf("Expected pending status, got %v", job1.Status)
	}

	// Same idempotency key must return the same job
	job2, created, err := jobRepo.GetOrCreateJob(ctx, &core.IngestJob{
		IdempotencyKey: "ingest-1923-06-15",
		IssueId:        42,
	})
	if err != nil {
		t.Fatalf("Failed to get job: %v", err)
	}
	if created {
		t.Fatal("Expected replay to return the existing job")
	}
	if job1.Id != job2.Id {
		t.Fatalf("Expected same job ID, got %d and %d", job1.Id, job2.Id)
	}

	// Lookup by key
	byKey, err := jobRepo.GetJobByKey(ctx, "ingest-1923-06-15")
	if err != nil {
		t.Fatalf("Failed to get job by key: %v", err)
	}
	if byKey.Id != job1.Id {
		t.Fatalf("Expected job %d, got %d", job1.Id, byKey.Id)
	}
}

func TestGetOrCreateJobRequiresKey(t *testing.T) {
	_, _, jobRepo := newTestRepos(t)

	_, _, err := jobRepo.GetOrCreateJob(context.Background(), &core.IngestJob{IssueId: 1})
	if !errors.Is(err, core.ErrEmptyIdempotencyKey) {
		t.Fatalf("Expected ErrEmptyIdempotencyKey, got %v", err)
	}
}

func TestUpdateJobStatusTerminalGuard(t *testing.T) {
	_, _, jobRepo := newTestRepos(t)
	ctx := context.Background()

	job, _, err := jobRepo.GetOrCreateJob(ctx, &core.IngestJob{IdempotencyKey: "k1", IssueId: 1})
	if err != nil {
		t.Fatalf("Failed to create job: %v", err)
	}

	if _, err := jobRepo.UpdateJobStatus(ctx, job.Id, core.JobStatusProcessing, ""); err != nil {
		t.Fatalf("Failed to move job to processing: %v", err)
	}
	if _, err := jobRepo.UpdateJobStatus(ctx, job.Id, core.JobStatusCompleted, ""); err != nil {
		t.Fatalf("Failed to complete job: %v", err)
	}

	// Terminal jobs never change status again
	_, err = jobRepo.UpdateJobStatus(ctx, job.Id, core.JobStatusProcessing, "")
	if !errors.Is(err, core.ErrInvalidJobStatus) {
		t.Fatalf("Expected ErrInvalidJobStatus, got %v", err)
	}

	final, err := jobRepo.GetJob(ctx, job.Id)
	if err != nil {
		t.Fatalf("Failed to get job: %v", err)
	}
	if final.Status != core.JobStatusCompleted {
		t.Fatalf("Expected completed status, got %v", final.Status)
	}
}

func TestJobFailureStoresMessage(t *testing.T) {
	_, _, jobRepo := newTestRepos(t)
	ctx := context.Background()

	job, _, err := jobRepo.GetOrCreateJob(ctx, &core.IngestJob{IdempotencyKey: "k-fail", IssueId: 1})
	if err != nil {
		t.Fatalf("Failed to create job: %v", err)
	}

	failed, err := jobRepo.UpdateJobStatus(ctx, job.Id, core.JobStatusFailed, "issue not found")
	if err != nil {
		t.Fatalf("Failed to fail job: %v", err)
	}
	if failed.ErrorMessage != "issue not found" {
		t.Fatalf("Expected error message to be stored, got %q", failed.ErrorMessage)
	}
}

func TestIncrementProgress(t *testing.T) {
	_, _, jobRepo := newTestRepos(t)
	ctx := context.Background()

	job, _, err := jobRepo.GetOrCreateJob(ctx, &core.IngestJob{IdempotencyKey: "k2", IssueId: 1})
	if err != nil {
		t.Fatalf("Failed to create job: %v", err)
	}
	if _, err := jobRepo.SetPagesTotal(ctx, job.Id, 3); err != nil {
		t.Fatalf("Failed to set pages total: %v", err)
	}

	if _, err := jobRepo.IncrementProgress(ctx, job.Id, 5, nil); err != nil {
		t.Fatalf("Failed to increment progress: %v", err)
	}
	if _, err := jobRepo.IncrementProgress(ctx, job.Id, 6, nil); err != nil {
		t.Fatalf("Failed to increment progress: %v", err)
	}
	updated, err := jobRepo.IncrementProgress(ctx, job.Id, 7, &core.JobError{
		PageId:     7,
		PageNumber: 3,
		Message:    "embedding provider unavailable",
	})
	if err != nil {
		t.Fatalf("Failed to increment progress with error: %v", err)
	}

	if updated.Progress.PagesProcessed != 3 {
		t.Fatalf("Expected 3 processed, got %d", updated.Progress.PagesProcessed)
	}
	if updated.Progress.PagesSucceeded != 2 {
		t.Fatalf("Expected 2 succeeded, got %d", updated.Progress.PagesSucceeded)
	}
	if updated.Progress.PagesFailed != 1 {
		t.Fatalf("Expected 1 failed, got %d", updated.Progress.PagesFailed)
	}
	if len(updated.Progress.Errors) != 1 {
		t.Fatalf("Expected 1 error descriptor, got %d", len(updated.Progress.Errors))
	}
}

func TestIncrementProgressRepeatedFailureNotRecounted(t *testing.T) {
	_, _, jobRepo := newTestRepos(t)
	ctx := context.Background()

	job, _, err := jobRepo.GetOrCreateJob(ctx, &core.IngestJob{IdempotencyKey: "k-refail", IssueId: 1})
	if err != nil {
		t.Fatalf("Failed to create job: %v", err)
	}

	// The same page failing on every resumed run keeps a single
	// descriptor and a single count
	for i := 0; i < 3; i++ {
		_, err := jobRepo.IncrementProgress(ctx, job.Id, 9, &core.JobError{
			PageId:     9,
			PageNumber: 2,
			Message:    fmt.Sprintf("ocr failed (run %d)", i+1),
		})
		if err != nil {
			t.Fatalf("Failed to increment progress: %v", err)
		}
	}

	final, err := jobRepo.GetJob(ctx, job.Id)
	if err != nil {
		t.Fatalf("Failed to get job: %v", err)
	}
	if final.Progress.PagesProcessed != 1 {
		t.Fatalf("Expected 1 processed, got %d", final.Progress.PagesProcessed)
	}
	if final.Progress.PagesFailed != 1 {
		t.Fatalf("Expected 1 failed, got %d", final.Progress.PagesFailed)
	}
	if len(final.Progress.Errors) != 1 {
		t.Fatalf("Expected 1 error descriptor, got %d", len(final.Progress.Errors))
	}
	if final.Progress.Errors[0].Message != "ocr failed (run 3)" {
		t.Fatalf("Expected the latest failure message, got %q", final.Progress.Errors[0].Message)
	}
}

func TestIncrementProgressFailureThenSuccess(t *testing.T) {
	_, _, jobRepo := newTestRepos(t)
	ctx := context.Background()

	job, _, err := jobRepo.GetOrCreateJob(ctx, &core.IngestJob{IdempotencyKey: "k-recover", IssueId: 1})
	if err != nil {
		t.Fatalf("Failed to create job: %v", err)
	}

	if _, err := jobRepo.IncrementProgress(ctx, job.Id, 4, &core.JobError{
		PageId:     4,
		PageNumber: 1,
		Message:    "embedding provider unavailable",
	}); err != nil {
		t.Fatalf("Failed to record failure: %v", err)
	}

	// The page succeeding on a later run moves it from failed to
	// succeeded without another processed count
	final, err := jobRepo.IncrementProgress(ctx, job.Id, 4, nil)
	if err != nil {
		t.Fatalf("Failed to record success: %v", err)
	}
	if final.Progress.PagesProcessed != 1 {
		t.Fatalf("Expected 1 processed, got %d", final.Progress.PagesProcessed)
	}
	if final.Progress.PagesSucceeded != 1 {
		t.Fatalf("Expected 1 succeeded, got %d", final.Progress.PagesSucceeded)
	}
	if final.Progress.PagesFailed != 0 {
		t.Fatalf("Expected 0 failed, got %d", final.Progress.PagesFailed)
	}
	if len(final.Progress.Errors) != 0 {
		t.Fatalf("Expected no error descriptors, got %d", len(final.Progress.Errors))
	}
}

func TestSetPagesTotalKeepsCounters(t *testing.T) {
	_, _, jobRepo := newTestRepos(t)
	ctx := context.Background()

	job, _, err := jobRepo.GetOrCreateJob(ctx, &core.IngestJob{IdempotencyKey: "k-resume", IssueId: 1})
	if err != nil {
		t.Fatalf("Failed to create job: %v", err)
	}
	if _, err := jobRepo.SetPagesTotal(ctx, job.Id, 2); err != nil {
		t.Fatalf("Failed to set pages total: %v", err)
	}
	if _, err := jobRepo.IncrementProgress(ctx, job.Id, 1, nil); err != nil {
		t.Fatalf("Failed to increment progress: %v", err)
	}

	// A resumed run re-announces the total; a polling observer must
	// never see PagesProcessed drop
	resumed, err := jobRepo.SetPagesTotal(ctx, job.Id, 2)
	if err != nil {
		t.Fatalf("Failed to set pages total again: %v", err)
	}
	if resumed.Progress.PagesProcessed != 1 {
		t.Fatalf("Expected 1 processed after resume, got %d", resumed.Progress.PagesProcessed)
	}
	if resumed.Progress.PagesSucceeded != 1 {
		t.Fatalf("Expected 1 succeeded after resume, got %d", resumed.Progress.PagesSucceeded)
	}
	if resumed.Progress.PagesTotal != 2 {
		t.Fatalf("Expected total 2, got %d", resumed.Progress.PagesTotal)
	}
	if resumed.Progress.Stage != core.JobStageProcessing {
		t.Fatalf("Expected processing stage, got %v", resumed.Progress.Stage)
	}
}

func TestIncrementProgressConcurrent(t *testing.T) {
	_, _, jobRepo := newTestRepos(t)
	ctx := context.Background()

	job, _, err := jobRepo.GetOrCreateJob(ctx, &core.IngestJob{IdempotencyKey: "k3", IssueId: 1})
	if err != nil {
		t.Fatalf("Failed to create job: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(pageID core.ID) {
			defer wg.Done()
			if _, err := jobRepo.IncrementProgress(ctx, job.Id, pageID, nil); err != nil {
				errCh <- err
			}
		}(core.ID(i + 1))
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("Concurrent increment failed: %v", err)
	}

	final, err := jobRepo.GetJob(ctx, job.Id)
	if err != nil {
		t.Fatalf("Failed to get job: %v", err)
	}
	if final.Progress.PagesProcessed != workers {
		t.Fatalf("Expected %d processed, got %d", workers, final.Progress.PagesProcessed)
	}
}

func TestErrorDescriptorsCapped(t *testing.T) {
	_, _, jobRepo := newTestRepos(t)
	ctx := context.Background()

	job, _, err := jobRepo.GetOrCreateJob(ctx, &core.IngestJob{IdempotencyKey: "k4", IssueId: 1})
	if err != nil {
		t.Fatalf("Failed to create job: %v", err)
	}

	for i := 0; i < core.MaxJobErrors+5; i++ {
		_, err := jobRepo.IncrementProgress(ctx, job.Id, core.ID(i+1), &core.JobError{
			PageId:     core.ID(i + 1),
			PageNumber: i + 1,
			Message:    fmt.Sprintf("failure %d", i+1),
		})
		if err != nil {
			t.Fatalf("Failed to increment progress: %v", err)
		}
	}

	final, err := jobRepo.GetJob(ctx, job.Id)
	if err != nil {
		t.Fatalf("Failed to get job: %v", err)
	}
	if len(final.Progress.Errors) != core.MaxJobErrors {
		t.Fatalf("Expected %d error descriptors, got %d", core.MaxJobErrors, len(final.Progress.Errors))
	}
	// The oldest descriptors are dropped first
	first := final.Progress.Errors[0]
	if first.PageNumber != 6 {
		t.Fatalf("Expected oldest retained error for page 6, got page %d", first.PageNumber)
	}
}

func TestRequestCancel(t *testing.T) {
	_, _, jobRepo := newTestRepos(t)
	ctx := context.Background()

	job, _, err := jobRepo.GetOrCreateJob(ctx, &core.IngestJob{IdempotencyKey: "k5", IssueId: 1})
	if err != nil {
		t.Fatalf("Failed to create job: %v", err)
	}

	flagged, err := jobRepo.RequestCancel(ctx, job.Id)
	if err != nil {
		t.Fatalf("Failed to request cancel: %v", err)
	}
	if !flagged.CancelRequested {
		t.Fatal("Expected CancelRequested to be set")
	}

	// Cancel on a terminal job is a no-op
	if _, err := jobRepo.UpdateJobStatus(ctx, job.Id, core.JobStatusFailed, "cancelled"); err != nil {
		t.Fatalf("Failed to fail job: %v", err)
	}
	if _, err := jobRepo.RequestCancel(ctx, job.Id); err != nil {
		t.Fatalf("Cancel on terminal job should not error: %v", err)
	}
}

func TestListRecentJobs(t *testing.T) {
	_, _, jobRepo := newTestRepos(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := jobRepo.GetOrCreateJob(ctx, &core.IngestJob{
			IdempotencyKey: fmt.Sprintf("recent-%d", i),
			IssueId:        core.ID(i + 1),
		})
		if err != nil {
			t.Fatalf("Failed to create job: %v", err)
		}
	}

	recent, err := jobRepo.ListRecentJobs(ctx, 3)
	if err != nil {
		t.Fatalf("Failed to list recent jobs: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 jobs, got %d", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i-1].CreatedAt.Before(recent[i].CreatedAt) {
			t.Fatal("Expected jobs ordered most recent first")
		}
	}
}

func TestGetJobNotFound(t *testing.T) {
	_, _, jobRepo := newTestRepos(t)

	_, err := jobRepo.GetJob(context.Background(), 12345)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	_, err = jobRepo.GetJobByKey(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
