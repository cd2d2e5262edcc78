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


package core

import "fmt"

// ValidateNewspaper validates a Newspaper according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//
// NOT validated:
//   - ID (0 is valid from database sequences)
//   - Year range (historical data is frequently incomplete)
func ValidateNewspaper(paper *Newspaper) error {
	if paper == nil {
		return fmt.Errorf("%w: newspaper is nil", ErrInvalidNewspaper)
	}

	if paper.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNewspaper, ErrEmptyName)
	}

	return nil
}

// ValidateIssue validates an Issue according to domain rules.
//
// Validation rules:
//   - NewspaperId must be set
//   - Date must not be zero
func ValidateIssue(issue *Issue) error {
	if issue == nil {
		return fmt.Errorf("%w: issue is nil", ErrInvalidIssue)
	}

	if issue.NewspaperId == 0 {
		return fmt.Errorf("%w: newspaper reference required", ErrInvalidIssue)
	}

	if issue.Date.IsZero() {
		return fmt.Errorf("%w: issue date required", ErrInvalidIssue)
	}

	return nil
}

// ValidatePage validates a Page according to domain rules.
//
// Validation rules:
//   - IssueId must be set
//   - Number must be >= 1
//   - Status must be a known PageStatus
//
// NOT validated (populated by the OCR provider):
//   - OCRText, OCRConfidence, OCRProvider
func ValidatePage(page *Page) error {
	if page == nil {
		return fmt.Errorf("%w: page is nil", ErrInvalidPage)
	}

	if page.IssueId == 0 {
		return fmt.Errorf("%w: issue reference required", ErrInvalidPage)
	}

	if page.Number < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidPage, ErrInvalidPageNumber)
	}

	if err := ValidatePageStatus(page.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPage, err)
	}

	return nil
}

// ValidateSegment validates a Segment according to domain rules.
//
// Validation rules:
//   - PageId must be set
//   - Index must be >= 0
//   - Text and Hash must not be empty
//
// NOT validated:
//   - Vector (can be empty until the embedder runs)
func ValidateSegment(segment *Segment) error {
	if segment == nil {
		return fmt.Errorf("%w: segment is nil", ErrInvalidSegment)
	}

	if segment.PageId == 0 {
		return fmt.Errorf("%w: page reference required", ErrInvalidSegment)
	}

	if segment.Index < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSegment, ErrInvalidSegmentIndex)
	}

	if segment.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSegment, ErrEmptySegmentText)
	}

	if segment.Hash == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSegment, ErrEmptySegmentHash)
	}

	return nil
}

// ValidateIngestJob validates an IngestJob according to domain rules.
//
// Validation rules:
//   - IdempotencyKey must not be empty
//   - Status must be a known JobStatus
//
// NOT validated:
//   - IssueId (0 is valid: the job outlives issue deletion)
func ValidateIngestJob(job *IngestJob) error {
	if job == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidJob)
	}

	if job.IdempotencyKey == "" {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrEmptyIdempotencyKey)
	}

	if err := ValidateJobStatus(job.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	return nil
}

// ValidatePageStatus validates that a PageStatus has a valid value.
func ValidatePageStatus(status PageStatus) error {
	switch status {
	case PageStatusPending, PageStatusOCRPending, PageStatusOCRCompleted,
		PageStatusOCRFailed, PageStatusIndexed:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidPageStatus, status)
	}
}

// ValidateJobStatus validates that a JobStatus has a valid value.
func ValidateJobStatus(status JobStatus) error {
	switch status {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidJobStatus, status)
	}
}
