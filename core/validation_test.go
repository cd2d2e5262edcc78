package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateNewspaper(t *testing.T) {
	tests := []struct {
		name    string
		paper   *Newspaper
		wantErr error
	}{
		{
			name: "valid newspaper",
			paper: &Newspaper{
				Id:   1,
				Name: "The Daily Herald",
			},
			wantErr: nil,
		},
		{
			name: "valid newspaper with ID 0",
			paper: &Newspaper{
				Id:   0,
				Name: "The Courier",
			},
			wantErr: nil,
		},
		{
			name: "valid newspaper without year range",
			paper: &Newspaper{
				Name:      "The Gazette",
				StartYear: 0,
				EndYear:   0,
			},
			wantErr: nil,
		},
		{
			name:    "nil newspaper",
			paper:   nil,
			wantErr: ErrInvalidNewspaper,
		},
		{
			name: "empty name",
			paper: &Newspaper{
				Id:   1,
				Name: "",
			},
			wantErr: ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNewspaper(tt.paper)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateNewspaper() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateNewspaper() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateIssue(t *testing.T) {
	date := time.Date(1923, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		issue   *Issue
		wantErr error
	}{
		{
			name: "valid issue",
			issue: &Issue{
				NewspaperId: 1,
				Date:        date,
			},
			wantErr: nil,
		},
		{
			name:    "nil issue",
			issue:   nil,
			wantErr: ErrInvalidIssue,
		},
		{
			name: "missing newspaper reference",
			issue: &Issue{
				NewspaperId: 0,
				Date:        date,
			},
			wantErr: ErrInvalidIssue,
		},
		{
			name: "zero date",
			issue: &Issue{
				NewspaperId: 1,
			},
			wantErr: ErrInvalidIssue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIssue(tt.issue)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateIssue() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateIssue() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePage(t *testing.T) {
	tests := []struct {
		name    string
		page    *Page
		wantErr error
	}{
		{
			name: "valid page",
			page: &Page{
				IssueId: 1,
				Number:  1,
				Status:  PageStatusPending,
			},
			wantErr: nil,
		},
		{
			name: "valid page without OCR fields",
			page: &Page{
				IssueId: 1,
				Number:  12,
				Status:  PageStatusOCRPending,
				OCRText: "",
			},
			wantErr: nil,
		},
		{
			name:    "nil page",
			page:    nil,
			wantErr: ErrInvalidPage,
		},
		{
			name: "missing issue reference",
			page: &Page{
				Number: 1,
				Status: PageStatusPending,
			},
			wantErr: ErrInvalidPage,
		},
		{
			name: "page number zero",
			page: &Page{
				IssueId: 1,
				Number:  0,
				Status:  PageStatusPending,
			},
			wantErr: ErrInvalidPageNumber,
		},
		{
			name: "negative page number",
			page: &Page{
				IssueId: 1,
				Number:  -3,
				Status:  PageStatusPending,
			},
			wantErr: ErrInvalidPageNumber,
		},
		{
			name: "unknown status",
			page: &Page{
				IssueId: 1,
				Number:  1,
				Status:  PageStatus(99),
			},
			wantErr: ErrInvalidPageStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePage(tt.page)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePage() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePage() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSegment(t *testing.T) {
	tests := []struct {
		name    string
		segment *Segment
		wantErr error
	}{
		{
			name: "valid segment",
			segment: &Segment{
				PageId: 1,
				Index:  0,
				Text:   "chunk of page text",
				Hash:   ContentHash("chunk of page text"),
			},
			wantErr: nil,
		},
		{
			name: "valid segment with empty vector",
			segment: &Segment{
				PageId: 1,
				Index:  3,
				Text:   "awaiting embedding",
				Hash:   ContentHash("awaiting embedding"),
				Vector: nil,
			},
			wantErr: nil,
		},
		{
			name:    "nil segment",
			segment: nil,
			wantErr: ErrInvalidSegment,
		},
		{
			name: "missing page reference",
			segment: &Segment{
				Index: 0,
				Text:  "text",
				Hash:  "abc",
			},
			wantErr: ErrInvalidSegment,
		},
		{
			name: "negative index",
			segment: &Segment{
				PageId: 1,
				Index:  -1,
				Text:   "text",
				Hash:   "abc",
			},
			wantErr: ErrInvalidSegmentIndex,
		},
		{
			name: "empty text",
			segment: &Segment{
				PageId: 1,
				Index:  0,
				Hash:   "abc",
			},
			wantErr: ErrEmptySegmentText,
		},
		{
			name: "empty hash",
			segment: &Segment{
				PageId: 1,
				Index:  0,
				Text:   "text",
			},
			wantErr: ErrEmptySegmentHash,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSegment(tt.segment)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSegment() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSegment() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateIngestJob(t *testing.T) {
	tests := []struct {
		name    string
		job     *IngestJob
		wantErr error
	}{
		{
			name: "valid job",
			job: &IngestJob{
				IdempotencyKey: "ingest-1923-06-15",
				IssueId:        1,
				Status:         JobStatusPending,
			},
			wantErr: nil,
		},
		{
			name: "valid job without issue",
			job: &IngestJob{
				IdempotencyKey: "orphaned-job",
				IssueId:        0,
				Status:         JobStatusFailed,
			},
			wantErr: nil,
		},
		{
			name:    "nil job",
			job:     nil,
			wantErr: ErrInvalidJob,
		},
		{
			name: "empty idempotency key",
			job: &IngestJob{
				Status: JobStatusPending,
			},
			wantErr: ErrEmptyIdempotencyKey,
		},
		{
			name: "unknown status",
			job: &IngestJob{
				IdempotencyKey: "key",
				Status:         JobStatus(99),
			},
			wantErr: ErrInvalidJobStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIngestJob(tt.job)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateIngestJob() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateIngestJob() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
