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

import "errors"

// Domain validation errors
var (
	// ErrInvalidNewspaper indicates a Newspaper failed validation.
	ErrInvalidNewspaper = errors.New("invalid newspaper")

	// ErrInvalidIssue indicates an Issue failed validation.
	ErrInvalidIssue = errors.New("invalid issue")

	// ErrInvalidPage indicates a Page failed validation.
	ErrInvalidPage = errors.New("invalid page")

	// ErrInvalidSegment indicates a Segment failed validation.
	ErrInvalidSegment = errors.New("invalid segment")

	// ErrInvalidJob indicates an IngestJob failed validation.
	ErrInvalidJob = errors.New("invalid ingest job")

	// ErrEmptyName indicates a required name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyIdempotencyKey indicates the idempotency key is missing.
	ErrEmptyIdempotencyKey = errors.New("idempotency key cannot be empty")

	// ErrInvalidPageNumber indicates a page number below 1.
	ErrInvalidPageNumber = errors.New("page number must be >= 1")

	// ErrInvalidPageStatus indicates an unknown PageStatus value.
	ErrInvalidPageStatus = errors.New("invalid page status")

	// ErrInvalidJobStatus indicates an unknown JobStatus value.
	ErrInvalidJobStatus = errors.New("invalid job status")

	// ErrEmptySegmentText indicates a segment with no text.
	ErrEmptySegmentText = errors.New("segment text cannot be empty")

	// ErrEmptySegmentHash indicates a segment with no content hash.
	ErrEmptySegmentHash = errors.New("segment hash cannot be empty")

	// ErrInvalidSegmentIndex indicates a negative segment position.
	ErrInvalidSegmentIndex = errors.New("segment index must be >= 0")
)
