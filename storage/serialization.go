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


package storage

import (
	"github.com/archivista/archivista/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalNewspaper serializes a Newspaper to bytes.
func MarshalNewspaper(newspaper *core.Newspaper) []byte {
	buf := make([]byte, core.NewspaperMUS.Size(*newspaper))
	core.NewspaperMUS.Marshal(*newspaper, buf)
	return buf
}

// UnmarshalNewspaper deserializes a Newspaper from bytes.
func UnmarshalNewspaper(data []byte) (*core.Newspaper, error) {
	newspaper, _, err := core.NewspaperMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &newspaper, nil
}

// MarshalIssue serializes an Issue to bytes.
func MarshalIssue(issue *core.Issue) []byte {
	buf := make([]byte, core.IssueMUS.Size(*issue))
	core.IssueMUS.Marshal(*issue, buf)
	return buf
}

// UnmarshalIssue deserializes an Issue from bytes.
func UnmarshalIssue(data []byte) (*core.Issue, error) {
	issue, _, err := core.IssueMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// MarshalPage serializes a Page to bytes.
func MarshalPage(page *core.Page) []byte {
	buf := make([]byte, core.PageMUS.Size(*page))
	core.PageMUS.Marshal(*page, buf)
	return buf
}

// UnmarshalPage deserializes a Page from bytes.
func UnmarshalPage(data []byte) (*core.Page, error) {
	page, _, err := core.PageMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// MarshalSegment serializes a Segment to bytes.
func MarshalSegment(segment *core.Segment) []byte {
	buf := make([]byte, core.SegmentMUS.Size(*segment))
	core.SegmentMUS.Marshal(*segment, buf)
	return buf
}

// UnmarshalSegment deserializes a Segment from bytes.
func UnmarshalSegment(data []byte) (*core.Segment, error) {
	segment, _, err := core.SegmentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &segment, nil
}

// MarshalIngestJob serializes an IngestJob to bytes.
func MarshalIngestJob(job *core.IngestJob) []byte {
	buf := make([]byte, core.IngestJobMUS.Size(*job))
	core.IngestJobMUS.Marshal(*job, buf)
	return buf
}

// UnmarshalIngestJob deserializes an IngestJob from bytes.
func UnmarshalIngestJob(data []byte) (*core.IngestJob, error) {
	job, _, err := core.IngestJobMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
