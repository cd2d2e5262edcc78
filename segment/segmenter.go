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


package segment

import (
	"strings"

	"github.com/archivista/archivista/core"
)

// DefaultVersion identifies the default segmentation policy. It is recorded
// on every segment so the index can be audited against the policy that
// produced it.
const DefaultVersion = "v0_fixed_chars_800_100"

const (
	defaultWindow  = 800
	defaultOverlap = 100
)

// Candidate is one chunk produced by segmentation, before embedding.
type Candidate struct {
	Index int    // zero-based position within the page
	Text  string // raw chunk text
	Hash  string // content hash of the normalized text
}

// Segmenter splits OCR text into fixed-length rune windows with overlap.
// It is a pure function of its input: the same text under the same policy
// always yields a byte-identical candidate sequence. It never touches
// storage.
type Segmenter struct {
	window  int
	overlap int
	version string
}

// New creates a Segmenter with the default policy (800-rune windows,
// 100-rune overlap).
func New() *Segmenter {
	return &Segmenter{
		window:  defaultWindow,
		overlap: defaultOverlap,
		version: DefaultVersion,
	}
}

// NewWithPolicy creates a Segmenter with an explicit policy. Callers that
// change window or overlap must supply a new version string, since the
// version names the policy.
func NewWithPolicy(window, overlap int, version string) *Segmenter {
	if window < 1 {
		window = defaultWindow
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= window {
		overlap = window - 1
	}
	return &Segmenter{
		window:  window,
		overlap: overlap,
		version: version,
	}
}

// Version returns the policy version recorded on produced segments.
func (s *Segmenter) Version() string {
	return s.version
}

// Split produces the ordered candidate sequence for a page's OCR text.
// Empty or whitespace-only text yields zero candidates; text shorter than
// one window yields exactly one. A window that reaches the end of the text
// terminates the sequence, so no candidate is a pure suffix of its
// predecessor's overlap.
func (s *Segmenter) Split(text string) []Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	step := s.window - s.overlap

	var candidates []Candidate
	for start, index := 0, 0; start < len(runes); start, index = start+step, index+1 {
		end := start + s.window
		if end > len(runes) {
			end = len(runes)
		}

		chunk := string(runes[start:end])
		candidates = append(candidates, Candidate{
			Index: index,
			Text:  chunk,
			Hash:  HashText(chunk),
		})

		if end == len(runes) {
			break
		}
	}

	return candidates
}

// HashText computes the content hash of a chunk: BLAKE2b-256 over the
// whitespace-normalized text, so incidental formatting differences do not
// change segment identity.
func HashText(text string) string {
	return core.ContentHash(Normalize(text))
}

// Normalize collapses all runs of whitespace into single spaces and trims
// the ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
