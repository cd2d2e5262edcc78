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


// Package search provides page-centric semantic search over the archive.
//
// The Engine type embeds a query, matches it against indexed text segments
// and collapses the matches into page results. Pages are the only unit of
// retrieval visible to callers; segment identifiers never leave the index.
//
// Search fails closed: if the embedding provider or the index is
// unavailable, queries error with ErrRetrievalUnavailable instead of
// degrading to partial results.
package search
