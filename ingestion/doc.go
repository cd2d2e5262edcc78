// Package ingestion provides job orchestration for indexing newspaper issues.
//
// The Orchestrator type manages the ingestion workflow for an issue's pages, including:
//   - Registering idempotent jobs keyed by caller-supplied idempotency keys
//   - Segmenting OCR text into deterministic fixed windows
//   - Generating embeddings with retry on transient provider failures
//   - Reconciling the retrieval index against the current page text
//
// Pages are processed concurrently using a worker pool. A page failure is
// recorded on the job and never fails the other pages of the same run.
package ingestion
