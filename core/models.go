package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ContentHash computes the hex-encoded BLAKE2b-256 digest of text.
// Segment hashes use this over the whitespace-normalized chunk text.
func ContentHash(text string) string {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// PageStatus tracks where a page sits in the ingestion lifecycle.
type PageStatus int

const (
	// PageStatusPending means the page exists but OCR has not been requested.
	PageStatusPending PageStatus = iota + 1
	// PageStatusOCRPending means OCR has been requested but has not finished.
	PageStatusOCRPending
	// PageStatusOCRCompleted means OCR text is present and the page awaits indexing.
	PageStatusOCRCompleted
	// PageStatusOCRFailed means the OCR provider gave up on this page.
	PageStatusOCRFailed
	// PageStatusIndexed means the page's segments are in the retrieval index.
	PageStatusIndexed
)

// String returns the lifecycle name used in logs and CLI output.
func (s PageStatus) String() string {
	switch s {
	case PageStatusPending:
		return "pending"
	case PageStatusOCRPending:
		return "ocr_pending"
	case PageStatusOCRCompleted:
		return "ocr_completed"
	case PageStatusOCRFailed:
		return "ocr_failed"
	case PageStatusIndexed:
		return "indexed"
	default:
		return "unknown"
	}
}

// JobStatus is the lifecycle state of an IngestJob.
type JobStatus int

const (
	// JobStatusPending is the initial state before any work attempt.
	JobStatusPending JobStatus = iota + 1
	// JobStatusProcessing means a run is (or was) working through pages.
	JobStatusProcessing
	// JobStatusCompleted is terminal: every page reached a final state.
	JobStatusCompleted
	// JobStatusFailed is terminal: a job-level fatal condition or cancellation.
	JobStatusFailed
)

func (s JobStatus) String() string {
	switch s {
	case JobStatusPending:
		return "pending"
	case JobStatusProcessing:
		return "processing"
	case JobStatusCompleted:
		return "completed"
	case JobStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status permits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobStage identifies the coarse phase a processing job is in.
type JobStage int

const (
	// JobStageInitializing covers job setup before pages are dispatched.
	JobStageInitializing JobStage = iota + 1
	// JobStageProcessing covers the per-page segment/embed/index loop.
	JobStageProcessing
	// JobStageFinalizing covers the terminal bookkeeping pass.
	JobStageFinalizing
)

func (s JobStage) String() string {
	switch s {
	case JobStageInitializing:
		return "initializing"
	case JobStageProcessing:
		return "processing"
	case JobStageFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// Newspaper is a publication in the canonical archive.
type Newspaper struct {
	Id          ID
	Name        string
	City        string
	Country     string
	StartYear   int
	EndYear     int
	Description string
	CreatedAt   time.Time
}

// Issue is a dated edition of a newspaper.
// (NewspaperId, Date) is unique across the archive.
type Issue struct {
	Id          ID
	NewspaperId ID
	Date        time.Time // issue date, truncated to a day
	SourceRef   string    // external identifier at the source, if any
	Metadata    map[string]string
	CreatedAt   time.Time
}

// Page is a single scanned page of an issue with its OCR result.
// (IssueId, Number) is unique within the archive. The OCR fields are
// canonical data; the retrieval index is derived from them and never
// the other way around.
type Page struct {
	Id            ID
	IssueId       ID
	Number        int // 1-based page number within the issue
	ImagePath     string
	OCRText       string
	OCRConfidence float64
	OCRProvider   string
	Status        PageStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasOCRText reports whether the page carries usable OCR output.
// Whitespace-only text counts as empty, matching the segmenter.
func (p *Page) HasOCRText() bool {
	return strings.TrimSpace(p.OCRText) != ""
}

// Segment is a deterministically produced chunk of page text with its
// embedding. Segments belong to the rebuildable retrieval index:
// (PageId, Hash) is unique and the whole set is derivable from pages.
type Segment struct {
	Id               ID
	PageId           ID
	Index            int    // zero-based position within the page
	Text             string // raw chunk text
	Hash             string // BLAKE2b-256 hex of the normalized text
	SegmenterVersion string
	Vector           []float32
	CreatedAt        time.Time
}

// JobError describes one page-level failure recorded on a job.
type JobError struct {
	PageId     ID
	PageNumber int
	Message    string
	Timestamp  time.Time
}

// MaxJobErrors bounds the error descriptors retained per job; only the
// most recent ones survive.
const MaxJobErrors = 10

// JobProgress is the fixed, strongly-typed progress record of a job.
type JobProgress struct {
	PagesTotal     int
	PagesProcessed int
	PagesSucceeded int
	PagesFailed    int
	Stage          JobStage
	Errors         []JobError
}

// IngestJob tracks the ingestion of one issue under a caller-supplied
// idempotency key. The same key always maps to the same logical job;
// jobs are retained after completion for idempotency replay and audit.
type IngestJob struct {
	Id              ID
	IdempotencyKey  string
	IssueId         ID // 0 once the referenced issue is gone; the job survives
	Status          JobStatus
	Progress        JobProgress
	ErrorMessage    string
	CancelRequested bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SegmentMatch is a segment-level hit from vector similarity search.
// It stays inside the retrieval layer; callers see PageHit instead.
type SegmentMatch struct {
	Segment *Segment
	Score   float32
}

// PageHit is a page-centric search result. It carries page identity and
// display metadata only, never segment identifiers.
type PageHit struct {
	PageId        ID
	PageNumber    int
	IssueId       ID
	IssueDate     time.Time
	NewspaperId   ID
	NewspaperName string
	Snippet       string
	Score         float32
}
