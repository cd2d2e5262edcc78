package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/archivista/archivista/core"
)

// Key prefixes for different data types
const (
	newspaperRecordPrefix = "nwsrec"
	newspaperIDSeq        = "nwsrecseq"
	issueRecordPrefix     = "issrec"
	issueDatePrefix       = "issnwsd"
	issueIDSeq            = "issrecseq"
	pageRecordPrefix      = "pagrec"
	pageNumberPrefix      = "pagissn"
	pageIDSeq             = "pagrecseq"
	segmentRecordPrefix   = "segrec"
	jobRecordPrefix       = "jobrec"
	jobKeyPrefix          = "jobkey"
	jobCreatedPrefix      = "jobcre"
	jobIDSeq              = "jobrecseq"
)

// makeNewspaperKey generates a key for a newspaper by ID.
func makeNewspaperKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", newspaperRecordPrefix, id))
}

// makeIssueKey generates a key for an issue by ID.
func makeIssueKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", issueRecordPrefix, id))
}

// makeIssueDateKey generates a composite key for the issue uniqueness index.
// Format: prefix:newspaperID:date
func makeIssueDateKey(newspaperID core.ID, date time.Time) []byte {
	prefix := issueDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for newspaperID + 8 bytes for date
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(newspaperID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(date.UnixMicro()))
	return buf
}

// makePartialIssueDateKey generates a partial key for listing issues of a newspaper.
// Format: prefix:newspaperID
func makePartialIssueDateKey(newspaperID core.ID) []byte {
	prefix := issueDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for newspaperID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(newspaperID))
	return buf
}

// makePageKey generates a key for a page by ID.
func makePageKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", pageRecordPrefix, id))
}

// makePageNumberKey generates a composite key for the page uniqueness index.
// Format: prefix:issueID:number
func makePageNumberKey(issueID core.ID, number int) []byte {
	prefix := pageNumberPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for issueID + 8 bytes for number
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(issueID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(number))
	return buf
}

// makePartialPageNumberKey generates a partial key for listing pages of an issue.
// Format: prefix:issueID
func makePartialPageNumberKey(issueID core.ID) []byte {
	prefix := pageNumberPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for issueID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(issueID))
	return buf
}

// makeSegmentKey generates a composite key for a segment.
// Format: prefix:pageID:segmentID
// Keeping the page first groups a page's segments under one prefix.
func makeSegmentKey(pageID, segmentID core.ID) []byte {
	prefix := segmentRecordPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for pageID + 8 bytes for segmentID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(pageID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(segmentID))
	return buf
}

// makePartialSegmentKey generates a partial key for scanning a page's segments.
// Format: prefix:pageID
func makePartialSegmentKey(pageID core.ID) []byte {
	prefix := segmentRecordPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for pageID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(pageID))
	return buf
}

// makeJobKey generates a key for an ingestion job by ID.
func makeJobKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", jobRecordPrefix, id))
}

// makeJobIdempotencyKey generates a key for the idempotency-key index.
// Format: prefix:key
func makeJobIdempotencyKey(key string) []byte {
	return []byte(fmt.Sprintf("%s:%s", jobKeyPrefix, key))
}

// makeJobCreatedKey generates a composite key for the creation-time index.
// Format: prefix:timestamp:id
func makeJobCreatedKey(createdAt time.Time, id core.ID) []byte {
	prefix := jobCreatedPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
