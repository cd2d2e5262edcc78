package search

import "github.com/archivista/archivista/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterQueryEmbedding(dimensions int)
	AfterSegmentSearch(matches []*core.SegmentMatch)
	AfterPageCollapse(pageIds []uint64)
	Finish(hits []*core.PageHit)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                             {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)                  {}
func (n *noopMonitor) AfterSegmentSearch(_ []*core.SegmentMatch)  {}
func (n *noopMonitor) AfterPageCollapse(_ []uint64)               {}
func (n *noopMonitor) Finish(_ []*core.PageHit)                   {}
