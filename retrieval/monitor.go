package retrieval

import "github.com/wayline/guidepost/core"

// Monitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps during retrieval.
type Monitor interface {
	Start(query core.Query)
	AfterEmbedding(vector []float32)
	AfterSearch(results []*core.SearchResult)
	AfterContext(contextBlock string)
	Finish(answer string, sources []core.PlaceSummary)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.Query)                          {}
func (n *noopMonitor) AfterEmbedding(_ []float32)                  {}
func (n *noopMonitor) AfterSearch(_ []*core.SearchResult)          {}
func (n *noopMonitor) AfterContext(_ string)                       {}
func (n *noopMonitor) Finish(_ string, _ []core.PlaceSummary)      {}
