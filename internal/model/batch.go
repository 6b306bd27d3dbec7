package model

// SourceResult is the per-source outcome of one batch scrape pass.
type SourceResult struct {
	SourceID string  `json:"id"`
	Status   string  `json:"status"`
	Price    float64 `json:"price,omitempty"`
	Error    string  `json:"error,omitempty"`
}

const (
	// StatusSuccess marks a source that produced a price this pass
	StatusSuccess = "success"
	// StatusFailed marks a source whose scrape attempt failed
	StatusFailed = "failed"
)

// BatchResult aggregates one pass over all active sources.
type BatchResult struct {
	Success int            `json:"success"`
	Failed  int            `json:"failed"`
	Details []SourceResult `json:"details"`
}
