package domain

import (
	"sync/atomic"
	"time"
)

// SettlementStats are the non-authoritative counters the coordinator exposes
// through /v1/settlement-stats. They're updated under relaxed ordering and
// must never gate a correctness decision.
type SettlementStats struct {
	totalItemsQueued      uint64
	totalBatchesProcessed uint64
	itemsInCurrentBatch   int64
	lastBatchProcessedAt  atomic.Int64 // unix nanos; 0 == never
}

// AddQueued increments the queued-item counter by n.
func (s *SettlementStats) AddQueued(n uint64) {
	atomic.AddUint64(&s.totalItemsQueued, n)
}

// SetItemsInCurrentBatch records the buffer's current size.
func (s *SettlementStats) SetItemsInCurrentBatch(n int) {
	atomic.StoreInt64(&s.itemsInCurrentBatch, int64(n))
}

// MarkBatchProcessed increments the processed-batch counter and stamps the
// current time as the last-processed time.
func (s *SettlementStats) MarkBatchProcessed() {
	atomic.AddUint64(&s.totalBatchesProcessed, 1)
	s.lastBatchProcessedAt.Store(time.Now().UnixNano())
}

// Snapshot is a read-only copy of the counters for serving over HTTP.
type Snapshot struct {
	TotalItemsQueued      uint64     `json:"total_items_queued"`
	TotalBatchesProcessed uint64     `json:"total_batches_processed"`
	ItemsInCurrentBatch   int64      `json:"items_in_current_batch"`
	LastBatchProcessedAt  *time.Time `json:"last_batch_processed_at,omitempty"`
}

// Snapshot reads the current values of every counter.
func (s *SettlementStats) Snapshot() Snapshot {
	snap := Snapshot{
		TotalItemsQueued:      atomic.LoadUint64(&s.totalItemsQueued),
		TotalBatchesProcessed: atomic.LoadUint64(&s.totalBatchesProcessed),
		ItemsInCurrentBatch:   atomic.LoadInt64(&s.itemsInCurrentBatch),
	}

	if nanos := s.lastBatchProcessedAt.Load(); nanos != 0 {
		t := time.Unix(0, nanos).UTC()
		snap.LastBatchProcessedAt = &t
	}

	return snap
}
