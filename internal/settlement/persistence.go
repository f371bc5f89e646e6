// Package settlement is C6: the durable, crash-safe store for settlement
// batches and the processed-bet-id dedup set. The minimal compliant
// implementation here is a single JSON file read-modify-
// write under an exclusive in-process lock; that's what Store does. An
// optional sqlite checkpoint table mirrors batch status transitions for
// operators who want to query history with SQL without parsing the file.
package settlement

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/reecen9696/casino-rollup/common"
	"github.com/reecen9696/casino-rollup/common/constant"
	"github.com/reecen9696/casino-rollup/internal/domain"
)

// fileState is the on-disk shape persisted at <db-base>.settlement.json.
type fileState struct {
	Batches         map[uint64]domain.SettlementBatch `json:"batches"`
	ProcessedBetIDs map[string]struct{}               `json:"processed_bet_ids"`
	LastBatchID     uint64                             `json:"last_batch_id"`
}

// Store is a single-process-at-a-time durable settlement store. Every
// mutator holds mu for its full duration, including the fsync, so that the
// on-disk state reflects the return value before control returns.
type Store struct {
	mu       sync.Mutex
	path     string
	state    fileState
	checkpoint Checkpoint
}

// Checkpoint is the optional secondary index a Store mirrors batch status
// transitions into. A no-op implementation is used when none is configured.
type Checkpoint interface {
	RecordBatch(b domain.SettlementBatch) error
	Close() error
}

type noopCheckpoint struct{}

func (noopCheckpoint) RecordBatch(domain.SettlementBatch) error { return nil }
func (noopCheckpoint) Close() error                             { return nil }

// Open loads path if it exists, or initialises empty state. Pass a
// Checkpoint to additionally mirror every durable write there; pass nil for
// none.
func Open(path string, checkpoint Checkpoint) (*Store, error) {
	if checkpoint == nil {
		checkpoint = noopCheckpoint{}
	}

	s := &Store{
		path: path,
		state: fileState{
			Batches:         make(map[uint64]domain.SettlementBatch),
			ProcessedBetIDs: make(map[string]struct{}),
		},
		checkpoint: checkpoint,
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &s.state); err != nil {
			return nil, fmt.Errorf("settlement: parse %q: %w", path, err)
		}

		if s.state.Batches == nil {
			s.state.Batches = make(map[uint64]domain.SettlementBatch)
		}

		if s.state.ProcessedBetIDs == nil {
			s.state.ProcessedBetIDs = make(map[string]struct{})
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("settlement: read %q: %w", path, err)
	}

	return s, nil
}

// persistLocked writes state to disk. Caller must hold mu.
func (s *Store) persistLocked() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("settlement: create directory %q: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("settlement: marshal state: %w", err)
	}

	tmp := s.path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("settlement: write temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("settlement: write temp file: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("settlement: sync temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("settlement: close temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("settlement: rename into place: %w", err)
	}

	return nil
}

// CreateBatch allocates batch_id = last_batch_id+1, inserts every item's
// bet id into the processed set, and persists both in the same durable
// write.
func (s *Store) CreateBatch(items []domain.SettlementItem) (domain.SettlementBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	s.state.LastBatchID++

	batch := domain.SettlementBatch{
		BatchID:   s.state.LastBatchID,
		Status:    domain.BatchPending,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.state.Batches[batch.BatchID] = batch

	for _, item := range items {
		s.state.ProcessedBetIDs[item.BetID] = struct{}{}
	}

	if err := s.persistLocked(); err != nil {
		return domain.SettlementBatch{}, err
	}

	_ = s.checkpoint.RecordBatch(batch)

	return batch, nil
}

// UpdateBatchStatus transitions id to status and sets the batch's error
// message to errMsg (callers pass a message only for Failed; an empty
// errMsg clears it).
func (s *Store) UpdateBatchStatus(id uint64, status domain.BatchStatus, errMsg string) (domain.SettlementBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, ok := s.state.Batches[id]
	if !ok {
		return domain.SettlementBatch{}, common.EntityNotFoundError{
			EntityType: "settlement_batch",
			Code:       constant.ErrBetNotFound.Error(),
			Title:      "Batch Not Found",
			Message:    fmt.Sprintf("No settlement batch exists with id %d", id),
		}
	}

	batch.Status = status
	batch.ErrorMessage = errMsg
	batch.UpdatedAt = time.Now().UTC()
	s.state.Batches[id] = batch

	if err := s.persistLocked(); err != nil {
		return domain.SettlementBatch{}, err
	}

	_ = s.checkpoint.RecordBatch(batch)

	return batch, nil
}

// StoreProof records proof bytes and transitions the batch to Proved.
func (s *Store) StoreProof(id uint64, proofBytes []byte) (domain.SettlementBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, ok := s.state.Batches[id]
	if !ok {
		return domain.SettlementBatch{}, common.EntityNotFoundError{
			EntityType: "settlement_batch",
			Code:       constant.ErrBetNotFound.Error(),
			Title:      "Batch Not Found",
			Message:    fmt.Sprintf("No settlement batch exists with id %d", id),
		}
	}

	batch.ProofBytes = proofBytes
	batch.Status = domain.BatchProved
	batch.UpdatedAt = time.Now().UTC()
	s.state.Batches[id] = batch

	if err := s.persistLocked(); err != nil {
		return domain.SettlementBatch{}, err
	}

	_ = s.checkpoint.RecordBatch(batch)

	return batch, nil
}

// StoreTransaction records the on-ledger transaction id and transitions the
// batch to Submitted.
func (s *Store) StoreTransaction(id uint64, txID string) (domain.SettlementBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, ok := s.state.Batches[id]
	if !ok {
		return domain.SettlementBatch{}, common.EntityNotFoundError{
			EntityType: "settlement_batch",
			Code:       constant.ErrBetNotFound.Error(),
			Title:      "Batch Not Found",
			Message:    fmt.Sprintf("No settlement batch exists with id %d", id),
		}
	}

	batch.TransactionID = txID
	batch.Status = domain.BatchSubmitted
	batch.UpdatedAt = time.Now().UTC()
	s.state.Batches[id] = batch

	if err := s.persistLocked(); err != nil {
		return domain.SettlementBatch{}, err
	}

	_ = s.checkpoint.RecordBatch(batch)

	return batch, nil
}

// IncrementRetryCount bumps id's retry counter and returns the new value.
func (s *Store) IncrementRetryCount(id uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, ok := s.state.Batches[id]
	if !ok {
		return 0, common.EntityNotFoundError{
			EntityType: "settlement_batch",
			Code:       constant.ErrBetNotFound.Error(),
			Title:      "Batch Not Found",
			Message:    fmt.Sprintf("No settlement batch exists with id %d", id),
		}
	}

	batch.RetryCount++
	batch.UpdatedAt = time.Now().UTC()
	s.state.Batches[id] = batch

	if err := s.persistLocked(); err != nil {
		return 0, err
	}

	_ = s.checkpoint.RecordBatch(batch)

	return batch.RetryCount, nil
}

// GetBatch returns the batch recorded under id.
func (s *Store) GetBatch(id uint64) (domain.SettlementBatch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.state.Batches[id]

	return b, ok
}

// GetPendingBatches returns every batch whose status still needs
// crash-recovery replay: Pending, Proving, Proved, or Submitted.
func (s *Store) GetPendingBatches() []domain.SettlementBatch {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.SettlementBatch, 0)

	for _, b := range s.state.Batches {
		if b.IsPendingReplay() {
			out = append(out, b)
		}
	}

	return out
}

// GetBatchesWithTransaction returns every batch that carries a transaction
// id (Submitted or Confirmed), the population C7's reconciliation sweep
// checks against the ledger.
func (s *Store) GetBatchesWithTransaction() []domain.SettlementBatch {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.SettlementBatch, 0)

	for _, b := range s.state.Batches {
		if b.TransactionID != "" {
			out = append(out, b)
		}
	}

	return out
}

// IsBetProcessed is an O(1) membership test against the durable dedup set.
func (s *Store) IsBetProcessed(betID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.state.ProcessedBetIDs[betID]

	return ok
}

// Close releases the secondary checkpoint index, if any.
func (s *Store) Close() error {
	return s.checkpoint.Close()
}
