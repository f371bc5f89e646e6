// Package coordinator is C9: the single task that buffers settlement
// items, flushes them into batches by size or timer, and drives each batch
// through C6's state machine to the on-ledger verifier program.
package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/reecen9696/casino-rollup/common/mlog"
	"github.com/reecen9696/casino-rollup/internal/domain"
	"github.com/reecen9696/casino-rollup/internal/ledgerclient"
	"github.com/reecen9696/casino-rollup/internal/prover"
	"github.com/reecen9696/casino-rollup/internal/settlement"
	witnessgen "github.com/reecen9696/casino-rollup/internal/witness"
)

// Config tunes the buffer's flush thresholds: size 50, timer every 100ms
// by default.
type Config struct {
	FlushSize     int
	FlushInterval time.Duration
	MaxUsers      uint32

	// ZKProofsEnabled mirrors ENABLE_ZK_PROOFS. When false, prove skips the
	// Groth16 circuit entirely and stores a 64-byte zero proof instead, so
	// a batch can still progress to submission without a trusted setup.
	ZKProofsEnabled bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{FlushSize: 50, FlushInterval: 100 * time.Millisecond, MaxUsers: 1 << 16, ZKProofsEnabled: false}
}

// zeroProofSize is the placeholder proof length C7 submits when real
// proving is disabled, so a batch can still progress to submission.
const zeroProofSize = 64

// Coordinator is the sole consumer of the settlement channel and the sole
// writer to the settlement store.
type Coordinator struct {
	cfg Config

	items chan domain.SettlementItem

	store     *settlement.Store
	prover    *prover.Prover
	ledgerCli *ledgerclient.Client // nil when ENABLE_SOLANA is false

	stats  domain.SettlementStats
	logger mlog.Logger

	nonce uint64
	mu    sync.Mutex // guards nonce only
}

// New builds a Coordinator. ledgerCli may be nil, meaning submission is
// skipped and batches transition straight from Proved to Confirmed - the
// behavior ENABLE_SOLANA=false selects.
func New(cfg Config, store *settlement.Store, p *prover.Prover, ledgerCli *ledgerclient.Client, logger mlog.Logger) *Coordinator {
	if cfg.FlushSize <= 0 {
		cfg.FlushSize = 50
	}

	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 100 * time.Millisecond
	}

	return &Coordinator{
		cfg:       cfg,
		items:     make(chan domain.SettlementItem, cfg.FlushSize*4),
		store:     store,
		prover:    p,
		ledgerCli: ledgerCli,
		logger:    logger,
	}
}

// Enqueue submits item for batching. Duplicates (already-processed bet
// ids) are dropped with a warning rather than an error, since a resent bet
// must never settle twice.
func (c *Coordinator) Enqueue(item domain.SettlementItem) {
	if c.store.IsBetProcessed(item.BetID) {
		c.logger.Warnf("coordinator: dropping duplicate bet %s", item.BetID)
		return
	}

	c.items <- item
	c.stats.AddQueued(1)
}

// Stats exposes the non-authoritative counters /v1/settlement-stats serves.
func (c *Coordinator) Stats() domain.SettlementStats {
	return c.stats
}

// StatsSnapshot is a convenience wrapper for HTTP handlers.
func (c *Coordinator) StatsSnapshot() domain.Snapshot {
	return c.stats.Snapshot()
}

// Run is the coordinator's single task: it owns the only receiver of the
// settlement channel, buffers items, and flushes on size or timer. It
// blocks until ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) error {
	if err := c.recover(ctx); err != nil {
		c.logger.Errorf("coordinator: startup recovery failed: %v", err)
	}

	ticker := time.NewTicker(c.cfg.FlushInterval)
	defer ticker.Stop()

	buffer := make([]domain.SettlementItem, 0, c.cfg.FlushSize)

	for {
		select {
		case <-ctx.Done():
			if len(buffer) > 0 {
				c.flush(ctx, buffer)
			}

			return ctx.Err()

		case item, ok := <-c.items:
			if !ok {
				if len(buffer) > 0 {
					c.flush(ctx, buffer)
				}

				return nil
			}

			buffer = append(buffer, item)
			c.stats.SetItemsInCurrentBatch(len(buffer))

			if len(buffer) >= c.cfg.FlushSize {
				c.flush(ctx, buffer)
				buffer = buffer[:0]
				c.stats.SetItemsInCurrentBatch(0)
			}

		case <-ticker.C:
			if len(buffer) > 0 {
				c.flush(ctx, buffer)
				buffer = buffer[:0]
				c.stats.SetItemsInCurrentBatch(0)
			}
		}
	}
}

// NextNonce claims the next value of the process-wide bet-nonce counter.
// Uniqueness comes from the mutex-guarded increment alone - no ordering
// guarantee with any other state is implied or required.
func (c *Coordinator) NextNonce() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nonce++

	return c.nonce
}

// flush hands buffer to the store as a new batch and drives it through the
// state machine. Errors are logged; the batch stays in whatever state the
// failed step left it in. A batch whose proof generation failed is Failed
// and is not replayed; any other status is retried on the next startup
// recovery pass.
func (c *Coordinator) flush(ctx context.Context, buffer []domain.SettlementItem) {
	items := append([]domain.SettlementItem(nil), buffer...)

	batch, err := c.store.CreateBatch(items)
	if err != nil {
		c.logger.Errorf("coordinator: create batch failed: %v", err)
		return
	}

	c.driveBatch(ctx, batch)
	c.stats.MarkBatchProcessed()
}

// recover resumes every batch C6 reports as still needing replay, per
// the state machine's recovery table.
func (c *Coordinator) recover(ctx context.Context) error {
	pending := c.store.GetPendingBatches()
	if len(pending) == 0 {
		return nil
	}

	c.logger.Infof("coordinator: resuming %d pending batch(es) from startup recovery", len(pending))

	for _, batch := range pending {
		c.driveBatch(ctx, batch)
	}

	return nil
}

// driveBatch runs batch through however much of Pending -> Proving ->
// Proved -> Submitted -> Confirmed remains, starting from its current
// status. Each step is sequential. A proof-generation error marks the batch
// Failed; any other error leaves it at its current persisted status for a
// later retry.
func (c *Coordinator) driveBatch(ctx context.Context, batch domain.SettlementBatch) {
	status := batch.Status

	if status == domain.BatchPending || status == domain.BatchProving {
		proved, ok := c.prove(batch)
		if !ok {
			return
		}

		batch = proved
		status = batch.Status
	}

	if status == domain.BatchProved {
		submitted, ok := c.submit(ctx, batch)
		if !ok {
			return
		}

		batch = submitted
		status = batch.Status
	}

	if status == domain.BatchSubmitted {
		c.confirm(ctx, batch)
	}
}

func (c *Coordinator) prove(batch domain.SettlementBatch) (domain.SettlementBatch, bool) {
	if _, err := c.store.UpdateBatchStatus(batch.BatchID, domain.BatchProving, ""); err != nil {
		c.logger.Errorf("coordinator: mark proving failed for batch %d: %v", batch.BatchID, err)
		return domain.SettlementBatch{}, false
	}

	var frame []byte

	if c.cfg.ZKProofsEnabled {
		balances := c.currentBalances(batch.Items)

		proof, err := c.prover.Prove(uint32(batch.BatchID), batch.Items, balances, uint64(time.Now().Unix()))
		if err != nil {
			c.logger.Errorf("coordinator: proof generation failed for batch %d: %v", batch.BatchID, err)

			if _, uerr := c.store.UpdateBatchStatus(batch.BatchID, domain.BatchFailed, err.Error()); uerr != nil {
				c.logger.Errorf("coordinator: record proof failure for batch %d: %v", batch.BatchID, uerr)
			}

			return domain.SettlementBatch{}, false
		}

		frame = proverEncodeFrame(proof)
	} else {
		frame = zeroProofFrame(uint32(batch.BatchID), uint64(time.Now().Unix()))
	}

	updated, err := c.store.StoreProof(batch.BatchID, frame)
	if err != nil {
		c.logger.Errorf("coordinator: store proof failed for batch %d: %v", batch.BatchID, err)
		return domain.SettlementBatch{}, false
	}

	return updated, true
}

func (c *Coordinator) submit(ctx context.Context, batch domain.SettlementBatch) (domain.SettlementBatch, bool) {
	if c.ledgerCli == nil {
		// ENABLE_SOLANA=false: treat locally-proved batches as settled.
		updated, err := c.store.UpdateBatchStatus(batch.BatchID, domain.BatchConfirmed, "")
		if err != nil {
			c.logger.Errorf("coordinator: confirm (no-ledger) failed for batch %d: %v", batch.BatchID, err)
			return domain.SettlementBatch{}, false
		}

		return updated, false // already confirmed; nothing left to drive
	}

	data, proofBytes, err := toLedgerSettlement(batch)
	if err != nil {
		c.logger.Errorf("coordinator: encode settlement failed for batch %d: %v", batch.BatchID, err)
		return domain.SettlementBatch{}, false
	}

	txID, err := c.ledgerCli.Submit(ctx, data, proofBytes)
	if err != nil {
		if _, rerr := c.store.IncrementRetryCount(batch.BatchID); rerr != nil {
			c.logger.Errorf("coordinator: increment retry count failed for batch %d: %v", batch.BatchID, rerr)
		}

		c.logger.Errorf("coordinator: submission failed for batch %d, remains Proved for retry: %v", batch.BatchID, err)

		return domain.SettlementBatch{}, false
	}

	updated, err := c.store.StoreTransaction(batch.BatchID, txID)
	if err != nil {
		c.logger.Errorf("coordinator: store transaction id failed for batch %d: %v", batch.BatchID, err)
		return domain.SettlementBatch{}, false
	}

	return updated, true
}

func (c *Coordinator) confirm(ctx context.Context, batch domain.SettlementBatch) {
	if c.ledgerCli == nil {
		return
	}

	confirmed, err := c.ledgerCli.IsConfirmed(ctx, batch.TransactionID)
	if err != nil {
		c.logger.Errorf("coordinator: confirmation check failed for batch %d: %v", batch.BatchID, err)
		return
	}

	if !confirmed {
		return
	}

	if _, err := c.store.UpdateBatchStatus(batch.BatchID, domain.BatchConfirmed, ""); err != nil {
		c.logger.Errorf("coordinator: mark confirmed failed for batch %d: %v", batch.BatchID, err)
	}
}

// currentBalances builds the pre-batch balance snapshot the witness
// generator needs to compute conservation-consistent deltas. Each address's
// balance comes from that address's first item in the batch: PreBalance was
// captured atomically with the ledger mutation at settlement time, so it
// reflects the address's true balance immediately before this batch's bets
// were applied - reading the live ledger here instead would double-count
// every bet already folded into it by the time the batch flushes.
func (c *Coordinator) currentBalances(items []domain.SettlementItem) witnessgen.Balances {
	byAddress := make(map[string]uint64, len(items))

	for _, item := range items {
		if _, ok := byAddress[item.PlayerAddress]; ok {
			continue
		}

		byAddress[item.PlayerAddress] = item.PreBalance
	}

	return witnessgen.Balances{ByAddress: byAddress, House: houseReserve}
}

// houseReserve is a fixed notional house bankroll used only to size the
// conservation circuit's public inputs; the real on-ledger vault balance is
// tracked by the verifier program, not by this sequencer.
const houseReserve = 1 << 40
