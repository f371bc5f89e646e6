package coordinator

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reecen9696/casino-rollup/common/mlog"
	"github.com/reecen9696/casino-rollup/internal/domain"
	"github.com/reecen9696/casino-rollup/internal/prover"
	"github.com/reecen9696/casino-rollup/internal/settlement"
)

func newTestCoordinator(t *testing.T) (*Coordinator, *settlement.Store) {
	t.Helper()

	store, err := settlement.Open(filepath.Join(t.TempDir(), "test.settlement.json"), nil)
	require.NoError(t, err)

	p := prover.New(4, 8)
	require.NoError(t, p.Setup())

	c := New(Config{FlushSize: 2, FlushInterval: 20 * time.Millisecond, ZKProofsEnabled: true}, store, p, nil, &mlog.NoneLogger{})

	return c, store
}

func TestCoordinator_FlushOnSize(t *testing.T) {
	c, store := newTestCoordinator(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	c.Enqueue(domain.SettlementItem{BetID: "bet-1", PlayerAddress: "alice", Amount: 1000, Guess: true, Outcome: true, Payout: 2000, PreBalance: 10000})
	c.Enqueue(domain.SettlementItem{BetID: "bet-2", PlayerAddress: "bob", Amount: 1000, Guess: true, Outcome: false, Payout: 0, PreBalance: 10000})

	require.Eventually(t, func() bool {
		return store.IsBetProcessed("bet-1") && store.IsBetProcessed("bet-2")
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestCoordinator_DedupDropsReenqueuedBet(t *testing.T) {
	c, store := newTestCoordinator(t)

	_, err := store.CreateBatch([]domain.SettlementItem{{BetID: "bet-1", PlayerAddress: "alice", Amount: 1000}})
	require.NoError(t, err)

	assert.True(t, store.IsBetProcessed("bet-1"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	c.Enqueue(domain.SettlementItem{BetID: "bet-1", PlayerAddress: "alice", Amount: 1000})

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	batch, ok := store.GetBatch(1)
	require.True(t, ok)
	assert.Len(t, batch.Items, 1)
}

func TestCoordinator_ZKProofsDisabled_SubmitsZeroProof(t *testing.T) {
	store, err := settlement.Open(filepath.Join(t.TempDir(), "zerotest.settlement.json"), nil)
	require.NoError(t, err)

	// An un-setup Prover: the zero-proof path must never call into it.
	p := prover.New(4, 8)

	c := New(Config{FlushSize: 1, FlushInterval: 20 * time.Millisecond, ZKProofsEnabled: false}, store, p, nil, &mlog.NoneLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	c.Enqueue(domain.SettlementItem{BetID: "bet-1", PlayerAddress: "alice", Amount: 1000, Guess: true, Outcome: true, Payout: 2000, PreBalance: 10000})

	require.Eventually(t, func() bool {
		b, ok := store.GetBatch(1)
		return ok && b.Status == domain.BatchConfirmed
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	batch, ok := store.GetBatch(1)
	require.True(t, ok)
	assert.Len(t, batch.ProofBytes, 4+8+4+4+64) // batch_id+timestamp+input_count+proof_len+64 zero bytes
}

func TestCoordinator_NextNonceIsMonotoneAndUnique(t *testing.T) {
	c, _ := newTestCoordinator(t)

	seen := make(map[uint64]bool)
	var prev uint64
	for i := 0; i < 100; i++ {
		n := c.NextNonce()
		assert.False(t, seen[n])
		assert.Greater(t, n, prev)
		seen[n] = true
		prev = n
	}
}

func TestCoordinator_NoLedgerClient_ConfirmsDirectlyAfterProof(t *testing.T) {
	c, store := newTestCoordinator(t)

	c.Enqueue(domain.SettlementItem{BetID: "bet-1", PlayerAddress: "alice", Amount: 1000, Guess: true, Outcome: true, Payout: 2000, PreBalance: 10000})
	c.Enqueue(domain.SettlementItem{BetID: "bet-2", PlayerAddress: "alice", Amount: 1000, Guess: true, Outcome: false, Payout: 0, PreBalance: 12000})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		b, ok := store.GetBatch(1)
		return ok && b.Status == domain.BatchConfirmed
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

// TestCoordinator_BalancesSourcedFromPreBalanceNotLiveLedger guards against
// reintroducing the double-counting bug: currentBalances must use each
// item's own PreBalance, not a live re-read, so a batch with more than one
// bet per address still witnesses against the address's true starting
// balance for the batch.
func TestCoordinator_BalancesSourcedFromPreBalanceNotLiveLedger(t *testing.T) {
	c, _ := newTestCoordinator(t)

	items := []domain.SettlementItem{
		{BetID: "bet-1", PlayerAddress: "alice", Amount: 1000, Guess: true, Outcome: true, Payout: 2000, PreBalance: 10000},
		{BetID: "bet-2", PlayerAddress: "alice", Amount: 500, Guess: true, Outcome: false, Payout: 0, PreBalance: 12000},
	}

	balances := c.currentBalances(items)
	assert.Equal(t, uint64(10000), balances.ByAddress["alice"])
}
