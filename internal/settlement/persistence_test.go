package settlement

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reecen9696/casino-rollup/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.settlement.json")

	s, err := Open(path, nil)
	require.NoError(t, err)

	return s
}

func TestStore_CreateBatch_AssignsSequentialIDs(t *testing.T) {
	s := openTestStore(t)

	items := []domain.SettlementItem{{BetID: "bet-1", PlayerAddress: "alice", Amount: 100}}

	b1, err := s.CreateBatch(items)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), b1.BatchID)
	assert.Equal(t, domain.BatchPending, b1.Status)

	b2, err := s.CreateBatch(items)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), b2.BatchID)
}

func TestStore_CreateBatch_MarksBetsProcessed(t *testing.T) {
	s := openTestStore(t)

	items := []domain.SettlementItem{
		{BetID: "bet-1", PlayerAddress: "alice", Amount: 100},
		{BetID: "bet-2", PlayerAddress: "bob", Amount: 200},
	}

	_, err := s.CreateBatch(items)
	require.NoError(t, err)

	assert.True(t, s.IsBetProcessed("bet-1"))
	assert.True(t, s.IsBetProcessed("bet-2"))
	assert.False(t, s.IsBetProcessed("bet-3"))
}

func TestStore_StatusTransitions(t *testing.T) {
	s := openTestStore(t)

	b, err := s.CreateBatch([]domain.SettlementItem{{BetID: "bet-1", PlayerAddress: "alice", Amount: 100}})
	require.NoError(t, err)

	b, err = s.UpdateBatchStatus(b.BatchID, domain.BatchProving, "")
	require.NoError(t, err)
	assert.Equal(t, domain.BatchProving, b.Status)

	b, err = s.StoreProof(b.BatchID, []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, domain.BatchProved, b.Status)
	assert.Equal(t, []byte{1, 2, 3}, b.ProofBytes)

	b, err = s.StoreTransaction(b.BatchID, "tx-abc")
	require.NoError(t, err)
	assert.Equal(t, domain.BatchSubmitted, b.Status)
	assert.Equal(t, "tx-abc", b.TransactionID)

	b, err = s.UpdateBatchStatus(b.BatchID, domain.BatchConfirmed, "")
	require.NoError(t, err)
	assert.Equal(t, domain.BatchConfirmed, b.Status)
}

func TestStore_UpdateUnknownBatch(t *testing.T) {
	s := openTestStore(t)

	_, err := s.UpdateBatchStatus(999, domain.BatchFailed, "boom")
	require.Error(t, err)
}

func TestStore_IncrementRetryCount(t *testing.T) {
	s := openTestStore(t)

	b, err := s.CreateBatch([]domain.SettlementItem{{BetID: "bet-1", PlayerAddress: "alice", Amount: 100}})
	require.NoError(t, err)

	n, err := s.IncrementRetryCount(b.BatchID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.IncrementRetryCount(b.BatchID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_GetPendingBatches(t *testing.T) {
	s := openTestStore(t)

	pending, err := s.CreateBatch([]domain.SettlementItem{{BetID: "bet-1", PlayerAddress: "alice", Amount: 100}})
	require.NoError(t, err)

	confirmed, err := s.CreateBatch([]domain.SettlementItem{{BetID: "bet-2", PlayerAddress: "bob", Amount: 200}})
	require.NoError(t, err)
	_, err = s.UpdateBatchStatus(confirmed.BatchID, domain.BatchConfirmed, "")
	require.NoError(t, err)

	out := s.GetPendingBatches()
	require.Len(t, out, 1)
	assert.Equal(t, pending.BatchID, out[0].BatchID)
}

func TestStore_GetBatchesWithTransaction(t *testing.T) {
	s := openTestStore(t)

	noTx, err := s.CreateBatch([]domain.SettlementItem{{BetID: "bet-1", PlayerAddress: "alice", Amount: 100}})
	require.NoError(t, err)

	submitted, err := s.CreateBatch([]domain.SettlementItem{{BetID: "bet-2", PlayerAddress: "bob", Amount: 200}})
	require.NoError(t, err)
	_, err = s.StoreTransaction(submitted.BatchID, "tx-submitted")
	require.NoError(t, err)

	confirmed, err := s.CreateBatch([]domain.SettlementItem{{BetID: "bet-3", PlayerAddress: "carol", Amount: 300}})
	require.NoError(t, err)
	_, err = s.StoreTransaction(confirmed.BatchID, "tx-confirmed")
	require.NoError(t, err)
	_, err = s.UpdateBatchStatus(confirmed.BatchID, domain.BatchConfirmed, "")
	require.NoError(t, err)

	out := s.GetBatchesWithTransaction()

	ids := make(map[uint64]bool, len(out))
	for _, b := range out {
		ids[b.BatchID] = true
	}

	assert.Len(t, out, 2)
	assert.True(t, ids[submitted.BatchID])
	assert.True(t, ids[confirmed.BatchID])
	assert.False(t, ids[noTx.BatchID])
}

func TestStore_ReopenReplaysState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.settlement.json")

	s1, err := Open(path, nil)
	require.NoError(t, err)

	b, err := s1.CreateBatch([]domain.SettlementItem{{BetID: "bet-1", PlayerAddress: "alice", Amount: 100}})
	require.NoError(t, err)
	_, err = s1.StoreProof(b.BatchID, []byte{9, 9})
	require.NoError(t, err)

	s2, err := Open(path, nil)
	require.NoError(t, err)

	reopened, ok := s2.GetBatch(b.BatchID)
	require.True(t, ok)
	assert.Equal(t, domain.BatchProved, reopened.Status)
	assert.True(t, s2.IsBetProcessed("bet-1"))
}

func TestPathFromDatabaseURL(t *testing.T) {
	assert.Equal(t, "zkcasino.settlement.json", PathFromDatabaseURL("sqlite:zkcasino.db"))
	assert.Contains(t, PathFromDatabaseURL(sqliteMemoryPath), "settlement.json")
}
