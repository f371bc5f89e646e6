package witness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reecen9696/casino-rollup/common"
	"github.com/reecen9696/casino-rollup/internal/domain"
)

func TestGenerator_EmptyBatch(t *testing.T) {
	g := NewGenerator(4, 8)

	_, err := g.Generate(1, nil, Balances{ByAddress: map[string]uint64{}}, 0)
	require.Error(t, err)
	assert.IsType(t, common.ValidationError{}, err)
}

func TestGenerator_BatchTooLarge(t *testing.T) {
	g := NewGenerator(1, 8)

	items := []domain.SettlementItem{
		{PlayerAddress: "a", Amount: 100, Guess: true, Outcome: true},
		{PlayerAddress: "b", Amount: 100, Guess: true, Outcome: true},
	}

	_, err := g.Generate(1, items, Balances{ByAddress: map[string]uint64{"a": 1000, "b": 1000}}, 0)
	require.Error(t, err)
}

func TestGenerator_UnknownUser(t *testing.T) {
	g := NewGenerator(4, 8)

	items := []domain.SettlementItem{{PlayerAddress: "ghost", Amount: 100, Guess: true, Outcome: true}}

	_, err := g.Generate(1, items, Balances{ByAddress: map[string]uint64{}}, 0)
	require.Error(t, err)
}

func TestGenerator_ConservationAcrossBatch(t *testing.T) {
	// 17 users: "a", "b" and "c" fold to distinct slots (with 16, "a" and
	// "b" would share one).
	g := NewGenerator(4, 17)

	items := []domain.SettlementItem{
		{PlayerAddress: "a", Amount: 5000, Guess: true, Outcome: true},  // win +5000
		{PlayerAddress: "b", Amount: 8000, Guess: true, Outcome: false}, // loss -8000
		{PlayerAddress: "c", Amount: 3000, Guess: true, Outcome: true},  // win +3000
	}

	balances := Balances{
		ByAddress: map[string]uint64{"a": 20000, "b": 25000, "c": 18000},
		House:     100000,
	}

	cb, err := g.Generate(1, items, balances, 1234)
	require.NoError(t, err)

	userA := FoldUserID("a", 17)
	userB := FoldUserID("b", 17)
	userC := FoldUserID("c", 17)

	assert.Equal(t, uint64(25000), cb.FinalBalances[userA])
	assert.Equal(t, uint64(17000), cb.FinalBalances[userB])
	assert.Equal(t, uint64(21000), cb.FinalBalances[userC])

	// house absorbed the net of all player deltas: +5000 -8000 +3000 = 0
	assert.Equal(t, cb.HouseInitialBalance, cb.HouseFinalBalance)

	require.Len(t, cb.Items, 4) // padded to max_batch_size
	assert.Equal(t, domain.DummyCircuitBet, cb.Items[3])
}

func TestGenerator_InsufficientBalance(t *testing.T) {
	g := NewGenerator(4, 8)

	items := []domain.SettlementItem{{PlayerAddress: "a", Amount: 1000, Guess: true, Outcome: true}}

	_, err := g.Generate(1, items, Balances{ByAddress: map[string]uint64{"a": 500}}, 0)
	require.Error(t, err)

	var conflict common.EntityConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestGenerator_RunningBalanceAcrossSameUserBets(t *testing.T) {
	g := NewGenerator(4, 8)

	items := []domain.SettlementItem{
		{PlayerAddress: "a", Amount: 1000, Guess: true, Outcome: true},  // win +1000, running 11000
		{PlayerAddress: "a", Amount: 500, Guess: true, Outcome: false},  // loss -500, running 10500
	}

	cb, err := g.Generate(1, items, Balances{ByAddress: map[string]uint64{"a": 10000}, House: 100000}, 0)
	require.NoError(t, err)

	userA := FoldUserID("a", 8)
	assert.Equal(t, uint64(10000), cb.InitialBalances[userA])
	assert.Equal(t, uint64(10500), cb.FinalBalances[userA])
}

// TestGenerator_InsufficientBalanceWithinBatch guards against checking a
// later bet for the same user against the batch's static initial balance
// instead of what that user actually has left after earlier bets in the
// same batch have already been applied.
func TestGenerator_InsufficientBalanceWithinBatch(t *testing.T) {
	g := NewGenerator(4, 8)

	items := []domain.SettlementItem{
		{PlayerAddress: "a", Amount: 800, Guess: true, Outcome: false}, // loss -800, running 200
		{PlayerAddress: "a", Amount: 500, Guess: true, Outcome: false}, // 500 > running 200
	}

	_, err := g.Generate(1, items, Balances{ByAddress: map[string]uint64{"a": 1000}}, 0)
	require.Error(t, err)

	var conflict common.EntityConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, uint64(200), conflict.Available)
}

func TestFoldUserID_Base58AndFallbackBothInRange(t *testing.T) {
	id1 := FoldUserID("4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T", 1000)
	assert.Less(t, id1, uint32(1000))

	id2 := FoldUserID("not-a-valid-pubkey", 1000)
	assert.Less(t, id2, uint32(1000))
}
