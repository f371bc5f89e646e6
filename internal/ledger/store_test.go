package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reecen9696/casino-rollup/common"
	"github.com/reecen9696/casino-rollup/internal/domain"
)

func TestStore_DepositAndWithdraw(t *testing.T) {
	s := NewStore()

	bal := s.Deposit("alice", 10000)
	assert.Equal(t, uint64(10000), bal.Balance)
	assert.Equal(t, uint64(10000), bal.TotalDeposited)

	bal, err := s.Withdraw("alice", 4000)
	require.NoError(t, err)
	assert.Equal(t, uint64(6000), bal.Balance)
	assert.Equal(t, uint64(4000), bal.TotalWithdrawn)
}

func TestStore_WithdrawUnknownPlayer(t *testing.T) {
	s := NewStore()

	_, err := s.Withdraw("nobody", 100)
	require.Error(t, err)
	assert.IsType(t, common.EntityNotFoundError{}, err)
}

func TestStore_WithdrawInsufficientBalance(t *testing.T) {
	s := NewStore()

	s.Deposit("alice", 500)

	_, err := s.Withdraw("alice", 1000)
	require.Error(t, err)

	var conflict common.EntityConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, uint64(1000), conflict.Required)
	assert.Equal(t, uint64(500), conflict.Available)
}

func TestStore_UpdateBalanceAfterBet_Win(t *testing.T) {
	s := NewStore()

	s.Deposit("alice", 10000)

	bal, pre, err := s.UpdateBalanceAfterBet("alice", 5000, 10000)
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), pre)
	assert.Equal(t, uint64(15000), bal.Balance)
	assert.Equal(t, uint64(5000), bal.TotalWagered)
	assert.Equal(t, uint64(10000), bal.TotalWon)
}

func TestStore_UpdateBalanceAfterBet_Loss(t *testing.T) {
	s := NewStore()

	s.Deposit("alice", 10000)

	bal, pre, err := s.UpdateBalanceAfterBet("alice", 5000, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), pre)
	assert.Equal(t, uint64(5000), bal.Balance)
	assert.Equal(t, uint64(5000), bal.TotalWagered)
	assert.Equal(t, uint64(0), bal.TotalWon)
}

func TestStore_CreatePlayerBalance_Conflict(t *testing.T) {
	s := NewStore()

	_, err := s.CreatePlayerBalance("alice", 0)
	require.NoError(t, err)

	_, err = s.CreatePlayerBalance("alice", 0)
	require.Error(t, err)
	assert.IsType(t, common.EntityConflictError{}, err)
}

func TestStore_SaveBetIdempotent(t *testing.T) {
	s := NewStore()

	bet := domain.NewBet("bet-1", "alice", 5000, true, true, time.Now())
	s.SaveBet(bet)
	s.SaveBet(bet)

	bets := s.GetPlayerBets("alice", 0)
	require.Len(t, bets, 1)
}

func TestStore_GetRecentBets_OrderedByTimestampDesc(t *testing.T) {
	s := NewStore()

	base := time.Now()
	s.SaveBet(domain.NewBet("bet-1", "alice", 1000, true, true, base))
	s.SaveBet(domain.NewBet("bet-2", "bob", 1000, true, true, base.Add(time.Second)))
	s.SaveBet(domain.NewBet("bet-3", "alice", 1000, true, true, base.Add(2*time.Second)))

	recent := s.GetRecentBets(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "bet-3", recent[0].ID)
	assert.Equal(t, "bet-2", recent[1].ID)
	assert.Equal(t, "bet-1", recent[2].ID)
}

func TestStore_GetRecentBets_RespectsLimit(t *testing.T) {
	s := NewStore()

	base := time.Now()
	for i := 0; i < 5; i++ {
		id := "bet-" + string(rune('a'+i))
		s.SaveBet(domain.NewBet(id, "alice", 1000, true, true, base.Add(time.Duration(i)*time.Second)))
	}

	recent := s.GetRecentBets(2)
	assert.Len(t, recent, 2)
}
