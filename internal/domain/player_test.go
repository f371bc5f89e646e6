package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPlayerProfile_ComputesWinRate(t *testing.T) {
	balance := PlayerBalance{Address: "alice", Balance: 5000}

	bets := []Bet{
		NewBet("bet-1", "alice", 1000, true, true, time.Now()),
		NewBet("bet-2", "alice", 1000, true, false, time.Now()),
		NewBet("bet-3", "alice", 1000, true, true, time.Now()),
	}

	profile := NewPlayerProfile(balance, bets)

	assert.Equal(t, 2, profile.WinCount)
	assert.Equal(t, 1, profile.LossCount)
	assert.InDelta(t, 2.0/3.0, profile.WinRate, 1e-9)
	assert.Equal(t, uint64(5000), profile.Balance)
}

func TestNewPlayerProfile_NoBetsHasZeroWinRate(t *testing.T) {
	profile := NewPlayerProfile(PlayerBalance{Address: "alice"}, nil)

	assert.Equal(t, 0, profile.WinCount)
	assert.Equal(t, 0, profile.LossCount)
	assert.Equal(t, float64(0), profile.WinRate)
}
