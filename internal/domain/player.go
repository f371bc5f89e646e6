// Package domain holds the types shared across every component: player
// balances, bets, settlement items and batches, and the circuit-facing views
// derived from them. No component owns another component's struct; they
// pass these by value or by opaque id.
package domain

import "time"

// PlayerBalance is C1's row for a single address. balance must always equal
// total_deposited - total_withdrawn - total_wagered + total_won.
type PlayerBalance struct {
	Address        string    `json:"address"`
	Balance        uint64    `json:"balance"`
	TotalDeposited uint64    `json:"total_deposited"`
	TotalWithdrawn uint64    `json:"total_withdrawn"`
	TotalWagered   uint64    `json:"total_wagered"`
	TotalWon       uint64    `json:"total_won"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PlayerProfile is the read-model served by /v1/balance/{address}: the raw
// balance row plus win/loss counts derived from the player's bet history.
// WinRate is 0 for a player with no resolved bets.
type PlayerProfile struct {
	PlayerBalance
	WinCount  int     `json:"win_count"`
	LossCount int     `json:"loss_count"`
	WinRate   float64 `json:"win_rate"`
}

// NewPlayerProfile builds a PlayerProfile from a balance row and the
// player's full bet history.
func NewPlayerProfile(balance PlayerBalance, bets []Bet) PlayerProfile {
	var wins, losses int

	for _, b := range bets {
		if b.Won {
			wins++
		} else {
			losses++
		}
	}

	var winRate float64
	if total := wins + losses; total > 0 {
		winRate = float64(wins) / float64(total)
	}

	return PlayerProfile{
		PlayerBalance: balance,
		WinCount:      wins,
		LossCount:     losses,
		WinRate:       winRate,
	}
}
