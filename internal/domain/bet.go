package domain

import "time"

// Bet is a single resolved wager, immutable once created.
type Bet struct {
	ID            string    `json:"id"`
	PlayerAddress string    `json:"player_address"`
	Amount        uint64    `json:"amount"`
	Guess         bool      `json:"guess"`
	Result        bool      `json:"result"`
	Won           bool      `json:"won"`
	Payout        uint64    `json:"payout"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewBet computes Won and Payout from amount/guess/result, matching the
// payout law enforced again later at settlement time:
// payout == (guess == outcome ? 2*amount : 0).
func NewBet(id, address string, amount uint64, guess, result bool, ts time.Time) Bet {
	won := guess == result

	var payout uint64
	if won {
		payout = 2 * amount
	}

	return Bet{
		ID:            id,
		PlayerAddress: address,
		Amount:        amount,
		Guess:         guess,
		Result:        result,
		Won:           won,
		Payout:        payout,
		Timestamp:     ts,
	}
}

// SettlementItem is the projection of a Bet carried through the batching
// pipeline. It keeps guess/outcome (not just payout) so the on-ledger wire
// encoding can independently re-derive and check the payout law at encode
// time. PreBalance is the player's balance immediately before this bet was
// applied, captured atomically with the ledger mutation itself - the
// witness generator needs the true pre-bet balance, not whatever the live
// ledger holds once later bets in the same batch have already landed.
type SettlementItem struct {
	BetID         string    `json:"bet_id"`
	PlayerAddress string    `json:"player_address"`
	Amount        uint64    `json:"amount"`
	Guess         bool      `json:"guess"`
	Outcome       bool      `json:"outcome"`
	Payout        uint64    `json:"payout"`
	PreBalance    uint64    `json:"pre_balance"`
	Timestamp     time.Time `json:"timestamp"`
}

// Won reports whether the player's guess matched the outcome.
func (s SettlementItem) Won() bool { return s.Guess == s.Outcome }

// ExpectedPayout returns 2*amount if the item was won, else 0 - the payout law
// restated for anything downstream that only has a SettlementItem.
func (s SettlementItem) ExpectedPayout() uint64 {
	if s.Won() {
		return 2 * s.Amount
	}

	return 0
}

// SettlementItemFromBet projects a resolved bet into the shape the
// settlement pipeline carries. preBalance is the player's balance
// immediately before this bet was applied.
func SettlementItemFromBet(b Bet, preBalance uint64) SettlementItem {
	return SettlementItem{
		BetID:         b.ID,
		PlayerAddress: b.PlayerAddress,
		Amount:        b.Amount,
		Guess:         b.Guess,
		Outcome:       b.Result,
		Payout:        b.Payout,
		PreBalance:    preBalance,
		Timestamp:     b.Timestamp,
	}
}
