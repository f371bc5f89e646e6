package domain

// BatchSettlementData is the on-ledger payload for one settled batch,
// serialised for the on-ledger verifier program:
// batch_id:u64_le | sequencer_nonce:u64_le | n:u32_le | BetSettlement·n
type BatchSettlementData struct {
	BatchID        uint64
	SequencerNonce uint64
	Bets           []BetSettlement
}

// BetSettlement is one encoded bet within a BatchSettlementData. Its layout
// is fixed: bet_id:u64_le | user:32 | bet_amount:u64_le | user_guess:u8 |
// outcome:u8 | payout:u64_le. user is the 32-byte on-ledger address; when the
// player address isn't a valid base58 32-byte key it's replaced by the
// SHA-256 of the address string (see coordinator's foldAddress).
type BetSettlement struct {
	BetID     uint64
	User      [32]byte
	BetAmount uint64
	UserGuess bool
	Outcome   bool
	Payout    uint64
}

// SatisfiesPayoutLaw checks payout == (guess == outcome ? 2*bet_amount : 0),
// independently of whatever produced the BetSettlement.
func (b BetSettlement) SatisfiesPayoutLaw() bool {
	if b.UserGuess == b.Outcome {
		return b.Payout == 2*b.BetAmount
	}

	return b.Payout == 0
}

// ReconciliationEntry is one persisted batch's on-ledger status as observed
// by C7's reconciliation sweep.
type ReconciliationEntry struct {
	BatchID       uint64 `json:"batch_id"`
	TransactionID string `json:"transaction_id"`
	LocalStatus   BatchStatus `json:"local_status"`
	Confirmed     bool   `json:"confirmed"`
	Discrepancy   string `json:"discrepancy,omitempty"`
}

// ReconciliationReport summarises a sweep of every persisted batch that
// carries a transaction id against what the ledger actually reports.
type ReconciliationReport struct {
	Checked       int                   `json:"checked"`
	Confirmed     int                   `json:"confirmed"`
	Pending       int                   `json:"pending"`
	Discrepancies []ReconciliationEntry `json:"discrepancies"`
}
