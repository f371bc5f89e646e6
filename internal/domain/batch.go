package domain

import "time"

// BatchStatus is a position in C9's settlement state machine.
type BatchStatus string

const (
	BatchPending   BatchStatus = "pending"
	BatchProving   BatchStatus = "proving"
	BatchProved    BatchStatus = "proved"
	BatchSubmitted BatchStatus = "submitted"
	BatchConfirmed BatchStatus = "confirmed"
	BatchFailed    BatchStatus = "failed"
)

// SettlementBatch is a durable, crash-recoverable unit of settlement work.
type SettlementBatch struct {
	BatchID       uint64          `json:"batch_id"`
	Status        BatchStatus     `json:"status"`
	Items         []SettlementItem `json:"items"`
	ProofBytes    []byte          `json:"proof_bytes,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	RetryCount    int             `json:"retry_count"`
	ErrorMessage  string          `json:"error_message,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BetIDs returns the bet ids carried by the batch, in item order.
func (b SettlementBatch) BetIDs() []string {
	ids := make([]string, len(b.Items))
	for i, item := range b.Items {
		ids[i] = item.BetID
	}

	return ids
}

// IsPendingReplay reports whether a batch recovered at startup still needs
// to be driven through the state machine's recovery pass.
func (b SettlementBatch) IsPendingReplay() bool {
	switch b.Status {
	case BatchPending, BatchProving, BatchProved, BatchSubmitted:
		return true
	default:
		return false
	}
}

// CircuitBet is one private-input position of the accounting circuit.
type CircuitBet struct {
	UserID  uint32
	Amount  uint64
	Guess   bool
	Outcome bool
}

// DummyCircuitBet is the padding value for positions beyond the real batch
// length: a bet that lost nothing to nobody.
var DummyCircuitBet = CircuitBet{UserID: 0, Amount: 0, Guess: true, Outcome: false}

// CircuitBatch is the witness generator's output: everything the proof
// generator needs to extract public inputs and build a witness.
type CircuitBatch struct {
	BatchID             uint32
	Items               []CircuitBet
	InitialBalances     []uint64 // indexed by user_id, length == max_users
	FinalBalances       []uint64 // indexed by user_id, length == max_users
	HouseInitialBalance uint64
	HouseFinalBalance   uint64
	Timestamp           uint64
}
