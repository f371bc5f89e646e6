package witness

import (
	"github.com/reecen9696/casino-rollup/common"
	"github.com/reecen9696/casino-rollup/common/constant"
	"github.com/reecen9696/casino-rollup/internal/domain"
)

// Generator validates settlement batches and produces CircuitBatches shaped
// for a specific (maxBatchSize, maxUsers) circuit.
type Generator struct {
	maxBatchSize int
	maxUsers     uint32
}

// NewGenerator builds a Generator for the given circuit shape.
func NewGenerator(maxBatchSize int, maxUsers uint32) *Generator {
	return &Generator{maxBatchSize: maxBatchSize, maxUsers: maxUsers}
}

// Balances is the initial-balance snapshot a batch is witnessed against:
// player address to balance, plus the house's balance.
type Balances struct {
	ByAddress map[string]uint64
	House     uint64
}

// Generate validates items against balances and emits the circuit-facing
// batch, or one of the typed validation errors.
func (g *Generator) Generate(batchID uint32, items []domain.SettlementItem, balances Balances, timestamp uint64) (domain.CircuitBatch, error) {
	if len(items) == 0 {
		return domain.CircuitBatch{}, common.ValidationError{
			EntityType: "settlement_batch",
			Code:       constant.ErrEmptyBatch.Error(),
			Title:      "Empty Batch",
			Message:    "A settlement batch must contain at least one item.",
		}
	}

	if len(items) > g.maxBatchSize {
		return domain.CircuitBatch{}, common.ValidationError{
			EntityType: "settlement_batch",
			Code:       constant.ErrBatchTooLarge.Error(),
			Title:      "Batch Too Large",
			Message:    "The settlement batch exceeds the circuit's maximum batch size.",
		}
	}

	initial := make([]uint64, g.maxUsers)
	running := make(map[uint32]uint64, len(items))
	seen := make(map[uint32]bool, len(items))

	circuitBets := make([]domain.CircuitBet, 0, len(items))

	var houseDelta int64

	for _, item := range items {
		userID := FoldUserID(item.PlayerAddress, g.maxUsers)
		if userID >= g.maxUsers {
			return domain.CircuitBatch{}, common.ValidationError{
				EntityType: "settlement_batch",
				Code:       constant.ErrUnknownUser.Error(),
				Title:      "Unknown User",
				Message:    "One or more bets reference a user outside the circuit's user space.",
			}
		}

		balance, ok := balances.ByAddress[item.PlayerAddress]
		if !ok {
			return domain.CircuitBatch{}, common.ValidationError{
				EntityType: "settlement_batch",
				Code:       constant.ErrUnknownUser.Error(),
				Title:      "Unknown User",
				Message:    "One or more bets reference a user not present in the initial-balance snapshot.",
			}
		}

		if !seen[userID] {
			initial[userID] = balance
			running[userID] = balance
			seen[userID] = true
		}

		if item.Amount > running[userID] {
			return domain.CircuitBatch{}, common.NewInsufficientBalanceError("settlement_batch", item.Amount, running[userID])
		}

		delta := int64(item.Amount)
		if !item.Won() {
			delta = -delta
		}

		running[userID] = applyDelta(running[userID], delta)
		houseDelta -= delta

		circuitBets = append(circuitBets, domain.CircuitBet{
			UserID:  userID,
			Amount:  item.Amount,
			Guess:   item.Guess,
			Outcome: item.Outcome,
		})
	}

	for len(circuitBets) < g.maxBatchSize {
		circuitBets = append(circuitBets, domain.DummyCircuitBet)
	}

	final := make([]uint64, g.maxUsers)
	copy(final, initial)

	for userID, balance := range running {
		final[userID] = balance
	}

	houseFinal := applyDelta(balances.House, houseDelta)

	return domain.CircuitBatch{
		BatchID:             batchID,
		Items:               circuitBets,
		InitialBalances:     initial,
		FinalBalances:       final,
		HouseInitialBalance: balances.House,
		HouseFinalBalance:   houseFinal,
		Timestamp:           timestamp,
	}, nil
}

// applyDelta computes initial+delta under the invariant (already enforced
// by the balance check above) that initial >= |delta| when delta is
// negative.
func applyDelta(initial uint64, delta int64) uint64 {
	if delta >= 0 {
		return initial + uint64(delta)
	}

	return initial - uint64(-delta)
}
