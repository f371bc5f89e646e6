// Package circuit is C3: the R1CS circuit proving a fixed-shape batch of
// bets conserves funds. Shape is fixed at construction time by MaxBatchSize
// and MaxUsers, matching gnark's frontend.Circuit convention of sizing
// slices in the struct rather than at Define time.
package circuit

import (
	"github.com/consensys/gnark/frontend"
)

// BetWitness is one private-input position: a single bet's user, amount,
// guess, and outcome.
type BetWitness struct {
	UserID  frontend.Variable
	Amount  frontend.Variable
	Guess   frontend.Variable // boolean: 1 = heads, 0 = tails
	Outcome frontend.Variable // boolean: 1 = heads, 0 = tails
}

// AccountingCircuit proves that, given a batch of at most MaxBatchSize bets
// over MaxUsers accounts, the public final balances are exactly what the
// private bets' payouts imply from the public initial balances, and that no
// value was created or destroyed (house absorbs every player's delta).
type AccountingCircuit struct {
	// Private inputs.
	Bets []BetWitness

	// Public inputs, in the circuit's fixed order.
	BatchID         frontend.Variable `gnark:",public"`
	InitialBalances []frontend.Variable `gnark:",public"`
	FinalBalances   []frontend.Variable `gnark:",public"`
	HouseInitial    frontend.Variable   `gnark:",public"`
	HouseFinal      frontend.Variable   `gnark:",public"`

	maxBatchSize int
	maxUsers     int
}

// NewCircuit allocates an AccountingCircuit shaped for maxBatchSize bets
// over maxUsers accounts, with every slice pre-sized so frontend.Compile
// knows the constraint count up front.
func NewCircuit(maxBatchSize, maxUsers int) *AccountingCircuit {
	return &AccountingCircuit{
		Bets:            make([]BetWitness, maxBatchSize),
		InitialBalances: make([]frontend.Variable, maxUsers),
		FinalBalances:   make([]frontend.Variable, maxUsers),
		maxBatchSize:    maxBatchSize,
		maxUsers:        maxUsers,
	}
}

// Define lays out the circuit's constraints. Booleanity
// and the win indicator are necessary but not sufficient - conservation
// must itself be a constraint, not merely a witness-generator-side check,
// or a malicious prover could submit balances that don't follow from the
// bets at all.
func (c *AccountingCircuit) Define(api frontend.API) error {
	maxUsers := len(c.InitialBalances)

	userDeltas := make([]frontend.Variable, maxUsers)
	for u := range userDeltas {
		userDeltas[u] = frontend.Variable(0)
	}

	totalDelta := frontend.Variable(0)

	for i, bet := range c.Bets {
		api.AssertIsBoolean(bet.Guess)
		api.AssertIsBoolean(bet.Outcome)

		// won = XNOR(guess, outcome) = 1 - guess - outcome + 2*guess*outcome
		won := api.Sub(1, api.Add(bet.Guess, bet.Outcome))
		won = api.Add(won, api.Mul(2, api.Mul(bet.Guess, bet.Outcome)))

		// delta = amount * (2*won - 1): +amount if won, -amount if lost.
		sign := api.Sub(api.Mul(2, won), 1)
		delta := api.Mul(bet.Amount, sign)

		totalDelta = api.Add(totalDelta, delta)

		// Scatter delta into the bet's user slot via a one-hot selector,
		// since gnark has no native dynamic array index.
		for u := 0; u < maxUsers; u++ {
			isUser := api.IsZero(api.Sub(bet.UserID, u))
			contribution := api.Mul(isUser, delta)
			userDeltas[u] = api.Add(userDeltas[u], contribution)
		}

		_ = i
	}

	for u := 0; u < maxUsers; u++ {
		// final - initial == sum of this user's deltas
		diff := api.Sub(c.FinalBalances[u], c.InitialBalances[u])
		api.AssertIsEqual(diff, userDeltas[u])
	}

	// house_final - house_initial == -sum(all deltas)
	houseDiff := api.Sub(c.HouseFinal, c.HouseInitial)
	api.AssertIsEqual(houseDiff, api.Neg(totalDelta))

	return nil
}

// MaxBatchSize returns the circuit's compile-time bet capacity.
func (c *AccountingCircuit) MaxBatchSize() int { return len(c.Bets) }

// MaxUsers returns the circuit's compile-time account capacity.
func (c *AccountingCircuit) MaxUsers() int { return len(c.InitialBalances) }
