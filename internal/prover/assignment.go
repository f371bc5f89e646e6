package prover

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"

	"github.com/reecen9696/casino-rollup/internal/circuit"
	"github.com/reecen9696/casino-rollup/internal/domain"
)

// toAssignment builds a fully-populated AccountingCircuit from a C4 output,
// plus the serialised public inputs, in the exact order the circuit fixes:
// batch_id, initial_balances[], final_balances[], house_initial, house_final.
func toAssignment(cb domain.CircuitBatch, maxBatchSize, maxUsers int) (*circuit.AccountingCircuit, [][]byte, error) {
	if len(cb.Items) != maxBatchSize {
		return nil, nil, fmt.Errorf("witness batch has %d items, circuit expects %d", len(cb.Items), maxBatchSize)
	}

	if len(cb.InitialBalances) != maxUsers || len(cb.FinalBalances) != maxUsers {
		return nil, nil, fmt.Errorf("witness balances length mismatch with max_users=%d", maxUsers)
	}

	assignment := circuit.NewCircuit(maxBatchSize, maxUsers)

	for i, bet := range cb.Items {
		assignment.Bets[i] = circuit.BetWitness{
			UserID:  bet.UserID,
			Amount:  bet.Amount,
			Guess:   boolToVar(bet.Guess),
			Outcome: boolToVar(bet.Outcome),
		}
	}

	publicInputs := make([][]byte, 0, 1+2*maxUsers+2)

	assignment.BatchID = cb.BatchID
	publicInputs = append(publicInputs, uintToBytes(uint64(cb.BatchID)))

	for u := 0; u < maxUsers; u++ {
		assignment.InitialBalances[u] = cb.InitialBalances[u]
		publicInputs = append(publicInputs, uintToBytes(cb.InitialBalances[u]))
	}

	for u := 0; u < maxUsers; u++ {
		assignment.FinalBalances[u] = cb.FinalBalances[u]
		publicInputs = append(publicInputs, uintToBytes(cb.FinalBalances[u]))
	}

	assignment.HouseInitial = cb.HouseInitialBalance
	publicInputs = append(publicInputs, uintToBytes(cb.HouseInitialBalance))

	assignment.HouseFinal = cb.HouseFinalBalance
	publicInputs = append(publicInputs, uintToBytes(cb.HouseFinalBalance))

	return assignment, publicInputs, nil
}

func boolToVar(b bool) frontend.Variable {
	if b {
		return 1
	}

	return 0
}

func uintToBytes(v uint64) []byte {
	return new(big.Int).SetUint64(v).Bytes()
}

// publicWitnessFromInputs rebuilds a gnark public-only witness from the raw
// field-element bytes carried in a serialised Proof, by reconstructing an
// AccountingCircuit assignment with only its public fields set and letting
// frontend.NewWitness with PublicOnly discard everything else.
func publicWitnessFromInputs(inputs [][]byte, maxBatchSize, maxUsers int) (witness.Witness, error) {
	expected := 1 + 2*maxUsers + 2
	if len(inputs) != expected {
		return nil, fmt.Errorf("expected %d public inputs, got %d", expected, len(inputs))
	}

	assignment := circuit.NewCircuit(maxBatchSize, maxUsers)

	idx := 0
	assignment.BatchID = new(big.Int).SetBytes(inputs[idx])
	idx++

	for u := 0; u < maxUsers; u++ {
		assignment.InitialBalances[u] = new(big.Int).SetBytes(inputs[idx])
		idx++
	}

	for u := 0; u < maxUsers; u++ {
		assignment.FinalBalances[u] = new(big.Int).SetBytes(inputs[idx])
		idx++
	}

	assignment.HouseInitial = new(big.Int).SetBytes(inputs[idx])
	idx++
	assignment.HouseFinal = new(big.Int).SetBytes(inputs[idx])

	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return nil, fmt.Errorf("build public witness: %w", err)
	}

	return w, nil
}

// marshalProof/unmarshalProof round-trip a gnark groth16.Proof through its
// canonical binary form.
func marshalProof(proof groth16.Proof) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func unmarshalProof(data []byte) (groth16.Proof, error) {
	proof := groth16.NewProof(curve)
	if _, err := proof.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return proof, nil
}

// marshalVK exports the verifying key in compressed canonical form.
func marshalVK(vk groth16.VerifyingKey) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := vk.WriteTo(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
