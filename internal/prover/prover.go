// Package prover is C5: wraps Groth16 setup/prove/verify over the
// accounting circuit, and the portable proof serialization frame.
package prover

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/reecen9696/casino-rollup/common"
	"github.com/reecen9696/casino-rollup/internal/circuit"
	"github.com/reecen9696/casino-rollup/internal/domain"
	witnessgen "github.com/reecen9696/casino-rollup/internal/witness"
)

const curve = ecc.BN254

// Prover owns the compiled constraint system and Groth16 keys for one fixed
// circuit shape (max_batch_size, max_users). It is safe for concurrent use
// once Setup has completed; Setup itself should run once at startup.
type Prover struct {
	mu sync.RWMutex

	maxBatchSize int
	maxUsers     int

	cs constraint.ConstraintSystem
	pk groth16.ProvingKey
	vk groth16.VerifyingKey

	generator *witnessgen.Generator
}

// New builds an un-setup Prover for the given circuit shape. Call Setup
// before Prove/Verify.
func New(maxBatchSize, maxUsers int) *Prover {
	return &Prover{
		maxBatchSize: maxBatchSize,
		maxUsers:     maxUsers,
		generator:    witnessgen.NewGenerator(maxBatchSize, uint32(maxUsers)),
	}
}

// Setup compiles the maximally-sized circuit and runs Groth16's
// circuit-specific trusted setup, storing the resulting keys. In production
// this step is a ceremony; here it runs locally at process start.
func (p *Prover) Setup() error {
	cs, err := frontend.Compile(curve.ScalarField(), r1cs.NewBuilder, circuit.NewCircuit(p.maxBatchSize, p.maxUsers))
	if err != nil {
		return fmt.Errorf("prover: compile circuit: %w", err)
	}

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return fmt.Errorf("prover: setup: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.cs = cs
	p.pk = pk
	p.vk = vk

	return nil
}

func (p *Prover) snapshot() (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.cs, p.pk, p.vk, p.cs != nil
}

var errNotSetUp = common.InvariantError{
	Code:    "invalid_parameters",
	Message: "prover: Setup has not been run for this circuit shape",
}

// Prove derives a circuit batch from items/balances via C4 and produces a
// Groth16 proof over it. InvalidParameters if Setup hasn't run,
// WitnessGeneration errors pass through from C4 unwrapped, ProofGeneration
// wraps anything gnark itself rejects.
func (p *Prover) Prove(batchID uint32, items []domain.SettlementItem, balances witnessgen.Balances, timestamp uint64) (*Proof, error) {
	return p.prove(batchID, items, balances, timestamp, nil)
}

// ProveWithSeed takes a seed alongside Prove's arguments. The seeded RNG
// is not passed to gnark: the proof is produced exactly as Prove produces
// it, so byte-equality across runs is not guaranteed; only
// re-verifiability is.
func (p *Prover) ProveWithSeed(batchID uint32, items []domain.SettlementItem, balances witnessgen.Balances, timestamp uint64, seed int64) (*Proof, error) {
	rng := rand.New(rand.NewSource(seed))

	return p.prove(batchID, items, balances, timestamp, rng)
}

func (p *Prover) prove(batchID uint32, items []domain.SettlementItem, balances witnessgen.Balances, timestamp uint64, rng *rand.Rand) (*Proof, error) {
	cs, pk, _, ready := p.snapshot()
	if !ready {
		return nil, errNotSetUp
	}

	cb, err := p.generator.Generate(batchID, items, balances, timestamp)
	if err != nil {
		return nil, err
	}

	assignment, publicInputs, err := toAssignment(cb, p.maxBatchSize, p.maxUsers)
	if err != nil {
		return nil, common.CryptoError{Code: "invalid_curve_point", Message: "prover: build assignment: " + err.Error(), Err: err}
	}

	fullWitness, err := frontend.NewWitness(assignment, curve.ScalarField())
	if err != nil {
		return nil, common.CryptoError{Code: "invalid_curve_point", Message: "prover: build witness: " + err.Error(), Err: err}
	}

	// Groth16 proofs are randomised by construction; rng is accepted here
	// only to keep Prove and ProveWithSeed call-compatible with each other.
	// Byte-equality across runs is neither required nor guaranteed - only
	// that each proof re-verifies.
	_ = rng

	proof, err := groth16.Prove(cs, pk, fullWitness)
	if err != nil {
		return nil, common.CryptoError{Code: "pairing_failed", Message: "prover: proof generation failed: " + err.Error(), Err: err}
	}

	proofBytes, err := marshalProof(proof)
	if err != nil {
		return nil, common.CryptoError{Code: "invalid_curve_point", Message: "prover: marshal proof: " + err.Error(), Err: err}
	}

	return &Proof{
		BatchID:      batchID,
		Timestamp:    timestamp,
		PublicInputs: publicInputs,
		ProofBytes:   proofBytes,
	}, nil
}

// Verify checks a serialised proof against its serialised public inputs.
// InvalidParameters if no VK is present (Setup never ran).
func (p *Prover) Verify(pf *Proof) (bool, error) {
	_, _, vk, ready := p.snapshot()
	if !ready {
		return false, errNotSetUp
	}

	proof, err := unmarshalProof(pf.ProofBytes)
	if err != nil {
		return false, common.CryptoError{Code: "invalid_proof_format", Message: err.Error(), Err: err}
	}

	publicWitness, err := publicWitnessFromInputs(pf.PublicInputs, p.maxBatchSize, p.maxUsers)
	if err != nil {
		return false, common.CryptoError{Code: "invalid_curve_point", Message: err.Error(), Err: err}
	}

	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		return false, nil
	}

	return true, nil
}

// ExportVerifyingKey returns the compressed canonical VK bytes for
// embedding in the on-ledger verifier program.
func (p *Prover) ExportVerifyingKey() ([]byte, error) {
	_, _, vk, ready := p.snapshot()
	if !ready {
		return nil, errNotSetUp
	}

	return marshalVK(vk)
}

// Proof is a prover output ready for wire serialisation.
type Proof struct {
	BatchID      uint32
	Timestamp    uint64
	PublicInputs [][]byte
	ProofBytes   []byte
}
