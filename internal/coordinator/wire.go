package coordinator

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/reecen9696/casino-rollup/internal/domain"
	"github.com/reecen9696/casino-rollup/internal/prover"
	"github.com/reecen9696/casino-rollup/internal/vrf"
)

// proverEncodeFrame serialises a Proof into the portable frame C6 persists
// as the batch's durable proof_bytes.
func proverEncodeFrame(p *prover.Proof) []byte {
	return prover.EncodeFrame(p)
}

// zeroProofFrame builds the portable frame for the ENABLE_ZK_PROOFS=false
// path: a proof with no public inputs and a zeroed ProofBytes of
// zeroProofSize, still decodable by toLedgerSettlement like any real proof.
func zeroProofFrame(batchID uint32, timestamp uint64) []byte {
	return prover.EncodeFrame(&prover.Proof{
		BatchID:    batchID,
		Timestamp:  timestamp,
		ProofBytes: make([]byte, zeroProofSize),
	})
}

// toLedgerSettlement builds the BatchSettlementData + raw proof bytes C7
// submits from a Proved batch: the frame stored by C6 is decoded back into
// its Groth16 proof bytes, and each item becomes a BetSettlement whose user
// key comes from foldAddress (which recognises an on-ledger key by the same
// rule C4 uses, but yields 32 bytes rather than a circuit user id).
func toLedgerSettlement(batch domain.SettlementBatch) (domain.BatchSettlementData, []byte, error) {
	proof, err := prover.DecodeFrame(batch.ProofBytes)
	if err != nil {
		return domain.BatchSettlementData{}, nil, fmt.Errorf("decode stored proof frame: %w", err)
	}

	bets := make([]domain.BetSettlement, len(batch.Items))

	for i, item := range batch.Items {
		bets[i] = domain.BetSettlement{
			BetID:     vrf.FoldBetID(item.BetID),
			User:      foldAddress(item.PlayerAddress),
			BetAmount: item.Amount,
			UserGuess: item.Guess,
			Outcome:   item.Outcome,
			Payout:    item.Payout,
		}
	}

	data := domain.BatchSettlementData{
		BatchID:        batch.BatchID,
		SequencerNonce: batch.BatchID,
		Bets:           bets,
	}

	return data, proof.ProofBytes, nil
}

// foldAddress derives the 32-byte on-ledger user key from a player address:
// a valid base58-encoded 32-byte key is used directly, otherwise the
// address is SHA-256 hashed to a stand-in 32-byte key.
func foldAddress(address string) [32]byte {
	var user [32]byte

	if decoded, err := base58.Decode(address); err == nil && len(decoded) == 32 {
		copy(user[:], decoded)
		return user
	}

	return sha256.Sum256([]byte(address))
}
