package vrf

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"

	"github.com/reecen9696/casino-rollup/internal/domain"
)

// FoldBetID reduces a string bet id to a u64 via the first 8 bytes of
// SHA-256(bet_id_ascii), big-endian, so string and numeric bet ids feed the
// same message-derivation path.
func FoldBetID(betID string) uint64 {
	sum := sha256.Sum256([]byte(betID))

	return binary.BigEndian.Uint64(sum[:8])
}

// DeriveMessage computes SHA-256(bet_id_u64_be || user[32] || nonce_u64_be).
// Byte order is fixed (big-endian) for cross-implementation reproducibility.
func DeriveMessage(betID uint64, user [32]byte, nonce uint64) [32]byte {
	var buf [8 + 32 + 8]byte
	binary.BigEndian.PutUint64(buf[0:8], betID)
	copy(buf[8:40], user[:])
	binary.BigEndian.PutUint64(buf[40:48], nonce)

	return sha256.Sum256(buf[:])
}

// Evaluate signs message and extracts the outcome bit: heads (true) iff the
// signature's first byte has LSB 0.
func (k *Keypair) Evaluate(message [32]byte) domain.VRFProof {
	sig := k.Sign(message[:])

	return domain.VRFProof{
		Message:   message,
		Signature: sig,
		PublicKey: k.PublicKeyBytes(),
		Outcome:   sig[0]&1 == 0,
	}
}

// VerifyProof checks both halves of the VRF proof invariant: the
// ed25519 signature verifies, and the outcome bit matches the signature's
// LSB.
func VerifyProof(p domain.VRFProof) bool {
	if !ed25519.Verify(p.PublicKey[:], p.Message[:], p.Signature[:]) {
		return false
	}

	return p.Outcome == (p.Signature[0]&1 == 0)
}
