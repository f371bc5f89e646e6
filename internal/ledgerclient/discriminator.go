package ledgerclient

import "crypto/sha256"

// Discriminator derives the 8-byte instruction-selector prefix Anchor
// programs expect: sha256("global:" + name)[0:8].
func Discriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("global:" + name))

	var out [8]byte
	copy(out[:], sum[:8])

	return out
}

// VerifyAndSettleInstruction is the name of the on-ledger instruction C7
// submits a proved batch to.
const VerifyAndSettleInstruction = "verify_and_settle"
