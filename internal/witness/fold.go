// Package witness is C4: validates a settlement batch and produces the
// circuit-facing batch (public + private inputs) the proof generator needs.
package witness

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/mr-tron/base58"
)

// FoldUserID maps an opaque player address to a numeric user id in
// [0, maxUsers): parse as a valid 32-byte on-ledger public key if
// possible and take its first 4 bytes little-endian mod maxUsers -
// the same validity rule coordinator.foldAddress uses to recognise an
// on-ledger key; otherwise hash the string and reduce.
func FoldUserID(address string, maxUsers uint32) uint32 {
	if decoded, err := base58.Decode(address); err == nil && len(decoded) == 32 {
		raw := binary.LittleEndian.Uint32(decoded[:4])

		return raw % maxUsers
	}

	sum := sha256.Sum256([]byte(address))
	raw := binary.BigEndian.Uint64(sum[:8])

	return uint32(raw % uint64(maxUsers))
}
