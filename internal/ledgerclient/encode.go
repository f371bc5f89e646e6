package ledgerclient

import (
	"bytes"
	"encoding/binary"

	"github.com/reecen9696/casino-rollup/internal/domain"
)

// EncodeBatchSettlementData serialises the
// batch_id:u64_le | sequencer_nonce:u64_le | n:u32_le | BetSettlement·n.
func EncodeBatchSettlementData(d domain.BatchSettlementData) []byte {
	var buf bytes.Buffer

	var u32 [4]byte
	var u64 [8]byte

	binary.LittleEndian.PutUint64(u64[:], d.BatchID)
	buf.Write(u64[:])

	binary.LittleEndian.PutUint64(u64[:], d.SequencerNonce)
	buf.Write(u64[:])

	binary.LittleEndian.PutUint32(u32[:], uint32(len(d.Bets)))
	buf.Write(u32[:])

	for _, bet := range d.Bets {
		buf.Write(encodeBetSettlement(bet))
	}

	return buf.Bytes()
}

// encodeBetSettlement lays out bet_id:u64_le | user:32 | bet_amount:u64_le |
// user_guess:u8 | outcome:u8 | payout:u64_le.
func encodeBetSettlement(b domain.BetSettlement) []byte {
	var buf bytes.Buffer

	var u64 [8]byte

	binary.LittleEndian.PutUint64(u64[:], b.BetID)
	buf.Write(u64[:])

	buf.Write(b.User[:])

	binary.LittleEndian.PutUint64(u64[:], b.BetAmount)
	buf.Write(u64[:])

	buf.WriteByte(boolToByte(b.UserGuess))
	buf.WriteByte(boolToByte(b.Outcome))

	binary.LittleEndian.PutUint64(u64[:], b.Payout)
	buf.Write(u64[:])

	return buf.Bytes()
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}

	return 0
}

// EncodeInstruction builds the full instruction payload: 8-byte
// discriminator || u32_le batch_len || batch_bytes || u32_le proof_len ||
// proof_bytes.
func EncodeInstruction(d domain.BatchSettlementData, proofBytes []byte) []byte {
	disc := Discriminator(VerifyAndSettleInstruction)
	batchBytes := EncodeBatchSettlementData(d)

	var buf bytes.Buffer
	var u32 [4]byte

	buf.Write(disc[:])

	binary.LittleEndian.PutUint32(u32[:], uint32(len(batchBytes)))
	buf.Write(u32[:])
	buf.Write(batchBytes)

	binary.LittleEndian.PutUint32(u32[:], uint32(len(proofBytes)))
	buf.Write(u32[:])
	buf.Write(proofBytes)

	return buf.Bytes()
}
