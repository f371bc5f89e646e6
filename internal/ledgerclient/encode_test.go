package ledgerclient

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reecen9696/casino-rollup/internal/domain"
)

func TestDiscriminator_IsStableAndNameDependent(t *testing.T) {
	d1 := Discriminator("verify_and_settle")
	d2 := Discriminator("verify_and_settle")
	d3 := Discriminator("something_else")

	assert.Equal(t, d1, d2)
	assert.NotEqual(t, d1, d3)
}

func TestEncodeBatchSettlementData_Layout(t *testing.T) {
	data := domain.BatchSettlementData{
		BatchID:        7,
		SequencerNonce: 99,
		Bets: []domain.BetSettlement{
			{BetID: 1, BetAmount: 1000, UserGuess: true, Outcome: true, Payout: 2000},
		},
	}

	encoded := EncodeBatchSettlementData(data)

	require.Len(t, encoded, 8+8+4+(8+32+8+1+1+8))
	assert.Equal(t, uint64(7), binary.LittleEndian.Uint64(encoded[0:8]))
	assert.Equal(t, uint64(99), binary.LittleEndian.Uint64(encoded[8:16]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(encoded[16:20]))

	betOffset := 20
	assert.Equal(t, uint64(1), binary.LittleEndian.Uint64(encoded[betOffset:betOffset+8]))
}

func TestBetSettlement_SatisfiesPayoutLaw(t *testing.T) {
	won := domain.BetSettlement{BetAmount: 500, UserGuess: true, Outcome: true, Payout: 1000}
	lost := domain.BetSettlement{BetAmount: 500, UserGuess: true, Outcome: false, Payout: 0}
	broken := domain.BetSettlement{BetAmount: 500, UserGuess: true, Outcome: true, Payout: 500}

	assert.True(t, won.SatisfiesPayoutLaw())
	assert.True(t, lost.SatisfiesPayoutLaw())
	assert.False(t, broken.SatisfiesPayoutLaw())
}

func TestEncodeInstruction_PrefixesDiscriminator(t *testing.T) {
	data := domain.BatchSettlementData{BatchID: 1, SequencerNonce: 1}
	proof := []byte{0xAA, 0xBB}

	out := EncodeInstruction(data, proof)
	disc := Discriminator(VerifyAndSettleInstruction)

	assert.Equal(t, disc[:], out[:8])
}
