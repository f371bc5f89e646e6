package prover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reecen9696/casino-rollup/internal/domain"
	witnessgen "github.com/reecen9696/casino-rollup/internal/witness"
)

func TestProver_ProveAndVerify_RoundTrip(t *testing.T) {
	p := New(2, 4)
	require.NoError(t, p.Setup())

	items := []domain.SettlementItem{
		{PlayerAddress: "alice", Amount: 1000, Guess: true, Outcome: true},
	}
	balances := witnessgen.Balances{ByAddress: map[string]uint64{"alice": 5000}, House: 100000}

	proof, err := p.Prove(1, items, balances, 42)
	require.NoError(t, err)
	require.NotEmpty(t, proof.ProofBytes)

	ok, err := p.Verify(proof)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProver_Prove_BeforeSetup(t *testing.T) {
	p := New(2, 4)

	_, err := p.Prove(1, nil, witnessgen.Balances{}, 0)
	require.Error(t, err)
}

func TestProver_SerializationRoundTrip(t *testing.T) {
	p := New(2, 4)
	require.NoError(t, p.Setup())

	items := []domain.SettlementItem{
		{PlayerAddress: "alice", Amount: 1000, Guess: true, Outcome: false},
	}
	balances := witnessgen.Balances{ByAddress: map[string]uint64{"alice": 5000}, House: 100000}

	proof, err := p.Prove(1, items, balances, 99)
	require.NoError(t, err)

	frame := EncodeFrame(proof)
	decoded, err := DecodeFrame(frame)
	require.NoError(t, err)

	assert.Equal(t, proof.BatchID, decoded.BatchID)
	assert.Equal(t, proof.Timestamp, decoded.Timestamp)
	assert.Equal(t, proof.ProofBytes, decoded.ProofBytes)

	ok, err := p.Verify(decoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProver_ExportVerifyingKey(t *testing.T) {
	p := New(2, 4)
	require.NoError(t, p.Setup())

	vk, err := p.ExportVerifyingKey()
	require.NoError(t, err)
	assert.NotEmpty(t, vk)
}
