package vrf

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeypair_GenerateAndValidate(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)
	require.NoError(t, kp.Validate())
}

func TestKeypair_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "keypair.json")

	kp, err := Generate()
	require.NoError(t, err)
	require.NoError(t, kp.SaveToFile(path))

	_, statErr := os.Stat(path)
	require.NoError(t, statErr)

	loaded, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKeyBytes(), loaded.PublicKeyBytes())
}

func TestLoadOrGenerate_GeneratesThenReuses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auto.json")

	first, err := LoadOrGenerate("NONEXISTENT_VRF_ENV_VAR", path)
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr)

	second, err := LoadOrGenerate("NONEXISTENT_VRF_ENV_VAR", path)
	require.NoError(t, err)

	assert.Equal(t, first.PublicKeyBytes(), second.PublicKeyBytes())
}

func TestEvaluate_Deterministic(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	var user [32]byte
	copy(user[:], "player-address-bytes-padded-0000")

	msg := DeriveMessage(FoldBetID("bet-123"), user, 7)

	p1 := kp.Evaluate(msg)
	p2 := kp.Evaluate(msg)

	assert.Equal(t, p1.Signature, p2.Signature)
	assert.Equal(t, p1.Outcome, p2.Outcome)
	assert.True(t, VerifyProof(p1))
}

func TestEngine_Resolve(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	engine := NewEngine(kp, 4, 5*time.Second)

	var user [32]byte
	copy(user[:], "some-address")

	proof, err := engine.Resolve(context.Background(), "bet-1", user, 0)
	require.NoError(t, err)
	assert.True(t, VerifyProof(proof))
}

func TestEngine_Resolve_TimesOut(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	engine := NewEngine(kp, 1, 1*time.Millisecond)
	engine.sem <- struct{}{} // occupy the only slot so Resolve can't acquire it

	var user [32]byte

	_, err = engine.Resolve(context.Background(), "bet-1", user, 0)
	assert.ErrorIs(t, err, ErrTimeout)
}
