// Package vrf is C2: ed25519-signature-derived verifiable randomness.
// Keypair lifecycle, message derivation, and signing all live here; the
// bounded blocking pool that keeps signing off the request-latency path is
// in pool.go.
package vrf

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reecen9696/casino-rollup/internal/domain"
)

var validationProbe = []byte("vrf_keypair_validation_probe")

type keypairFile struct {
	SecretKey [32]byte `json:"secret_key"`
	PublicKey [32]byte `json:"public_key"`
}

// Keypair wraps an ed25519 secret/public pair for VRF signing.
type Keypair struct {
	secret ed25519.PrivateKey
	public ed25519.PublicKey
}

// Generate produces a fresh random keypair.
func Generate() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("vrf: generate keypair: %w", err)
	}

	return &Keypair{secret: priv, public: pub}, nil
}

// FromSeed reconstructs a keypair from its 32-byte ed25519 seed.
func FromSeed(seed [32]byte) *Keypair {
	priv := ed25519.NewKeyFromSeed(seed[:])

	return &Keypair{secret: priv, public: priv.Public().(ed25519.PublicKey)}
}

// FromFile loads a keypair persisted by SaveToFile.
func FromFile(path string) (*Keypair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vrf: read keypair file %q: %w", path, err)
	}

	var kf keypairFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("vrf: parse keypair file %q: %w", path, err)
	}

	return FromSeed(kf.SecretKey), nil
}

// SaveToFile persists the keypair as JSON, creating parent directories as
// needed.
func (k *Keypair) SaveToFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("vrf: create directory %q: %w", dir, err)
		}
	}

	kf := keypairFile{PublicKey: k.PublicKeyBytes()}
	copy(kf.SecretKey[:], k.secret.Seed())

	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("vrf: marshal keypair: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("vrf: write keypair file %q: %w", path, err)
	}

	return nil
}

// PublicKeyBytes returns the 32-byte public key.
func (k *Keypair) PublicKeyBytes() [32]byte {
	var out [32]byte
	copy(out[:], k.public)

	return out
}

// Sign produces a raw ed25519 signature over message.
func (k *Keypair) Sign(message []byte) [64]byte {
	var out [64]byte
	copy(out[:], ed25519.Sign(k.secret, message))

	return out
}

// Validate signs and verifies a fixed probe message, confirming the
// keypair is usable.
func (k *Keypair) Validate() error {
	sig := k.Sign(validationProbe)
	if !ed25519.Verify(k.public, validationProbe, sig[:]) {
		return fmt.Errorf("vrf: keypair failed self-validation")
	}

	return nil
}

// LoadOrGenerate implements the keypair's three-step lifecycle: (1) an env
// var naming an existing readable file, (2) defaultPath if it exists, (3)
// generate and persist to defaultPath. Every path is validated before use.
func LoadOrGenerate(envVar, defaultPath string) (*Keypair, error) {
	if envPath := os.Getenv(envVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			kp, err := FromFile(envPath)
			if err != nil {
				return nil, err
			}

			if err := kp.Validate(); err != nil {
				return nil, err
			}

			return kp, nil
		}
	}

	if _, err := os.Stat(defaultPath); err == nil {
		kp, err := FromFile(defaultPath)
		if err != nil {
			return nil, err
		}

		if err := kp.Validate(); err != nil {
			return nil, err
		}

		return kp, nil
	}

	kp, err := Generate()
	if err != nil {
		return nil, err
	}

	if err := kp.SaveToFile(defaultPath); err != nil {
		return nil, err
	}

	if err := kp.Validate(); err != nil {
		return nil, err
	}

	return kp, nil
}

// ToDomain exports the keypair's bytes for serving over an observability
// endpoint, never the secret itself beyond what domain.VRFKeypair models.
func (k *Keypair) ToDomain() domain.VRFKeypair {
	var kp domain.VRFKeypair

	copy(kp.SecretKey[:], k.secret.Seed())
	kp.PublicKey = k.PublicKeyBytes()

	return kp
}
