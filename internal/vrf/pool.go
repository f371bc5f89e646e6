package vrf

import (
	"context"
	"fmt"
	"time"

	"github.com/reecen9696/casino-rollup/internal/domain"
)

// Engine evaluates VRF proofs off the request-latency path: signing is
// CPU-bound, so every evaluation runs through a semaphore-bounded worker
// pool and is given a hard timeout.
type Engine struct {
	keypair *Keypair
	sem     chan struct{}
	timeout time.Duration
}

// NewEngine builds an Engine with workers concurrent signing slots and the
// given per-signature timeout.
func NewEngine(keypair *Keypair, workers int, timeout time.Duration) *Engine {
	if workers < 1 {
		workers = 1
	}

	return &Engine{
		keypair: keypair,
		sem:     make(chan struct{}, workers),
		timeout: timeout,
	}
}

// ErrTimeout is returned when a signing job doesn't complete within the
// engine's timeout. The caller maps this to a REQUEST_TIMEOUT response.
var ErrTimeout = fmt.Errorf("vrf: signing timed out")

// Resolve runs DeriveMessage + Evaluate on a bounded worker, blocking the
// caller only up to the engine's timeout. On timeout, the goroutine is left
// to finish on its own; its result is simply discarded, since ed25519
// signing carries no side effects worth cancelling.
func (e *Engine) Resolve(ctx context.Context, betID string, user [32]byte, nonce uint64) (domain.VRFProof, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type result struct {
		proof domain.VRFProof
	}

	resultCh := make(chan result, 1)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return domain.VRFProof{}, ErrTimeout
	}

	go func() {
		defer func() { <-e.sem }()

		message := DeriveMessage(FoldBetID(betID), user, nonce)
		resultCh <- result{proof: e.keypair.Evaluate(message)}
	}()

	select {
	case <-ctx.Done():
		return domain.VRFProof{}, ErrTimeout
	case res := <-resultCh:
		return res.proof, nil
	}
}

// PublicKey exposes the engine's keypair's public key for responses/health
// endpoints.
func (e *Engine) PublicKey() [32]byte {
	return e.keypair.PublicKeyBytes()
}
