// Package constant holds the sentinel errors the sequencer reasons about
// with errors.Is, plus the small set of fixed operational constants shared
// across components.
package constant

import "errors"

// Sentinel errors for ValidateBusinessError (common/errors.go) to switch on.
// Named after the error kinds the HTTP layer dispatches on.
var (
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidOutcome       = errors.New("invalid_outcome")
	ErrInvalidPayout        = errors.New("invalid_payout")
	ErrInvalidProofFormat   = errors.New("invalid_proof_format")
	ErrEmptyBatch           = errors.New("empty_batch")
	ErrBatchTooLarge        = errors.New("batch_too_large")
	ErrPlayerNotFound       = errors.New("player_not_found")
	ErrBetNotFound          = errors.New("bet_not_found")
	ErrInsufficientBalance  = errors.New("insufficient_balance")
	ErrConservationViolated = errors.New("conservation_violation")
	ErrNegativeBalance      = errors.New("negative_balance")
	ErrInvalidCurvePoint    = errors.New("invalid_curve_point")
	ErrPairingFailed        = errors.New("pairing_failed")
	ErrInvalidVerifyingKey  = errors.New("invalid_verifying_key")
	ErrProofVerification    = errors.New("proof_verification_failed")
	ErrUnknownUser          = errors.New("unknown_user")
	ErrRequestTimeout       = errors.New("request_timeout")
	ErrBadRequest           = errors.New("bad_request")
	ErrAlreadyExists        = errors.New("already_exists")
	ErrInternal             = errors.New("internal_server_error")
)

// DefaultBetMinimumAmount is the smallest accepted bet: bets
// below this amount never reach the ledger.
const DefaultBetMinimumAmount uint64 = 1000

// DefaultSettlementBatchSize is the item-count flush threshold.
const DefaultSettlementBatchSize = 50

// DefaultSettlementFlushIntervalMillis is the timer-flush period.
const DefaultSettlementFlushIntervalMillis = 100

// DefaultVRFTimeoutSeconds bounds VRF signing latency.
const DefaultVRFTimeoutSeconds = 5

// DefaultLedgerRetryAttempts / DefaultLedgerRetryDelayMillis bound submission
// retries.
const (
	DefaultLedgerRetryAttempts    = 3
	DefaultLedgerRetryDelayMillis = 1000
)
