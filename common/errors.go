// Package common holds error types and small helpers shared by every
// component: typed error kinds that the HTTP layer (common/net/http) maps
// to status codes without leaking internal detail.
package common

import (
	"errors"
	"fmt"

	cn "github.com/reecen9696/casino-rollup/common/constant"
)

// EntityNotFoundError records an absent resource (e.g. PlayerNotFound,
// BetNotFound). Maps to HTTP 404.
type EntityNotFoundError struct {
	EntityType string
	Code       string
	Title      string
	Message    string
	Err        error
}

func (e EntityNotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.EntityType != "" {
		return fmt.Sprintf("%s not found", e.EntityType)
	}

	return "entity not found"
}

func (e EntityNotFoundError) Unwrap() error { return e.Err }

// ValidationError records a malformed or out-of-range request (e.g.
// InvalidAmount, InvalidOutcome, InvalidPayout, EmptyBatch, BatchTooLarge).
// Maps to HTTP 400.
type ValidationError struct {
	EntityType string
	Code       string
	Title      string
	Message    string
	Err        error
}

func (e ValidationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s - %s", e.Code, e.Message)
	}

	return e.Message
}

func (e ValidationError) Unwrap() error { return e.Err }

// EntityConflictError records a resource-state conflict (e.g.
// InsufficientBalance). Maps to HTTP 400, not 409 — the response body
// carries the required/available numbers instead.
type EntityConflictError struct {
	EntityType string
	Code       string
	Title      string
	Message    string
	Required   uint64
	Available  uint64
	Err        error
}

func (e EntityConflictError) Error() string {
	if e.Required != 0 || e.Available != 0 {
		return fmt.Sprintf("%s: required %d, available %d", e.Message, e.Required, e.Available)
	}

	return e.Message
}

func (e EntityConflictError) Unwrap() error { return e.Err }

// InvariantError records a conservation/invariant breach (e.g.
// ConservationViolation, NegativeBalance). Fatal for the batch it occurs in;
// never surfaced to an HTTP client directly.
type InvariantError struct {
	Code    string
	Message string
	Err     error
}

func (e InvariantError) Error() string { return e.Message }
func (e InvariantError) Unwrap() error { return e.Err }

// CryptoError records a cryptographic failure (InvalidCurvePoint,
// PairingFailed, InvalidVerifyingKey, ProofVerificationFailed). C5 never
// panics — it returns one of these instead.
type CryptoError struct {
	Code    string
	Message string
	Err     error
}

func (e CryptoError) Error() string { return e.Message }
func (e CryptoError) Unwrap() error { return e.Err }

// InternalError wraps an unexpected error without leaking its detail to
// clients; only Message (a fixed, generic string) crosses the HTTP
// boundary.
type InternalError struct {
	EntityType string
	Code       string
	Title      string
	Message    string
	Err        error
}

func (e InternalError) Error() string { return e.Message }
func (e InternalError) Unwrap() error { return e.Err }

// TimeoutError records a request that exceeded its deadline (VRF signing
// timeout). Maps to HTTP 408.
type TimeoutError struct {
	Code    string
	Title   string
	Message string
	Err     error
}

func (e TimeoutError) Error() string { return e.Message }
func (e TimeoutError) Unwrap() error { return e.Err }

// NewInsufficientBalanceError builds the EntityConflictError an insufficient
// withdraw/bet should return: 400 with required/available numbers included.
func NewInsufficientBalanceError(entityType string, required, available uint64) EntityConflictError {
	return EntityConflictError{
		EntityType: entityType,
		Code:       cn.ErrInsufficientBalance.Error(),
		Title:      "Insufficient Balance",
		Message:    "The account does not have sufficient balance for this operation",
		Required:   required,
		Available:  available,
	}
}

// ValidateInternalError wraps err as a generic InternalError, never
// exposing err's own message to a client.
func ValidateInternalError(err error, entityType string) error {
	return InternalError{
		EntityType: entityType,
		Code:       cn.ErrInternal.Error(),
		Title:      "Internal Server Error",
		Message:    "The server encountered an unexpected error. Please try again later.",
		Err:        err,
	}
}

// ValidateBusinessError switches on the sentinel errors in common/constant
// and returns the typed error the HTTP layer knows how to render. Unknown
// errors pass through unchanged so callers can still errors.As them.
func ValidateBusinessError(err error, entityType string, args ...any) error {
	switch {
	case errors.Is(err, cn.ErrPlayerNotFound):
		return EntityNotFoundError{
			EntityType: entityType,
			Code:       cn.ErrPlayerNotFound.Error(),
			Title:      "Player Not Found",
			Message:    fmt.Sprintf("No player balance exists for address %v", args...),
		}
	case errors.Is(err, cn.ErrBetNotFound):
		return EntityNotFoundError{
			EntityType: entityType,
			Code:       cn.ErrBetNotFound.Error(),
			Title:      "Bet Not Found",
			Message:    fmt.Sprintf("No bet exists with id %v", args...),
		}
	case errors.Is(err, cn.ErrInvalidAmount):
		return ValidationError{
			EntityType: entityType,
			Code:       cn.ErrInvalidAmount.Error(),
			Title:      "Invalid Amount",
			Message:    "Amount must be a positive integer and meet the minimum bet size.",
		}
	case errors.Is(err, cn.ErrEmptyBatch):
		return ValidationError{
			EntityType: entityType,
			Code:       cn.ErrEmptyBatch.Error(),
			Title:      "Empty Batch",
			Message:    "A settlement batch must contain at least one item.",
		}
	case errors.Is(err, cn.ErrBatchTooLarge):
		return ValidationError{
			EntityType: entityType,
			Code:       cn.ErrBatchTooLarge.Error(),
			Title:      "Batch Too Large",
			Message:    "The settlement batch exceeds the circuit's maximum batch size.",
		}
	case errors.Is(err, cn.ErrUnknownUser):
		return ValidationError{
			EntityType: entityType,
			Code:       cn.ErrUnknownUser.Error(),
			Title:      "Unknown User",
			Message:    "One or more bets reference a user outside the circuit's user space.",
		}
	case errors.Is(err, cn.ErrBadRequest):
		return ValidationError{
			EntityType: entityType,
			Code:       cn.ErrBadRequest.Error(),
			Title:      "Bad Request",
			Message:    fmt.Sprintf("%v", args...),
		}
	default:
		return err
	}
}
