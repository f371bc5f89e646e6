package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/reecen9696/casino-rollup/common"
)

// WithError maps a typed common error (or a plain error) to the HTTP status
// and body a client should see, never leaking wrapped detail it shouldn't.
func WithError(c *fiber.Ctx, err error) error {
	var notFound common.EntityNotFoundError
	if errors.As(err, &notFound) {
		return NotFound(c, notFound.Code, notFound.Title, notFound.Message)
	}

	var validation common.ValidationError
	if errors.As(err, &validation) {
		return BadRequest(c, validation.Code, validation.Title, validation.Message)
	}

	var conflict common.EntityConflictError
	if errors.As(err, &conflict) {
		return BadRequest(c, conflict.Code, conflict.Title, conflict.Error())
	}

	var timeout common.TimeoutError
	if errors.As(err, &timeout) {
		return RequestTimeout(c, timeout.Code, timeout.Title, timeout.Message)
	}

	var crypt common.CryptoError
	if errors.As(err, &crypt) {
		return InternalServerError(c, crypt.Code, "Cryptographic Failure", crypt.Message)
	}

	var invariant common.InvariantError
	if errors.As(err, &invariant) {
		return InternalServerError(c, invariant.Code, "Invariant Violation", invariant.Message)
	}

	var internal common.InternalError
	if errors.As(err, &internal) {
		return InternalServerError(c, internal.Code, internal.Title, internal.Message)
	}

	wrapped := common.ValidateInternalError(err, "")

	var iErr common.InternalError
	_ = errors.As(wrapped, &iErr)

	return InternalServerError(c, iErr.Code, iErr.Title, iErr.Message)
}
