package domain

import "errors"

var (
	ErrSerializationFailure = errors.New("serialization failure")
	ErrNotFound             = errors.New("not found")
	ErrInvalidTier          = errors.New("invalid ticket tier")
	ErrInvalidPricing       = errors.New("invalid tier pricing")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrForbidden            = errors.New("forbidden")
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
	ErrSignatureInvalid     = errors.New("payment signature invalid")
	ErrAmountMismatch       = errors.New("payment amount mismatch")
	ErrDuplicatePayment     = errors.New("duplicate payment")
)
