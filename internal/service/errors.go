package service

import "errors"

// Sentinel errors shared across services. Handlers map these to response codes.
var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrNotFound             = errors.New("record not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrWorkerNotFound       = errors.New("worker not found")
	ErrInvalidWorkerCode    = errors.New("invalid worker code")
	ErrInvalidStatus        = errors.New("unknown order status")
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrForbidden            = errors.New("operation not permitted for role")
	ErrEditNotAllowed       = errors.New("order can no longer be edited")
	ErrOrderNumberExhausted = errors.New("order number allocation exhausted")
)
