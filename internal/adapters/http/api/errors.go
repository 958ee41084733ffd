package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrValidation   = errors.New("request validation failed")
	ErrBodyTooLarge = errors.New("request body too large")
	ErrTrailingData = errors.New("data after JSON value")
	ErrPanic        = errors.New("handler panicked")
)
