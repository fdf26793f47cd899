package syncclient

import (
	"errors"
	"fmt"
)

var (
	ErrTokensNotFound         = errors.New("tokens not found")
	ErrNotConnected           = errors.New("user not connected")
	ErrRequestFailed          = errors.New("request failed")
	ErrInvalidResponse        = errors.New("invalid response")
	ErrConf                   = errors.New("conf error")
	ErrProfileOrGuideNotFound = errors.New("profile or guide not found on server")
	ErrValidation             = errors.New("validation error")
	ErrProfileNotSynced       = errors.New("profile in use is not synced with the server")
)

// ValidationError carries the body of a 422 response as returned by the server.
type ValidationError struct {
	Body string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrValidation, e.Body)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StatusError is a non-2xx response other than 422.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: HTTP %d: %s", ErrRequestFailed, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrRequestFailed
}
