package miwi

import (
	"errors"
	"fmt"
)

// ErrDeviceOffline is returned when the platform reports command code 1800.
// Callers treat it as a normal per-device outcome, not a fault.
var ErrDeviceOffline = errors.New("device is offline")

// AuthError wraps a failed token fetch. Fatal for the current operation.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("vendor authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// RequestError is a well-formed vendor error response (nonzero Code or State).
type RequestError struct {
	Code    int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("vendor request failed: code=%d message=%q", e.Code, e.Message)
}

// TransportError covers network, timeout and decode failures, kept distinct
// from RequestError so callers can decide whether to retry.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("vendor transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRequestError reports whether err is a vendor-level error response.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

// IsTransportError reports whether err is a transport-level failure.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
