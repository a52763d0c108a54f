package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the engine.
var (
	// ErrTerminationRequested is returned by a scheduler pause when the
	// enclosing run should shut down instead of resuming. It propagates
	// through the scan runners; suppressing it for graceful shutdown is the
	// entry point's responsibility.
	ErrTerminationRequested = errors.New("model: termination requested")

	// ErrBadScanOptions indicates invalid ScanOptions values.
	ErrBadScanOptions = errors.New("model: bad scan options")

	// ErrValueType indicates a value could not be coerced to a parameter
	// store's native type.
	ErrValueType = errors.New("model: value type mismatch")
)

// RTIOUnderflowError reports that the device missed a hardware deadline
// while executing a point. It is transient: runners retry the point a
// bounded number of times before giving up.
type RTIOUnderflowError struct {
	// SlackMu is the (negative) timeline slack in machine units at the time
	// of the underflow, if known.
	SlackMu int64
}

func (e *RTIOUnderflowError) Error() string {
	if e.SlackMu != 0 {
		return fmt.Sprintf("RTIO underflow (slack %d mu)", e.SlackMu)
	}
	return "RTIO underflow"
}

// IsRTIOUnderflow reports whether err is (or wraps) an RTIO underflow.
func IsRTIOUnderflow(err error) bool {
	var u *RTIOUnderflowError
	return errors.As(err, &u)
}

// TransitoryError is raised by fragment code to signal a recoverable,
// temporary condition which is expected to clear up if the point is
// attempted again without any further changes.
type TransitoryError struct {
	// RestartKernel requests that the device environment be torn down and
	// host-side setup re-run before the point is retried, for recovery
	// paths that require host intervention.
	RestartKernel bool

	Message string
	Err     error
}

func (e *TransitoryError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "transitory error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TransitoryError) Unwrap() error { return e.Err }

// NewTransitoryError returns a plain transitory error with the given message.
func NewTransitoryError(message string) *TransitoryError {
	return &TransitoryError{Message: message}
}

// NewRestartKernelTransitoryError returns a transitory error that forces a
// device environment restart before the retry.
func NewRestartKernelTransitoryError(message string) *TransitoryError {
	return &TransitoryError{RestartKernel: true, Message: message}
}

// AsTransitory unwraps err into a TransitoryError, if it is one.
func AsTransitory(err error) (*TransitoryError, bool) {
	var t *TransitoryError
	ok := errors.As(err, &t)
	return t, ok
}
