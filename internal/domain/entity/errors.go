package entity

import (
	"errors"
	"fmt"
)

var (
	ErrElementNotFound = errors.New("element not found")
	ErrUnknownAction   = errors.New("unknown instruction kind")
	ErrAborted         = errors.New("flow aborted by operator")
	ErrMaxAttempts     = errors.New("max attempts exceeded")
)

// HardMissError is raised when a required target cannot be located within the
// wait timeout. It aborts the executor call that produced it.
type HardMissError struct {
	Locator Locator
	URL     string
	Err     error
}

func (e *HardMissError) Error() string {
	return fmt.Sprintf("cannot locate required element %q on %s: %v", e.Locator, e.URL, e.Err)
}

func (e *HardMissError) Unwrap() error {
	return e.Err
}

// IsHardMiss reports whether err is (or wraps) a HardMissError.
func IsHardMiss(err error) bool {
	var hm *HardMissError
	return errors.As(err, &hm)
}
