// Package remote classifies failures that originate at external services.
//
// Clients wrap every transport, status and payload failure with Wrap so that
// callers can tell an expected remote fault apart from a programming fault
// without knowing which client produced it.
package remote

import (
	"context"
	"errors"
	"fmt"
)

// Error marks err as a fault reported by, or while talking to, Service
type Error struct {
	Service string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap marks err as a remote fault of service. A nil err stays nil.
func Wrap(service string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Service: service, Err: err}
}

// IsFault reports whether err is an expected remote fault.
// An expired call deadline counts as one; cancellation does not.
func IsFault(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var re *Error
	return errors.As(err, &re) || errors.Is(err, context.DeadlineExceeded)
}
