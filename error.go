// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrClosed is returned when either side touches a channel after it
	// has been terminated, and by Advance after Dispose.
	ErrClosed = errors.New("agen: channel closed")

	// ErrDisposed is the cancellation cause observed by a generator whose
	// iterator has been disposed.
	ErrDisposed = errors.New("agen: iterator disposed")

	// ErrSinkMismatch is returned when an effect generator performs an
	// operation whose element type differs from the sequence's.
	ErrSinkMismatch = errors.New("agen: sink element type mismatch")

	// errGeneratorEnded is the internal wake cause fired when the
	// generator invocation returns. It never reaches callers.
	errGeneratorEnded = errors.New("agen: generator ended")
)

// PanicError is the failure captured when a generator panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("agen: generator panic: %v", p.Value)
}

// Unwrap returns the panic value when it is an error.
func (p *PanicError) Unwrap() error {
	err, ok := p.Value.(error)
	if !ok {
		return nil
	}
	return err
}

// ErrorWithStack formats the panic value followed by the captured stack.
func (p *PanicError) ErrorWithStack() string {
	return fmt.Sprintf("%v\n\n%s", p.Value, p.Stack)
}

func newPanicError(v any) error {
	return &PanicError{Value: v, Stack: debug.Stack()}
}

// surfaceFailure returns the error to report for a generator failure.
// A multi-error holding exactly one error collapses to that error so its
// identity survives; anything else is reported as returned.
func surfaceFailure(err error) error {
	if err == nil {
		return nil
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		if inner := multi.Unwrap(); len(inner) == 1 && inner[0] != nil {
			return inner[0]
		}
	}
	return err
}
