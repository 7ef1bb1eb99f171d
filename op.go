// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen

import (
	"context"

	"code.hybscloud.com/kont"
)

// sinkContext is the dispatch target of sink effects: the running
// generator's context and its Sink[T], type-erased.
type sinkContext struct {
	ctx  context.Context
	sink any
}

// sinkDispatcher is the structural interface for sink operations.
// DispatchSink is non-blocking except for Wait: it returns
// iox.ErrWouldBlock when a bounded channel is full.
type sinkDispatcher interface {
	DispatchSink(sc *sinkContext) (kont.Resumed, error)
}

// drainWaiter is the element-type independent part of Sink.
type drainWaiter interface {
	Wait(ctx context.Context) error
}

// unit is the pre-boxed Resumed value of operations returning struct{}.
var unit kont.Resumed = struct{}{}

// Yield is the effect operation for yielding one value.
// Perform(Yield[T]{Value: v}) appends v to the session channel.
type Yield[T any] struct {
	kont.Phantom[struct{}]
	Value T
}

// DispatchSink handles Yield on the session sink.
func (y Yield[T]) DispatchSink(sc *sinkContext) (kont.Resumed, error) {
	sink, ok := sc.sink.(Sink[T])
	if !ok {
		return nil, ErrSinkMismatch
	}
	if err := sink.Yield(y.Value); err != nil {
		return nil, err
	}
	return unit, nil
}

// YieldAll is the effect operation for yielding a batch.
// Perform(YieldAll[T]{Values: vs}) resumes with whether anything was
// appended.
type YieldAll[T any] struct {
	kont.Phantom[bool]
	Values []T
}

// DispatchSink handles YieldAll on the session sink.
func (y YieldAll[T]) DispatchSink(sc *sinkContext) (kont.Resumed, error) {
	sink, ok := sc.sink.(Sink[T])
	if !ok {
		return nil, ErrSinkMismatch
	}
	appended, err := sink.YieldAll(y.Values...)
	if err != nil {
		return nil, err
	}
	return appended, nil
}

// Wait is the effect operation for waiting until the consumer drained
// the channel. It blocks under the generator's context.
type Wait struct {
	kont.Phantom[struct{}]
}

// DispatchSink handles Wait on the session sink.
func (Wait) DispatchSink(sc *sinkContext) (kont.Resumed, error) {
	w, ok := sc.sink.(drainWaiter)
	if !ok {
		return nil, ErrSinkMismatch
	}
	if err := w.Wait(sc.ctx); err != nil {
		return nil, err
	}
	return unit, nil
}
