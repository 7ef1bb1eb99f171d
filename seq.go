// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen

import (
	"context"
	"iter"
)

// Seq is a restartable asynchronous sequence backed by a generator.
// Each traversal runs its own generator invocation on its own channel;
// a Seq may be traversed any number of times, concurrently.
type Seq[T any] struct {
	gen  Generator[T]
	opts options
	m    *metrics
}

// FromGenerator creates a Seq from a cancellation-aware generator.
// Panics if gen is nil.
func FromGenerator[T any](gen Generator[T], opts ...Option) *Seq[T] {
	if gen == nil {
		panic("agen: FromGenerator requires non-nil generator")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	m, err := newMetrics(o.meter)
	if err != nil {
		o.logger.Warn().Err(err).Msg("session metrics disabled")
		m = noopMetrics()
	}
	return &Seq[T]{gen: gen, opts: o, m: m}
}

// FromFunc creates a Seq from a generator that takes no context.
// Panics if gen is nil.
func FromFunc[T any](gen func(sink Sink[T]) error, opts ...Option) *Seq[T] {
	if gen == nil {
		panic("agen: FromFunc requires non-nil generator")
	}
	return FromGenerator(func(_ context.Context, sink Sink[T]) error {
		return gen(sink)
	}, opts...)
}

// Begin starts a new traversal. The generator runs from the first
// advance; the caller must Dispose the iterator.
func (s *Seq[T]) Begin() *Iterator[T] {
	return &Iterator[T]{gen: s.gen, opts: &s.opts, m: s.m}
}

// All returns a range-over-func view of one traversal under ctx.
// Breaking out of the loop disposes the traversal. A failure is
// yielded once, as the last pair.
func (s *Seq[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it := s.Begin()
		defer it.Dispose()
		for {
			ok, err := it.Advance(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok || !yield(it.Current(), nil) {
				return
			}
		}
	}
}
