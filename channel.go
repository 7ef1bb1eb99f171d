// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen

import (
	"context"
	"iter"
	"slices"
	"sync"

	"code.hybscloud.com/iox"
)

// Sink is the producer side of a Channel, handed to a generator.
type Sink[T any] interface {
	// Yield appends v to the channel.
	// Returns ErrClosed after termination, iox.ErrWouldBlock when a
	// bounded channel is full.
	Yield(v T) error

	// YieldAll appends values contiguously and reports whether anything
	// was appended. A bounded channel accepts all of values or none; an
	// empty bounded channel accepts a batch larger than its capacity.
	YieldAll(values ...T) (bool, error)

	// YieldSeq collects seq and appends the result like YieldAll.
	YieldSeq(seq iter.Seq[T]) (bool, error)

	// Wait blocks until the consumer has drained the channel.
	// Returns nil at once when the channel is already empty, ErrClosed
	// when it is terminated, and the context's cause when ctx is done first.
	Wait(ctx context.Context) error

	// YieldAndWait is Yield followed by Wait.
	YieldAndWait(ctx context.Context, v T) error

	// YieldAllAndWait is YieldAll followed by Wait. Nothing appended means
	// nothing to wait for.
	YieldAllAndWait(ctx context.Context, values ...T) error
}

// Channel is the single-producer single-consumer buffer shared by a
// generator and the iterator draining it.
//
// Every field is touched inside one short critical section. Waiters are
// notified by closing their channel strictly after the section is
// released, and each notification fires at most once: the slot is
// cleared under the lock before the close.
type Channel[T any] struct {
	mu       sync.Mutex
	q        *queue[T] // nil once terminated
	capacity int
	arrived  chan struct{}
	drained  chan struct{}
}

var _ Sink[int] = (*Channel[int])(nil)

// NewChannel creates a channel. capacity 0 means unbounded; a positive
// capacity bounds the number of queued items.
func NewChannel[T any](capacity int) *Channel[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Channel[T]{q: newQueue[T](), capacity: capacity}
}

// wake releases a waiter slot taken out of the channel.
func wake(w chan struct{}) {
	if w != nil {
		close(w)
	}
}

// Len returns the number of queued items, 0 after termination.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.q == nil {
		return 0
	}
	return c.q.len()
}

// full reports whether k more items overflow a bounded channel.
// An empty queue takes any batch, so an oversized batch cannot stall.
func (c *Channel[T]) full(k int) bool {
	n := c.q.len()
	return c.capacity > 0 && n > 0 && n+k > c.capacity
}

// Yield implements Sink.
func (c *Channel[T]) Yield(v T) error {
	c.mu.Lock()
	if c.q == nil {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.full(1) {
		c.mu.Unlock()
		return iox.ErrWouldBlock
	}
	c.q.push(v)
	w := c.arrived
	c.arrived = nil
	c.mu.Unlock()
	wake(w)
	return nil
}

// YieldAll implements Sink.
func (c *Channel[T]) YieldAll(values ...T) (bool, error) {
	c.mu.Lock()
	if c.q == nil {
		c.mu.Unlock()
		return false, ErrClosed
	}
	if len(values) == 0 {
		c.mu.Unlock()
		return false, nil
	}
	if c.full(len(values)) {
		c.mu.Unlock()
		return false, iox.ErrWouldBlock
	}
	for _, v := range values {
		c.q.push(v)
	}
	w := c.arrived
	c.arrived = nil
	c.mu.Unlock()
	wake(w)
	return true, nil
}

// YieldSeq implements Sink. seq runs before the critical section is
// entered, so it may itself use the channel.
func (c *Channel[T]) YieldSeq(seq iter.Seq[T]) (bool, error) {
	if seq == nil {
		return c.YieldAll()
	}
	return c.YieldAll(slices.Collect(seq)...)
}

// Wait implements Sink. Concurrent waiters share one notification.
func (c *Channel[T]) Wait(ctx context.Context) error {
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	c.mu.Lock()
	if c.q == nil {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.q.len() == 0 {
		c.mu.Unlock()
		return nil
	}
	if c.drained == nil {
		c.drained = make(chan struct{})
	}
	w := c.drained
	c.mu.Unlock()

	select {
	case <-w:
	case <-ctx.Done():
		return context.Cause(ctx)
	}

	c.mu.Lock()
	closed := c.q == nil
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return nil
}

// YieldAndWait implements Sink.
func (c *Channel[T]) YieldAndWait(ctx context.Context, v T) error {
	if err := c.Yield(v); err != nil {
		return err
	}
	return c.Wait(ctx)
}

// YieldAllAndWait implements Sink.
func (c *Channel[T]) YieldAllAndWait(ctx context.Context, values ...T) error {
	ok, err := c.YieldAll(values...)
	if err != nil || !ok {
		return err
	}
	return c.Wait(ctx)
}

// Send yields v, waiting for the consumer to drain a full bounded
// channel as often as needed. On an unbounded channel it is Yield.
func (c *Channel[T]) Send(ctx context.Context, v T) error {
	for {
		err := c.Yield(v)
		if !iox.IsWouldBlock(err) {
			return err
		}
		if err := c.Wait(ctx); err != nil {
			return err
		}
	}
}

// TryTake pops the head item without blocking.
// Returns iox.ErrWouldBlock when the channel is empty and ErrClosed
// after termination. Leaving the queue empty releases a pending Wait.
func (c *Channel[T]) TryTake() (T, error) {
	c.mu.Lock()
	if c.q == nil {
		c.mu.Unlock()
		var zero T
		return zero, ErrClosed
	}
	v, ok := c.q.pop()
	var w chan struct{}
	if c.q.len() == 0 {
		w = c.drained
		c.drained = nil
	}
	c.mu.Unlock()
	wake(w)
	if !ok {
		return v, iox.ErrWouldBlock
	}
	return v, nil
}

// Take pops the head item, blocking until one is yielded.
// Returns the context's cause when ctx is done first and ErrClosed when
// the channel is terminated while waiting. Queued items win over a
// done context.
func (c *Channel[T]) Take(ctx context.Context) (T, error) {
	var zero T
	for {
		c.mu.Lock()
		if c.q == nil {
			c.mu.Unlock()
			return zero, ErrClosed
		}
		if v, ok := c.q.pop(); ok {
			var w chan struct{}
			if c.q.len() == 0 {
				w = c.drained
				c.drained = nil
			}
			c.mu.Unlock()
			wake(w)
			return v, nil
		}
		if c.arrived == nil {
			c.arrived = make(chan struct{})
		}
		arrived := c.arrived
		w := c.drained
		c.drained = nil
		c.mu.Unlock()
		wake(w)

		select {
		case <-arrived:
			// Termination also closes arrived; the loop re-checks.
		case <-ctx.Done():
			return zero, context.Cause(ctx)
		}
	}
}

// Terminate closes the channel, discards queued items and releases all
// waiters into ErrClosed. Idempotent.
func (c *Channel[T]) Terminate() {
	c.mu.Lock()
	c.q = nil
	a, d := c.arrived, c.drained
	c.arrived, c.drained = nil, nil
	c.mu.Unlock()
	wake(a)
	wake(d)
}
