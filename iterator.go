// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen

import (
	"context"
	"errors"
	"sync"

	"code.hybscloud.com/iox"
)

// State is the position of an Iterator in its lifecycle.
type State uint8

const (
	NotStarted State = iota
	HasCurrent
	Exhausted
	Faulted
	Disposed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case HasCurrent:
		return "has-current"
	case Exhausted:
		return "exhausted"
	case Faulted:
		return "faulted"
	case Disposed:
		return "disposed"
	}
	return "unknown"
}

// wakeReason tags why a blocking take returned.
type wakeReason uint8

const (
	wakeValue wakeReason = iota
	wakeCaller
	wakeGeneratorEnded
	wakeClosed
)

// callerCancelled tags the cancellation of a linked context as coming
// from the context passed to Advance.
type callerCancelled struct {
	cause error
}

func (c callerCancelled) Error() string { return c.cause.Error() }
func (c callerCancelled) Unwrap() error { return c.cause }

func classify(err error) (wakeReason, error) {
	var cc callerCancelled
	switch {
	case err == nil:
		return wakeValue, nil
	case errors.As(err, &cc):
		return wakeCaller, cc.cause
	case errors.Is(err, errGeneratorEnded):
		return wakeGeneratorEnded, nil
	}
	// ErrClosed, ErrDisposed, or a link torn down by Dispose.
	return wakeClosed, ErrClosed
}

// Iterator is one traversal of a Seq. The generator starts on the first
// Advance; Dispose ends the traversal.
//
// Advance, TryAdvance, Next and Current belong to a single consumer.
// Dispose may be called concurrently with a blocked Advance.
type Iterator[T any] struct {
	gen  Generator[T]
	opts *options
	m    *metrics

	mu    sync.Mutex
	state State
	sess  *session[T]
	err   error

	// Linked context of the session and the last caller context,
	// rebuilt only when the caller passes a different context.
	lastCtx  context.Context
	combined context.Context
	unlink   func()

	cur T
}

// Current returns the value obtained by the last successful advance.
func (it *Iterator[T]) Current() T {
	return it.cur
}

// State returns the iterator's lifecycle state.
func (it *Iterator[T]) State() State {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.state
}

// Serial returns the session serial, 0 before the first advance.
func (it *Iterator[T]) Serial() Serial {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.sess == nil {
		return 0
	}
	return it.sess.serial
}

// Advance moves to the next value, blocking until the generator yields
// one, ends, or ctx is done.
//
// Returns (true, nil) with the value available from Current,
// (false, nil) at the end of the sequence, and (false, err) when ctx is
// done (err is its cause), the generator failed (err is its failure,
// reported again by every later call), or the iterator was disposed
// (ErrClosed). Values yielded before a failure are delivered first.
func (it *Iterator[T]) Advance(ctx context.Context) (bool, error) {
	if ctx.Err() != nil {
		return false, context.Cause(ctx)
	}
	s, err := it.session(ctx)
	if s == nil {
		return false, err
	}
	for {
		finished := s.run.finished()
		v, err := s.ch.TryTake()
		if err == nil {
			return it.deliver(s, v)
		}
		if !iox.IsWouldBlock(err) {
			return false, ErrClosed
		}
		if finished {
			return it.finish(s)
		}

		v, err = s.ch.Take(it.combine(ctx, s))
		reason, err := classify(err)
		switch reason {
		case wakeValue:
			return it.deliver(s, v)
		case wakeCaller:
			return false, err
		case wakeClosed:
			return false, ErrClosed
		}
		// The generator ended while we waited: re-check the queue, then
		// resolve its outcome.
	}
}

// TryAdvance is the non-blocking form of Advance. It returns
// iox.ErrWouldBlock while the generator runs with nothing queued.
func (it *Iterator[T]) TryAdvance() (bool, error) {
	s, err := it.session(context.Background())
	if s == nil {
		return false, err
	}
	finished := s.run.finished()
	v, err := s.ch.TryTake()
	if err == nil {
		return it.deliver(s, v)
	}
	if !iox.IsWouldBlock(err) {
		return false, ErrClosed
	}
	if finished {
		return it.finish(s)
	}
	return false, iox.ErrWouldBlock
}

// Next advances and returns the new current value.
// Returns (zero, false, nil) when the sequence is exhausted.
func (it *Iterator[T]) Next(ctx context.Context) (T, bool, error) {
	ok, err := it.Advance(ctx)
	if !ok {
		var zero T
		return zero, false, err
	}
	return it.cur, true, nil
}

// Dispose ends the traversal: it cancels the generator, terminates the
// channel (releasing a blocked Advance with ErrClosed and discarding
// unread values) and waits for the generator up to the configured
// dispose timeout. Idempotent; safe before any advance.
func (it *Iterator[T]) Dispose() {
	it.mu.Lock()
	if it.state == Disposed {
		it.mu.Unlock()
		return
	}
	prev := it.state
	it.state = Disposed
	s := it.sess
	unlink := it.unlink
	it.unlink, it.lastCtx, it.combined = nil, nil, nil
	it.mu.Unlock()

	if s == nil {
		return
	}
	s.stop()
	if unlink != nil {
		unlink()
	}
	s.await(it.opts.cfg.DisposeTimeout)
	s.m.sessionDisposed(s.mctx)
	s.log.Debug().Stringer("state", prev).Msg("session disposed")
}

// Close disposes the iterator. It always returns nil.
func (it *Iterator[T]) Close() error {
	it.Dispose()
	return nil
}

// session returns the running session, starting it on first use.
// A nil session comes with the terminal result to report.
func (it *Iterator[T]) session(ctx context.Context) (*session[T], error) {
	it.mu.Lock()
	defer it.mu.Unlock()
	switch it.state {
	case Disposed:
		return nil, ErrClosed
	case Exhausted:
		return nil, nil
	case Faulted:
		return nil, it.err
	}
	if it.sess == nil {
		it.sess = startSession(ctx, it.gen, it.opts, it.m)
	}
	return it.sess, nil
}

func (it *Iterator[T]) deliver(s *session[T], v T) (bool, error) {
	it.mu.Lock()
	if it.state == Disposed {
		it.mu.Unlock()
		return false, ErrClosed
	}
	it.state = HasCurrent
	it.mu.Unlock()
	it.cur = v
	s.m.itemDelivered(s.mctx)
	return true, nil
}

// finish resolves a drained, ended session to exhausted or faulted.
// The failure is kept and reported by every later advance.
func (it *Iterator[T]) finish(s *session[T]) (bool, error) {
	err := s.run.err
	it.mu.Lock()
	if it.state == Disposed {
		it.mu.Unlock()
		return false, ErrClosed
	}
	if err != nil {
		it.state, it.err = Faulted, err
	} else {
		it.state = Exhausted
	}
	unlink := it.unlink
	it.unlink, it.lastCtx, it.combined = nil, nil, nil
	it.mu.Unlock()
	if unlink != nil {
		unlink()
	}
	var zero T
	it.cur = zero
	return false, err
}

// combine returns the context a blocking take waits on: the session's
// wake signal linked with ctx. The link is reused while the caller keeps
// passing the same context.
func (it *Iterator[T]) combine(ctx context.Context, s *session[T]) context.Context {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.state == Disposed {
		return s.ctx
	}
	if it.combined != nil && it.lastCtx == ctx {
		return it.combined
	}
	if it.unlink != nil {
		it.unlink()
		it.unlink = nil
	}
	it.lastCtx = ctx
	if ctx.Done() == nil {
		it.combined = s.ctx
		return it.combined
	}
	linked, cancel := context.WithCancelCause(s.ctx)
	stop := context.AfterFunc(ctx, func() {
		cancel(callerCancelled{cause: context.Cause(ctx)})
	})
	it.combined = linked
	it.unlink = func() {
		stop()
		cancel(nil)
	}
	return linked
}
