// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Generator produces items into sink until it returns.
// ctx is cancelled with cause ErrDisposed when the consuming iterator is
// disposed; a generator is expected to return soon after.
// A non-nil error faults the traversal once queued items are consumed.
type Generator[T any] func(ctx context.Context, sink Sink[T]) error

// Status is the completion status of a generator invocation.
type Status uint8

const (
	StatusRunning Status = iota
	StatusCompleted
	StatusFaulted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFaulted:
		return "faulted"
	case StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// invocation records one generator run.
// status and err are written once, before done is closed.
type invocation struct {
	done   chan struct{}
	status Status
	err    error
}

func (inv *invocation) finished() bool {
	select {
	case <-inv.done:
		return true
	default:
		return false
	}
}

// session pairs the channel and generator invocation of one traversal.
//
// ctx is handed to the generator and doubles as the internal wake
// signal of the consumer: it is cancelled with cause errGeneratorEnded
// when the invocation returns, or ErrDisposed on disposal.
type session[T any] struct {
	serial Serial
	ch     *Channel[T]
	run    *invocation
	ctx    context.Context
	cancel context.CancelCauseFunc
	mctx   context.Context
	log    zerolog.Logger
	m      *metrics
}

// startSession creates the channel and launches gen. The generator
// context keeps parent's values but not its cancellation: parent only
// scopes the advance that happened to start the session.
func startSession[T any](parent context.Context, gen Generator[T], o *options, m *metrics) *session[T] {
	base := context.WithoutCancel(parent)
	ctx, cancel := context.WithCancelCause(base)
	serial := nextSerial()
	s := &session[T]{
		serial: serial,
		ch:     NewChannel[T](o.cfg.Capacity),
		run:    &invocation{done: make(chan struct{})},
		ctx:    ctx,
		cancel: cancel,
		mctx:   base,
		log:    o.logger.With().Uint32("serial", serial).Logger(),
		m:      m,
	}
	s.m.sessionStarted(s.mctx)
	s.log.Debug().Msg("session started")
	go s.invoke(gen)
	return s
}

func (s *session[T]) invoke(gen Generator[T]) {
	err := s.call(gen)
	status := StatusCompleted
	disposed := errors.Is(context.Cause(s.ctx), ErrDisposed)
	switch {
	case err != nil && disposed:
		status = StatusCancelled
		if !errors.Is(err, context.Canceled) && !errors.Is(err, ErrClosed) {
			s.log.Debug().Err(err).Msg("generator failure after disposal swallowed")
		}
		err = nil
	case err != nil:
		status = StatusFaulted
	case disposed:
		status = StatusCancelled
	}
	err = surfaceFailure(err)
	s.m.generatorEnded(s.mctx, status)
	s.log.Debug().Stringer("status", status).Err(err).Msg("generator ended")

	s.run.status, s.run.err = status, err
	close(s.run.done)
	s.cancel(errGeneratorEnded)
}

func (s *session[T]) call(gen Generator[T]) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = newPanicError(p)
		}
	}()
	return gen(s.ctx, s.ch)
}

// stop requests generator cancellation and terminates the channel.
func (s *session[T]) stop() {
	s.cancel(ErrDisposed)
	s.ch.Terminate()
}

// await waits up to timeout for the generator to return.
func (s *session[T]) await(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-s.run.done:
	case <-t.C:
		s.log.Warn().Dur("timeout", timeout).Msg("generator still running after disposal")
	}
}
