// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen

import (
	"context"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// sinkHandler handles both sink and error effects of a generator.
// Sink ops wait on iox.ErrWouldBlock until the consumer drains; a failed
// sink op or a Throw short-circuits with Left.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type sinkHandler struct {
	sc     *sinkContext
	errCtx *kont.ErrorContext[error]
}

// Dispatch implements kont.Handler for the composed Sink+Error handler.
// Dispatch order: Sink → Error.
func (h sinkHandler) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if sop, ok := op.(sinkDispatcher); ok {
		v, err := dispatchWait(h.sc, sop)
		if err != nil {
			return kont.Left[error, struct{}](err), false
		}
		return v, true
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[error, struct{}](h.errCtx.Err), false
		}
		return v, true
	}
	panic("agen: unhandled effect in sinkHandler")
}

// dispatchWait retries sop after each drain of a full bounded channel.
func dispatchWait(sc *sinkContext, sop sinkDispatcher) (kont.Resumed, error) {
	for {
		v, err := sop.DispatchSink(sc)
		if !iox.IsWouldBlock(err) {
			return v, err
		}
		w, ok := sc.sink.(drainWaiter)
		if !ok {
			return nil, ErrSinkMismatch
		}
		if err := w.Wait(sc.ctx); err != nil {
			return nil, err
		}
	}
}

func rightUnit(r struct{}) kont.Either[error, struct{}] {
	return kont.Right[error, struct{}](r)
}

// execEff runs a Cont-world generator against sink.
// A Throw or a failed sink op becomes the returned error, unwrapped.
func execEff[T any](ctx context.Context, sink Sink[T], gen kont.Eff[struct{}]) error {
	wrapped := kont.Map[kont.Resumed, struct{}, kont.Either[error, struct{}]](gen, rightUnit)
	var errCtx kont.ErrorContext[error]
	h := sinkHandler{sc: &sinkContext{ctx: ctx, sink: sink}, errCtx: &errCtx}
	if err, failed := kont.Handle(wrapped, h).GetLeft(); failed {
		return err
	}
	return nil
}

// execExpr runs an Expr-world generator against sink.
func execExpr[T any](ctx context.Context, sink Sink[T], gen kont.Expr[struct{}]) error {
	wrapped := kont.ExprMap(gen, rightUnit)
	var errCtx kont.ErrorContext[error]
	h := sinkHandler{sc: &sinkContext{ctx: ctx, sink: sink}, errCtx: &errCtx}
	if err, failed := kont.HandleExpr(wrapped, h).GetLeft(); failed {
		return err
	}
	return nil
}

// FromEff creates a Seq whose generator is a Cont-world effect program
// performing Yield, YieldAll and Wait. build is called once per
// traversal. kont.ThrowError[error] inside the program faults the
// traversal with the thrown error.
// Panics if build is nil.
func FromEff[T any](build func() kont.Eff[struct{}], opts ...Option) *Seq[T] {
	if build == nil {
		panic("agen: FromEff requires non-nil builder")
	}
	return FromGenerator(func(ctx context.Context, sink Sink[T]) error {
		return execEff(ctx, sink, build())
	}, opts...)
}

// FromExpr is FromEff for Expr-world programs. Expr frames are
// single-use, so build must return a fresh program on every call.
// Panics if build is nil.
func FromExpr[T any](build func() kont.Expr[struct{}], opts ...Option) *Seq[T] {
	if build == nil {
		panic("agen: FromExpr requires non-nil builder")
	}
	return FromGenerator(func(ctx context.Context, sink Sink[T]) error {
		return execExpr(ctx, sink, build())
	}, opts...)
}
