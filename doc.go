// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package agen bridges push-style generators and pull-style consumers.
//
// A generator is a function that yields items into a [Sink] from its own
// goroutine. [FromGenerator] wraps it into a restartable [Seq]; every
// traversal ([Seq.Begin] or [Seq.All]) starts a fresh generator
// invocation on a fresh [Channel] and drives it through an [Iterator].
//
// # Architecture
//
//   - Transport: [Channel] is a mutex-guarded FIFO built from a chain of
//     bounded SPSC rings ([code.hybscloud.com/lfq]). Waiters are released
//     outside the critical section.
//   - Non-blocking: [Channel.TryTake], [Iterator.TryAdvance] and bounded
//     [Channel.Yield] return [code.hybscloud.com/iox.ErrWouldBlock].
//   - Backpressure: [Sink.Wait] and [Sink.YieldAndWait] let a generator
//     throttle itself to the consumer.
//   - Cancellation: the context given to [Iterator.Advance] scopes that
//     call only. The generator's context is cancelled with cause
//     [ErrDisposed] by [Iterator.Dispose]. A consumer blocked in Advance
//     wakes when the generator returns, without a separate cancellation.
//   - Failures: a generator's error is reported after every value it
//     yielded was delivered, by identity, and on every later Advance.
//     Panics become [*PanicError].
//   - Effects: [FromEff] and [FromExpr] accept generator programs written
//     with [code.hybscloud.com/kont] operations ([Yield], [YieldAll],
//     [Wait]) and the kont error effect.
//
// # Example
//
//	seq := agen.FromGenerator(func(ctx context.Context, sink agen.Sink[int]) error {
//		for i := range 3 {
//			if err := sink.YieldAndWait(ctx, i); err != nil {
//				return err
//			}
//		}
//		return nil
//	})
//	for v, err := range seq.All(ctx) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(v)
//	}
package agen
