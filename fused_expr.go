// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen

import (
	"code.hybscloud.com/kont"
)

// Pre-boxed frame and operation for Expr-world constructors.
var (
	exprReturnFrame kont.Frame  = kont.ReturnFrame{}
	exprWait        kont.Erased = Wait{}
)

func identityResume(v kont.Erased) kont.Erased { return v }

// exprOpThen suspends on op and continues with next.
func exprOpThen[B any](op kont.Erased, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = op
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

// ExprYieldThen yields v and then continues with next.
func ExprYieldThen[T, B any](v T, next kont.Expr[B]) kont.Expr[B] {
	return exprOpThen(Yield[T]{Value: v}, next)
}

// ExprYieldAllThen yields values as one batch and then continues with next.
func ExprYieldAllThen[T, B any](values []T, next kont.Expr[B]) kont.Expr[B] {
	return exprOpThen(YieldAll[T]{Values: values}, next)
}

// ExprWaitThen waits for the consumer to drain and then continues with next.
func ExprWaitThen[B any](next kont.Expr[B]) kont.Expr[B] {
	return exprOpThen(exprWait, next)
}

// ExprDone ends an Expr-world generator program successfully.
func ExprDone() kont.Expr[struct{}] {
	return kont.ExprReturn(struct{}{})
}
