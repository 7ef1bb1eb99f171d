// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen

import (
	"code.hybscloud.com/kont"
)

// YieldThen yields v and then continues with next.
// Fuses Perform(Yield[T]{Value: v}) + Then.
func YieldThen[T, B any](v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Yield[T]{Value: v}), next)
}

// YieldAllThen yields values as one batch and then continues with next.
// Fuses Perform(YieldAll[T]{Values: values}) + Then.
func YieldAllThen[T, B any](values []T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(YieldAll[T]{Values: values}), next)
}

// WaitThen waits for the consumer to drain and then continues with next.
// Fuses Perform(Wait{}) + Then.
func WaitThen[B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Wait{}), next)
}

// YieldAndWaitThen yields v, waits for it to be taken, then continues.
func YieldAndWaitThen[T, B any](v T, next kont.Eff[B]) kont.Eff[B] {
	return YieldThen(v, WaitThen(next))
}

// Done ends a generator program successfully.
func Done() kont.Eff[struct{}] {
	return kont.Pure(struct{}{})
}
