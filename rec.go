// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen

import (
	"code.hybscloud.com/kont"
)

// Unfold is a generator program driven by a state machine.
// step returns the next value, the next state and whether to continue.
// Each value is yielded and waited on before step runs again, so an
// unbounded step only advances as fast as the consumer takes values.
func Unfold[S, T any](initial S, step func(S) (T, S, bool)) kont.Eff[struct{}] {
	v, next, ok := step(initial)
	if !ok {
		return Done()
	}
	return kont.Bind(kont.Perform(Yield[T]{Value: v}), func(struct{}) kont.Eff[struct{}] {
		return WaitThen(kont.Bind(kont.Pure(next), func(s S) kont.Eff[struct{}] {
			return Unfold(s, step)
		}))
	})
}
