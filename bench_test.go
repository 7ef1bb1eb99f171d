// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen_test

import (
	"context"
	"testing"

	"code.hybscloud.com/kont"

	"code.hybscloud.com/agen"
)

// BenchmarkChannelYieldTake measures a single yield/take round-trip.
func BenchmarkChannelYieldTake(b *testing.B) {
	c := agen.NewChannel[int](0)
	b.ReportAllocs()
	for b.Loop() {
		_ = c.Yield(42)
		_, _ = c.TryTake()
	}
}

// BenchmarkChannelBatch measures a 64-item batch followed by a full drain.
func BenchmarkChannelBatch(b *testing.B) {
	c := agen.NewChannel[int](0)
	batch := make([]int, 64)
	b.ReportAllocs()
	for b.Loop() {
		_, _ = c.YieldAll(batch...)
		for range batch {
			_, _ = c.TryTake()
		}
	}
}

// BenchmarkTraversal measures a full 100-item traversal including session
// setup and disposal.
func BenchmarkTraversal(b *testing.B) {
	ctx := context.Background()
	seq := agen.FromFunc(func(sink agen.Sink[int]) error {
		for i := range 100 {
			if err := sink.Yield(i); err != nil {
				return err
			}
		}
		return nil
	})
	b.ReportAllocs()
	for b.Loop() {
		it := seq.Begin()
		for {
			ok, err := it.Advance(ctx)
			if err != nil {
				b.Fatal(err)
			}
			if !ok {
				break
			}
		}
		it.Dispose()
	}
}

// BenchmarkPingPong measures a yield-and-wait handoff per item.
func BenchmarkPingPong(b *testing.B) {
	ctx := context.Background()
	seq := agen.FromGenerator(func(ctx context.Context, sink agen.Sink[int]) error {
		for i := 0; ; i++ {
			if err := sink.YieldAndWait(ctx, i); err != nil {
				return err
			}
		}
	})
	it := seq.Begin()
	defer it.Dispose()
	b.ReportAllocs()
	for b.Loop() {
		if _, err := it.Advance(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFromEff measures an effect-program traversal of 10 items.
func BenchmarkFromEff(b *testing.B) {
	ctx := context.Background()
	seq := agen.FromEff[int](func() kont.Eff[struct{}] {
		return agen.Unfold(0, func(s int) (int, int, bool) {
			return s, s + 1, s < 10
		})
	})
	b.ReportAllocs()
	for b.Loop() {
		it := seq.Begin()
		for {
			ok, err := it.Advance(ctx)
			if err != nil {
				b.Fatal(err)
			}
			if !ok {
				break
			}
		}
		it.Dispose()
	}
}
