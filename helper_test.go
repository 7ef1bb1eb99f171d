// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/iox"

	"code.hybscloud.com/agen"
)

// waitTimeout bounds every blocking step of a test.
const waitTimeout = 5 * time.Second

var errBoom = errors.New("boom")

// testContext returns a context that fails the test's blocking steps
// instead of hanging them.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	t.Cleanup(cancel)
	return ctx
}

// advanceSpin drives the non-blocking path to a result.
// Retries on iox.ErrWouldBlock (generator has not yielded yet).
func advanceSpin[T any](it *agen.Iterator[T]) (bool, error) {
	var bo iox.Backoff
	for {
		ok, err := it.TryAdvance()
		if !iox.IsWouldBlock(err) {
			return ok, err
		}
		bo.Wait()
	}
}

// drain advances it to the end and returns the values seen and the
// terminal error.
func drain[T any](ctx context.Context, it *agen.Iterator[T]) ([]T, error) {
	var got []T
	for {
		ok, err := it.Advance(ctx)
		if err != nil {
			return got, err
		}
		if !ok {
			return got, nil
		}
		got = append(got, it.Current())
	}
}

// collect runs one full traversal of seq.
func collect[T any](ctx context.Context, seq *agen.Seq[T]) ([]T, error) {
	it := seq.Begin()
	defer it.Dispose()
	return drain(ctx, it)
}

// within fails the test unless ch is closed within waitTimeout.
func within(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(waitTimeout):
		t.Fatalf("%s: timed out", what)
	}
}

// stillBlocked fails the test if ch is closed within d.
func stillBlocked(t *testing.T, ch <-chan struct{}, d time.Duration, what string) {
	t.Helper()
	select {
	case <-ch:
		t.Fatalf("%s: returned early", what)
	case <-time.After(d):
	}
}
