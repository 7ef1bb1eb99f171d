// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"code.hybscloud.com/agen"
)

func TestDisposeBeforeAdvance(t *testing.T) {
	var started atomic.Bool
	seq := agen.FromFunc(func(agen.Sink[int]) error {
		started.Store(true)
		return nil
	})
	it := seq.Begin()
	it.Dispose()
	it.Dispose()

	if it.State() != agen.Disposed {
		t.Fatalf("state got %v, want %v", it.State(), agen.Disposed)
	}
	if ok, err := it.Advance(context.Background()); ok || !errors.Is(err, agen.ErrClosed) {
		t.Fatalf("Advance got (%v, %v), want (false, ErrClosed)", ok, err)
	}
	if _, err := it.TryAdvance(); !errors.Is(err, agen.ErrClosed) {
		t.Fatalf("TryAdvance got %v, want ErrClosed", err)
	}
	if started.Load() {
		t.Fatal("generator started on a disposed iterator")
	}
	if err := it.Close(); err != nil {
		t.Fatalf("Close got %v, want nil", err)
	}
}

func TestDisposeUnblocksAdvance(t *testing.T) {
	cause := make(chan error, 1)
	seq := agen.FromGenerator(func(ctx context.Context, sink agen.Sink[int]) error {
		<-ctx.Done()
		cause <- context.Cause(ctx)
		return ctx.Err()
	}, agen.WithDisposeTimeout(time.Second))
	it := seq.Begin()

	done := make(chan struct{})
	var (
		ok  bool
		err error
	)
	go func() {
		defer close(done)
		ok, err = it.Advance(context.Background())
	}()
	stillBlocked(t, done, 20*time.Millisecond, "Advance on idle generator")
	it.Dispose()
	within(t, done, "Advance after Dispose")

	if ok || !errors.Is(err, agen.ErrClosed) {
		t.Fatalf("Advance got (%v, %v), want (false, ErrClosed)", ok, err)
	}
	select {
	case c := <-cause:
		if !errors.Is(c, agen.ErrDisposed) {
			t.Fatalf("generator cause got %v, want ErrDisposed", c)
		}
	case <-time.After(waitTimeout):
		t.Fatal("generator not cancelled")
	}
}

func TestDisposeDiscardsQueued(t *testing.T) {
	ctx := testContext(t)
	seq := agen.FromFunc(func(sink agen.Sink[int]) error {
		_, err := sink.YieldAll(1, 2, 3)
		return err
	})
	it := seq.Begin()
	if ok, err := it.Advance(ctx); !ok || err != nil {
		t.Fatalf("Advance got (%v, %v), want (true, nil)", ok, err)
	}
	it.Dispose()
	if ok, err := it.Advance(ctx); ok || !errors.Is(err, agen.ErrClosed) {
		t.Fatalf("Advance after Dispose got (%v, %v), want (false, ErrClosed)", ok, err)
	}
}

func TestDisposeTimeoutWaitsForGenerator(t *testing.T) {
	ctx := testContext(t)
	var returned atomic.Bool
	seq := agen.FromGenerator(func(ctx context.Context, sink agen.Sink[int]) error {
		if err := sink.Yield(1); err != nil {
			return err
		}
		<-ctx.Done()
		time.Sleep(30 * time.Millisecond)
		returned.Store(true)
		return nil
	}, agen.WithDisposeTimeout(time.Second))
	it := seq.Begin()
	if ok, err := it.Advance(ctx); !ok || err != nil {
		t.Fatalf("Advance got (%v, %v), want (true, nil)", ok, err)
	}
	it.Dispose()
	if !returned.Load() {
		t.Fatal("Dispose returned before the generator")
	}
}

func TestDisposeFailureSwallowed(t *testing.T) {
	ctx := testContext(t)
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	seq := agen.FromGenerator(func(ctx context.Context, sink agen.Sink[int]) error {
		if err := sink.YieldAllAndWait(ctx, 1, 2); err != nil {
			return errBoom
		}
		return nil
	}, agen.WithDisposeTimeout(time.Second), agen.WithLogger(log))

	it := seq.Begin()
	if ok, err := it.Advance(ctx); !ok || err != nil {
		t.Fatalf("Advance got (%v, %v), want (true, nil)", ok, err)
	}
	it.Dispose()
	out := buf.String()
	if !strings.Contains(out, "generator failure after disposal swallowed") {
		t.Fatalf("missing swallowed failure in log:\n%s", out)
	}
	if !strings.Contains(out, `"status":"cancelled"`) {
		t.Fatalf("missing cancelled status in log:\n%s", out)
	}
}

func TestSessionLogging(t *testing.T) {
	ctx := testContext(t)
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	seq := agen.FromFunc(func(sink agen.Sink[int]) error {
		return sink.Yield(1)
	}, agen.WithLogger(log))

	it := seq.Begin()
	if _, err := drain(ctx, it); err != nil {
		t.Fatalf("traversal: %v", err)
	}
	it.Dispose()

	out := buf.String()
	for _, msg := range []string{"session started", "generator ended", "session disposed"} {
		if !strings.Contains(out, msg) {
			t.Fatalf("missing %q in log:\n%s", msg, out)
		}
	}
	if !strings.Contains(out, `"serial":`) {
		t.Fatalf("missing serial field in log:\n%s", out)
	}
	if !strings.Contains(out, `"status":"completed"`) {
		t.Fatalf("missing completed status in log:\n%s", out)
	}
}

func TestStatusString(t *testing.T) {
	cases := map[agen.Status]string{
		agen.StatusRunning:   "running",
		agen.StatusCompleted: "completed",
		agen.StatusFaulted:   "faulted",
		agen.StatusCancelled: "cancelled",
	}
	for s, want := range cases {
		if s.String() != want {
			t.Fatalf("Status(%d).String() got %q, want %q", s, s.String(), want)
		}
	}
}
