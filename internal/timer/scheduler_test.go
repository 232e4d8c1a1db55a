package timer

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestVirtualOrdering(t *testing.T) {
	v := NewVirtual()
	var got []string
	v.After(2*time.Second, func() { got = append(got, "after-2") })
	stopA := v.Every(time.Second, func() { got = append(got, "every-a") })
	v.Every(time.Second, func() { got = append(got, "every-b") })
	v.Advance(2 * time.Second)
	stopA()
	v.Advance(time.Second)

	want := []string{"every-a", "every-b", "after-2", "every-a", "every-b", "every-b"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if v.Now() != 3*time.Second {
		t.Fatalf("expected virtual now 3s, got %v", v.Now())
	}
}

func TestVirtualStopInsideCallback(t *testing.T) {
	v := NewVirtual()
	calls := 0
	var stop func()
	stop = v.Every(time.Second, func() {
		calls++
		if calls == 2 {
			stop()
		}
	})
	v.Advance(5 * time.Second)
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if v.Pending() != 0 {
		t.Fatalf("expected no pending entries, got %d", v.Pending())
	}
}

func TestVirtualAfterRegisteredDuringAdvance(t *testing.T) {
	v := NewVirtual()
	var at []time.Duration
	v.After(time.Second, func() {
		v.After(time.Second, func() { at = append(at, v.Now()) })
	})
	v.Advance(5 * time.Second)
	if len(at) != 1 || at[0] != 2*time.Second {
		t.Fatalf("expected nested callback at 2s, got %v", at)
	}
}

type fakeTicker struct {
	ch      chan time.Time
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped = true }

func TestPumpAdvancesUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	v := NewVirtual()
	s := NewSession(v)
	ctx, cancel := context.WithCancel(context.Background())
	s.OnComplete(cancel)
	if err := s.Start(3); err != nil {
		t.Fatalf("start: %v", err)
	}

	ticker := &fakeTicker{ch: make(chan time.Time, 3)}
	for i := 0; i < 3; i++ {
		ticker.ch <- time.Time{}
	}
	err := Pump(ctx, v, time.Second, ticker)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !s.Completed() || !ticker.stopped {
		t.Fatalf("expected completed session and stopped ticker")
	}
}

func TestPumpRealTicker(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	v := NewVirtual()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := Pump(ctx, v, time.Second, NewTicker(5*time.Millisecond))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if v.Now() == 0 {
		t.Fatalf("expected virtual time to advance")
	}
}
