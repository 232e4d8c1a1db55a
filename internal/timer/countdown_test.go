package timer

import (
	"errors"
	"testing"
	"time"
)

func TestCountdownExpiresOnce(t *testing.T) {
	for _, seconds := range []int{1, 2, 5, 60} {
		sched := NewVirtual()
		c := NewCountdown(sched)
		expired := 0
		c.OnExpire(func() { expired++ })
		if err := c.Start(seconds); err != nil {
			t.Fatalf("start %d: %v", seconds, err)
		}
		sched.Advance(time.Duration(seconds) * time.Second)
		if c.Remaining() != 0 {
			t.Fatalf("start %d: expected 0 remaining, got %d", seconds, c.Remaining())
		}
		if c.Running() {
			t.Fatalf("start %d: expected countdown to stop at zero", seconds)
		}
		sched.Advance(10 * time.Second)
		if expired != 1 {
			t.Fatalf("start %d: expected one expiry, got %d", seconds, expired)
		}
		if sched.Pending() != 0 {
			t.Fatalf("start %d: expected no scheduled callbacks, got %d", seconds, sched.Pending())
		}
	}
}

func TestCountdownPauseResume(t *testing.T) {
	sched := NewVirtual()
	c := NewCountdown(sched)
	expired := 0
	c.OnExpire(func() { expired++ })
	if err := c.Start(10); err != nil {
		t.Fatalf("start: %v", err)
	}
	sched.Advance(3 * time.Second)
	c.Pause()
	sched.Advance(30 * time.Second)
	if c.Remaining() != 7 {
		t.Fatalf("expected 7 remaining while paused, got %d", c.Remaining())
	}
	c.Resume()
	sched.Advance(6 * time.Second)
	if expired != 0 || c.Remaining() != 1 {
		t.Fatalf("expected 1 remaining without expiry, got %d (expired=%d)", c.Remaining(), expired)
	}
	sched.Advance(time.Second)
	if expired != 1 {
		t.Fatalf("expected expiry after %d ticks from resume", 7)
	}
}

func TestCountdownResumeAtZeroIsNoop(t *testing.T) {
	sched := NewVirtual()
	c := NewCountdown(sched)
	c.Resume()
	if c.Running() {
		t.Fatalf("expected resume at zero to do nothing")
	}
	if sched.Pending() != 0 {
		t.Fatalf("expected nothing scheduled")
	}
}

func TestCountdownRejectsInvalidDuration(t *testing.T) {
	sched := NewVirtual()
	c := NewCountdown(sched)
	if err := c.Start(5); err != nil {
		t.Fatalf("start: %v", err)
	}
	sched.Advance(2 * time.Second)
	for _, seconds := range []int{0, -5} {
		err := c.Start(seconds)
		if !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("start %d: expected ErrInvalidDuration, got %v", seconds, err)
		}
		var durErr *InvalidDurationError
		if !errors.As(err, &durErr) || durErr.Seconds != seconds {
			t.Fatalf("start %d: expected InvalidDurationError, got %v", seconds, err)
		}
	}
	if c.Remaining() != 3 || !c.Running() {
		t.Fatalf("expected running countdown at 3, got %d running=%v", c.Remaining(), c.Running())
	}
	if err := c.Reset(-1); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected reset(-1) to fail, got %v", err)
	}
}

func TestCountdownResetDropsPendingTick(t *testing.T) {
	sched := NewVirtual()
	c := NewCountdown(sched)
	ticks := 0
	c.OnTick(func(int) { ticks++ })
	if err := c.Start(5); err != nil {
		t.Fatalf("start: %v", err)
	}
	sched.Advance(1500 * time.Millisecond)
	if err := c.Reset(5); err != nil {
		t.Fatalf("reset: %v", err)
	}
	sched.Advance(10 * time.Second)
	if ticks != 1 || c.Remaining() != 5 {
		t.Fatalf("expected reset countdown to stay at 5 after 1 tick, got %d after %d ticks", c.Remaining(), ticks)
	}
}

func TestCountdownPauseResumeWithinSecond(t *testing.T) {
	sched := NewVirtual()
	c := NewCountdown(sched)
	if err := c.Start(5); err != nil {
		t.Fatalf("start: %v", err)
	}
	sched.Advance(500 * time.Millisecond)
	c.Pause()
	c.Resume()
	sched.Advance(600 * time.Millisecond)
	if c.Remaining() != 5 {
		t.Fatalf("expected the cancelled tick not to fire, got %d", c.Remaining())
	}
	sched.Advance(400 * time.Millisecond)
	if c.Remaining() != 4 {
		t.Fatalf("expected one tick a full second after resume, got %d", c.Remaining())
	}
	if sched.Pending() != 1 {
		t.Fatalf("expected exactly one scheduled tick, got %d", sched.Pending())
	}
}
