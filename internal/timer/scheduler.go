// Package timer implements the countdown, phase sequencer and session
// controller shared by the relaxation, breathing and focus features.
package timer

import (
	"context"
	"time"
)

// Scheduler is the clock source timers run on.
type Scheduler interface {
	// Every calls fn once per interval until stop is called.
	Every(interval time.Duration, fn func()) (stop func())
	// After calls fn once after delay unless stop is called first.
	After(delay time.Duration, fn func()) (stop func())
}

type entry struct {
	id       uint64
	due      time.Duration
	interval time.Duration
	repeat   bool
	active   bool
	fn       func()
}

// Virtual is a Scheduler driven by explicit Advance calls. Callbacks run
// synchronously on the goroutine that calls Advance, in due-time order and
// registration order for equal due times.
type Virtual struct {
	now     time.Duration
	nextID  uint64
	entries []*entry
}

// NewVirtual returns a Virtual scheduler at time zero.
func NewVirtual() *Virtual {
	return &Virtual{}
}

// Now returns the virtual time elapsed since creation.
func (v *Virtual) Now() time.Duration {
	return v.now
}

// Pending reports how many callbacks are still scheduled.
func (v *Virtual) Pending() int {
	count := 0
	for _, e := range v.entries {
		if e.active {
			count++
		}
	}
	return count
}

// Every implements Scheduler.
func (v *Virtual) Every(interval time.Duration, fn func()) func() {
	if interval <= 0 {
		interval = time.Second
	}
	return v.add(interval, true, fn)
}

// After implements Scheduler.
func (v *Virtual) After(delay time.Duration, fn func()) func() {
	if delay < 0 {
		delay = 0
	}
	return v.add(delay, false, fn)
}

func (v *Virtual) add(d time.Duration, repeat bool, fn func()) func() {
	v.nextID++
	e := &entry{
		id:       v.nextID,
		due:      v.now + d,
		interval: d,
		repeat:   repeat,
		active:   true,
		fn:       fn,
	}
	v.entries = append(v.entries, e)
	return func() {
		e.active = false
	}
}

// Advance moves virtual time forward by d, firing every callback that
// becomes due on the way.
func (v *Virtual) Advance(d time.Duration) {
	target := v.now + d
	for {
		e := v.nextDue(target)
		if e == nil {
			break
		}
		v.now = e.due
		if e.repeat {
			e.due += e.interval
		} else {
			e.active = false
		}
		e.fn()
	}
	v.now = target
	v.compact()
}

func (v *Virtual) nextDue(target time.Duration) *entry {
	var best *entry
	for _, e := range v.entries {
		if !e.active || e.due > target {
			continue
		}
		if best == nil || e.due < best.due || (e.due == best.due && e.id < best.id) {
			best = e
		}
	}
	return best
}

func (v *Virtual) compact() {
	kept := v.entries[:0]
	for _, e := range v.entries {
		if e.active {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(v.entries); i++ {
		v.entries[i] = nil
	}
	v.entries = kept
}

// Ticker is the real-time source Pump reads from.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewTicker wraps time.NewTicker.
func NewTicker(interval time.Duration) Ticker {
	return realTicker{t: time.NewTicker(interval)}
}

// Pump advances v by interval on every tick until ctx is done. It runs on
// the caller's goroutine, so timers driven by v stay single-threaded.
func Pump(ctx context.Context, v *Virtual, interval time.Duration, ticker Ticker) error {
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			v.Advance(interval)
		}
	}
}
