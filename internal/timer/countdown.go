package timer

import "time"

// TickInterval is the resolution every timer in this package runs at.
const TickInterval = time.Second

// Countdown ticks an integer number of seconds down to zero while running
// and reports expiry once per start.
type Countdown struct {
	sched     Scheduler
	remaining int
	running   bool
	gen       uint64
	stop      func()

	onTick   func(remaining int)
	onExpire func()
}

// NewCountdown returns an idle countdown at zero.
func NewCountdown(sched Scheduler) *Countdown {
	return &Countdown{sched: sched}
}

// OnTick registers the per-second callback.
func (c *Countdown) OnTick(fn func(remaining int)) { c.onTick = fn }

// OnExpire registers the callback fired when the countdown reaches zero.
func (c *Countdown) OnExpire(fn func()) { c.onExpire = fn }

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int { return c.remaining }

// Running reports whether the countdown is ticking.
func (c *Countdown) Running() bool { return c.running }

// Start sets the countdown to seconds and begins ticking.
func (c *Countdown) Start(seconds int) error {
	if seconds <= 0 {
		return &InvalidDurationError{Seconds: seconds}
	}
	c.halt()
	c.remaining = seconds
	c.run()
	return nil
}

// Pause freezes the countdown, keeping the remaining seconds.
func (c *Countdown) Pause() {
	if !c.running {
		return
	}
	c.halt()
}

// Resume continues a paused countdown. At zero it does nothing.
func (c *Countdown) Resume() {
	if c.running || c.remaining <= 0 {
		return
	}
	c.run()
}

// Reset stops the countdown and sets the remaining seconds.
func (c *Countdown) Reset(seconds int) error {
	if seconds < 0 {
		return &InvalidDurationError{Seconds: seconds}
	}
	c.halt()
	c.remaining = seconds
	return nil
}

// Tick advances the countdown by one second. Callers normally leave this to
// the scheduler; it is a no-op unless running.
func (c *Countdown) Tick() {
	if !c.running || c.remaining <= 0 {
		return
	}
	c.remaining--
	expired := c.remaining == 0
	if expired {
		c.halt()
	}
	if c.onTick != nil {
		c.onTick(c.remaining)
	}
	if expired && c.onExpire != nil {
		c.onExpire()
	}
}

func (c *Countdown) run() {
	c.gen++
	gen := c.gen
	c.running = true
	c.stop = c.sched.Every(TickInterval, func() {
		if c.gen != gen {
			return
		}
		c.Tick()
	})
}

// halt stops ticking and invalidates any callback still in flight.
func (c *Countdown) halt() {
	c.gen++
	c.running = false
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}
