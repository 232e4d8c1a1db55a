package timer

import (
	"github.com/rs/zerolog"

	"github.com/verte-zerg/calma/internal/log"
)

// Session bounds a timer to a fixed total duration and reports completion
// once, independently of any phase transitions.
type Session struct {
	clock     *Countdown
	seq       *Sequencer
	total     int
	completed bool
	logger    zerolog.Logger

	onTick        func(remaining int)
	onExpire      func()
	onComplete    func()
	onPhaseChange func(index int, phase Phase)
}

// NewSession returns an idle session on sched.
func NewSession(sched Scheduler) *Session {
	s := &Session{
		clock:  NewCountdown(sched),
		logger: log.WithComponent("session"),
	}
	s.clock.OnTick(func(remaining int) {
		if s.onTick != nil {
			s.onTick(remaining)
		}
	})
	s.clock.OnExpire(s.complete)
	return s
}

// Bind attaches a sequencer that runs alongside the session and takes over
// its phase hook. Passing nil detaches it.
func (s *Session) Bind(seq *Sequencer) {
	if s.seq != nil && s.seq != seq {
		s.seq.OnPhaseChange(nil)
		s.seq.Reset()
	}
	s.seq = seq
	if seq != nil {
		seq.OnPhaseChange(s.phaseChanged)
	}
}

// Sequencer returns the bound sequencer, if any.
func (s *Session) Sequencer() *Sequencer { return s.seq }

// OnTick registers the per-second callback.
func (s *Session) OnTick(fn func(remaining int)) { s.onTick = fn }

// OnExpire registers the callback fired when the session clock reaches zero,
// before OnComplete.
func (s *Session) OnExpire(fn func()) { s.onExpire = fn }

// OnComplete registers the completion callback.
func (s *Session) OnComplete(fn func()) { s.onComplete = fn }

// OnPhaseChange registers the callback for phase transitions of whichever
// sequencer is bound, now or later.
func (s *Session) OnPhaseChange(fn func(index int, phase Phase)) { s.onPhaseChange = fn }

func (s *Session) phaseChanged(index int, phase Phase) {
	if s.onPhaseChange != nil {
		s.onPhaseChange(index, phase)
	}
}

// Total returns the configured session length in seconds.
func (s *Session) Total() int { return s.total }

// Remaining returns the seconds left in the session.
func (s *Session) Remaining() int { return s.clock.Remaining() }

// Elapsed returns the seconds ticked since the session started.
func (s *Session) Elapsed() int { return s.total - s.clock.Remaining() }

// Running reports whether the session is ticking.
func (s *Session) Running() bool { return s.clock.Running() }

// Completed reports whether the session ran to its full length.
func (s *Session) Completed() bool { return s.completed }

// Start begins a new session of totalSeconds. A non-positive duration is
// rejected and the current session is left as it was.
func (s *Session) Start(totalSeconds int) error {
	if totalSeconds <= 0 {
		return &InvalidDurationError{Seconds: totalSeconds}
	}
	if err := s.clock.Start(totalSeconds); err != nil {
		return err
	}
	s.total = totalSeconds
	s.completed = false
	if s.seq != nil {
		s.seq.Reset()
		if err := s.seq.Start(0); err != nil {
			return err
		}
	}
	s.logger.Debug().Int("total", totalSeconds).Msg("session started")
	return nil
}

// Pause freezes the session and its sequencer.
func (s *Session) Pause() {
	s.clock.Pause()
	if s.seq != nil {
		s.seq.Pause()
	}
}

// Resume continues a paused session. Finished sessions stay finished.
func (s *Session) Resume() {
	if s.clock.Remaining() <= 0 {
		return
	}
	s.clock.Resume()
	if s.seq != nil {
		s.seq.Resume()
	}
}

// Toggle pauses a running session or resumes a paused one.
func (s *Session) Toggle() {
	if s.clock.Running() {
		s.Pause()
		return
	}
	s.Resume()
}

// Stop halts the session without completing it.
func (s *Session) Stop() {
	s.Pause()
	_ = s.clock.Reset(0)
	s.total = 0
	if s.seq != nil {
		s.seq.Reset()
	}
	s.logger.Debug().Msg("session stopped")
}

// Reset rewinds the session to its full length, paused.
func (s *Session) Reset() {
	_ = s.clock.Reset(s.total)
	s.completed = false
	if s.seq != nil {
		s.seq.Reset()
	}
}

// Progress returns the elapsed fraction of the session in [0, 1].
func (s *Session) Progress() float64 {
	if s.total <= 0 {
		return 0
	}
	p := float64(s.Elapsed()) / float64(s.total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (s *Session) complete() {
	if s.seq != nil {
		s.seq.Pause()
	}
	if s.onExpire != nil {
		s.onExpire()
	}
	if s.completed {
		return
	}
	s.completed = true
	s.logger.Info().Int("total", s.total).Msg("session complete")
	if s.onComplete != nil {
		s.onComplete()
	}
}
