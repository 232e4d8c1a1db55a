package timer

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/calma/internal/log"
)

// Motion describes how a breathing guide moves during a phase.
type Motion string

const (
	MotionGrow   Motion = "grow"
	MotionHold   Motion = "hold"
	MotionShrink Motion = "shrink"
	MotionRest   Motion = "rest"
)

// Phase is a named fixed-duration interval in a repeating sequence.
type Phase struct {
	Name    string
	Label   string
	Seconds int
	Motion  Motion
	Ordinal int
}

// Sequencer drives a Countdown through a cyclic list of phases and counts
// completed cycles. It never stops on its own.
type Sequencer struct {
	phases []Phase
	clock  *Countdown
	index  int
	cycles int
	logger zerolog.Logger

	onPhaseChange func(index int, phase Phase)
	onTick        func(remaining int)
}

// NewSequencer validates phases and returns a sequencer parked at the first
// phase. Phase durations are fixed for the life of the sequencer.
func NewSequencer(sched Scheduler, phases []Phase) (*Sequencer, error) {
	if len(phases) == 0 {
		return nil, ErrNoPhases
	}
	seen := make(map[string]struct{}, len(phases))
	list := make([]Phase, len(phases))
	for i, p := range phases {
		if p.Seconds <= 0 {
			return nil, fmt.Errorf("phase %q: %w", p.Name, &InvalidDurationError{Seconds: p.Seconds})
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("duplicate phase %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		p.Ordinal = i
		if p.Label == "" {
			p.Label = p.Name
		}
		list[i] = p
	}

	s := &Sequencer{
		phases: list,
		clock:  NewCountdown(sched),
		logger: log.WithComponent("sequencer"),
	}
	s.clock.OnTick(func(remaining int) {
		if s.onTick != nil {
			s.onTick(remaining)
		}
	})
	s.clock.OnExpire(s.advance)
	_ = s.clock.Reset(list[0].Seconds)
	return s, nil
}

// OnPhaseChange registers the phase transition callback.
func (s *Sequencer) OnPhaseChange(fn func(index int, phase Phase)) { s.onPhaseChange = fn }

// OnTick registers the per-second callback.
func (s *Sequencer) OnTick(fn func(remaining int)) { s.onTick = fn }

// Phases returns a copy of the phase list.
func (s *Sequencer) Phases() []Phase {
	return append([]Phase(nil), s.phases...)
}

// Index returns the current phase index.
func (s *Sequencer) Index() int { return s.index }

// Phase returns the current phase.
func (s *Sequencer) Phase() Phase { return s.phases[s.index] }

// Cycles returns the number of completed cycles.
func (s *Sequencer) Cycles() int { return s.cycles }

// Remaining returns the seconds left in the current phase.
func (s *Sequencer) Remaining() int { return s.clock.Remaining() }

// Running reports whether the sequencer is ticking.
func (s *Sequencer) Running() bool { return s.clock.Running() }

// Start begins the sequence at phase from.
func (s *Sequencer) Start(from int) error {
	if from < 0 || from >= len(s.phases) {
		return fmt.Errorf("start at %d of %d phases: %w", from, len(s.phases), ErrPhaseIndex)
	}
	s.index = from
	if err := s.clock.Start(s.phases[from].Seconds); err != nil {
		return err
	}
	s.logger.Debug().Str("phase", s.phases[from].Name).Msg("sequence started")
	if s.onPhaseChange != nil {
		s.onPhaseChange(s.index, s.phases[s.index])
	}
	return nil
}

// Toggle pauses a running sequence or resumes a paused one.
func (s *Sequencer) Toggle() {
	if s.clock.Running() {
		s.clock.Pause()
		return
	}
	s.clock.Resume()
}

// Pause freezes the current phase.
func (s *Sequencer) Pause() { s.clock.Pause() }

// Resume continues the current phase.
func (s *Sequencer) Resume() { s.clock.Resume() }

// Reset returns to the first phase at full duration with no cycles counted.
func (s *Sequencer) Reset() {
	s.index = 0
	s.cycles = 0
	_ = s.clock.Reset(s.phases[0].Seconds)
}

// Scale returns the size of the breathing guide for the current phase:
// 0.5 at rest, 1 when full.
func (s *Sequencer) Scale() float64 {
	p := s.phases[s.index]
	progress := float64(p.Seconds-s.clock.Remaining()) / float64(p.Seconds)
	switch p.Motion {
	case MotionGrow:
		return 0.5 + progress*0.5
	case MotionHold:
		return 1
	case MotionShrink:
		return 1 - progress*0.5
	default:
		return 0.5
	}
}

func (s *Sequencer) advance() {
	s.index = (s.index + 1) % len(s.phases)
	if s.index == 0 {
		s.cycles++
	}
	next := s.phases[s.index]
	_ = s.clock.Start(next.Seconds)
	s.logger.Debug().
		Str("phase", next.Name).
		Int("cycles", s.cycles).
		Msg("phase changed")
	if s.onPhaseChange != nil {
		s.onPhaseChange(s.index, next)
	}
}
