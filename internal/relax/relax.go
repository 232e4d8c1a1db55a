// Package relax runs guided relaxation exercises and the breathing game.
package relax

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/calma/internal/log"
	"github.com/verte-zerg/calma/internal/model"
	"github.com/verte-zerg/calma/internal/snapshot"
	"github.com/verte-zerg/calma/internal/timer"
)

const (
	MinVolume     = 0
	MaxVolume     = 100
	DefaultVolume = 50
)

// CompletionNotice is raised when an exercise runs to the end.
const CompletionNotice = "Session complete! You finished your relaxation exercise. Great job!"

// ErrUnknownExercise is returned by Select for an id not in the catalog.
var ErrUnknownExercise = errors.New("unknown exercise")

// Player owns one relaxation session at a time.
type Player struct {
	sched     timer.Scheduler
	exercises []model.Exercise
	active    int
	session   *timer.Session
	volume    int
	notice    string
	logger    zerolog.Logger

	onComplete    func(model.Exercise)
	onPhaseChange func(model.Exercise, timer.Phase)
}

// NewPlayer returns a player over the exercise catalog with nothing selected.
func NewPlayer(sched timer.Scheduler, exercises []model.Exercise, volume int) *Player {
	p := &Player{
		sched:     sched,
		exercises: append([]model.Exercise(nil), exercises...),
		active:    -1,
		session:   timer.NewSession(sched),
		volume:    clampVolume(volume),
		logger:    log.WithComponent("relax"),
	}
	p.session.OnComplete(p.complete)
	p.session.OnPhaseChange(p.phaseChanged)
	return p
}

// OnComplete registers a callback for finished exercises.
func (p *Player) OnComplete(fn func(model.Exercise)) { p.onComplete = fn }

// OnPhaseChange registers a callback for guide phase transitions. It stays
// registered across Select calls.
func (p *Player) OnPhaseChange(fn func(model.Exercise, timer.Phase)) { p.onPhaseChange = fn }

// Exercises returns the catalog.
func (p *Player) Exercises() []model.Exercise {
	return append([]model.Exercise(nil), p.exercises...)
}

// Active returns the selected exercise.
func (p *Player) Active() (model.Exercise, bool) {
	if p.active < 0 {
		return model.Exercise{}, false
	}
	return p.exercises[p.active], true
}

// Session exposes the running session for rendering.
func (p *Player) Session() *timer.Session { return p.session }

// Select starts the exercise with the given id from the top.
func (p *Player) Select(id string) error {
	idx := -1
	for i, ex := range p.exercises {
		if ex.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownExercise, id)
	}
	ex := p.exercises[idx]
	if ex.Seconds <= 0 {
		return &timer.InvalidDurationError{Seconds: ex.Seconds}
	}

	var seq *timer.Sequencer
	if len(ex.Phases) > 0 {
		var err error
		seq, err = timer.NewSequencer(p.sched, snapshot.Phases(ex.Phases))
		if err != nil {
			return fmt.Errorf("exercise %q: %w", ex.ID, err)
		}
	}

	p.session.Stop()
	p.session.Bind(seq)
	p.active = idx
	p.notice = ""
	if err := p.session.Start(ex.Seconds); err != nil {
		p.active = -1
		return err
	}
	p.logger.Info().Str("exercise", ex.ID).Int("seconds", ex.Seconds).Msg("exercise started")
	return nil
}

// Toggle pauses or resumes the active exercise.
func (p *Player) Toggle() {
	if p.active < 0 {
		return
	}
	p.session.Toggle()
}

// Reset rewinds the active exercise to its full length, paused.
func (p *Player) Reset() {
	if p.active < 0 {
		return
	}
	p.session.Reset()
	p.notice = ""
}

// SetVolume clamps and stores the volume.
func (p *Player) SetVolume(v int) int {
	p.volume = clampVolume(v)
	return p.volume
}

// Volume returns the current volume.
func (p *Player) Volume() int { return p.volume }

// Notice returns the latest completion message.
func (p *Player) Notice() string { return p.notice }

// Clock renders the remaining time.
func (p *Player) Clock() string {
	return FormatClock(p.session.Remaining())
}

// PhaseLabel returns the current guide phase, if the exercise has one.
func (p *Player) PhaseLabel() string {
	seq := p.session.Sequencer()
	if seq == nil {
		return ""
	}
	return seq.Phase().Label
}

func (p *Player) phaseChanged(_ int, phase timer.Phase) {
	ex, ok := p.Active()
	if !ok || p.onPhaseChange == nil {
		return
	}
	p.onPhaseChange(ex, phase)
}

func (p *Player) complete() {
	p.notice = CompletionNotice
	ex, ok := p.Active()
	if !ok {
		return
	}
	if p.onComplete != nil {
		p.onComplete(ex)
	}
}

func clampVolume(v int) int {
	if v < MinVolume {
		return MinVolume
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}

// FormatClock formats seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
