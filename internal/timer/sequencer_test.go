package timer

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func breathingPhases() []Phase {
	return []Phase{
		{Name: "inhale", Seconds: 4, Motion: MotionGrow},
		{Name: "hold", Seconds: 7, Motion: MotionHold},
		{Name: "exhale", Seconds: 8, Motion: MotionShrink},
		{Name: "pause", Seconds: 2, Motion: MotionRest},
	}
}

func newBreathing(t *testing.T) (*Virtual, *Sequencer) {
	t.Helper()
	sched := NewVirtual()
	seq, err := NewSequencer(sched, breathingPhases())
	if err != nil {
		t.Fatalf("new sequencer: %v", err)
	}
	return sched, seq
}

func TestSequencerFullCycle(t *testing.T) {
	sched, seq := newBreathing(t)
	if err := seq.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}
	sched.Advance(21 * time.Second)
	if seq.Cycles() != 1 || seq.Index() != 0 {
		t.Fatalf("expected 1 cycle at index 0, got %d cycles at %d", seq.Cycles(), seq.Index())
	}
	if seq.Remaining() != 4 || !seq.Running() {
		t.Fatalf("expected inhale running at 4s, got %d running=%v", seq.Remaining(), seq.Running())
	}
}

func TestSequencerBreathingScenario(t *testing.T) {
	sched, seq := newBreathing(t)
	if err := seq.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if seq.Phase().Name != "inhale" || seq.Remaining() != 4 {
		t.Fatalf("expected inhale at 4s, got %s at %d", seq.Phase().Name, seq.Remaining())
	}

	steps := []struct {
		advance int
		index   int
		name    string
		secs    int
		cycles  int
	}{
		{advance: 4, index: 1, name: "hold", secs: 7},
		{advance: 7, index: 2, name: "exhale", secs: 8},
		{advance: 8, index: 3, name: "pause", secs: 2},
		{advance: 2, index: 0, name: "inhale", secs: 4, cycles: 1},
	}
	for _, step := range steps {
		sched.Advance(time.Duration(step.advance) * time.Second)
		if seq.Index() != step.index || seq.Phase().Name != step.name {
			t.Fatalf("after %ds expected %s at %d, got %s at %d", step.advance, step.name, step.index, seq.Phase().Name, seq.Index())
		}
		if seq.Remaining() != step.secs {
			t.Fatalf("expected %s to start at %ds, got %d", step.name, step.secs, seq.Remaining())
		}
		if seq.Cycles() != step.cycles {
			t.Fatalf("expected %d cycles at %s, got %d", step.cycles, step.name, seq.Cycles())
		}
	}
}

func TestSequencerRestartIsDeterministic(t *testing.T) {
	sched, seq := newBreathing(t)
	var trace []string
	seq.OnTick(func(remaining int) {
		trace = append(trace, seq.Phase().Name+":"+strconv.Itoa(remaining))
	})
	seq.OnPhaseChange(func(index int, p Phase) {
		trace = append(trace, "->"+p.Name)
	})

	run := func() []string {
		trace = nil
		if err := seq.Start(0); err != nil {
			t.Fatalf("start: %v", err)
		}
		sched.Advance(30 * time.Second)
		return append([]string(nil), trace...)
	}

	first := run()
	seq.Reset()
	if seq.Index() != 0 || seq.Cycles() != 0 || seq.Running() || seq.Remaining() != 4 {
		t.Fatalf("unexpected state after reset: index=%d cycles=%d running=%v remaining=%d",
			seq.Index(), seq.Cycles(), seq.Running(), seq.Remaining())
	}
	second := run()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("restart produced a different sequence (-first +second):\n%s", diff)
	}
}

func TestSequencerToggleKeepsPhase(t *testing.T) {
	sched, seq := newBreathing(t)
	if err := seq.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}
	sched.Advance(6 * time.Second)
	seq.Toggle()
	sched.Advance(20 * time.Second)
	if seq.Running() || seq.Index() != 1 || seq.Remaining() != 5 {
		t.Fatalf("expected paused hold at 5, got index=%d remaining=%d running=%v", seq.Index(), seq.Remaining(), seq.Running())
	}
	seq.Toggle()
	sched.Advance(5 * time.Second)
	if seq.Index() != 2 {
		t.Fatalf("expected exhale after resume, got index %d", seq.Index())
	}
}

func TestSequencerStartFromPhase(t *testing.T) {
	sched, seq := newBreathing(t)
	if err := seq.Start(3); err != nil {
		t.Fatalf("start: %v", err)
	}
	sched.Advance(2 * time.Second)
	if seq.Index() != 0 || seq.Cycles() != 1 {
		t.Fatalf("expected wrap to inhale with 1 cycle, got index=%d cycles=%d", seq.Index(), seq.Cycles())
	}
	if err := seq.Start(4); !errors.Is(err, ErrPhaseIndex) {
		t.Fatalf("expected ErrPhaseIndex, got %v", err)
	}
}

func TestNewSequencerValidation(t *testing.T) {
	sched := NewVirtual()
	if _, err := NewSequencer(sched, nil); !errors.Is(err, ErrNoPhases) {
		t.Fatalf("expected ErrNoPhases, got %v", err)
	}
	_, err := NewSequencer(sched, []Phase{{Name: "a", Seconds: 2}, {Name: "b", Seconds: 0}})
	if !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if _, err := NewSequencer(sched, []Phase{{Name: "a", Seconds: 2}, {Name: "a", Seconds: 3}}); err == nil {
		t.Fatalf("expected duplicate phase error")
	}
	seq, err := NewSequencer(sched, breathingPhases())
	if err != nil {
		t.Fatalf("new sequencer: %v", err)
	}
	for i, p := range seq.Phases() {
		if p.Ordinal != i {
			t.Fatalf("expected ordinal %d for %s, got %d", i, p.Name, p.Ordinal)
		}
		if p.Label != p.Name {
			t.Fatalf("expected label to default to name, got %q", p.Label)
		}
	}
}

func TestSequencerScale(t *testing.T) {
	sched, seq := newBreathing(t)
	if err := seq.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := seq.Scale(); got != 0.5 {
		t.Fatalf("expected 0.5 at inhale start, got %v", got)
	}
	sched.Advance(2 * time.Second)
	if got := seq.Scale(); got != 0.75 {
		t.Fatalf("expected 0.75 halfway through inhale, got %v", got)
	}
	sched.Advance(2 * time.Second)
	if got := seq.Scale(); got != 1 {
		t.Fatalf("expected 1 during hold, got %v", got)
	}
	sched.Advance(11 * time.Second)
	if got := seq.Scale(); got != 0.75 {
		t.Fatalf("expected 0.75 halfway through exhale, got %v", got)
	}
}
