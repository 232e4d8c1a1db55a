package timer

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSessionProgressAndCompletion(t *testing.T) {
	sched := NewVirtual()
	s := NewSession(sched)
	completed := 0
	s.OnComplete(func() { completed++ })
	if got := s.Progress(); got != 0 {
		t.Fatalf("expected 0 progress before start, got %v", got)
	}
	if err := s.Start(10); err != nil {
		t.Fatalf("start: %v", err)
	}
	sched.Advance(5 * time.Second)
	if got := s.Progress(); got != 0.5 {
		t.Fatalf("expected 0.5 after 5 ticks, got %v", got)
	}
	sched.Advance(5 * time.Second)
	if got := s.Progress(); got != 1 {
		t.Fatalf("expected 1 at completion, got %v", got)
	}
	sched.Advance(20 * time.Second)
	if completed != 1 {
		t.Fatalf("expected one completion, got %d", completed)
	}
	if !s.Completed() || s.Running() {
		t.Fatalf("expected completed idle session")
	}
}

func TestSessionRejectsInvalidTotal(t *testing.T) {
	sched := NewVirtual()
	s := NewSession(sched)
	if err := s.Start(30); err != nil {
		t.Fatalf("start: %v", err)
	}
	sched.Advance(4 * time.Second)
	for _, total := range []int{0, -5} {
		if err := s.Start(total); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("start %d: expected ErrInvalidDuration, got %v", total, err)
		}
	}
	if s.Total() != 30 || s.Elapsed() != 4 || !s.Running() {
		t.Fatalf("expected prior session untouched, got total=%d elapsed=%d running=%v", s.Total(), s.Elapsed(), s.Running())
	}
}

func TestSessionStopDoesNotComplete(t *testing.T) {
	sched := NewVirtual()
	s := NewSession(sched)
	completed := 0
	s.OnComplete(func() { completed++ })
	if err := s.Start(5); err != nil {
		t.Fatalf("start: %v", err)
	}
	sched.Advance(2 * time.Second)
	s.Pause()
	sched.Advance(10 * time.Second)
	if s.Elapsed() != 2 {
		t.Fatalf("expected pause to freeze elapsed at 2, got %d", s.Elapsed())
	}
	s.Stop()
	sched.Advance(10 * time.Second)
	if completed != 0 || s.Running() || s.Remaining() != 0 {
		t.Fatalf("expected stopped session without completion, got completed=%d running=%v remaining=%d", completed, s.Running(), s.Remaining())
	}
	s.Resume()
	if s.Running() {
		t.Fatalf("expected resume after stop to do nothing")
	}
}

func TestSessionResetRewinds(t *testing.T) {
	sched := NewVirtual()
	s := NewSession(sched)
	if err := s.Start(8); err != nil {
		t.Fatalf("start: %v", err)
	}
	sched.Advance(3 * time.Second)
	s.Reset()
	if s.Running() || s.Remaining() != 8 || s.Progress() != 0 {
		t.Fatalf("expected paused full session, got remaining=%d running=%v", s.Remaining(), s.Running())
	}
	s.Toggle()
	sched.Advance(8 * time.Second)
	if !s.Completed() {
		t.Fatalf("expected session to complete after reset and toggle")
	}
}

func TestSessionWithSequencer(t *testing.T) {
	sched := NewVirtual()
	seq, err := NewSequencer(sched, breathingPhases())
	if err != nil {
		t.Fatalf("new sequencer: %v", err)
	}
	s := NewSession(sched)
	s.Bind(seq)
	var phases []string
	s.OnPhaseChange(func(_ int, p Phase) { phases = append(phases, p.Name) })
	completed := 0
	s.OnComplete(func() { completed++ })

	if err := s.Start(25); err != nil {
		t.Fatalf("start: %v", err)
	}
	sched.Advance(10 * time.Second)
	s.Toggle()
	sched.Advance(10 * time.Second)
	if seq.Running() || seq.Index() != 1 || seq.Remaining() != 1 {
		t.Fatalf("expected sequencer paused with the session, got index=%d remaining=%d", seq.Index(), seq.Remaining())
	}
	s.Toggle()
	sched.Advance(15 * time.Second)
	if completed != 1 {
		t.Fatalf("expected completion once, got %d", completed)
	}
	if seq.Running() {
		t.Fatalf("expected sequencer halted at completion")
	}
	// The session tick at 25s fires before the sequencer's and halts it, so
	// the last inhale second never runs.
	if seq.Cycles() != 1 || seq.Index() != 0 || seq.Remaining() != 1 {
		t.Fatalf("expected 1 cycle ending in inhale, got cycles=%d index=%d remaining=%d", seq.Cycles(), seq.Index(), seq.Remaining())
	}
	want := []string{"inhale", "hold", "exhale", "pause", "inhale"}
	if len(phases) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("expected phases %v, got %v", want, phases)
		}
	}
}

func TestSessionPhaseHookSurvivesBind(t *testing.T) {
	sched := NewVirtual()
	phases := []Phase{{Name: "a", Label: "A", Seconds: 2}, {Name: "b", Label: "B", Seconds: 3}}
	first, err := NewSequencer(sched, phases)
	if err != nil {
		t.Fatalf("new sequencer: %v", err)
	}
	s := NewSession(sched)
	var seen []string
	s.OnPhaseChange(func(_ int, p Phase) { seen = append(seen, p.Name) })
	s.Bind(first)

	if err := s.Start(10); err != nil {
		t.Fatalf("start: %v", err)
	}
	sched.Advance(10 * time.Second)
	if diff := cmp.Diff([]string{"a", "b", "a", "b"}, seen); diff != "" {
		t.Fatalf("unexpected phase changes (-want +got):\n%s", diff)
	}

	second, err := NewSequencer(sched, phases)
	if err != nil {
		t.Fatalf("new sequencer: %v", err)
	}
	s.Bind(second)
	seen = nil
	if err := first.Start(0); err != nil {
		t.Fatalf("start detached sequencer: %v", err)
	}
	first.Pause()
	if len(seen) != 0 {
		t.Fatalf("expected detached sequencer to stop reporting, got %v", seen)
	}
	if err := s.Start(2); err != nil {
		t.Fatalf("restart: %v", err)
	}
	sched.Advance(time.Second)
	if diff := cmp.Diff([]string{"a"}, seen); diff != "" {
		t.Fatalf("expected rebound sequencer to report (-want +got):\n%s", diff)
	}
}
