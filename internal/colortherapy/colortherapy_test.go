package colortherapy

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/calma/internal/model"
)

// reverse lays the swatches out back to front.
func reverse(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func newBoard(t *testing.T) *Board {
	t.Helper()
	b, err := New(model.ColorTherapy{}, reverse)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	return b
}

func names(swatches []model.Swatch) []string {
	out := make([]string, 0, len(swatches))
	for _, s := range swatches {
		out = append(out, s.Name)
	}
	return out
}

func TestMoodRecommendation(t *testing.T) {
	b := newBoard(t)
	if _, ok := b.Mood(); ok || b.Recommendation() != nil {
		t.Fatalf("expected no mood before one is chosen")
	}
	if err := b.SetMood("anxious"); err != nil {
		t.Fatalf("set mood: %v", err)
	}
	if diff := cmp.Diff([]string{"Tranquility", "Serenity", "Nature"}, names(b.Recommendation())); diff != "" {
		t.Fatalf("unexpected recommendation (-want +got):\n%s", diff)
	}
	if err := b.SetMood("Bored"); !errors.Is(err, ErrUnknownMood) {
		t.Fatalf("expected ErrUnknownMood, got %v", err)
	}
	m, _ := b.NextMood()
	if m.Name != "Sad" {
		t.Fatalf("expected Sad after Anxious, got %s", m.Name)
	}
	b.NextMood()
	b.NextMood()
	if m, _ := b.NextMood(); m.Name != "Anxious" {
		t.Fatalf("expected mood cycle to wrap, got %s", m.Name)
	}
}

func TestToggleKeepsPickOrder(t *testing.T) {
	b := newBoard(t)
	for _, i := range []int{4, 0, 2} {
		if err := b.Toggle(i); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}
	if err := b.Toggle(0); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if diff := cmp.Diff([]string{"Serenity", "Nature"}, names(b.Selected())); diff != "" {
		t.Fatalf("unexpected palette (-want +got):\n%s", diff)
	}
	if b.IsSelected(0) || !b.IsSelected(4) {
		t.Fatalf("unexpected selection flags")
	}
	if err := b.Toggle(8); !errors.Is(err, ErrSwatchIndex) {
		t.Fatalf("expected ErrSwatchIndex, got %v", err)
	}
	b.Clear()
	if len(b.Selected()) != 0 {
		t.Fatalf("expected empty palette after clear")
	}
}

func TestSurpriseReplacesPalette(t *testing.T) {
	b := newBoard(t)
	if err := b.Toggle(1); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	got := names(b.Surprise())
	if diff := cmp.Diff([]string{"Purity", "Creativity", "Trust"}, got); diff != "" {
		t.Fatalf("unexpected surprise palette (-want +got):\n%s", diff)
	}
	if b.IsSelected(1) {
		t.Fatalf("expected previous pick replaced")
	}
}

func TestCursorWraps(t *testing.T) {
	b := newBoard(t)
	b.Move(-1)
	if b.Cursor() != 7 {
		t.Fatalf("expected cursor to wrap to 7, got %d", b.Cursor())
	}
	if err := b.ToggleCursor(); err != nil || !b.IsSelected(7) {
		t.Fatalf("expected swatch 7 picked, err=%v", err)
	}
	b.Move(3)
	if b.Cursor() != 2 {
		t.Fatalf("expected cursor 2, got %d", b.Cursor())
	}
}

func TestValidateRejectsUnknownRecommendation(t *testing.T) {
	ct := model.ColorTherapy{
		Swatches: []model.Swatch{{Name: "Sky", Hex: "#87ceeb"}},
		Moods:    []model.Mood{{Name: "Calm", Recommend: []string{"#87CEEB", "#000000"}}},
	}
	if err := Validate(ct); !errors.Is(err, ErrUnknownColor) {
		t.Fatalf("expected ErrUnknownColor, got %v", err)
	}
	ct.Moods[0].Recommend = []string{"#87CEEB"}
	if _, err := New(ct, nil); err != nil {
		t.Fatalf("expected case-insensitive color match, got %v", err)
	}
	ct.Swatches = append(ct.Swatches, model.Swatch{Name: "Sea", Hex: "#87CEEB"})
	if err := Validate(ct); err == nil {
		t.Fatalf("expected duplicate color error")
	}
}
