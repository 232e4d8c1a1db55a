// Package colortherapy implements the mood-based color palette game.
package colortherapy

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/calma/internal/log"
	"github.com/verte-zerg/calma/internal/model"
)

// PaletteSize is how many colors Surprise picks.
const PaletteSize = 3

// Hint is shown under a non-empty palette.
const Hint = "Look at these colors for a few minutes and breathe deeply."

var (
	// ErrUnknownColor reports a mood recommending a color with no swatch.
	ErrUnknownColor = errors.New("unknown color")
	// ErrUnknownMood is returned by SetMood for a name not in the table.
	ErrUnknownMood = errors.New("unknown mood")
	// ErrSwatchIndex reports a toggle outside the swatch grid.
	ErrSwatchIndex = errors.New("swatch index out of range")
)

// DefaultPalette is used when the snapshot provides no swatches.
var DefaultPalette = model.ColorTherapy{
	Swatches: []model.Swatch{
		{Name: "Tranquility", Hex: "#87CEEB", Emotion: "calm"},
		{Name: "Energy", Hex: "#FFD700", Emotion: "joy"},
		{Name: "Nature", Hex: "#90EE90", Emotion: "balance"},
		{Name: "Passion", Hex: "#FF6B6B", Emotion: "strength"},
		{Name: "Serenity", Hex: "#DDA0DD", Emotion: "peace"},
		{Name: "Trust", Hex: "#4169E1", Emotion: "safety"},
		{Name: "Creativity", Hex: "#FF8C00", Emotion: "inspiration"},
		{Name: "Purity", Hex: "#F8F8FF", Emotion: "clarity"},
	},
	Moods: []model.Mood{
		{Name: "Anxious", Recommend: []string{"#87CEEB", "#DDA0DD", "#90EE90"}},
		{Name: "Sad", Recommend: []string{"#FFD700", "#FF8C00", "#FF6B6B"}},
		{Name: "Stressed", Recommend: []string{"#90EE90", "#87CEEB", "#F8F8FF"}},
		{Name: "Energetic", Recommend: []string{"#4169E1", "#FF6B6B", "#FF8C00"}},
	},
}

// Shuffler permutes n items through swap.
type Shuffler func(n int, swap func(i, j int))

// Board holds the swatches, the chosen mood and the user's palette.
type Board struct {
	swatches []model.Swatch
	moods    []model.Mood
	byHex    map[string]int
	mood     int
	selected []int
	cursor   int
	shuffle  Shuffler
	logger   zerolog.Logger
}

// Validate checks that swatch colors are unique and every mood
// recommendation names a known swatch.
func Validate(ct model.ColorTherapy) error {
	seen := make(map[string]struct{}, len(ct.Swatches))
	for _, s := range ct.Swatches {
		hex := strings.ToUpper(strings.TrimSpace(s.Hex))
		if hex == "" {
			return fmt.Errorf("swatch %q: color must not be empty", s.Name)
		}
		if _, dup := seen[hex]; dup {
			return fmt.Errorf("swatch %q: duplicate color %s", s.Name, hex)
		}
		seen[hex] = struct{}{}
	}
	names := make(map[string]struct{}, len(ct.Moods))
	for _, m := range ct.Moods {
		if _, dup := names[m.Name]; dup {
			return fmt.Errorf("mood %q: duplicate name", m.Name)
		}
		names[m.Name] = struct{}{}
		for _, hex := range m.Recommend {
			if _, ok := seen[strings.ToUpper(strings.TrimSpace(hex))]; !ok {
				return fmt.Errorf("mood %q: %w %s", m.Name, ErrUnknownColor, hex)
			}
		}
	}
	return nil
}

// New returns a board with no mood and an empty palette. An empty swatch
// list falls back to DefaultPalette; a nil shuffle uses math/rand.
func New(ct model.ColorTherapy, shuffle Shuffler) (*Board, error) {
	if len(ct.Swatches) == 0 {
		ct = DefaultPalette
	}
	if err := Validate(ct); err != nil {
		return nil, err
	}
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	b := &Board{
		swatches: append([]model.Swatch(nil), ct.Swatches...),
		moods:    append([]model.Mood(nil), ct.Moods...),
		byHex:    make(map[string]int, len(ct.Swatches)),
		mood:     -1,
		shuffle:  shuffle,
		logger:   log.WithComponent("colortherapy"),
	}
	for i, s := range b.swatches {
		b.byHex[strings.ToUpper(strings.TrimSpace(s.Hex))] = i
	}
	return b, nil
}

// Swatches returns every pickable color in grid order.
func (b *Board) Swatches() []model.Swatch {
	return append([]model.Swatch(nil), b.swatches...)
}

// Moods returns the mood table.
func (b *Board) Moods() []model.Mood {
	return append([]model.Mood(nil), b.moods...)
}

// Mood returns the chosen mood, if any.
func (b *Board) Mood() (model.Mood, bool) {
	if b.mood < 0 {
		return model.Mood{}, false
	}
	return b.moods[b.mood], true
}

// SetMood chooses a mood by name.
func (b *Board) SetMood(name string) error {
	for i, m := range b.moods {
		if strings.EqualFold(m.Name, name) {
			b.mood = i
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownMood, name)
}

// NextMood cycles to the following mood, starting at the first.
func (b *Board) NextMood() (model.Mood, bool) {
	if len(b.moods) == 0 {
		return model.Mood{}, false
	}
	b.mood = (b.mood + 1) % len(b.moods)
	return b.moods[b.mood], true
}

// Recommendation returns the swatches suggested for the chosen mood.
func (b *Board) Recommendation() []model.Swatch {
	m, ok := b.Mood()
	if !ok {
		return nil
	}
	out := make([]model.Swatch, 0, len(m.Recommend))
	for _, hex := range m.Recommend {
		out = append(out, b.swatches[b.byHex[strings.ToUpper(strings.TrimSpace(hex))]])
	}
	return out
}

// Toggle adds swatch i to the palette, or removes it when already picked.
func (b *Board) Toggle(i int) error {
	if i < 0 || i >= len(b.swatches) {
		return fmt.Errorf("toggle %d of %d: %w", i, len(b.swatches), ErrSwatchIndex)
	}
	for pos, idx := range b.selected {
		if idx == i {
			b.selected = append(b.selected[:pos], b.selected[pos+1:]...)
			return nil
		}
	}
	b.selected = append(b.selected, i)
	return nil
}

// IsSelected reports whether swatch i is in the palette.
func (b *Board) IsSelected(i int) bool {
	for _, idx := range b.selected {
		if idx == i {
			return true
		}
	}
	return false
}

// Selected returns the palette in pick order.
func (b *Board) Selected() []model.Swatch {
	out := make([]model.Swatch, 0, len(b.selected))
	for _, idx := range b.selected {
		out = append(out, b.swatches[idx])
	}
	return out
}

// Surprise replaces the palette with PaletteSize random swatches.
func (b *Board) Surprise() []model.Swatch {
	order := make([]int, len(b.swatches))
	for i := range order {
		order[i] = i
	}
	b.shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	n := min(PaletteSize, len(order))
	b.selected = append(b.selected[:0], order[:n]...)
	b.logger.Debug().Int("colors", n).Msg("surprise palette")
	return b.Selected()
}

// Clear empties the palette.
func (b *Board) Clear() { b.selected = b.selected[:0] }

// Cursor returns the highlighted swatch.
func (b *Board) Cursor() int { return b.cursor }

// Move shifts the cursor by delta, wrapping around the grid.
func (b *Board) Move(delta int) {
	n := len(b.swatches)
	b.cursor = ((b.cursor+delta)%n + n) % n
}

// ToggleCursor toggles the highlighted swatch.
func (b *Board) ToggleCursor() error { return b.Toggle(b.cursor) }
