// Package memorygame implements the card-matching game.
package memorygame

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/calma/internal/log"
	"github.com/verte-zerg/calma/internal/timer"
)

const (
	// Columns is the width of the board grid.
	Columns = 4
	// FlipBackDelay is how long a mismatched pair stays face up.
	FlipBackDelay = time.Second
	// Hidden is drawn for face-down cards.
	Hidden = "?"
)

var (
	// ErrTooFewSymbols rejects boards that cannot hold a pair.
	ErrTooFewSymbols = errors.New("memory game needs at least two symbols")
	// ErrCardIndex reports a flip outside the board.
	ErrCardIndex = errors.New("card index out of range")
)

// DefaultSymbols are used when the snapshot provides none.
var DefaultSymbols = []string{"❀", "✿", "☀", "✾", "❁", "☘", "♣", "✤"}

// Card is one board position.
type Card struct {
	Symbol  string
	Flipped bool
	Matched bool
}

// Face returns what the card shows.
func (c Card) Face() string {
	if c.Flipped || c.Matched {
		return c.Symbol
	}
	return Hidden
}

// Shuffler permutes n items through swap.
type Shuffler func(n int, swap func(i, j int))

// Game holds one board and its counters.
type Game struct {
	sched    timer.Scheduler
	symbols  []string
	shuffle  Shuffler
	cards    []Card
	open     []int
	moves    int
	matches  int
	cursor   int
	flipBack func()
	logger   zerolog.Logger

	onComplete func(moves int)
}

// New deals a shuffled board holding every symbol twice. A nil shuffle uses
// math/rand.
func New(sched timer.Scheduler, symbols []string, shuffle Shuffler) (*Game, error) {
	if len(symbols) == 0 {
		symbols = DefaultSymbols
	}
	if len(symbols) < 2 {
		return nil, ErrTooFewSymbols
	}
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	g := &Game{
		sched:   sched,
		symbols: append([]string(nil), symbols...),
		shuffle: shuffle,
		logger:  log.WithComponent("memorygame"),
	}
	g.Restart()
	return g, nil
}

// OnComplete registers a callback for the final match.
func (g *Game) OnComplete(fn func(moves int)) { g.onComplete = fn }

// Restart deals a fresh board and clears counters.
func (g *Game) Restart() {
	if g.flipBack != nil {
		g.flipBack()
		g.flipBack = nil
	}
	cards := make([]Card, 0, len(g.symbols)*2)
	for round := 0; round < 2; round++ {
		for _, s := range g.symbols {
			cards = append(cards, Card{Symbol: s})
		}
	}
	g.shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	g.cards = cards
	g.open = nil
	g.moves = 0
	g.matches = 0
	g.cursor = 0
}

// Cards returns a copy of the board.
func (g *Game) Cards() []Card { return append([]Card(nil), g.cards...) }

// Moves counts completed pair attempts.
func (g *Game) Moves() int { return g.moves }

// Matches counts found pairs.
func (g *Game) Matches() int { return g.matches }

// Pairs returns the number of pairs on the board.
func (g *Game) Pairs() int { return len(g.symbols) }

// Complete reports whether every pair is found.
func (g *Game) Complete() bool { return g.matches == len(g.symbols) }

// Locked reports whether a mismatched pair is waiting to flip back.
func (g *Game) Locked() bool { return len(g.open) == 2 }

// Flip turns card i face up. It reports whether the flip was accepted;
// flips are ignored while locked and on cards already showing.
func (g *Game) Flip(i int) (bool, error) {
	if i < 0 || i >= len(g.cards) {
		return false, ErrCardIndex
	}
	if g.Locked() || g.cards[i].Flipped || g.cards[i].Matched {
		return false, nil
	}
	g.cards[i].Flipped = true
	g.open = append(g.open, i)
	if len(g.open) == 2 {
		g.resolve()
	}
	return true, nil
}

func (g *Game) resolve() {
	first, second := g.open[0], g.open[1]
	g.moves++
	if g.cards[first].Symbol == g.cards[second].Symbol {
		g.cards[first].Matched = true
		g.cards[second].Matched = true
		g.open = nil
		g.matches++
		if g.Complete() {
			g.logger.Info().Int("moves", g.moves).Msg("memory game complete")
			if g.onComplete != nil {
				g.onComplete(g.moves)
			}
		}
		return
	}
	g.flipBack = g.sched.After(FlipBackDelay, func() {
		g.flipBack = nil
		g.cards[first].Flipped = false
		g.cards[second].Flipped = false
		g.open = nil
	})
}

// Cursor returns the selected card index.
func (g *Game) Cursor() int { return g.cursor }

// Move shifts the cursor by dx columns and dy rows, clamped to the board.
func (g *Game) Move(dx, dy int) {
	rows := (len(g.cards) + Columns - 1) / Columns
	col := g.cursor%Columns + dx
	row := g.cursor/Columns + dy
	col = clamp(col, 0, Columns-1)
	row = clamp(row, 0, rows-1)
	next := row*Columns + col
	if next >= len(g.cards) {
		next = len(g.cards) - 1
	}
	g.cursor = next
}

// FlipCursor flips the selected card.
func (g *Game) FlipCursor() (bool, error) { return g.Flip(g.cursor) }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
