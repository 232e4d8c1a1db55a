package relax

import (
	"github.com/verte-zerg/calma/internal/timer"
)

// DefaultBreathing is the 4-7-8 cycle with a short rest.
func DefaultBreathing() []timer.Phase {
	return []timer.Phase{
		{Name: "inhale", Label: "Inhale", Seconds: 4, Motion: timer.MotionGrow},
		{Name: "hold", Label: "Hold", Seconds: 7, Motion: timer.MotionHold},
		{Name: "exhale", Label: "Exhale", Seconds: 8, Motion: timer.MotionShrink},
		{Name: "pause", Label: "Pause", Seconds: 2, Motion: timer.MotionRest},
	}
}

// NewBreathing returns the breathing game sequencer. An empty phase list
// falls back to DefaultBreathing.
func NewBreathing(sched timer.Scheduler, phases []timer.Phase) (*timer.Sequencer, error) {
	if len(phases) == 0 {
		phases = DefaultBreathing()
	}
	return timer.NewSequencer(sched, phases)
}

// Circle renders the breathing guide as a ring whose radius follows scale.
func Circle(scale float64, maxRadius int) []string {
	if maxRadius < 1 {
		maxRadius = 1
	}
	radius := scale * float64(maxRadius)
	size := maxRadius*2 + 1
	lines := make([]string, 0, size)
	for y := -maxRadius; y <= maxRadius; y++ {
		row := make([]rune, 0, size*2)
		for x := -maxRadius; x <= maxRadius; x++ {
			// Two columns per point keep the ring round in a terminal.
			d := float64(x*x) + float64(y*y)
			if d <= radius*radius {
				row = append(row, '●', ' ')
			} else {
				row = append(row, ' ', ' ')
			}
		}
		lines = append(lines, string(row))
	}
	return lines
}
