// Package monitor derives screen-time figures from the usage snapshot.
package monitor

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/calma/internal/model"
)

// DefaultDailyGoalMinutes is the screen-time budget used when none is configured.
const DefaultDailyGoalMinutes = 480

// Period selects the window the summary covers.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Periods lists the selectable windows in display order.
var Periods = []Period{PeriodToday, PeriodWeek, PeriodMonth}

// Label returns the display name of a period.
func (p Period) Label() string {
	switch p {
	case PeriodWeek:
		return "This week"
	case PeriodMonth:
		return "This month"
	default:
		return "Today"
	}
}

// ParsePeriod maps a name to a Period.
func ParsePeriod(name string) (Period, error) {
	for _, p := range Periods {
		if strings.EqualFold(string(p), strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q (want today, week or month)", name)
}

// Usage owns the usage figures of one run.
type Usage struct {
	dashboard model.Dashboard
	weekly    []model.DayUsage
	share     []model.AppShare
	apps      []model.App
	goal      int
	period    Period
}

// New builds a Usage from the snapshot. A non-positive goal falls back to
// DefaultDailyGoalMinutes.
func New(snap model.Snapshot, goalMinutes int) *Usage {
	if goalMinutes <= 0 {
		goalMinutes = DefaultDailyGoalMinutes
	}
	return &Usage{
		dashboard: snap.Dashboard,
		weekly:    append([]model.DayUsage(nil), snap.Weekly...),
		share:     append([]model.AppShare(nil), snap.AppShare...),
		apps:      append([]model.App(nil), snap.Apps...),
		goal:      goalMinutes,
		period:    PeriodToday,
	}
}

// Period returns the selected window.
func (u *Usage) Period() Period { return u.period }

// SetPeriod selects a window.
func (u *Usage) SetPeriod(p Period) { u.period = p }

// NextPeriod cycles to the following window.
func (u *Usage) NextPeriod() Period {
	for i, p := range Periods {
		if p == u.period {
			u.period = Periods[(i+1)%len(Periods)]
			return u.period
		}
	}
	u.period = PeriodToday
	return u.period
}

// Weekly returns the per-day usage.
func (u *Usage) Weekly() []model.DayUsage {
	return append([]model.DayUsage(nil), u.weekly...)
}

// Share returns the per-app share of screen time.
func (u *Usage) Share() []model.AppShare {
	return append([]model.AppShare(nil), u.share...)
}

// Dashboard returns the headline numbers.
func (u *Usage) Dashboard() model.Dashboard { return u.dashboard }

// GoalMinutes returns the daily screen-time budget.
func (u *Usage) GoalMinutes() int { return u.goal }

// WeekHours sums screen time over the week.
func (u *Usage) WeekHours() float64 {
	total := 0.0
	for _, d := range u.weekly {
		total += d.Hours
	}
	return total
}

// AverageHours returns the daily average over the week.
func (u *Usage) AverageHours() float64 {
	if len(u.weekly) == 0 {
		return 0
	}
	return u.WeekHours() / float64(len(u.weekly))
}

// WeekOpens sums app opens over the week.
func (u *Usage) WeekOpens() int {
	total := 0
	for _, d := range u.weekly {
		total += d.Opens
	}
	return total
}

// PeakDay returns the day with the most screen time.
func (u *Usage) PeakDay() (model.DayUsage, bool) {
	if len(u.weekly) == 0 {
		return model.DayUsage{}, false
	}
	peak := u.weekly[0]
	for _, d := range u.weekly[1:] {
		if d.Hours > peak.Hours {
			peak = d
		}
	}
	return peak, true
}

// TopApp returns the app with the largest share.
func (u *Usage) TopApp() (model.AppShare, bool) {
	if len(u.share) == 0 {
		return model.AppShare{}, false
	}
	top := u.share[0]
	for _, s := range u.share[1:] {
		if s.Percent > top.Percent {
			top = s
		}
	}
	return top, true
}

// PeriodMinutes returns screen time for the selected window. The month is
// projected from the weekly average.
func (u *Usage) PeriodMinutes() int {
	switch u.period {
	case PeriodWeek:
		return int(u.WeekHours()*60 + 0.5)
	case PeriodMonth:
		return int(u.AverageHours()*60*30 + 0.5)
	default:
		return u.dashboard.ScreenMinutes
	}
}

// GoalProgress returns today's screen time against the goal, capped at 1.
func (u *Usage) GoalProgress() float64 {
	p := float64(u.dashboard.ScreenMinutes) / float64(u.goal)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// WellbeingProgress returns the wellbeing score as a fraction.
func (u *Usage) WellbeingProgress() float64 {
	score := u.dashboard.WellbeingScore
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return float64(score) / 100
}

// FormatMinutes renders minutes as "Xh Ym".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
