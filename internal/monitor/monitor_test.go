package monitor

import (
	"math"
	"testing"

	"github.com/verte-zerg/calma/internal/model"
	"github.com/verte-zerg/calma/internal/snapshot"
)

func newUsage(t *testing.T) *Usage {
	t.Helper()
	snap, err := snapshot.Default()
	if err != nil {
		t.Fatalf("default snapshot: %v", err)
	}
	return New(snap, 0)
}

func TestWeeklyFigures(t *testing.T) {
	u := newUsage(t)
	if math.Abs(u.WeekHours()-45.0) > 1e-9 {
		t.Fatalf("expected 45 hours, got %v", u.WeekHours())
	}
	if math.Abs(u.AverageHours()-45.0/7) > 1e-9 {
		t.Fatalf("unexpected average %v", u.AverageHours())
	}
	if u.WeekOpens() != 304 {
		t.Fatalf("expected 304 opens, got %d", u.WeekOpens())
	}
	peak, ok := u.PeakDay()
	if !ok || peak.Day != "Thu" {
		t.Fatalf("expected Thu as peak, got %+v", peak)
	}
	top, ok := u.TopApp()
	if !ok || top.Name != "Instagram" {
		t.Fatalf("expected Instagram as top app, got %+v", top)
	}
}

func TestPeriods(t *testing.T) {
	u := newUsage(t)
	if u.PeriodMinutes() != 180 {
		t.Fatalf("expected 180 minutes today, got %d", u.PeriodMinutes())
	}
	if u.NextPeriod() != PeriodWeek || u.PeriodMinutes() != 2700 {
		t.Fatalf("expected week of 2700 minutes, got %s %d", u.Period(), u.PeriodMinutes())
	}
	if u.NextPeriod() != PeriodMonth || u.PeriodMinutes() != 11571 {
		t.Fatalf("expected projected month of 11571 minutes, got %d", u.PeriodMinutes())
	}
	if u.NextPeriod() != PeriodToday {
		t.Fatalf("expected wrap to today")
	}
	if _, err := ParsePeriod("Week"); err != nil {
		t.Fatalf("parse week: %v", err)
	}
	if _, err := ParsePeriod("year"); err == nil {
		t.Fatalf("expected error for unknown period")
	}
}

func TestGoalProgressClamped(t *testing.T) {
	u := New(model.Snapshot{Dashboard: model.Dashboard{ScreenMinutes: 600, WellbeingScore: 130}}, 480)
	if u.GoalProgress() != 1 {
		t.Fatalf("expected progress capped at 1, got %v", u.GoalProgress())
	}
	if u.WellbeingProgress() != 1 {
		t.Fatalf("expected wellbeing capped at 1, got %v", u.WellbeingProgress())
	}
	u = newUsage(t)
	if u.GoalProgress() != 180.0/480 {
		t.Fatalf("unexpected goal progress %v", u.GoalProgress())
	}
}

func TestEmptySnapshot(t *testing.T) {
	u := New(model.Snapshot{}, 0)
	if u.AverageHours() != 0 || u.GoalMinutes() != DefaultDailyGoalMinutes {
		t.Fatalf("unexpected empty usage figures")
	}
	if _, ok := u.PeakDay(); ok {
		t.Fatalf("expected no peak day")
	}
	if _, ok := u.TopApp(); ok {
		t.Fatalf("expected no top app")
	}
}

func TestFormatMinutes(t *testing.T) {
	if got := FormatMinutes(180); got != "3h 0m" {
		t.Fatalf("expected 3h 0m, got %s", got)
	}
	if got := FormatMinutes(45); got != "0h 45m" {
		t.Fatalf("expected 0h 45m, got %s", got)
	}
}
