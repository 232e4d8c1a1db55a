package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/verte-zerg/calma/internal/blocker"
	"github.com/verte-zerg/calma/internal/library"
	"github.com/verte-zerg/calma/internal/model"
	"github.com/verte-zerg/calma/internal/relax"
	"github.com/verte-zerg/calma/internal/snapshot"
	"github.com/verte-zerg/calma/internal/timer"
)

func defaultSnapshot(t *testing.T) model.Snapshot {
	t.Helper()
	snap, err := snapshot.Default()
	if err != nil {
		t.Fatalf("default snapshot: %v", err)
	}
	return snap
}

func TestBreatheRunsRequestedCycles(t *testing.T) {
	defer goleak.VerifyNone(t)
	snap := defaultSnapshot(t)
	var out bytes.Buffer
	err := breathe(context.Background(), &out, snapshot.Phases(snap.Breathing), 1, timer.NewTicker(time.Millisecond))
	if err != nil {
		t.Fatalf("breathe: %v", err)
	}
	want := "Inhale (4s)\nHold (7s)\nExhale (8s)\nPause (2s)\nDone: 1 cycles.\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestBreatheStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	if err := breathe(ctx, &out, relax.DefaultBreathing(), 3, timer.NewTicker(time.Hour)); err != nil {
		t.Fatalf("expected clean exit on cancel, got %v", err)
	}
	if strings.Contains(out.String(), "Done") {
		t.Fatalf("expected no completion line, got %q", out.String())
	}
}

func TestFocusCompletes(t *testing.T) {
	defer goleak.VerifyNone(t)
	snap := defaultSnapshot(t)
	var out bytes.Buffer
	if err := focus(context.Background(), &out, snap, 2, timer.NewTicker(time.Millisecond)); err != nil {
		t.Fatalf("focus: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{
		blocker.StartedNotice + " 2 min, blocking 3 apps and 3 sites.",
		"01:00 left",
		"Time is up.",
		blocker.CompletedNotice,
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

// failingWriter accepts ok writes and fails every later one.
type failingWriter struct {
	ok     int
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > w.ok {
		return 0, errors.New("disk full")
	}
	return len(p), nil
}

func TestFocusReportsWriteErrors(t *testing.T) {
	defer goleak.VerifyNone(t)
	snap := defaultSnapshot(t)
	w := &failingWriter{ok: 1}
	err := focus(context.Background(), w, snap, 2, timer.NewTicker(time.Millisecond))
	if err == nil || !strings.Contains(err.Error(), "failed to write output") {
		t.Fatalf("expected write error, got %v", err)
	}
	if w.writes != 2 {
		t.Fatalf("expected focus to stop after the failed minute line, got %d writes", w.writes)
	}
}

func TestFocusStoppedEarly(t *testing.T) {
	defer goleak.VerifyNone(t)
	snap := defaultSnapshot(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	if err := focus(ctx, &out, snap, 5, timer.NewTicker(time.Hour)); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if !strings.HasSuffix(out.String(), blocker.StoppedNotice+"\n") {
		t.Fatalf("expected stopped notice, got %q", out.String())
	}
}

func TestAsk(t *testing.T) {
	snap := defaultSnapshot(t)
	var out bytes.Buffer
	if err := ask(&out, snap.Chat, "I feel so anxious today"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.Contains(out.String(), "4-7-8") {
		t.Fatalf("expected anxiety reply, got %q", out.String())
	}
	if err := ask(&out, snap.Chat, "   "); err == nil {
		t.Fatalf("expected error for empty message")
	}
}

func TestListResources(t *testing.T) {
	snap := defaultSnapshot(t)
	ctx := context.Background()

	var out bytes.Buffer
	if err := listResources(ctx, &out, snap, library.Filter{Category: library.AllCategories}); err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected header and 6 rows, got %d:\n%s", len(lines), out.String())
	}

	out.Reset()
	if err := listResources(ctx, &out, snap, library.Filter{Query: "sleep"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "Digital Sleep Hygiene") {
		t.Fatalf("expected search hit, got %q", out.String())
	}

	out.Reset()
	if err := listResources(ctx, &out, snap, library.Filter{Query: "nothing matches this"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.String() != "No resources found.\n" {
		t.Fatalf("unexpected empty output %q", out.String())
	}

	err := listResources(ctx, &out, snap, library.Filter{Category: "cooking"})
	if err == nil || !strings.Contains(err.Error(), "--category must be one of") {
		t.Fatalf("expected category error, got %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	valid := model.Config{Volume: 50, FocusMinutes: 25, ReplyDelay: time.Second, DailyGoalMinutes: 480}
	if err := validateConfig(valid); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	cases := []struct {
		name string
		mod  func(*model.Config)
		want string
	}{
		{"volume", func(c *model.Config) { c.Volume = 101 }, "--volume"},
		{"minutes", func(c *model.Config) { c.FocusMinutes = 0 }, "--minutes"},
		{"long", func(c *model.Config) { c.FocusMinutes = blocker.MaxMinutes + 1 }, "--minutes"},
		{"delay", func(c *model.Config) { c.ReplyDelay = -time.Millisecond }, "--reply-delay-ms"},
		{"goal", func(c *model.Config) { c.DailyGoalMinutes = 0 }, "--goal"},
	}
	for _, tc := range cases {
		cfg := valid
		tc.mod(&cfg)
		err := validateConfig(cfg)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected %s error, got %v", tc.name, tc.want, err)
		}
	}
}

func TestDefaultConfigTemplateMentionsSections(t *testing.T) {
	tpl := defaultConfigTemplate()
	for _, want := range []string{"[app]", "[relax]", "[blocker]", "[chat]", "[monitor]", "reply-delay-ms", "daily-goal-minutes"} {
		if !strings.Contains(tpl, want) {
			t.Fatalf("template missing %q", want)
		}
	}
}

func TestWriteSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snapshot.yaml")
	if err := writeSnapshot(path, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := snapshot.Parse(raw); err != nil {
		t.Fatalf("written snapshot does not parse: %v", err)
	}
	if err := writeSnapshot(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if err := writeSnapshot(path, true); err != nil {
		t.Fatalf("forced write: %v", err)
	}
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "snapshot-*.yaml"))
	if err != nil || len(matches) != 0 {
		t.Fatalf("expected temp files cleaned up, got %v", matches)
	}
}
