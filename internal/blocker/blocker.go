// Package blocker runs focus sessions over a list of distracting apps and
// websites. Blocking is advisory: nothing outside calma is touched.
package blocker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/calma/internal/log"
	"github.com/verte-zerg/calma/internal/model"
	"github.com/verte-zerg/calma/internal/timer"
)

const (
	DefaultMinutes = 25
	MaxMinutes     = 180
)

const (
	StartedNotice   = "Focus session started. Stay on track!"
	StoppedNotice   = "Focus session stopped. Blocking is off."
	CompletedNotice = "Focus session complete! You kept your focus the whole time."
)

var (
	// ErrDurationTooLong rejects sessions above MaxMinutes.
	ErrDurationTooLong = errors.New("focus session too long")
	// ErrSessionActive rejects list changes while a session is running.
	ErrSessionActive = errors.New("focus session in progress")
	// ErrUnknownApp is returned when toggling an app that is not listed.
	ErrUnknownApp = errors.New("unknown app")
)

// Blocker owns the focus session and the block lists.
type Blocker struct {
	session   *timer.Session
	apps      []model.App
	sites     []string
	minutes   int
	completed int
	notice    string
	logger    zerolog.Logger

	onComplete func()
}

// New builds a blocker from the snapshot lists. completed seeds the
// completed-session counter.
func New(sched timer.Scheduler, apps []model.App, sites []string, minutes, completed int) (*Blocker, error) {
	b := &Blocker{
		session:   timer.NewSession(sched),
		apps:      append([]model.App(nil), apps...),
		minutes:   DefaultMinutes,
		completed: completed,
		logger:    log.WithComponent("blocker"),
	}
	for _, site := range sites {
		b.AddSite(site)
	}
	if minutes != 0 {
		if err := b.SetMinutes(minutes); err != nil {
			return nil, err
		}
	}
	b.session.OnComplete(b.complete)
	return b, nil
}

// OnComplete registers a callback for finished focus sessions.
func (b *Blocker) OnComplete(fn func()) { b.onComplete = fn }

// Minutes returns the configured session length.
func (b *Blocker) Minutes() int { return b.minutes }

// SetMinutes validates and stores the session length.
func (b *Blocker) SetMinutes(minutes int) error {
	if err := ValidateMinutes(minutes); err != nil {
		return err
	}
	b.minutes = minutes
	return nil
}

// ValidateMinutes checks a focus session length.
func ValidateMinutes(minutes int) error {
	if minutes <= 0 {
		return &timer.InvalidDurationError{Seconds: minutes * 60}
	}
	if minutes > MaxMinutes {
		return fmt.Errorf("%w: %d minutes (max %d)", ErrDurationTooLong, minutes, MaxMinutes)
	}
	return nil
}

// Active reports whether a focus session is counting down.
func (b *Blocker) Active() bool { return b.session.Running() }

// Session exposes the focus session for rendering.
func (b *Blocker) Session() *timer.Session { return b.session }

// Start begins a focus session of the configured length.
func (b *Blocker) Start() error {
	if b.session.Running() {
		return nil
	}
	if err := b.session.Start(b.minutes * 60); err != nil {
		return err
	}
	b.notice = StartedNotice
	b.logger.Info().Int("minutes", b.minutes).Int("apps", b.BlockedCount()).Msg("focus session started")
	return nil
}

// Stop ends the focus session early without counting it.
func (b *Blocker) Stop() {
	if !b.session.Running() {
		return
	}
	b.session.Stop()
	b.notice = StoppedNotice
	b.logger.Info().Msg("focus session stopped")
}

// Remaining returns the seconds left in the focus session.
func (b *Blocker) Remaining() int { return b.session.Remaining() }

// Clock renders the remaining time as mm:ss.
func (b *Blocker) Clock() string {
	return FormatClock(b.session.Remaining())
}

// CompletedSessions returns the number of sessions run to the end.
func (b *Blocker) CompletedSessions() int { return b.completed }

// Notice returns the latest status message.
func (b *Blocker) Notice() string { return b.notice }

// Apps returns the app list.
func (b *Blocker) Apps() []model.App {
	return append([]model.App(nil), b.apps...)
}

// ToggleApp flips the blocked flag of the named app.
func (b *Blocker) ToggleApp(name string) error {
	if b.session.Running() {
		return ErrSessionActive
	}
	for i := range b.apps {
		if strings.EqualFold(b.apps[i].Name, name) {
			b.apps[i].Blocked = !b.apps[i].Blocked
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownApp, name)
}

// BlockedCount returns how many apps are marked blocked.
func (b *Blocker) BlockedCount() int {
	count := 0
	for _, app := range b.apps {
		if app.Blocked {
			count++
		}
	}
	return count
}

// TotalMinutes sums today's usage over all listed apps.
func (b *Blocker) TotalMinutes() int {
	total := 0
	for _, app := range b.apps {
		total += app.MinutesToday
	}
	return total
}

// Sites returns the custom website list.
func (b *Blocker) Sites() []string {
	return append([]string(nil), b.sites...)
}

// AddSite adds a website. Blank and duplicate entries are ignored and
// reported as false.
func (b *Blocker) AddSite(site string) bool {
	site = normalizeSite(site)
	if site == "" {
		return false
	}
	for _, existing := range b.sites {
		if existing == site {
			return false
		}
	}
	b.sites = append(b.sites, site)
	return true
}

// RemoveSite drops a website from the list.
func (b *Blocker) RemoveSite(site string) bool {
	site = normalizeSite(site)
	for i, existing := range b.sites {
		if existing == site {
			b.sites = append(b.sites[:i], b.sites[i+1:]...)
			return true
		}
	}
	return false
}

// Blocks reports whether target, an app name or a host, would be blocked
// right now.
func (b *Blocker) Blocks(target string) bool {
	if !b.session.Running() {
		return false
	}
	for _, app := range b.apps {
		if app.Blocked && strings.EqualFold(app.Name, strings.TrimSpace(target)) {
			return true
		}
	}
	host := normalizeSite(target)
	for _, site := range b.sites {
		if host == site || strings.HasSuffix(host, "."+site) {
			return true
		}
	}
	return false
}

func (b *Blocker) complete() {
	b.completed++
	b.notice = CompletedNotice
	b.logger.Info().Int("completed", b.completed).Msg("focus session complete")
	if b.onComplete != nil {
		b.onComplete()
	}
}

func normalizeSite(site string) string {
	site = strings.ToLower(strings.TrimSpace(site))
	site = strings.TrimPrefix(site, "https://")
	site = strings.TrimPrefix(site, "http://")
	site = strings.TrimPrefix(site, "www.")
	if i := strings.IndexAny(site, "/?#"); i >= 0 {
		site = site[:i]
	}
	return site
}

// FormatClock formats seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
