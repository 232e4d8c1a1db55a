// Package model defines shared data structures.
package model

import "time"

// Config defines runtime settings after config file and flags are merged.
type Config struct {
	SnapshotPath     string
	Volume           int
	FocusMinutes     int
	ReplyDelay       time.Duration
	DailyGoalMinutes int
}

// Snapshot is the initial in-memory state every page is built from.
type Snapshot struct {
	Dashboard   Dashboard    `yaml:"dashboard"`
	Apps        []App        `yaml:"apps"`
	Websites    []string     `yaml:"websites"`
	Weekly      []DayUsage   `yaml:"weekly"`
	AppShare    []AppShare   `yaml:"app_share"`
	Exercises   []Exercise   `yaml:"exercises"`
	Breathing   []PhaseSpec  `yaml:"breathing"`
	Chat        ChatScript   `yaml:"chat"`
	Specialists []Specialist `yaml:"specialists"`
	Categories  []Category   `yaml:"categories"`
	Resources   []Resource   `yaml:"resources"`
	MemoryCards []string     `yaml:"memory_cards"`
	Colors      ColorTherapy `yaml:"color_therapy"`
}

// Dashboard carries the headline numbers shown on the home page.
type Dashboard struct {
	ScreenMinutes     int `yaml:"screen_minutes"`
	WellbeingScore    int `yaml:"wellbeing_score"`
	BreaksTaken       int `yaml:"breaks_taken"`
	BreaksGoal        int `yaml:"breaks_goal"`
	TopAppMinutes     int `yaml:"top_app_minutes"`
	TopAppChangePct   int `yaml:"top_app_change_pct"`
	FocusSessionsDone int `yaml:"focus_sessions_done"`
}

// App is an application tracked by the monitor and blocker.
type App struct {
	Name         string `yaml:"name"`
	Icon         string `yaml:"icon"`
	Blocked      bool   `yaml:"blocked"`
	MinutesToday int    `yaml:"minutes_today"`
}

// DayUsage is one day of screen time.
type DayUsage struct {
	Day   string  `yaml:"day"`
	Hours float64 `yaml:"hours"`
	Opens int     `yaml:"opens"`
}

// AppShare is an app's share of total screen time.
type AppShare struct {
	Name    string `yaml:"name"`
	Percent int    `yaml:"percent"`
	Color   string `yaml:"color"`
}

// Exercise is a relaxation exercise with a total session length and
// optional guide phases.
type Exercise struct {
	ID          string      `yaml:"id"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Seconds     int         `yaml:"seconds"`
	Phases      []PhaseSpec `yaml:"phases"`
	Steps       []string    `yaml:"steps"`
}

// PhaseSpec is the serialized form of a timer phase.
type PhaseSpec struct {
	Name    string `yaml:"name"`
	Label   string `yaml:"label"`
	Seconds int    `yaml:"seconds"`
	Motion  string `yaml:"motion"`
}

// ChatScript configures the scripted responder.
type ChatScript struct {
	Greeting    string     `yaml:"greeting"`
	Fallback    string     `yaml:"fallback"`
	CrisisLine  string     `yaml:"crisis_line"`
	Appointment string     `yaml:"appointment"`
	Rules       []ChatRule `yaml:"rules"`
}

// ChatRule maps keywords to a canned reply.
type ChatRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Reply    string   `yaml:"reply"`
}

// Specialist is a human contact listed next to the chat.
type Specialist struct {
	Name      string `yaml:"name"`
	Specialty string `yaml:"specialty"`
	Available bool   `yaml:"available"`
}

// Category groups library resources.
type Category struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Resource is a library entry.
type Resource struct {
	ID          int64  `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Kind        string `yaml:"kind"`
	ReadMinutes int    `yaml:"read_minutes"`
	Author      string `yaml:"author"`
	URL         string `yaml:"url"`
	Featured    bool   `yaml:"featured"`
}

// ColorTherapy holds the color therapy swatches and mood suggestions.
type ColorTherapy struct {
	Swatches []Swatch `yaml:"swatches"`
	Moods    []Mood   `yaml:"moods"`
}

// Swatch is one pickable color.
type Swatch struct {
	Name    string `yaml:"name"`
	Hex     string `yaml:"hex"`
	Emotion string `yaml:"emotion"`
}

// Mood maps how the user feels to recommended swatch colors.
type Mood struct {
	Name      string   `yaml:"name"`
	Recommend []string `yaml:"recommend"`
}
