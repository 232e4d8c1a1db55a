// Package snapshot loads the initial in-memory state from YAML.
package snapshot

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/calma/internal/colortherapy"
	"github.com/verte-zerg/calma/internal/model"
	"github.com/verte-zerg/calma/internal/timer"
)

//go:embed default.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default snapshot document.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Default parses the embedded snapshot.
func Default() (model.Snapshot, error) {
	return Parse(defaultYAML)
}

// Load reads a snapshot from path. An empty path or a missing file yields
// the embedded default.
func Load(path string) (model.Snapshot, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default()
		}
		return model.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a snapshot document.
func Parse(raw []byte) (model.Snapshot, error) {
	var snap model.Snapshot
	if err := yaml.Unmarshal(raw, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("parse snapshot yaml: %w", err)
	}
	if err := Validate(snap); err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// Validate rejects snapshots a timer could not run.
func Validate(snap model.Snapshot) error {
	seen := map[string]struct{}{}
	for _, ex := range snap.Exercises {
		if strings.TrimSpace(ex.ID) == "" {
			return fmt.Errorf("exercise %q: id must not be empty", ex.Title)
		}
		if _, dup := seen[ex.ID]; dup {
			return fmt.Errorf("exercise %q: duplicate id", ex.ID)
		}
		seen[ex.ID] = struct{}{}
		if ex.Seconds <= 0 {
			return fmt.Errorf("exercise %q: %w", ex.ID, &timer.InvalidDurationError{Seconds: ex.Seconds})
		}
		for _, p := range ex.Phases {
			if p.Seconds <= 0 {
				return fmt.Errorf("exercise %q phase %q: %w", ex.ID, p.Name, &timer.InvalidDurationError{Seconds: p.Seconds})
			}
		}
	}
	for _, p := range snap.Breathing {
		if p.Seconds <= 0 {
			return fmt.Errorf("breathing phase %q: %w", p.Name, &timer.InvalidDurationError{Seconds: p.Seconds})
		}
	}
	if len(snap.MemoryCards) > 0 && len(snap.MemoryCards) < 2 {
		return fmt.Errorf("memory_cards needs at least 2 symbols, got %d", len(snap.MemoryCards))
	}
	if len(snap.Colors.Swatches) > 0 {
		if err := colortherapy.Validate(snap.Colors); err != nil {
			return fmt.Errorf("color_therapy: %w", err)
		}
	}
	return nil
}

// Phases converts serialized phases to timer phases.
func Phases(specs []model.PhaseSpec) []timer.Phase {
	phases := make([]timer.Phase, 0, len(specs))
	for _, spec := range specs {
		phases = append(phases, timer.Phase{
			Name:    spec.Name,
			Label:   spec.Label,
			Seconds: spec.Seconds,
			Motion:  timer.Motion(spec.Motion),
		})
	}
	return phases
}
