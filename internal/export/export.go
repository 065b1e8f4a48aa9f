// Package export moves the club's data in and out as JSON snapshots and
// flattens matches to CSV.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mauv0809/kendo-tally/internal/app"
	"github.com/mauv0809/kendo-tally/internal/kendo"
)

// Version is written into every snapshot.
const Version = "1.0.0"

// ErrInvalidSnapshot is returned for payloads that cannot be imported. The
// current data is never touched when it is returned.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the export document. A nil collection was absent from an
// imported payload and is left alone by Apply.
type Snapshot struct {
	Players     *[]kendo.Player    `json:"players,omitempty"`
	Matches     *[]kendo.Match     `json:"matches,omitempty"`
	TeamMatches *[]kendo.TeamMatch `json:"teamMatches,omitempty"`
	Settings    *kendo.Settings    `json:"settings,omitempty"`
	ExportedAt  time.Time          `json:"exportedAt"`
	Version     string             `json:"version"`
}

// wire mirrors Snapshot but keeps settings raw so missing fields fall back to
// the defaults.
type wire struct {
	Players     *[]kendo.Player    `json:"players"`
	Matches     *[]kendo.Match     `json:"matches"`
	TeamMatches *[]kendo.TeamMatch `json:"teamMatches"`
	Settings    json.RawMessage    `json:"settings"`
	ExportedAt  time.Time          `json:"exportedAt"`
	Version     string             `json:"version"`
}

// Export captures every collection of state.
func Export(state app.State, at time.Time) Snapshot {
	players := nonNil(state.Players)
	matches := nonNil(state.Matches)
	teamMatches := nonNil(state.TeamMatches)
	settings := state.Settings
	return Snapshot{
		Players:     &players,
		Matches:     &matches,
		TeamMatches: &teamMatches,
		Settings:    &settings,
		ExportedAt:  at.UTC(),
		Version:     Version,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// FileName is the suggested download name for a snapshot taken at t.
func FileName(t time.Time) string {
	return "kendo_export_" + t.UTC().Format(time.DateOnly) + ".json"
}

// WriteJSON writes snap indented by two spaces.
func WriteJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// ReadJSON decodes and validates a snapshot.
func ReadJSON(r io.Reader) (Snapshot, error) {
	var in wire
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	snap := Snapshot{
		Players:     in.Players,
		Matches:     in.Matches,
		TeamMatches: in.TeamMatches,
		ExportedAt:  in.ExportedAt,
		Version:     in.Version,
	}
	if len(in.Settings) > 0 && string(in.Settings) != "null" {
		settings := kendo.DefaultSettings()
		if err := json.Unmarshal(in.Settings, &settings); err != nil {
			return Snapshot{}, fmt.Errorf("%w: settings: %v", ErrInvalidSnapshot, err)
		}
		snap.Settings = &settings
	}
	if err := snap.Validate(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Validate checks every record present in the snapshot.
func (s Snapshot) Validate() error {
	wrap := func(err error) error { return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err) }
	seen := map[string]bool{}
	unique := func(kind, id string) error {
		key := kind + "/" + id
		if seen[key] {
			return fmt.Errorf("%w: duplicate %s id %q", ErrInvalidSnapshot, kind, id)
		}
		seen[key] = true
		return nil
	}
	if s.Players != nil {
		for _, p := range *s.Players {
			if err := p.Validate(); err != nil {
				return wrap(err)
			}
			if err := unique("player", p.ID); err != nil {
				return err
			}
		}
	}
	if s.Matches != nil {
		for _, m := range *s.Matches {
			if err := m.Validate(); err != nil {
				return wrap(err)
			}
			if err := unique("match", m.ID); err != nil {
				return err
			}
		}
	}
	if s.TeamMatches != nil {
		for _, tm := range *s.TeamMatches {
			if err := tm.Validate(); err != nil {
				return wrap(err)
			}
			if err := unique("team match", tm.ID); err != nil {
				return err
			}
		}
	}
	if s.Settings != nil {
		if err := s.Settings.Validate(); err != nil {
			return wrap(err)
		}
	}
	return nil
}

// Apply returns state with every collection present in snap replaced.
func Apply(state app.State, snap Snapshot) app.State {
	if snap.Players != nil {
		state.Players = nonNil(*snap.Players)
	}
	if snap.Matches != nil {
		state.Matches = nonNil(*snap.Matches)
	}
	if snap.TeamMatches != nil {
		state.TeamMatches = nonNil(*snap.TeamMatches)
	}
	if snap.Settings != nil {
		state.Settings = *snap.Settings
	}
	return state
}
