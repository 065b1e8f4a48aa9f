// Package app holds the application state as a value. Transitions return a new
// State and never modify the receiver.
package app

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mauv0809/kendo-tally/internal/kendo"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicateID = errors.New("duplicate id")
)

// State is everything that gets persisted.
type State struct {
	Players     []kendo.Player    `json:"players"`
	Matches     []kendo.Match     `json:"matches"`
	TeamMatches []kendo.TeamMatch `json:"teamMatches"`
	Settings    kendo.Settings    `json:"settings"`
}

// New returns an empty state with default settings.
func New() State {
	return State{
		Players:     []kendo.Player{},
		Matches:     []kendo.Match{},
		TeamMatches: []kendo.TeamMatch{},
		Settings:    kendo.DefaultSettings(),
	}
}

// Empty reports whether there are no players or records.
func (s State) Empty() bool {
	return len(s.Players) == 0 && len(s.Matches) == 0 && len(s.TeamMatches) == 0
}

func (s State) Player(id string) (kendo.Player, bool) {
	i := slices.IndexFunc(s.Players, func(p kendo.Player) bool { return p.ID == id })
	if i < 0 {
		return kendo.Player{}, false
	}
	return s.Players[i], true
}

func (s State) Match(id string) (kendo.Match, bool) {
	i := slices.IndexFunc(s.Matches, func(m kendo.Match) bool { return m.ID == id })
	if i < 0 {
		return kendo.Match{}, false
	}
	return s.Matches[i], true
}

func (s State) TeamMatch(id string) (kendo.TeamMatch, bool) {
	i := slices.IndexFunc(s.TeamMatches, func(tm kendo.TeamMatch) bool { return tm.ID == id })
	if i < 0 {
		return kendo.TeamMatch{}, false
	}
	return s.TeamMatches[i], true
}

// PlayerMatches returns the individual matches of a player, newest first.
func (s State) PlayerMatches(playerID string) []kendo.Match {
	out := []kendo.Match{}
	for _, m := range s.Matches {
		if m.PlayerID() == playerID {
			out = append(out, m)
		}
	}
	return out
}

func (s State) AddPlayer(p kendo.Player) (State, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return s, err
	}
	if _, ok := s.Player(p.ID); ok {
		return s, fmt.Errorf("player %s: %w", p.ID, ErrDuplicateID)
	}
	s.Players = append(slices.Clip(s.Players), p)
	return s, nil
}

// UpdatePlayer replaces the roster entry. Records keep the name they were
// stored with.
func (s State) UpdatePlayer(p kendo.Player) (State, error) {
	i := slices.IndexFunc(s.Players, func(old kendo.Player) bool { return old.ID == p.ID })
	if i < 0 {
		return s, fmt.Errorf("player %s: %w", p.ID, ErrNotFound)
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.Players[i].CreatedAt
	}
	if err := p.Validate(); err != nil {
		return s, err
	}
	s.Players = slices.Clone(s.Players)
	s.Players[i] = p
	return s, nil
}

// DeletePlayer removes a roster entry. Matches referencing the player are kept.
func (s State) DeletePlayer(id string) (State, error) {
	if _, ok := s.Player(id); !ok {
		return s, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	s.Players = slices.DeleteFunc(slices.Clone(s.Players), func(p kendo.Player) bool { return p.ID == id })
	return s, nil
}

// AddMatch stores a finished match in front of the list.
func (s State) AddMatch(m kendo.Match) (State, error) {
	if err := m.Validate(); err != nil {
		return s, err
	}
	if _, ok := s.Match(m.ID); ok {
		return s, fmt.Errorf("match %s: %w", m.ID, ErrDuplicateID)
	}
	s.Matches = append([]kendo.Match{m}, s.Matches...)
	return s, nil
}

func (s State) UpdateMatch(m kendo.Match) (State, error) {
	i := slices.IndexFunc(s.Matches, func(old kendo.Match) bool { return old.ID == m.ID })
	if i < 0 {
		return s, fmt.Errorf("match %s: %w", m.ID, ErrNotFound)
	}
	if err := m.Validate(); err != nil {
		return s, err
	}
	s.Matches = slices.Clone(s.Matches)
	s.Matches[i] = m
	return s, nil
}

func (s State) DeleteMatch(id string) (State, error) {
	if _, ok := s.Match(id); !ok {
		return s, fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	s.Matches = slices.DeleteFunc(slices.Clone(s.Matches), func(m kendo.Match) bool { return m.ID == id })
	return s, nil
}

// AddTeamMatch stores a team match together with the individual matches
// derived from its bouts. Either all of them are added or none.
func (s State) AddTeamMatch(tm kendo.TeamMatch, matches ...kendo.Match) (State, error) {
	if err := tm.Validate(); err != nil {
		return s, err
	}
	if _, ok := s.TeamMatch(tm.ID); ok {
		return s, fmt.Errorf("team match %s: %w", tm.ID, ErrDuplicateID)
	}
	next := s
	for _, m := range matches {
		var err error
		if next, err = next.AddMatch(m); err != nil {
			return s, err
		}
	}
	next.TeamMatches = append([]kendo.TeamMatch{tm}, s.TeamMatches...)
	return next, nil
}

// DeleteTeamMatch removes the team record only. Its individual matches stay.
func (s State) DeleteTeamMatch(id string) (State, error) {
	if _, ok := s.TeamMatch(id); !ok {
		return s, fmt.Errorf("team match %s: %w", id, ErrNotFound)
	}
	s.TeamMatches = slices.DeleteFunc(slices.Clone(s.TeamMatches), func(tm kendo.TeamMatch) bool { return tm.ID == id })
	return s, nil
}

func (s State) UpdateSettings(settings kendo.Settings) (State, error) {
	if err := settings.Validate(); err != nil {
		return s, err
	}
	s.Settings = settings
	return s, nil
}

// Clear wipes all data and restores default settings.
func (s State) Clear(confirmed bool) (State, error) {
	if !s.Empty() && !confirmed {
		return s, kendo.ErrConfirmationRequired
	}
	return New(), nil
}
