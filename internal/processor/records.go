package processor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/kendo-tally/internal/app"
	"github.com/mauv0809/kendo-tally/internal/club"
	"github.com/mauv0809/kendo-tally/internal/kendo"
	"github.com/mauv0809/kendo-tally/internal/timer"
)

func (p *Processor) Players() []kendo.Player {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Players
}

func (p *Processor) Player(id string) (kendo.Player, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	player, ok := p.state.Player(id)
	if !ok {
		return kendo.Player{}, fmt.Errorf("player %s: %w", id, app.ErrNotFound)
	}
	return player, nil
}

// FindPlayers suggests roster entries for a typed name.
func (p *Processor) FindPlayers(query string) []club.Suggestion {
	p.mu.Lock()
	defer p.mu.Unlock()
	return club.FindPlayers(p.state.Players, query)
}

func (p *Processor) AddPlayer(in PlayerInput) (kendo.Player, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	player := kendo.Player{
		ID:        p.ids.NewID(),
		Name:      strings.TrimSpace(in.Name),
		Position:  kendo.Position(in.Position),
		Notes:     in.Notes,
		CreatedAt: timer.Stamp(p.clock),
	}
	next, err := p.state.AddPlayer(player)
	if err != nil {
		return kendo.Player{}, err
	}
	if err := p.commit(next, colPlayers); err != nil {
		return kendo.Player{}, err
	}
	log.Info("Player added", "playerID", player.ID, "name", player.Name)
	return player, nil
}

func (p *Processor) UpdatePlayer(id string, in PlayerInput) (kendo.Player, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	next, err := p.state.UpdatePlayer(kendo.Player{
		ID:       id,
		Name:     in.Name,
		Position: kendo.Position(in.Position),
		Notes:    in.Notes,
	})
	if err != nil {
		return kendo.Player{}, err
	}
	if err := p.commit(next, colPlayers); err != nil {
		return kendo.Player{}, err
	}
	player, _ := next.Player(id)
	log.Info("Player updated", "playerID", id)
	return player, nil
}

// DeletePlayer removes a roster entry. Recorded matches keep their snapshot of
// the player.
func (p *Processor) DeletePlayer(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	next, err := p.state.DeletePlayer(id)
	if err != nil {
		return err
	}
	if err := p.commit(next, colPlayers); err != nil {
		return err
	}
	log.Info("Player deleted", "playerID", id)
	return nil
}

// Matches lists individual matches, newest first. A non-empty playerID
// restricts the list to that player.
func (p *Processor) Matches(playerID string) []kendo.Match {
	p.mu.Lock()
	defer p.mu.Unlock()
	if playerID != "" {
		return p.state.PlayerMatches(playerID)
	}
	return p.state.Matches
}

func (p *Processor) Match(id string) (kendo.Match, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.state.Match(id)
	if !ok {
		return kendo.Match{}, fmt.Errorf("match %s: %w", id, app.ErrNotFound)
	}
	return m, nil
}

func (p *Processor) DeleteMatch(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	next, err := p.state.DeleteMatch(id)
	if err != nil {
		return err
	}
	if err := p.commit(next, colMatches); err != nil {
		return err
	}
	log.Info("Match deleted", "matchID", id)
	return nil
}

func (p *Processor) TeamMatches() []kendo.TeamMatch {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.TeamMatches
}

func (p *Processor) TeamMatch(id string) (kendo.TeamMatch, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	tm, ok := p.state.TeamMatch(id)
	if !ok {
		return kendo.TeamMatch{}, fmt.Errorf("team match %s: %w", id, app.ErrNotFound)
	}
	return tm, nil
}

// DeleteTeamMatch removes the team record. The individual matches derived
// from its bouts stay.
func (p *Processor) DeleteTeamMatch(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	next, err := p.state.DeleteTeamMatch(id)
	if err != nil {
		return err
	}
	if err := p.commit(next, colTeamMatches); err != nil {
		return err
	}
	log.Info("Team match deleted", "teamMatchID", id)
	return nil
}

func (p *Processor) Settings() kendo.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Settings
}

// UpdateSettings replaces the settings. An active session keeps the format and
// prompt it was started with.
func (p *Processor) UpdateSettings(settings kendo.Settings) (kendo.Settings, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	next, err := p.state.UpdateSettings(settings)
	if err != nil {
		return kendo.Settings{}, err
	}
	if err := p.commit(next, colSettings); err != nil {
		return kendo.Settings{}, err
	}
	log.Info("Settings updated", "format", settings.DefaultFormat, "autoSave", settings.AutoSave)
	return next.Settings, nil
}

// SeedSettings applies configured defaults on a fresh install: nothing
// recorded and no settings ever saved. Afterwards it does nothing, even when
// the saved settings equal the built-in defaults.
func (p *Processor) SeedSettings(format kendo.Format, promptTechnique bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.Empty() {
		return nil
	}
	saved, err := p.store.SettingsSaved()
	if err != nil {
		return fmt.Errorf("failed to check stored settings: %w", err)
	}
	if saved {
		return nil
	}
	settings := p.state.Settings
	settings.DefaultFormat = format
	settings.PromptTechnique = promptTechnique
	next, err := p.state.UpdateSettings(settings)
	if err != nil {
		return err
	}
	log.Info("Applied configured defaults", "format", format, "promptTechnique", promptTechnique)
	return p.commit(next, colSettings)
}
