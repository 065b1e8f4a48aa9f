package club

import (
	"github.com/mauv0809/kendo-tally/internal/app"
	"github.com/mauv0809/kendo-tally/internal/kendo"
)

// ClubStore persists the club's collections. Every write replaces a whole
// collection.
type ClubStore interface {
	LoadPlayers() ([]kendo.Player, error)
	ReplacePlayers(players []kendo.Player) error
	LoadMatches() ([]kendo.Match, error)
	ReplaceMatches(matches []kendo.Match) error
	LoadTeamMatches() ([]kendo.TeamMatch, error)
	ReplaceTeamMatches(teamMatches []kendo.TeamMatch) error
	// LoadSettings returns the default settings when none were saved.
	LoadSettings() (kendo.Settings, error)
	ReplaceSettings(settings kendo.Settings) error
	// SettingsSaved reports whether settings were ever written.
	SettingsSaved() (bool, error)
	Load() (app.State, error)
	// ReplaceAll swaps every collection in one transaction.
	ReplaceAll(state app.State) error
}
