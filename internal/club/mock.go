package club

import (
	"slices"
	"sync"

	"github.com/mauv0809/kendo-tally/internal/app"
	"github.com/mauv0809/kendo-tally/internal/kendo"
)

// MockStore is a mock implementation of the ClubStore interface for testing.
// Without spies it behaves like an in-memory store. It is safe for concurrent use.
type MockStore struct {
	mu            sync.Mutex
	state         app.State
	settingsSaved bool

	// Spies for method calls
	LoadPlayersFunc        func() ([]kendo.Player, error)
	ReplacePlayersFunc     func(players []kendo.Player) error
	LoadMatchesFunc        func() ([]kendo.Match, error)
	ReplaceMatchesFunc     func(matches []kendo.Match) error
	LoadTeamMatchesFunc    func() ([]kendo.TeamMatch, error)
	ReplaceTeamMatchesFunc func(teamMatches []kendo.TeamMatch) error
	LoadSettingsFunc       func() (kendo.Settings, error)
	ReplaceSettingsFunc    func(settings kendo.Settings) error
	SettingsSavedFunc      func() (bool, error)
	ReplaceAllFunc         func(state app.State) error

	// Call records
	ReplacePlayersCalls     [][]kendo.Player
	ReplaceMatchesCalls     [][]kendo.Match
	ReplaceTeamMatchesCalls [][]kendo.TeamMatch
	ReplaceSettingsCalls    []kendo.Settings
	ReplaceAllCalls         []app.State
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{state: app.New()}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplacePlayersCalls = nil
	m.ReplaceMatchesCalls = nil
	m.ReplaceTeamMatchesCalls = nil
	m.ReplaceSettingsCalls = nil
	m.ReplaceAllCalls = nil
}

// State returns what the mock currently holds.
func (m *MockStore) State() app.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *MockStore) LoadPlayers() ([]kendo.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadPlayersFunc != nil {
		return m.LoadPlayersFunc()
	}
	return slices.Clone(m.state.Players), nil
}

func (m *MockStore) ReplacePlayers(players []kendo.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplacePlayersCalls = append(m.ReplacePlayersCalls, players)
	if m.ReplacePlayersFunc != nil {
		if err := m.ReplacePlayersFunc(players); err != nil {
			return err
		}
	}
	m.state.Players = slices.Clone(players)
	return nil
}

func (m *MockStore) LoadMatches() ([]kendo.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadMatchesFunc != nil {
		return m.LoadMatchesFunc()
	}
	return slices.Clone(m.state.Matches), nil
}

func (m *MockStore) ReplaceMatches(matches []kendo.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceMatchesCalls = append(m.ReplaceMatchesCalls, matches)
	if m.ReplaceMatchesFunc != nil {
		if err := m.ReplaceMatchesFunc(matches); err != nil {
			return err
		}
	}
	m.state.Matches = slices.Clone(matches)
	return nil
}

func (m *MockStore) LoadTeamMatches() ([]kendo.TeamMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadTeamMatchesFunc != nil {
		return m.LoadTeamMatchesFunc()
	}
	return slices.Clone(m.state.TeamMatches), nil
}

func (m *MockStore) ReplaceTeamMatches(teamMatches []kendo.TeamMatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceTeamMatchesCalls = append(m.ReplaceTeamMatchesCalls, teamMatches)
	if m.ReplaceTeamMatchesFunc != nil {
		if err := m.ReplaceTeamMatchesFunc(teamMatches); err != nil {
			return err
		}
	}
	m.state.TeamMatches = slices.Clone(teamMatches)
	return nil
}

func (m *MockStore) LoadSettings() (kendo.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadSettingsFunc != nil {
		return m.LoadSettingsFunc()
	}
	return m.state.Settings, nil
}

func (m *MockStore) ReplaceSettings(settings kendo.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceSettingsCalls = append(m.ReplaceSettingsCalls, settings)
	if m.ReplaceSettingsFunc != nil {
		if err := m.ReplaceSettingsFunc(settings); err != nil {
			return err
		}
	}
	m.state.Settings = settings
	m.settingsSaved = true
	return nil
}

func (m *MockStore) SettingsSaved() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SettingsSavedFunc != nil {
		return m.SettingsSavedFunc()
	}
	return m.settingsSaved, nil
}

func (m *MockStore) Load() (app.State, error) {
	players, err := m.LoadPlayers()
	if err != nil {
		return app.State{}, err
	}
	matches, err := m.LoadMatches()
	if err != nil {
		return app.State{}, err
	}
	teamMatches, err := m.LoadTeamMatches()
	if err != nil {
		return app.State{}, err
	}
	settings, err := m.LoadSettings()
	if err != nil {
		return app.State{}, err
	}
	return app.State{Players: players, Matches: matches, TeamMatches: teamMatches, Settings: settings}, nil
}

func (m *MockStore) ReplaceAll(state app.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceAllCalls = append(m.ReplaceAllCalls, state)
	if m.ReplaceAllFunc != nil {
		if err := m.ReplaceAllFunc(state); err != nil {
			return err
		}
	}
	m.state = state
	m.settingsSaved = true
	return nil
}
