package processor

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/kendo-tally/internal/app"
	"github.com/mauv0809/kendo-tally/internal/ids"
	"github.com/mauv0809/kendo-tally/internal/metrics"
	"github.com/mauv0809/kendo-tally/internal/pubsub"
	"github.com/mauv0809/kendo-tally/internal/timer"
)

// New creates a new Processor with an empty state. Call Load to read what the
// store holds.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, usage metrics.MetricsStore, opts ...Option) *Processor {
	p := &Processor{
		state:    app.New(),
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		usage:    usage,
		clock:    timer.SystemClock(),
		ids:      ids.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load replaces the in-memory state with the stored one.
func (p *Processor) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	state, err := p.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	p.state = state
	log.Info("Loaded state", "players", len(state.Players), "matches", len(state.Matches), "teamMatches", len(state.TeamMatches))
	return nil
}

// State returns a copy of the current application state.
func (p *Processor) State() app.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// collection flags which parts of the state a change touched.
type collection uint8

const (
	colPlayers collection = 1 << iota
	colMatches
	colTeamMatches
	colSettings
)

// commit persists the touched collections and then swaps the state. On a
// store failure the previous state is kept. Without AutoSave only settings
// changes are written so the toggle itself survives a restart.
func (p *Processor) commit(next app.State, changed collection) error {
	if next.Settings.AutoSave || changed == colSettings {
		if err := p.persist(next, changed); err != nil {
			log.Error("Failed to persist state", "error", err)
			return fmt.Errorf("%w: %w", ErrPersist, err)
		}
	}
	p.state = next
	return nil
}

func (p *Processor) persist(next app.State, changed collection) error {
	switch changed {
	case colPlayers:
		return p.store.ReplacePlayers(next.Players)
	case colMatches:
		return p.store.ReplaceMatches(next.Matches)
	case colTeamMatches:
		return p.store.ReplaceTeamMatches(next.TeamMatches)
	case colSettings:
		return p.store.ReplaceSettings(next.Settings)
	}
	// Several collections must land together.
	return p.store.ReplaceAll(next)
}

// Save writes every collection regardless of AutoSave.
func (p *Processor) Save() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.ReplaceAll(p.state); err != nil {
		log.Error("Failed to save state", "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	log.Info("Saved state")
	return nil
}

// Usage returns the lifetime counters kept in the database.
func (p *Processor) Usage() (map[string]int, error) {
	return p.usage.GetAll()
}
