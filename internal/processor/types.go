package processor

import (
	"errors"
	"sync"

	"github.com/mauv0809/kendo-tally/internal/app"
	"github.com/mauv0809/kendo-tally/internal/ids"
	"github.com/mauv0809/kendo-tally/internal/metrics"
	"github.com/mauv0809/kendo-tally/internal/pubsub"
	"github.com/mauv0809/kendo-tally/internal/recorder"
	"github.com/mauv0809/kendo-tally/internal/timer"
)

var (
	ErrNoSession     = errors.New("no active session")
	ErrSessionActive = errors.New("a session is already active")
	ErrWrongSession  = errors.New("command does not apply to the active session")
	ErrPersist       = errors.New("failed to persist changes")
)

// Processor owns the application state and the active recording session.
// Commands are serialized; every one of them either commits fully or leaves
// the state as it was.
type Processor struct {
	mu sync.Mutex

	state app.State
	match *recorder.MatchSession
	team  *recorder.TeamSession

	store    Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
	usage    metrics.MetricsStore
	clock    timer.Clock
	ids      ids.Generator
}

// Option customizes a Processor.
type Option func(*Processor)

// WithClock replaces the wall clock used by timers and record dates.
func WithClock(c timer.Clock) Option {
	return func(p *Processor) { p.clock = c }
}

// WithIDs replaces the identifier generator.
func WithIDs(g ids.Generator) Option {
	return func(p *Processor) { p.ids = g }
}

// SessionKind tells which recorder is active.
type SessionKind string

const (
	SessionNone  SessionKind = "none"
	SessionMatch SessionKind = "match"
	SessionTeam  SessionKind = "team"
)

// SessionView is the read model of the active session.
type SessionView struct {
	Kind  SessionKind         `json:"kind"`
	Match *recorder.MatchView `json:"match,omitempty"`
	Team  *recorder.TeamView  `json:"team,omitempty"`
}

// BoutResult is returned after a bout was ended or skipped. Outcome is set
// once the fifth bout completed the team match and it was saved.
type BoutResult struct {
	Session SessionView           `json:"session"`
	Outcome *recorder.TeamOutcome `json:"outcome,omitempty"`
}

// PlayerInput carries the editable fields of a roster entry.
type PlayerInput struct {
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// MatchRequest starts an individual match. PlayerID refers to the roster and
// may be empty.
type MatchRequest struct {
	PlayerID     string `json:"playerId,omitempty"`
	OpponentName string `json:"opponentName"`
	OpponentTeam string `json:"opponentTeam,omitempty"`
	Context      string `json:"context,omitempty"`
	Format       string `json:"format,omitempty"`
	VideoURL     string `json:"videoUrl,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// TeamRequest starts a team match. Lineup maps a position to a roster id.
type TeamRequest struct {
	OpponentTeamName string            `json:"opponentTeamName"`
	Context          string            `json:"context,omitempty"`
	VideoURL         string            `json:"videoUrl,omitempty"`
	Lineup           map[string]string `json:"lineup,omitempty"`
	OpponentLineup   map[string]string `json:"opponentLineup,omitempty"`
}
