package recorder

import (
	"fmt"
	"strings"

	"github.com/mauv0809/kendo-tally/internal/ids"
	"github.com/mauv0809/kendo-tally/internal/kendo"
	"github.com/mauv0809/kendo-tally/internal/timer"
)

// DefaultOpponentName is stored when a match ends without an opponent name.
const DefaultOpponentName = "Opponent"

// MatchSetup holds the metadata captured before an individual match starts.
type MatchSetup struct {
	Player       *kendo.PlayerRef   `json:"player,omitempty"`
	OpponentName string             `json:"opponentName"`
	OpponentTeam string             `json:"opponentTeam,omitempty"`
	Context      kendo.MatchContext `json:"context"`
	Format       kendo.Format       `json:"format"`
	VideoURL     string             `json:"videoUrl,omitempty"`
	Notes        string             `json:"notes,omitempty"`
}

// MatchSession records one individual match.
type MatchSession struct {
	id    string
	setup MatchSetup
	board Scoreboard
}

// NewMatchSession validates setup and opens a session with an empty log and a
// stopped timer. An empty context defaults to practice.
func NewMatchSession(setup MatchSetup, promptTechnique bool, clock timer.Clock, gen ids.Generator) (MatchSession, error) {
	if setup.Context == "" {
		setup.Context = kendo.ContextPractice
	}
	if !setup.Context.Valid() {
		return MatchSession{}, fmt.Errorf("%w: unknown context %q", ErrInvalidInput, setup.Context)
	}
	board, err := NewScoreboard(setup.Format, promptTechnique, clock, gen)
	if err != nil {
		return MatchSession{}, err
	}
	return MatchSession{id: gen.NewID(), setup: setup, board: board}, nil
}

func (s MatchSession) ID() string { return s.id }

func (s MatchSession) Setup() MatchSetup { return s.setup }

func (s MatchSession) Board() Scoreboard { return s.board }

func (s MatchSession) WithBoard(b Scoreboard) MatchSession {
	s.board = b
	return s
}

// End finalizes the match. The timer is paused and the result is derived from
// the whole log, so an undecided match is stored as in_progress.
func (s MatchSession) End() (kendo.Match, error) {
	if s.board.Stage() != StageIdle {
		return kendo.Match{}, ErrEntryInProgress
	}
	board := s.board.PauseTimer()
	now := timer.Stamp(board.clock)

	opponent := strings.TrimSpace(s.setup.OpponentName)
	if opponent == "" {
		opponent = DefaultOpponentName
	}
	scores := board.Scores()
	if scores == nil {
		scores = []kendo.ScoreEvent{}
	}
	return kendo.Match{
		ID:           s.id,
		Date:         now,
		Context:      s.setup.Context,
		Format:       s.setup.Format,
		Player:       s.setup.Player,
		OpponentName: opponent,
		OpponentTeam: strings.TrimSpace(s.setup.OpponentTeam),
		Scores:       scores,
		DurationMs:   board.ElapsedMs(),
		Result:       board.Result(),
		VideoURL:     s.setup.VideoURL,
		Notes:        s.setup.Notes,
		CreatedAt:    now,
	}, nil
}

// Discard abandons the session. Recorded ippons are only thrown away when the
// operator confirmed.
func (s MatchSession) Discard(confirmed bool) error {
	if s.board.Len() > 0 && !confirmed {
		return kendo.ErrConfirmationRequired
	}
	return nil
}

// MatchView is the read model of an active match.
type MatchView struct {
	ID    string     `json:"id"`
	Setup MatchSetup `json:"setup"`
	Board BoardView  `json:"board"`
}

func (s MatchSession) View() MatchView {
	return MatchView{ID: s.id, Setup: s.setup, Board: s.board.View()}
}
