package recorder

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/mauv0809/kendo-tally/internal/ids"
	"github.com/mauv0809/kendo-tally/internal/kendo"
	"github.com/mauv0809/kendo-tally/internal/timer"
)

// TeamSetup holds the lineups captured before a team match starts. Positions
// missing from either map are fought without a name.
type TeamSetup struct {
	OpponentTeamName string                              `json:"opponentTeamName"`
	Context          kendo.MatchContext                  `json:"context"`
	VideoURL         string                              `json:"videoUrl,omitempty"`
	Lineup           map[kendo.Position]*kendo.PlayerRef `json:"lineup"`
	OpponentLineup   map[kendo.Position]string           `json:"opponentLineup"`
}

// TeamOutcome is what a completed team session produces: the team record and
// one individual match per fought bout with a known home player.
type TeamOutcome struct {
	TeamMatch kendo.TeamMatch `json:"teamMatch"`
	Matches   []kendo.Match   `json:"matches"`
}

// TeamSession walks the five positions in order. Each bout gets a fresh sanbon
// board and timer.
type TeamSession struct {
	id          string
	setup       TeamSetup
	prompt      bool
	clock       timer.Clock
	ids         ids.Generator
	bouts       []kendo.Bout
	matchIDs    []string
	board       Scoreboard
	completedAt time.Time
}

// NewTeamSession validates setup and opens the senpo bout. An empty context
// defaults to tournament.
func NewTeamSession(setup TeamSetup, promptTechnique bool, clock timer.Clock, gen ids.Generator) (TeamSession, error) {
	if setup.Context == "" {
		setup.Context = kendo.ContextTournament
	}
	if !setup.Context.Valid() {
		return TeamSession{}, fmt.Errorf("%w: unknown context %q", ErrInvalidInput, setup.Context)
	}
	for pos := range setup.Lineup {
		if !pos.Valid() {
			return TeamSession{}, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, pos)
		}
	}
	for pos := range setup.OpponentLineup {
		if !pos.Valid() {
			return TeamSession{}, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, pos)
		}
	}
	setup.OpponentTeamName = strings.TrimSpace(setup.OpponentTeamName)
	setup.Lineup = maps.Clone(setup.Lineup)
	setup.OpponentLineup = maps.Clone(setup.OpponentLineup)

	board, err := NewScoreboard(kendo.FormatSanbon, promptTechnique, clock, gen)
	if err != nil {
		return TeamSession{}, err
	}
	return TeamSession{
		id:     gen.NewID(),
		setup:  setup,
		prompt: promptTechnique,
		clock:  clock,
		ids:    gen,
		board:  board,
	}, nil
}

func (s TeamSession) ID() string { return s.id }

func (s TeamSession) Setup() TeamSetup { return s.setup }

func (s TeamSession) Board() Scoreboard { return s.board }

func (s TeamSession) WithBoard(b Scoreboard) TeamSession {
	s.board = b
	return s
}

// CurrentPosition returns the position being fought. ok is false once all five
// positions are resolved.
func (s TeamSession) CurrentPosition() (pos kendo.Position, ok bool) {
	if s.Completed() {
		return "", false
	}
	return kendo.PositionOrder[len(s.bouts)], true
}

func (s TeamSession) Completed() bool { return len(s.bouts) >= len(kendo.PositionOrder) }

// Bouts returns the resolved bouts in position order.
func (s TeamSession) Bouts() []kendo.Bout { return slices.Clone(s.bouts) }

// Standing counts bout wins for each side so far.
func (s TeamSession) Standing() kendo.Tally {
	var t kendo.Tally
	for _, b := range s.bouts {
		switch b.Result {
		case kendo.ResultWin:
			t.Self++
		case kendo.ResultLoss:
			t.Opponent++
		}
	}
	return t
}

// EndBout resolves the current position from the board and moves on.
func (s TeamSession) EndBout() (TeamSession, error) {
	pos, ok := s.CurrentPosition()
	if !ok {
		return s, ErrTeamMatchComplete
	}
	if s.board.Stage() != StageIdle {
		return s, ErrEntryInProgress
	}
	board := s.board.PauseTimer()
	scores := board.Scores()
	if scores == nil {
		scores = []kendo.ScoreEvent{}
	}
	bout := kendo.Bout{
		ID:           s.ids.NewID(),
		Position:     pos,
		Player:       s.setup.Lineup[pos],
		OpponentName: strings.TrimSpace(s.setup.OpponentLineup[pos]),
		Scores:       scores,
		DurationMs:   board.ElapsedMs(),
		Result:       board.Result(),
	}
	return s.advance(bout)
}

// SkipBout resolves the current position as an unfought draw. Any ippons on
// the board are dropped.
func (s TeamSession) SkipBout() (TeamSession, error) {
	pos, ok := s.CurrentPosition()
	if !ok {
		return s, ErrTeamMatchComplete
	}
	if s.board.Stage() != StageIdle {
		return s, ErrEntryInProgress
	}
	bout := kendo.Bout{
		ID:           s.ids.NewID(),
		Position:     pos,
		Player:       s.setup.Lineup[pos],
		OpponentName: strings.TrimSpace(s.setup.OpponentLineup[pos]),
		Scores:       []kendo.ScoreEvent{},
		Result:       kendo.ResultDraw,
		Skipped:      true,
	}
	return s.advance(bout)
}

func (s TeamSession) advance(bout kendo.Bout) (TeamSession, error) {
	matchID := ""
	if !bout.Skipped && bout.Player != nil {
		matchID = s.ids.NewID()
	}
	board, err := NewScoreboard(kendo.FormatSanbon, s.prompt, s.clock, s.ids)
	if err != nil {
		return s, err
	}
	s.bouts = append(slices.Clip(s.bouts), bout)
	s.matchIDs = append(slices.Clip(s.matchIDs), matchID)
	s.board = board
	if s.Completed() {
		s.completedAt = timer.Stamp(s.clock)
	}
	return s, nil
}

// Outcome builds the team record and the derived individual matches. It fails
// until every position is resolved.
func (s TeamSession) Outcome() (TeamOutcome, error) {
	if !s.Completed() {
		return TeamOutcome{}, ErrTeamMatchIncomplete
	}
	at := s.completedAt
	bouts := s.Bouts()
	out := TeamOutcome{
		TeamMatch: kendo.TeamMatch{
			ID:               s.id,
			Date:             at,
			Context:          s.setup.Context,
			OpponentTeamName: s.setup.OpponentTeamName,
			Bouts:            bouts,
			Result:           kendo.TeamResult(bouts),
			VideoURL:         s.setup.VideoURL,
			CreatedAt:        at,
		},
		Matches: []kendo.Match{},
	}
	for i, b := range bouts {
		if s.matchIDs[i] == "" {
			continue
		}
		opponent := b.OpponentName
		if opponent == "" {
			opponent = DefaultOpponentName
		}
		out.Matches = append(out.Matches, kendo.Match{
			ID:              s.matchIDs[i],
			Date:            at,
			Context:         s.setup.Context,
			Format:          kendo.FormatSanbon,
			Player:          b.Player,
			OpponentName:    opponent,
			OpponentTeam:    s.setup.OpponentTeamName,
			Scores:          slices.Clone(b.Scores),
			DurationMs:      b.DurationMs,
			Result:          b.Result,
			VideoURL:        s.setup.VideoURL,
			Notes:           "Team match position: " + b.Position.Label(),
			PartOfTeamMatch: true,
			TeamMatchID:     s.id,
			Position:        b.Position,
			CreatedAt:       at,
		})
	}
	return out, nil
}

// Discard abandons the session. Once anything was recorded the operator has
// to confirm.
func (s TeamSession) Discard(confirmed bool) error {
	if (len(s.bouts) > 0 || s.board.Len() > 0) && !confirmed {
		return kendo.ErrConfirmationRequired
	}
	return nil
}

// TeamView is the read model of an active team match.
type TeamView struct {
	ID              string         `json:"id"`
	Setup           TeamSetup      `json:"setup"`
	CurrentPosition kendo.Position `json:"currentPosition,omitempty"`
	Completed       bool           `json:"completed"`
	Bouts           []kendo.Bout   `json:"bouts"`
	Wins            int            `json:"wins"`
	Losses          int            `json:"losses"`
	Board           BoardView      `json:"board"`
}

func (s TeamSession) View() TeamView {
	pos, _ := s.CurrentPosition()
	standing := s.Standing()
	bouts := s.Bouts()
	if bouts == nil {
		bouts = []kendo.Bout{}
	}
	return TeamView{
		ID:              s.id,
		Setup:           s.setup,
		CurrentPosition: pos,
		Completed:       s.Completed(),
		Bouts:           bouts,
		Wins:            standing.Self,
		Losses:          standing.Opponent,
		Board:           s.board.View(),
	}
}
