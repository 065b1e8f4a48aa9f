package processor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/kendo-tally/internal/app"
	"github.com/mauv0809/kendo-tally/internal/kendo"
	"github.com/mauv0809/kendo-tally/internal/metrics"
	"github.com/mauv0809/kendo-tally/internal/pubsub"
	"github.com/mauv0809/kendo-tally/internal/recorder"
)

func (p *Processor) view() SessionView {
	switch {
	case p.match != nil:
		v := p.match.View()
		return SessionView{Kind: SessionMatch, Match: &v}
	case p.team != nil:
		v := p.team.View()
		return SessionView{Kind: SessionTeam, Team: &v}
	}
	return SessionView{Kind: SessionNone}
}

// Session returns the active session.
func (p *Processor) Session() SessionView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view()
}

func (p *Processor) reject(command string, err error) error {
	p.metrics.IncRejectedCommands(command)
	log.Debug("Command rejected", "command", command, "error", err)
	return err
}

func (p *Processor) playerRef(id string) (*kendo.PlayerRef, error) {
	if id == "" {
		return nil, nil
	}
	player, ok := p.state.Player(id)
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, app.ErrNotFound)
	}
	return player.Ref(), nil
}

// StartMatch opens an individual match session. An empty format falls back to
// the configured default.
func (p *Processor) StartMatch(req MatchRequest) (SessionView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.match != nil || p.team != nil {
		return SessionView{}, p.reject("start_match", ErrSessionActive)
	}
	ref, err := p.playerRef(req.PlayerID)
	if err != nil {
		return SessionView{}, p.reject("start_match", err)
	}
	format := kendo.Format(req.Format)
	if format == "" {
		format = p.state.Settings.DefaultFormat
	}
	setup := recorder.MatchSetup{
		Player:       ref,
		OpponentName: strings.TrimSpace(req.OpponentName),
		OpponentTeam: strings.TrimSpace(req.OpponentTeam),
		Context:      kendo.MatchContext(req.Context),
		Format:       format,
		VideoURL:     req.VideoURL,
		Notes:        req.Notes,
	}
	s, err := recorder.NewMatchSession(setup, p.state.Settings.PromptTechnique, p.clock, p.ids)
	if err != nil {
		return SessionView{}, p.reject("start_match", err)
	}
	p.match = &s
	log.Info("Match started", "sessionID", s.ID(), "format", format, "player", req.PlayerID)
	return p.view(), nil
}

// StartTeamMatch opens a team session at the senpo position.
func (p *Processor) StartTeamMatch(req TeamRequest) (SessionView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.match != nil || p.team != nil {
		return SessionView{}, p.reject("start_team_match", ErrSessionActive)
	}
	setup := recorder.TeamSetup{
		OpponentTeamName: req.OpponentTeamName,
		Context:          kendo.MatchContext(req.Context),
		VideoURL:         req.VideoURL,
		Lineup:           map[kendo.Position]*kendo.PlayerRef{},
		OpponentLineup:   map[kendo.Position]string{},
	}
	for pos, id := range req.Lineup {
		ref, err := p.playerRef(id)
		if err != nil {
			return SessionView{}, p.reject("start_team_match", err)
		}
		if ref != nil {
			setup.Lineup[kendo.Position(pos)] = ref
		}
	}
	for pos, name := range req.OpponentLineup {
		setup.OpponentLineup[kendo.Position(pos)] = strings.TrimSpace(name)
	}
	s, err := recorder.NewTeamSession(setup, p.state.Settings.PromptTechnique, p.clock, p.ids)
	if err != nil {
		return SessionView{}, p.reject("start_team_match", err)
	}
	p.team = &s
	log.Info("Team match started", "sessionID", s.ID(), "opponent", setup.OpponentTeamName)
	return p.view(), nil
}

// apply runs a scoreboard command against whichever session is active.
func (p *Processor) apply(command string, cmd recorder.Command) (SessionView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var before, after int
	switch {
	case p.match != nil:
		before = p.match.Board().Len()
		next, err := recorder.Apply(*p.match, cmd)
		if err != nil {
			return SessionView{}, p.reject(command, err)
		}
		p.match = &next
		after = next.Board().Len()
	case p.team != nil:
		before = p.team.Board().Len()
		next, err := recorder.Apply(*p.team, cmd)
		if err != nil {
			return SessionView{}, p.reject(command, err)
		}
		p.team = &next
		after = next.Board().Len()
	default:
		return SessionView{}, p.reject(command, ErrNoSession)
	}

	switch {
	case after > before:
		p.metrics.IncScoreEvents()
	case after < before:
		p.metrics.IncUndos()
	}
	return p.view(), nil
}

func (p *Processor) SelectTarget(target kendo.Target) (SessionView, error) {
	return p.apply("select_target", recorder.SelectTarget(target))
}

func (p *Processor) SelectScorer(scorer kendo.Scorer) (SessionView, error) {
	return p.apply("select_scorer", recorder.SelectScorer(scorer))
}

func (p *Processor) SelectTechnique(technique kendo.Technique) (SessionView, error) {
	return p.apply("select_technique", recorder.SelectTechnique(technique))
}

func (p *Processor) SkipTechnique() (SessionView, error) {
	return p.apply("skip_technique", recorder.SkipTechnique())
}

func (p *Processor) CancelEntry() (SessionView, error) {
	return p.apply("cancel_entry", recorder.CancelEntry())
}

func (p *Processor) Undo() (SessionView, error) {
	return p.apply("undo", recorder.Undo())
}

func (p *Processor) StartTimer() (SessionView, error) {
	return p.apply("start_timer", recorder.StartTimer())
}

func (p *Processor) PauseTimer() (SessionView, error) {
	return p.apply("pause_timer", recorder.PauseTimer())
}

func (p *Processor) ResetTimer(confirmed bool) (SessionView, error) {
	return p.apply("reset_timer", recorder.ResetTimer(confirmed))
}

// EndMatch saves the active individual match and closes the session. The
// session stays open when the record cannot be stored.
func (p *Processor) EndMatch(dryRun bool) (kendo.Match, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.match == nil {
		if p.team != nil {
			return kendo.Match{}, p.reject("end_match", ErrWrongSession)
		}
		return kendo.Match{}, p.reject("end_match", ErrNoSession)
	}
	match, err := p.match.End()
	if err != nil {
		return kendo.Match{}, p.reject("end_match", err)
	}
	next, err := p.state.AddMatch(match)
	if err != nil {
		return kendo.Match{}, p.reject("end_match", err)
	}
	if err := p.commit(next, colMatches); err != nil {
		return kendo.Match{}, err
	}
	p.match = nil

	log.Info("Match recorded", "matchID", match.ID, "result", match.Result, "scores", len(match.Scores))
	p.metrics.IncMatchesRecorded()
	p.usage.Increment(metrics.KeyMatchesRecorded)
	if err := p.notifier.SendMatchResult(match, dryRun); err != nil {
		log.Error("Failed to send match result notification", "error", err, "matchID", match.ID)
	}
	if !dryRun {
		if err := p.pubsub.SendMessage(pubsub.EventMatchRecorded, pubsub.MatchRecorded{Match: match}); err != nil {
			log.Error("Failed to publish match", "error", err, "matchID", match.ID)
		}
	}
	return match, nil
}

// EndBout closes the current bout of the team session with the result on the
// board.
func (p *Processor) EndBout(dryRun bool) (BoutResult, error) {
	return p.resolveBout("end_bout", recorder.TeamSession.EndBout, dryRun)
}

// SkipBout records the current position as not fought.
func (p *Processor) SkipBout(dryRun bool) (BoutResult, error) {
	return p.resolveBout("skip_bout", recorder.TeamSession.SkipBout, dryRun)
}

func (p *Processor) resolveBout(command string, resolve func(recorder.TeamSession) (recorder.TeamSession, error), dryRun bool) (BoutResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.team == nil {
		if p.match != nil {
			return BoutResult{}, p.reject(command, ErrWrongSession)
		}
		return BoutResult{}, p.reject(command, ErrNoSession)
	}

	// A completed session is only left behind when saving failed; retry it.
	if !p.team.Completed() {
		next, err := resolve(*p.team)
		if err != nil {
			return BoutResult{}, p.reject(command, err)
		}
		p.team = &next
		log.Info("Bout resolved", "sessionID", next.ID(), "bouts", len(next.Bouts()))
		if !next.Completed() {
			return BoutResult{Session: p.view()}, nil
		}
	}

	outcome, err := p.finishTeamMatch(dryRun)
	if err != nil {
		return BoutResult{Session: p.view()}, err
	}
	return BoutResult{Session: p.view(), Outcome: &outcome}, nil
}

func (p *Processor) finishTeamMatch(dryRun bool) (recorder.TeamOutcome, error) {
	outcome, err := p.team.Outcome()
	if err != nil {
		return recorder.TeamOutcome{}, err
	}
	next, err := p.state.AddTeamMatch(outcome.TeamMatch, outcome.Matches...)
	if err != nil {
		return recorder.TeamOutcome{}, err
	}
	if err := p.commit(next, colMatches|colTeamMatches); err != nil {
		return recorder.TeamOutcome{}, err
	}
	p.team = nil

	tm := outcome.TeamMatch
	log.Info("Team match recorded", "teamMatchID", tm.ID, "result", tm.Result, "matches", len(outcome.Matches))
	p.metrics.IncTeamMatchesRecorded()
	p.usage.Increment(metrics.KeyTeamMatchesRecorded)
	if err := p.notifier.SendTeamMatchResult(tm, dryRun); err != nil {
		log.Error("Failed to send team match notification", "error", err, "teamMatchID", tm.ID)
	}
	if !dryRun {
		if err := p.pubsub.SendMessage(pubsub.EventTeamMatchRecorded, pubsub.TeamMatchRecorded{TeamMatch: tm, Matches: outcome.Matches}); err != nil {
			log.Error("Failed to publish team match", "error", err, "teamMatchID", tm.ID)
		}
	}
	return outcome, nil
}

// DiscardSession abandons the active session without saving anything.
func (p *Processor) DiscardSession(confirmed bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var err error
	switch {
	case p.match != nil:
		err = p.match.Discard(confirmed)
	case p.team != nil:
		err = p.team.Discard(confirmed)
	default:
		return p.reject("discard", ErrNoSession)
	}
	if err != nil {
		return p.reject("discard", err)
	}
	log.Info("Session discarded", "kind", p.view().Kind)
	p.match, p.team = nil, nil
	return nil
}
