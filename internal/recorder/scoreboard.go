// Package recorder captures scoring events for individual matches and team
// bouts and turns them into finished records.
//
// Sessions are values. Every command returns the next session or an error, and
// a rejected command leaves the previous value untouched.
package recorder

import (
	"fmt"
	"slices"

	"github.com/mauv0809/kendo-tally/internal/ids"
	"github.com/mauv0809/kendo-tally/internal/kendo"
	"github.com/mauv0809/kendo-tally/internal/timer"
)

// Stage is the step of the score entry flow.
type Stage string

const (
	StageIdle      Stage = "idle"
	StageScorer    Stage = "scorer"
	StageTechnique Stage = "technique"
)

// Scoreboard is the scoring primitive shared by matches and bouts: a score log,
// the pending entry and the timer that stamps it.
type Scoreboard struct {
	format  kendo.Format
	prompt  bool
	scores  []kendo.ScoreEvent
	pending kendo.ScoreEvent
	stage   Stage
	timer   timer.Timer
	clock   timer.Clock
	ids     ids.Generator
}

// NewScoreboard returns an empty board. When prompt is set, every entry asks
// for a technique after the scorer.
func NewScoreboard(format kendo.Format, prompt bool, clock timer.Clock, gen ids.Generator) (Scoreboard, error) {
	if !format.Valid() {
		return Scoreboard{}, fmt.Errorf("%w: unknown format %q", ErrInvalidInput, format)
	}
	return Scoreboard{
		format: format,
		prompt: prompt,
		stage:  StageIdle,
		timer:  timer.New(),
		clock:  clock,
		ids:    gen,
	}, nil
}

func (b Scoreboard) Format() kendo.Format { return b.format }

func (b Scoreboard) Threshold() int { return b.format.Threshold() }

func (b Scoreboard) Stage() Stage { return b.stage }

// Tally counts the committed log.
func (b Scoreboard) Tally() kendo.Tally { return kendo.TallyOf(b.scores) }

// Decided reports whether a side has reached the win threshold. Target
// selection stays disabled while it is true.
func (b Scoreboard) Decided() bool { return b.Tally().Reached(b.Threshold()) }

// Result derives the result from the committed log.
func (b Scoreboard) Result() kendo.Result { return kendo.DetermineResult(b.scores, b.format) }

// Scores returns a copy of the committed log.
func (b Scoreboard) Scores() []kendo.ScoreEvent { return slices.Clone(b.scores) }

func (b Scoreboard) Len() int { return len(b.scores) }

// Pending returns the entry being captured, if any.
func (b Scoreboard) Pending() (kendo.ScoreEvent, bool) {
	return b.pending, b.stage != StageIdle
}

func (b Scoreboard) Timer() timer.Timer { return b.timer }

func (b Scoreboard) ElapsedMs() int64 { return b.timer.ElapsedMs(b.clock.Now()) }

// SelectTarget opens an entry for target stamped with the current elapsed time.
func (b Scoreboard) SelectTarget(target kendo.Target) (Scoreboard, error) {
	if !target.Valid() {
		return b, fmt.Errorf("%w: unknown target %q", ErrInvalidInput, target)
	}
	if b.stage != StageIdle {
		return b, ErrEntryInProgress
	}
	if b.Decided() {
		return b, ErrThresholdReached
	}

	ts := b.ElapsedMs()
	// A timer reset mid-match must not reorder the log.
	if n := len(b.scores); n > 0 && ts < b.scores[n-1].TimestampMs {
		ts = b.scores[n-1].TimestampMs
	}
	b.pending = kendo.ScoreEvent{
		ID:          b.ids.NewID(),
		TimestampMs: ts,
		Target:      target,
	}
	b.stage = StageScorer
	return b, nil
}

// SelectScorer attributes the pending entry. Without the technique prompt the
// entry is committed straight away.
func (b Scoreboard) SelectScorer(scorer kendo.Scorer) (Scoreboard, error) {
	if b.stage != StageScorer {
		return b, ErrNoPendingEntry
	}
	if !scorer.Valid() {
		return b, fmt.Errorf("%w: unknown scorer %q", ErrInvalidInput, scorer)
	}
	b.pending.Scorer = scorer
	if b.prompt {
		b.stage = StageTechnique
		return b, nil
	}
	return b.commit(), nil
}

// SelectTechnique tags the pending entry and commits it.
func (b Scoreboard) SelectTechnique(technique kendo.Technique) (Scoreboard, error) {
	if b.stage != StageTechnique {
		return b, ErrNotAwaitingTechnique
	}
	if !technique.Valid() {
		return b, fmt.Errorf("%w: unknown technique %q", ErrInvalidInput, technique)
	}
	b.pending.Technique = technique
	return b.commit(), nil
}

// SkipTechnique commits the pending entry without a technique.
func (b Scoreboard) SkipTechnique() (Scoreboard, error) {
	if b.stage != StageTechnique {
		return b, ErrNotAwaitingTechnique
	}
	b.pending.Technique = kendo.TechniqueNone
	return b.commit(), nil
}

// CancelEntry drops the pending entry. Nothing is appended.
func (b Scoreboard) CancelEntry() (Scoreboard, error) {
	if b.stage == StageIdle {
		return b, ErrNoPendingEntry
	}
	b.pending = kendo.ScoreEvent{}
	b.stage = StageIdle
	return b, nil
}

// Undo removes the most recent committed event, re-opening scoring if it was
// the deciding point.
func (b Scoreboard) Undo() (Scoreboard, error) {
	n := len(b.scores)
	if n == 0 {
		return b, ErrNothingToUndo
	}
	b.scores = b.scores[: n-1 : n-1]
	return b, nil
}

func (b Scoreboard) StartTimer() Scoreboard {
	b.timer = b.timer.Start(b.clock.Now())
	return b
}

func (b Scoreboard) PauseTimer() Scoreboard {
	b.timer = b.timer.Pause(b.clock.Now())
	return b
}

// ResetTimer zeroes the timer. Once ippons are on the log the operator has to
// confirm.
func (b Scoreboard) ResetTimer(confirmed bool) (Scoreboard, error) {
	if len(b.scores) > 0 && !confirmed {
		return b, kendo.ErrConfirmationRequired
	}
	b.timer = b.timer.Reset()
	return b, nil
}

func (b Scoreboard) commit() Scoreboard {
	// Clip so the append never writes into an array shared with older values.
	b.scores = append(slices.Clip(b.scores), b.pending)
	b.pending = kendo.ScoreEvent{}
	b.stage = StageIdle
	if b.Decided() {
		b.timer = b.timer.Pause(b.clock.Now())
	}
	return b
}

// BoardView is the read model of a scoreboard.
type BoardView struct {
	Format     kendo.Format       `json:"format"`
	Threshold  int                `json:"threshold"`
	Self       int                `json:"self"`
	Opponent   int                `json:"opponent"`
	Decided    bool               `json:"decided"`
	Result     kendo.Result       `json:"result"`
	Scores     []kendo.ScoreEvent `json:"scores"`
	Stage      Stage              `json:"stage"`
	Pending    *kendo.ScoreEvent  `json:"pending,omitempty"`
	ElapsedMs  int64              `json:"elapsedMs"`
	TimerState timer.State        `json:"timerState"`
}

func (b Scoreboard) View() BoardView {
	tally := b.Tally()
	v := BoardView{
		Format:     b.format,
		Threshold:  b.Threshold(),
		Self:       tally.Self,
		Opponent:   tally.Opponent,
		Decided:    b.Decided(),
		Result:     b.Result(),
		Scores:     b.Scores(),
		Stage:      b.stage,
		ElapsedMs:  b.ElapsedMs(),
		TimerState: b.timer.State(),
	}
	if p, ok := b.Pending(); ok {
		v.Pending = &p
	}
	if v.Scores == nil {
		v.Scores = []kendo.ScoreEvent{}
	}
	return v
}
