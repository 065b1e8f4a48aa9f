package kendo

import (
	"fmt"
	"strings"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRecord, fmt.Sprintf(format, args...))
}

// ValidateScores checks a score log: known enums, non-negative timestamps in
// append order.
func ValidateScores(scores []ScoreEvent) error {
	var last int64
	for i, s := range scores {
		switch {
		case !s.Target.Valid():
			return invalid("score %d: unknown target %q", i, s.Target)
		case !s.Scorer.Valid():
			return invalid("score %d: unknown scorer %q", i, s.Scorer)
		case s.Technique != TechniqueNone && !s.Technique.Valid():
			return invalid("score %d: unknown technique %q", i, s.Technique)
		case s.TimestampMs < 0:
			return invalid("score %d: negative timestamp", i)
		case s.TimestampMs < last:
			return invalid("score %d: timestamp goes backwards", i)
		}
		last = s.TimestampMs
	}
	return nil
}

// validateDecided rejects events logged after one side reached the threshold.
func validateDecided(scores []ScoreEvent, format Format) error {
	for i := range scores[:max(len(scores)-1, 0)] {
		if TallyOf(scores[:i+1]).Reached(format.Threshold()) {
			return invalid("score %d: logged after the %s match was decided", i+1, format)
		}
	}
	return nil
}

func (p Player) Validate() error {
	if p.ID == "" {
		return invalid("player without id")
	}
	if strings.TrimSpace(p.Name) == "" {
		return invalid("player %s: empty name", p.ID)
	}
	if p.Position != "" && !p.Position.Valid() {
		return invalid("player %s: unknown position %q", p.ID, p.Position)
	}
	return nil
}

func (m Match) Validate() error {
	if m.ID == "" {
		return invalid("match without id")
	}
	if !m.Format.Valid() {
		return invalid("match %s: unknown format %q", m.ID, m.Format)
	}
	if !m.Context.Valid() {
		return invalid("match %s: unknown context %q", m.ID, m.Context)
	}
	if !m.Result.Valid() {
		return invalid("match %s: unknown result %q", m.ID, m.Result)
	}
	if m.Position != "" && !m.Position.Valid() {
		return invalid("match %s: unknown position %q", m.ID, m.Position)
	}
	if m.DurationMs < 0 {
		return invalid("match %s: negative duration", m.ID)
	}
	if err := ValidateScores(m.Scores); err != nil {
		return fmt.Errorf("match %s: %w", m.ID, err)
	}
	if err := validateDecided(m.Scores, m.Format); err != nil {
		return fmt.Errorf("match %s: %w", m.ID, err)
	}
	return nil
}

// Validate checks that a team match has exactly one bout per position in
// fighting order.
func (tm TeamMatch) Validate() error {
	if tm.ID == "" {
		return invalid("team match without id")
	}
	if !tm.Context.Valid() {
		return invalid("team match %s: unknown context %q", tm.ID, tm.Context)
	}
	if tm.Result != ResultWin && tm.Result != ResultLoss && tm.Result != ResultDraw {
		return invalid("team match %s: unknown result %q", tm.ID, tm.Result)
	}
	if len(tm.Bouts) != len(PositionOrder) {
		return invalid("team match %s: %d bouts, want %d", tm.ID, len(tm.Bouts), len(PositionOrder))
	}
	for i, b := range tm.Bouts {
		if b.Position != PositionOrder[i] {
			return invalid("team match %s: bout %d is %q, want %q", tm.ID, i, b.Position, PositionOrder[i])
		}
		if !b.Result.Valid() {
			return invalid("team match %s: bout %s has unknown result %q", tm.ID, b.Position, b.Result)
		}
		if b.Skipped && (len(b.Scores) > 0 || b.Result != ResultDraw) {
			return invalid("team match %s: skipped bout %s must be an empty draw", tm.ID, b.Position)
		}
		if err := ValidateScores(b.Scores); err != nil {
			return fmt.Errorf("team match %s bout %s: %w", tm.ID, b.Position, err)
		}
		if err := validateDecided(b.Scores, FormatSanbon); err != nil {
			return fmt.Errorf("team match %s bout %s: %w", tm.ID, b.Position, err)
		}
	}
	return nil
}

func (s Settings) Validate() error {
	if !s.DefaultFormat.Valid() {
		return invalid("settings: unknown format %q", s.DefaultFormat)
	}
	if s.DefaultMatchDurationMs <= 0 {
		return invalid("settings: match duration must be positive")
	}
	return nil
}
