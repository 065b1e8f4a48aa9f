package recorder

import "github.com/mauv0809/kendo-tally/internal/kendo"

// Command is a scoreboard transition.
type Command func(Scoreboard) (Scoreboard, error)

// Session is implemented by MatchSession and TeamSession.
type Session[S any] interface {
	Board() Scoreboard
	WithBoard(Scoreboard) S
}

// Apply runs cmd against the board of s and returns the updated session.
// On error s is returned unchanged.
func Apply[S Session[S]](s S, cmd Command) (S, error) {
	b, err := cmd(s.Board())
	if err != nil {
		return s, err
	}
	return s.WithBoard(b), nil
}

func SelectTarget(t kendo.Target) Command {
	return func(b Scoreboard) (Scoreboard, error) { return b.SelectTarget(t) }
}

func SelectScorer(s kendo.Scorer) Command {
	return func(b Scoreboard) (Scoreboard, error) { return b.SelectScorer(s) }
}

func SelectTechnique(t kendo.Technique) Command {
	return func(b Scoreboard) (Scoreboard, error) { return b.SelectTechnique(t) }
}

func SkipTechnique() Command {
	return func(b Scoreboard) (Scoreboard, error) { return b.SkipTechnique() }
}

func CancelEntry() Command {
	return func(b Scoreboard) (Scoreboard, error) { return b.CancelEntry() }
}

func Undo() Command {
	return func(b Scoreboard) (Scoreboard, error) { return b.Undo() }
}

func StartTimer() Command {
	return func(b Scoreboard) (Scoreboard, error) { return b.StartTimer(), nil }
}

func PauseTimer() Command {
	return func(b Scoreboard) (Scoreboard, error) { return b.PauseTimer(), nil }
}

func ResetTimer(confirmed bool) Command {
	return func(b Scoreboard) (Scoreboard, error) { return b.ResetTimer(confirmed) }
}
