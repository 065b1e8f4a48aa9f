package kendo

// Tally is the live count of ippons per side.
type Tally struct {
	Self     int `json:"self"`
	Opponent int `json:"opponent"`
}

// TallyOf counts the events of each side in a score log. Events with an
// unknown scorer are ignored.
func TallyOf(scores []ScoreEvent) Tally {
	var t Tally
	for _, s := range scores {
		switch s.Scorer {
		case ScorerSelf:
			t.Self++
		case ScorerOpponent:
			t.Opponent++
		}
	}
	return t
}

// Reached reports whether either side has reached the threshold.
func (t Tally) Reached(threshold int) bool {
	return t.Self >= threshold || t.Opponent >= threshold
}

// DetermineResult derives the result of a score log. The log is walked in
// order and the side that first reaches the threshold wins; later events do
// not change the outcome. Calling it twice on the same log gives the same
// answer.
func DetermineResult(scores []ScoreEvent, format Format) Result {
	threshold := format.Threshold()
	var t Tally
	for _, s := range scores {
		switch s.Scorer {
		case ScorerSelf:
			t.Self++
		case ScorerOpponent:
			t.Opponent++
		}
		switch {
		case t.Self >= threshold:
			return ResultWin
		case t.Opponent >= threshold:
			return ResultLoss
		}
	}
	if t.Self == t.Opponent && t.Self > 0 {
		return ResultDraw
	}
	return ResultInProgress
}

// TeamResult folds bout results into a team result. Draws and in-progress
// bouts count for neither side.
func TeamResult(bouts []Bout) Result {
	var wins, losses int
	for _, b := range bouts {
		switch b.Result {
		case ResultWin:
			wins++
		case ResultLoss:
			losses++
		}
	}
	switch {
	case wins > losses:
		return ResultWin
	case losses > wins:
		return ResultLoss
	}
	return ResultDraw
}
