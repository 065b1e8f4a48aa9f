package kendo_test

import (
	"math/rand"
	"testing"

	"github.com/mauv0809/kendo-tally/internal/kendo"
	"github.com/stretchr/testify/assert"
)

func ev(scorer kendo.Scorer, target kendo.Target) kendo.ScoreEvent {
	return kendo.ScoreEvent{Scorer: scorer, Target: target}
}

func TestDetermineResult(t *testing.T) {
	self := kendo.ScorerSelf
	opp := kendo.ScorerOpponent

	tests := []struct {
		name   string
		scores []kendo.ScoreEvent
		format kendo.Format
		want   kendo.Result
	}{
		{"empty log is in progress", nil, kendo.FormatSanbon, kendo.ResultInProgress},
		{"two self points win sanbon", []kendo.ScoreEvent{ev(self, kendo.TargetMen), ev(self, kendo.TargetKote)}, kendo.FormatSanbon, kendo.ResultWin},
		{"two opponent points lose sanbon", []kendo.ScoreEvent{ev(opp, kendo.TargetDo), ev(self, kendo.TargetMen), ev(opp, kendo.TargetMen)}, kendo.FormatSanbon, kendo.ResultLoss},
		{"one all is a draw", []kendo.ScoreEvent{ev(self, kendo.TargetMen), ev(opp, kendo.TargetKote)}, kendo.FormatSanbon, kendo.ResultDraw},
		{"one nil is still in progress", []kendo.ScoreEvent{ev(self, kendo.TargetMen)}, kendo.FormatSanbon, kendo.ResultInProgress},
		{"single point decides ippon format", []kendo.ScoreEvent{ev(opp, kendo.TargetTsuki)}, kendo.FormatIppon, kendo.ResultLoss},
		{"unknown scorers are ignored", []kendo.ScoreEvent{ev("ref", kendo.TargetMen)}, kendo.FormatIppon, kendo.ResultInProgress},
		{"points after the decision do not count", []kendo.ScoreEvent{ev(opp, kendo.TargetMen), ev(opp, kendo.TargetMen), ev(self, kendo.TargetKote), ev(self, kendo.TargetKote)}, kendo.FormatSanbon, kendo.ResultLoss},
		{"first point decides ippon format despite later points", []kendo.ScoreEvent{ev(self, kendo.TargetDo), ev(opp, kendo.TargetMen)}, kendo.FormatIppon, kendo.ResultWin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kendo.DetermineResult(tt.scores, tt.format))
			// Recomputing never changes the answer.
			assert.Equal(t, tt.want, kendo.DetermineResult(tt.scores, tt.format))
		})
	}
}

func TestDetermineResult_FirstToTwoWinsRegardlessOfInterleaving(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		winner, loser := kendo.ScorerSelf, kendo.ScorerOpponent
		want := kendo.ResultWin
		if rng.Intn(2) == 0 {
			winner, loser = loser, winner
			want = kendo.ResultLoss
		}

		// At most one losing point may sit anywhere before the deciding point.
		scores := []kendo.ScoreEvent{ev(winner, kendo.Targets[rng.Intn(4)])}
		if rng.Intn(2) == 0 {
			at := rng.Intn(len(scores) + 1)
			scores = append(scores[:at], append([]kendo.ScoreEvent{ev(loser, kendo.TargetDo)}, scores[at:]...)...)
		}
		scores = append(scores, ev(winner, kendo.Targets[rng.Intn(4)]))
		// Anything appended after the deciding point is ignored.
		for j := rng.Intn(3); j > 0; j-- {
			scores = append(scores, ev(loser, kendo.TargetMen))
		}

		assert.Equal(t, want, kendo.DetermineResult(scores, kendo.FormatSanbon), "scores: %+v", scores)
	}
}

func TestDetermineResult_BothSidesReachTwo(t *testing.T) {
	opp, self := kendo.ScorerOpponent, kendo.ScorerSelf
	scores := []kendo.ScoreEvent{ev(opp, kendo.TargetMen), ev(opp, kendo.TargetMen), ev(self, kendo.TargetKote), ev(self, kendo.TargetKote)}
	assert.Equal(t, kendo.ResultLoss, kendo.DetermineResult(scores, kendo.FormatSanbon))

	m := kendo.Match{ID: "m1", Format: kendo.FormatSanbon, Context: kendo.ContextPractice, Result: kendo.ResultWin}
	for i, s := range scores {
		s.ID = string(rune('a' + i))
		s.TimestampMs = int64(i * 1000)
		m.Scores = append(m.Scores, s)
	}
	assert.ErrorIs(t, m.Validate(), kendo.ErrInvalidRecord)
}

func TestTeamResult(t *testing.T) {
	bouts := func(results ...kendo.Result) []kendo.Bout {
		out := make([]kendo.Bout, len(results))
		for i, r := range results {
			out[i] = kendo.Bout{Position: kendo.PositionOrder[i], Result: r}
		}
		return out
	}

	assert.Equal(t, kendo.ResultDraw, kendo.TeamResult(bouts(kendo.ResultWin, kendo.ResultWin, kendo.ResultLoss, kendo.ResultDraw, kendo.ResultLoss)))
	assert.Equal(t, kendo.ResultWin, kendo.TeamResult(bouts(kendo.ResultWin, kendo.ResultDraw, kendo.ResultDraw, kendo.ResultDraw, kendo.ResultDraw)))
	assert.Equal(t, kendo.ResultLoss, kendo.TeamResult(bouts(kendo.ResultLoss, kendo.ResultLoss, kendo.ResultWin, kendo.ResultInProgress, kendo.ResultDraw)))
	assert.Equal(t, kendo.ResultDraw, kendo.TeamResult(nil))
}

func TestEnums(t *testing.T) {
	assert.Equal(t, 2, kendo.FormatSanbon.Threshold())
	assert.Equal(t, 1, kendo.FormatIppon.Threshold())
	assert.Equal(t, kendo.CategoryOji, kendo.TechniqueKaeshi.Category())
	assert.Equal(t, kendo.CategoryShikake, kendo.TechniqueDebana.Category())
	assert.False(t, kendo.TechniqueNone.Valid())
	assert.Equal(t, 4, kendo.PositionTaisho.Index())
	assert.Equal(t, -1, kendo.Position("captain").Index())
	assert.Equal(t, "Chuken (3rd)", kendo.PositionChuken.Label())
	assert.True(t, kendo.TargetTsuki.Valid())
	assert.False(t, kendo.Target("ashi").Valid())
}

func TestValidateTeamMatch(t *testing.T) {
	bouts := make([]kendo.Bout, len(kendo.PositionOrder))
	for i, p := range kendo.PositionOrder {
		bouts[i] = kendo.Bout{ID: string(p), Position: p, Result: kendo.ResultDraw, Skipped: true}
	}
	tm := kendo.TeamMatch{ID: "t1", Context: kendo.ContextTournament, Result: kendo.ResultDraw, Bouts: bouts}
	assert.NoError(t, tm.Validate())

	short := tm
	short.Bouts = bouts[:4]
	assert.ErrorIs(t, short.Validate(), kendo.ErrInvalidRecord)

	swapped := tm
	swapped.Bouts = append([]kendo.Bout{bouts[1], bouts[0]}, bouts[2:]...)
	assert.ErrorIs(t, swapped.Validate(), kendo.ErrInvalidRecord)

	undecided := tm
	undecided.Result = kendo.ResultInProgress
	assert.ErrorIs(t, undecided.Validate(), kendo.ErrInvalidRecord)
}

func TestValidateMatchScores(t *testing.T) {
	m := kendo.Match{ID: "m1", Format: kendo.FormatSanbon, Context: kendo.ContextPractice, Result: kendo.ResultWin,
		Scores: []kendo.ScoreEvent{
			{ID: "a", TimestampMs: 100, Target: kendo.TargetMen, Scorer: kendo.ScorerSelf},
			{ID: "b", TimestampMs: 200, Target: kendo.TargetKote, Scorer: kendo.ScorerSelf, Technique: kendo.TechniqueDebana},
		}}
	assert.NoError(t, m.Validate())

	m.Scores[1].TimestampMs = 50
	assert.ErrorIs(t, m.Validate(), kendo.ErrInvalidRecord)
	m.Scores[1].TimestampMs = 200
	m.Scores[1].Technique = "flying"
	assert.ErrorIs(t, m.Validate(), kendo.ErrInvalidRecord)
}

func TestValidatePlayerAndSettings(t *testing.T) {
	assert.NoError(t, kendo.Player{ID: "p1", Name: "Alice", Position: kendo.PositionTaisho}.Validate())
	assert.ErrorIs(t, kendo.Player{ID: "p1", Name: "  "}.Validate(), kendo.ErrInvalidRecord)
	assert.NoError(t, kendo.DefaultSettings().Validate())
	assert.ErrorIs(t, kendo.Settings{DefaultFormat: "nope", DefaultMatchDurationMs: 1}.Validate(), kendo.ErrInvalidRecord)
}
