package processor

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/kendo-tally/internal/app"
	"github.com/mauv0809/kendo-tally/internal/club"
	"github.com/mauv0809/kendo-tally/internal/export"
	"github.com/mauv0809/kendo-tally/internal/ids"
	"github.com/mauv0809/kendo-tally/internal/kendo"
	"github.com/mauv0809/kendo-tally/internal/metrics"
	"github.com/mauv0809/kendo-tally/internal/notifier"
	"github.com/mauv0809/kendo-tally/internal/pubsub"
	"github.com/mauv0809/kendo-tally/internal/recorder"
	"github.com/mauv0809/kendo-tally/internal/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	p     *Processor
	store *club.MockStore
	notif *notifier.Mock
	metr  *metrics.Mock
	ps    *pubsub.MockPubSubClient
	usage *metrics.MockStore
	clock *timer.ManualClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		store: club.NewMock(),
		notif: notifier.NewMock(),
		metr:  metrics.NewMock(),
		ps:    pubsub.NewMock(),
		usage: metrics.NewMockStore(),
		clock: timer.NewManualClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)),
	}
	f.p = New(f.store, f.notif, f.metr, f.ps, f.usage, WithClock(f.clock), WithIDs(ids.NewSequence("id")))
	require.NoError(t, f.p.Load())
	return f
}

// ippon records one point with the technique prompt answered.
func ippon(t *testing.T, p *Processor, target kendo.Target, scorer kendo.Scorer) {
	t.Helper()
	_, err := p.SelectTarget(target)
	require.NoError(t, err)
	_, err = p.SelectScorer(scorer)
	require.NoError(t, err)
	_, err = p.SkipTechnique()
	require.NoError(t, err)
}

func TestProcessor_MatchLifecycle(t *testing.T) {
	t.Run("ending a match stores, notifies and publishes it", func(t *testing.T) {
		f := newFixture(t)
		alice, err := f.p.AddPlayer(PlayerInput{Name: " Alice "})
		require.NoError(t, err)
		assert.Equal(t, "Alice", alice.Name)

		view, err := f.p.StartMatch(MatchRequest{PlayerID: alice.ID, OpponentName: "Tanaka"})
		require.NoError(t, err)
		require.Equal(t, SessionMatch, view.Kind)
		assert.Equal(t, kendo.FormatSanbon, view.Match.Board.Format)

		_, err = f.p.StartTimer()
		require.NoError(t, err)
		f.clock.Advance(30 * time.Second)
		ippon(t, f.p, kendo.TargetMen, kendo.ScorerSelf)
		f.clock.Advance(15 * time.Second)
		ippon(t, f.p, kendo.TargetKote, kendo.ScorerSelf)

		match, err := f.p.EndMatch(false)
		require.NoError(t, err)
		assert.Equal(t, kendo.ResultWin, match.Result)
		assert.Equal(t, int64(45_000), match.DurationMs)
		assert.Equal(t, "Alice", match.Player.Name)
		assert.Equal(t, []int64{30_000, 45_000}, []int64{match.Scores[0].TimestampMs, match.Scores[1].TimestampMs})

		assert.Equal(t, SessionNone, f.p.Session().Kind)
		assert.Len(t, f.p.Matches(""), 1)
		assert.Len(t, f.p.Matches(alice.ID), 1)
		assert.Len(t, f.store.State().Matches, 1)

		require.Len(t, f.notif.SendMatchResultCalls, 1)
		assert.False(t, f.notif.SendMatchResultCalls[0].DryRun)
		sent := f.ps.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, pubsub.EventMatchRecorded, sent[0].Topic)

		assert.Equal(t, 1, f.metr.MatchesRecorded())
		assert.Equal(t, 2, f.metr.ScoreEvents())
		counters, err := f.p.Usage()
		require.NoError(t, err)
		assert.Equal(t, 1, counters[metrics.KeyMatchesRecorded])
	})

	t.Run("dry run suppresses the record feed", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.p.StartMatch(MatchRequest{Format: string(kendo.FormatIppon)})
		require.NoError(t, err)
		ippon(t, f.p, kendo.TargetDo, kendo.ScorerOpponent)

		match, err := f.p.EndMatch(true)
		require.NoError(t, err)
		assert.Equal(t, kendo.ResultLoss, match.Result)
		assert.Equal(t, recorder.DefaultOpponentName, match.OpponentName)
		require.Len(t, f.notif.SendMatchResultCalls, 1)
		assert.True(t, f.notif.SendMatchResultCalls[0].DryRun)
		assert.Empty(t, f.ps.Sent())
	})

	t.Run("a store failure keeps the session and the state", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.p.StartMatch(MatchRequest{})
		require.NoError(t, err)
		ippon(t, f.p, kendo.TargetMen, kendo.ScorerSelf)

		f.store.ReplaceMatchesFunc = func([]kendo.Match) error { return errors.New("disk full") }
		_, err = f.p.EndMatch(false)
		require.ErrorIs(t, err, ErrPersist)
		assert.Equal(t, SessionMatch, f.p.Session().Kind)
		assert.Empty(t, f.p.Matches(""))
		assert.Empty(t, f.notif.SendMatchResultCalls)

		f.store.ReplaceMatchesFunc = nil
		_, err = f.p.EndMatch(false)
		require.NoError(t, err)
		assert.Len(t, f.p.Matches(""), 1)
	})

	t.Run("notification failures do not fail the command", func(t *testing.T) {
		f := newFixture(t)
		f.notif.SendMatchResultFunc = func(kendo.Match, bool) error { return errors.New("slack down") }
		_, err := f.p.StartMatch(MatchRequest{})
		require.NoError(t, err)
		_, err = f.p.EndMatch(false)
		require.NoError(t, err)
		assert.Len(t, f.p.Matches(""), 1)
	})

	t.Run("an unknown player is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.p.StartMatch(MatchRequest{PlayerID: "ghost"})
		assert.ErrorIs(t, err, app.ErrNotFound)
		assert.Equal(t, 1, f.metr.Rejected("start_match"))
	})
}

func TestProcessor_SessionCommands(t *testing.T) {
	f := newFixture(t)

	_, err := f.p.SelectTarget(kendo.TargetMen)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = f.p.StartMatch(MatchRequest{})
	require.NoError(t, err)
	_, err = f.p.StartTeamMatch(TeamRequest{})
	assert.ErrorIs(t, err, ErrSessionActive)
	_, err = f.p.EndBout(false)
	assert.ErrorIs(t, err, ErrWrongSession)

	_, err = f.p.SelectScorer(kendo.ScorerSelf)
	assert.ErrorIs(t, err, recorder.ErrNoPendingEntry)
	assert.Equal(t, 1, f.metr.Rejected("select_scorer"))

	view, err := f.p.SelectTarget(kendo.TargetKote)
	require.NoError(t, err)
	assert.Equal(t, recorder.StageScorer, view.Match.Board.Stage)

	_, err = f.p.EndMatch(false)
	assert.ErrorIs(t, err, recorder.ErrEntryInProgress)

	view, err = f.p.CancelEntry()
	require.NoError(t, err)
	assert.Equal(t, recorder.StageIdle, view.Match.Board.Stage)

	ippon(t, f.p, kendo.TargetMen, kendo.ScorerSelf)
	view, err = f.p.Undo()
	require.NoError(t, err)
	assert.Empty(t, view.Match.Board.Scores)
	assert.Equal(t, 1, f.metr.Undos())

	ippon(t, f.p, kendo.TargetMen, kendo.ScorerSelf)
	_, err = f.p.ResetTimer(false)
	assert.ErrorIs(t, err, kendo.ErrConfirmationRequired)

	err = f.p.DiscardSession(false)
	assert.ErrorIs(t, err, kendo.ErrConfirmationRequired)
	assert.Equal(t, SessionMatch, f.p.Session().Kind)
	require.NoError(t, f.p.DiscardSession(true))
	assert.Equal(t, SessionNone, f.p.Session().Kind)
	assert.Empty(t, f.p.Matches(""))
}

func TestProcessor_TeamMatch(t *testing.T) {
	f := newFixture(t)
	alice, err := f.p.AddPlayer(PlayerInput{Name: "Alice", Position: string(kendo.PositionSenpo)})
	require.NoError(t, err)
	bob, err := f.p.AddPlayer(PlayerInput{Name: "Bob"})
	require.NoError(t, err)
	f.store.Reset()

	_, err = f.p.StartTeamMatch(TeamRequest{Lineup: map[string]string{"captain": alice.ID}})
	assert.ErrorIs(t, err, recorder.ErrInvalidInput)

	view, err := f.p.StartTeamMatch(TeamRequest{
		OpponentTeamName: "Osaka",
		Lineup: map[string]string{
			string(kendo.PositionSenpo):  alice.ID,
			string(kendo.PositionTaisho): bob.ID,
		},
		OpponentLineup: map[string]string{string(kendo.PositionSenpo): "Sato"},
	})
	require.NoError(t, err)
	assert.Equal(t, kendo.PositionSenpo, view.Team.CurrentPosition)

	ippon(t, f.p, kendo.TargetMen, kendo.ScorerSelf)
	ippon(t, f.p, kendo.TargetDo, kendo.ScorerSelf)
	res, err := f.p.EndBout(false)
	require.NoError(t, err)
	assert.Nil(t, res.Outcome)
	assert.Equal(t, kendo.PositionJiho, res.Session.Team.CurrentPosition)

	for range 3 {
		res, err = f.p.SkipBout(false)
		require.NoError(t, err)
		assert.Nil(t, res.Outcome)
	}
	assert.Empty(t, f.p.TeamMatches(), "nothing is stored before the last position")

	ippon(t, f.p, kendo.TargetKote, kendo.ScorerOpponent)
	res, err = f.p.EndBout(false)
	require.NoError(t, err)
	require.NotNil(t, res.Outcome)
	assert.Equal(t, SessionNone, res.Session.Kind)

	tm := res.Outcome.TeamMatch
	assert.Equal(t, kendo.ResultWin, tm.Result)
	assert.Equal(t, "Osaka", tm.OpponentTeamName)
	require.Len(t, res.Outcome.Matches, 2)
	assert.Equal(t, "Sato", res.Outcome.Matches[0].OpponentName)
	assert.Equal(t, kendo.ResultInProgress, res.Outcome.Matches[1].Result)

	assert.Len(t, f.p.TeamMatches(), 1)
	assert.Len(t, f.p.Matches(""), 2)
	require.Len(t, f.store.ReplaceAllCalls, 1, "matches and team matches are written together")

	require.Len(t, f.notif.SendTeamMatchResultCalls, 1)
	sent := f.ps.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, pubsub.EventTeamMatchRecorded, sent[0].Topic)
	assert.Equal(t, 1, f.metr.TeamMatchesRecorded())

	// Deleting the team record keeps the individual ones.
	require.NoError(t, f.p.DeleteTeamMatch(tm.ID))
	assert.Empty(t, f.p.TeamMatches())
	assert.Len(t, f.p.Matches(""), 2)

	tms := f.p.TeamMatchStats()
	assert.Equal(t, 0, tms.TotalMatches)
}

func TestProcessor_TeamMatchRetriesFailedSave(t *testing.T) {
	f := newFixture(t)
	_, err := f.p.StartTeamMatch(TeamRequest{})
	require.NoError(t, err)
	for range 4 {
		_, err = f.p.SkipBout(false)
		require.NoError(t, err)
	}

	f.store.ReplaceAllFunc = func(app.State) error { return errors.New("locked") }
	_, err = f.p.SkipBout(false)
	require.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, SessionTeam, f.p.Session().Kind)
	assert.Empty(t, f.p.TeamMatches())

	f.store.ReplaceAllFunc = nil
	res, err := f.p.EndBout(false)
	require.NoError(t, err)
	require.NotNil(t, res.Outcome)
	assert.Equal(t, kendo.ResultDraw, res.Outcome.TeamMatch.Result)
	assert.Empty(t, res.Outcome.Matches)
	assert.Len(t, f.p.TeamMatches(), 1)
}

func TestProcessor_Players(t *testing.T) {
	f := newFixture(t)
	_, err := f.p.AddPlayer(PlayerInput{Name: "   "})
	assert.ErrorIs(t, err, kendo.ErrInvalidRecord)

	alice, err := f.p.AddPlayer(PlayerInput{Name: "Alice Suzuki"})
	require.NoError(t, err)
	_, err = f.p.AddPlayer(PlayerInput{Name: "Bob"})
	require.NoError(t, err)

	updated, err := f.p.UpdatePlayer(alice.ID, PlayerInput{Name: "Alice S.", Notes: "left-handed"})
	require.NoError(t, err)
	assert.Equal(t, alice.CreatedAt, updated.CreatedAt)

	suggestions := f.p.FindPlayers("alice")
	require.NotEmpty(t, suggestions)
	assert.Equal(t, alice.ID, suggestions[0].Player.ID)

	require.NoError(t, f.p.DeletePlayer(alice.ID))
	_, err = f.p.Player(alice.ID)
	assert.ErrorIs(t, err, app.ErrNotFound)
	assert.ErrorIs(t, f.p.DeletePlayer(alice.ID), app.ErrNotFound)
	assert.Len(t, f.store.State().Players, 1)
}

func TestProcessor_AutoSaveOff(t *testing.T) {
	f := newFixture(t)
	settings := kendo.DefaultSettings()
	settings.AutoSave = false
	_, err := f.p.UpdateSettings(settings)
	require.NoError(t, err)
	require.Len(t, f.store.ReplaceSettingsCalls, 1, "the toggle itself is saved")

	_, err = f.p.AddPlayer(PlayerInput{Name: "Alice"})
	require.NoError(t, err)
	assert.Empty(t, f.store.ReplacePlayersCalls)
	assert.Len(t, f.p.Players(), 1)

	require.NoError(t, f.p.Save())
	require.Len(t, f.store.ReplaceAllCalls, 1)
	assert.Len(t, f.store.State().Players, 1)

	_, err = f.p.UpdateSettings(kendo.Settings{DefaultFormat: "best-of-five", DefaultMatchDurationMs: 1})
	assert.ErrorIs(t, err, kendo.ErrInvalidRecord)
	assert.False(t, f.p.Settings().AutoSave)
}

func TestProcessor_Stats(t *testing.T) {
	f := newFixture(t)
	_, err := f.p.PlayerReport("ghost")
	assert.ErrorIs(t, err, app.ErrNotFound)

	alice, err := f.p.AddPlayer(PlayerInput{Name: "Alice"})
	require.NoError(t, err)
	_, err = f.p.StartMatch(MatchRequest{PlayerID: alice.ID})
	require.NoError(t, err)
	ippon(t, f.p, kendo.TargetMen, kendo.ScorerSelf)
	ippon(t, f.p, kendo.TargetMen, kendo.ScorerSelf)
	_, err = f.p.EndMatch(true)
	require.NoError(t, err)

	report, err := f.p.SharePlayerStats(alice.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Stats.Wins)
	assert.Equal(t, 100, report.Distribution.Of(kendo.TargetMen))
	require.Len(t, f.notif.SendPlayerReportCalls, 1)

	team, err := f.p.ShareTeamStats(true)
	require.NoError(t, err)
	require.Len(t, team.TopScorers, 1)
	assert.Equal(t, "Alice", team.TopScorers[0].Name)
	assert.Equal(t, 3, f.metr.StatsObservations())
}

func TestProcessor_ExportImport(t *testing.T) {
	src := newFixture(t)
	_, err := src.p.AddPlayer(PlayerInput{Name: "Alice"})
	require.NoError(t, err)
	_, err = src.p.StartMatch(MatchRequest{})
	require.NoError(t, err)
	ippon(t, src.p, kendo.TargetTsuki, kendo.ScorerSelf)
	_, err = src.p.EndMatch(true)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, src.p.Export()))

	dst := newFixture(t)
	_, err = dst.p.Import(strings.NewReader("{not json"))
	assert.ErrorIs(t, err, export.ErrInvalidSnapshot)
	assert.Equal(t, 1, dst.metr.ImportFailures())

	state, err := dst.p.Import(&buf)
	require.NoError(t, err)
	assert.Len(t, state.Players, 1)
	assert.Len(t, state.Matches, 1)
	assert.Equal(t, src.p.State().Matches[0].ID, dst.p.State().Matches[0].ID)
	assert.Equal(t, 1, dst.metr.Imports())
	assert.Len(t, dst.store.State().Matches, 1)

	var csvOut bytes.Buffer
	require.NoError(t, dst.p.ExportCSV(&csvOut))
	assert.Contains(t, csvOut.String(), "Scores Detail")
	assert.Contains(t, csvOut.String(), "self:tsuki")

	assert.ErrorIs(t, dst.p.ClearData(false), kendo.ErrConfirmationRequired)
	require.NoError(t, dst.p.ClearData(true))
	assert.True(t, dst.p.State().Empty())
	assert.True(t, dst.store.State().Empty())
}

func TestProcessor_ImportStoreFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	_, err := f.p.AddPlayer(PlayerInput{Name: "Alice"})
	require.NoError(t, err)

	f.store.ReplaceAllFunc = func(app.State) error { return errors.New("read-only") }
	_, err = f.p.Import(strings.NewReader(`{"players": [], "version": "1.0.0"}`))
	require.ErrorIs(t, err, ErrPersist)
	assert.Len(t, f.p.Players(), 1)
	assert.Equal(t, 1, f.metr.ImportFailures())
}

func TestProcessor_SeedSettings(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.p.SeedSettings(kendo.FormatIppon, false))
	assert.Equal(t, kendo.FormatIppon, f.p.Settings().DefaultFormat)
	assert.False(t, f.p.Settings().PromptTechnique)
	assert.Equal(t, kendo.FormatIppon, f.store.State().Settings.DefaultFormat)

	// Changed settings are never overridden.
	require.NoError(t, f.p.SeedSettings(kendo.FormatSanbon, true))
	assert.Equal(t, kendo.FormatIppon, f.p.Settings().DefaultFormat)

	g := newFixture(t)
	_, err := g.p.AddPlayer(PlayerInput{Name: "Alice"})
	require.NoError(t, err)
	require.NoError(t, g.p.SeedSettings(kendo.FormatIppon, true))
	assert.Equal(t, kendo.FormatSanbon, g.p.Settings().DefaultFormat)
}

func TestProcessor_SeedSettingsKeepsSavedDefaults(t *testing.T) {
	f := newFixture(t)
	_, err := f.p.UpdateSettings(kendo.DefaultSettings())
	require.NoError(t, err)

	// A restart reloads the saved defaults; the configured ones must not win.
	restarted := New(f.store, f.notif, f.metr, f.ps, f.usage, WithClock(f.clock), WithIDs(ids.NewSequence("id")))
	require.NoError(t, restarted.Load())
	require.NoError(t, restarted.SeedSettings(kendo.FormatIppon, false))
	assert.Equal(t, kendo.DefaultSettings(), restarted.Settings())
	assert.Equal(t, kendo.DefaultSettings(), f.store.State().Settings)
}

func TestProcessor_SeedSettingsStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.SettingsSavedFunc = func() (bool, error) { return false, errors.New("offline") }
	assert.Error(t, f.p.SeedSettings(kendo.FormatIppon, false))
	assert.Equal(t, kendo.FormatSanbon, f.p.Settings().DefaultFormat)
}

func TestProcessor_RecordTimesSurviveRoundTrip(t *testing.T) {
	src := New(club.NewMock(), notifier.NewMock(), metrics.NewMock(), pubsub.NewMock(), metrics.NewMockStore(),
		WithClock(timer.SystemClock()), WithIDs(ids.NewSequence("id")))
	require.NoError(t, src.Load())
	_, err := src.AddPlayer(PlayerInput{Name: "Alice"})
	require.NoError(t, err)
	_, err = src.StartMatch(MatchRequest{OpponentName: "Kim"})
	require.NoError(t, err)
	ippon(t, src, kendo.TargetMen, kendo.ScorerSelf)
	match, err := src.EndMatch(true)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, match.Date.Location())

	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, src.Export()))
	dst := newFixture(t)
	state, err := dst.p.Import(&buf)
	require.NoError(t, err)

	assert.Equal(t, src.State().Matches, state.Matches)
	assert.Equal(t, src.State().Players, state.Players)
}
