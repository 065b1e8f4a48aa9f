package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/kendo-tally/internal/club"
	"github.com/mauv0809/kendo-tally/internal/config"
	"github.com/mauv0809/kendo-tally/internal/database"
	"github.com/mauv0809/kendo-tally/internal/kendo"
	"github.com/mauv0809/kendo-tally/internal/metrics"
	"github.com/mauv0809/kendo-tally/internal/notifier"
	slacknotifier "github.com/mauv0809/kendo-tally/internal/notifier/slack"
	"github.com/mauv0809/kendo-tally/internal/processor"
	"github.com/mauv0809/kendo-tally/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const testSlackSigningSecret = "test-signing-secret"

type testServer struct {
	*Server
	notif *notifier.Mock
	ps    *pubsub.MockPubSubClient
}

// setupTestServer wires a server over an in-memory database and mock clients.
func setupTestServer(t *testing.T, notif notifier.Notifier, slackSigningSecret string) *Server {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	ps := pubsub.NewMock()
	proc := processor.New(club.New(db), notif, metricsSvc, ps, metrics.New(db))
	require.NoError(t, proc.Load())

	cfg := config.Config{SlackSigningSecret: slackSigningSecret}
	return NewServer(proc, notif, metricsSvc, metricsHandler, cfg, ps)
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	notif := notifier.NewMock()
	server := setupTestServer(t, notif, "")
	return testServer{Server: server, notif: notif, ps: server.pubsub.(*pubsub.MockPubSubClient)}
}

// do sends a request through the router and returns the recorder.
func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	bodyBytes := []byte(form.Encode())
	req, err := http.NewRequest("POST", targetURL, bytes.NewReader(bodyBytes))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, string(bodyBytes))
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))
	return req
}

func addPlayer(t *testing.T, s *Server, name string) kendo.Player {
	t.Helper()
	rr := do(t, s, "POST", "/players", processor.PlayerInput{Name: name})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[kendo.Player](t, rr)
}

// score records one ippon and skips the technique prompt.
func score(t *testing.T, s *Server, target kendo.Target, scorer kendo.Scorer) {
	t.Helper()
	require.Equal(t, http.StatusOK, do(t, s, "POST", "/session/target", targetRequest{Target: target}).Code)
	require.Equal(t, http.StatusOK, do(t, s, "POST", "/session/scorer", scorerRequest{Scorer: scorer}).Code)
	require.Equal(t, http.StatusOK, do(t, s, "POST", "/session/technique/skip", nil).Code)
}

func TestHealthCheckHandler(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s.Server, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestPlayerHandlers(t *testing.T) {
	s := newTestServer(t)
	alice := addPlayer(t, s.Server, "Alice Sato")
	addPlayer(t, s.Server, "Bob")

	t.Run("list", func(t *testing.T) {
		rr := do(t, s.Server, "GET", "/players", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, decode[[]kendo.Player](t, rr), 2)
	})

	t.Run("get", func(t *testing.T) {
		rr := do(t, s.Server, "GET", "/players/"+alice.ID, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Alice Sato", decode[kendo.Player](t, rr).Name)
	})

	t.Run("search", func(t *testing.T) {
		rr := do(t, s.Server, "GET", "/players/search?q=alise", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		got := decode[[]club.Suggestion](t, rr)
		require.NotEmpty(t, got)
		assert.Equal(t, alice.ID, got[0].Player.ID)
	})

	t.Run("update", func(t *testing.T) {
		rr := do(t, s.Server, "PUT", "/players/"+alice.ID, processor.PlayerInput{Name: "Alice", Position: "taisho"})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, kendo.PositionTaisho, decode[kendo.Player](t, rr).Position)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		rr := do(t, s.Server, "POST", "/players", processor.PlayerInput{Name: "  "})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.NotEmpty(t, decode[errorResponse](t, rr).Error)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		rr := do(t, s.Server, "POST", "/players", map[string]string{"nickname": "x"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown player", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, do(t, s.Server, "GET", "/players/nope", nil).Code)
		assert.Equal(t, http.StatusNotFound, do(t, s.Server, "DELETE", "/players/nope", nil).Code)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do(t, s.Server, "DELETE", "/players/"+alice.ID, nil).Code)
		assert.Len(t, decode[[]kendo.Player](t, do(t, s.Server, "GET", "/players", nil)), 1)
	})
}

func TestMatchSessionFlow(t *testing.T) {
	s := newTestServer(t)
	alice := addPlayer(t, s.Server, "Alice")

	rr := do(t, s.Server, "POST", "/session/match", processor.MatchRequest{PlayerID: alice.ID, OpponentName: "Tanaka", Context: "tournament"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	view := decode[processor.SessionView](t, rr)
	require.NotNil(t, view.Match)
	assert.Equal(t, processor.SessionMatch, view.Kind)
	assert.Equal(t, kendo.FormatSanbon, view.Match.Board.Format)

	// A second session cannot start while one is active.
	rr = do(t, s.Server, "POST", "/session/team", processor.TeamRequest{OpponentTeamName: "Kyoto"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Scorer before target is out of order.
	rr = do(t, s.Server, "POST", "/session/scorer", scorerRequest{Scorer: kendo.ScorerSelf})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, s.Server, "POST", "/session/target", targetRequest{Target: "ashi"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	score(t, s.Server, kendo.TargetMen, kendo.ScorerSelf)
	score(t, s.Server, kendo.TargetKote, kendo.ScorerOpponent)

	rr = do(t, s.Server, "POST", "/session/undo", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, decode[processor.SessionView](t, rr).Match.Board.Opponent)

	require.Equal(t, http.StatusOK, do(t, s.Server, "POST", "/session/target", targetRequest{Target: kendo.TargetDo}).Code)
	require.Equal(t, http.StatusOK, do(t, s.Server, "POST", "/session/scorer", scorerRequest{Scorer: kendo.ScorerSelf}).Code)
	rr = do(t, s.Server, "POST", "/session/technique", techniqueRequest{Technique: kendo.TechniqueDebana})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	board := decode[processor.SessionView](t, rr).Match.Board
	assert.True(t, board.Decided)
	assert.Equal(t, kendo.ResultWin, board.Result)

	// The threshold is reached, no further points are accepted.
	rr = do(t, s.Server, "POST", "/session/target", targetRequest{Target: kendo.TargetMen})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, s.Server, "POST", "/session/timer/reset", nil)
	assert.Equal(t, http.StatusPreconditionRequired, rr.Code)

	rr = do(t, s.Server, "POST", "/session/end", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	match := decode[kendo.Match](t, rr)
	assert.Equal(t, kendo.ResultWin, match.Result)
	assert.Equal(t, kendo.ContextTournament, match.Context)
	assert.Equal(t, alice.ID, match.PlayerID())
	require.Len(t, match.Scores, 2)
	assert.Equal(t, kendo.TechniqueDebana, match.Scores[1].Technique)

	assert.Len(t, s.notif.SendMatchResultCalls, 1)
	published, err := s.ps.RecordedMatches()
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, match.ID, published[0].Match.ID)

	assert.Equal(t, processor.SessionNone, decode[processor.SessionView](t, do(t, s.Server, "GET", "/session", nil)).Kind)
	assert.Equal(t, http.StatusConflict, do(t, s.Server, "POST", "/session/end", nil).Code)

	rr = do(t, s.Server, "GET", "/matches?player="+alice.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]kendo.Match](t, rr), 1)

	rr = do(t, s.Server, "GET", "/usage", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, decode[map[string]int](t, rr)[metrics.KeyMatchesRecorded])

	rr = do(t, s.Server, "GET", "/stats/players/"+alice.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"wins":1`)

	assert.Equal(t, http.StatusNoContent, do(t, s.Server, "DELETE", "/matches/"+match.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s.Server, "GET", "/matches/"+match.ID, nil).Code)
}

func TestDryRunSkipsPublishing(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, do(t, s.Server, "POST", "/session/match", processor.MatchRequest{OpponentName: "Kim", Format: "ippon"}).Code)
	score(t, s.Server, kendo.TargetTsuki, kendo.ScorerOpponent)

	rr := do(t, s.Server, "POST", "/session/end?dry_run=true", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, kendo.ResultLoss, decode[kendo.Match](t, rr).Result)

	require.Len(t, s.notif.SendMatchResultCalls, 1)
	assert.True(t, s.notif.SendMatchResultCalls[0].DryRun)
	assert.Empty(t, s.ps.Sent())
}

func TestDiscardSessionNeedsConfirmation(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, do(t, s.Server, "POST", "/session/match", processor.MatchRequest{OpponentName: "Kim"}).Code)
	score(t, s.Server, kendo.TargetMen, kendo.ScorerSelf)

	assert.Equal(t, http.StatusPreconditionRequired, do(t, s.Server, "DELETE", "/session", nil).Code)
	assert.Equal(t, http.StatusNoContent, do(t, s.Server, "DELETE", "/session?confirm=true", nil).Code)
	assert.Empty(t, decode[[]kendo.Match](t, do(t, s.Server, "GET", "/matches", nil)))
}

func TestTeamSessionFlow(t *testing.T) {
	s := newTestServer(t)
	alice := addPlayer(t, s.Server, "Alice")

	rr := do(t, s.Server, "POST", "/session/team", processor.TeamRequest{
		OpponentTeamName: "Kyoto",
		Lineup:           map[string]string{"senpo": alice.ID},
		OpponentLineup:   map[string]string{"senpo": "Tanaka"},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, kendo.PositionSenpo, decode[processor.SessionView](t, rr).Team.CurrentPosition)

	// Individual match commands do not apply to a team session.
	assert.Equal(t, http.StatusConflict, do(t, s.Server, "POST", "/session/end", nil).Code)

	score(t, s.Server, kendo.TargetMen, kendo.ScorerSelf)
	score(t, s.Server, kendo.TargetMen, kendo.ScorerSelf)
	rr = do(t, s.Server, "POST", "/session/bout/end", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	res := decode[processor.BoutResult](t, rr)
	assert.Nil(t, res.Outcome)
	assert.Equal(t, kendo.PositionJiho, res.Session.Team.CurrentPosition)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, do(t, s.Server, "POST", "/session/bout/skip", nil).Code)
	}
	rr = do(t, s.Server, "POST", "/session/bout/skip", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	res = decode[processor.BoutResult](t, rr)
	require.NotNil(t, res.Outcome)
	assert.Equal(t, kendo.ResultWin, res.Outcome.TeamMatch.Result)
	assert.Len(t, res.Outcome.Matches, 1)

	assert.Len(t, s.notif.SendTeamMatchResultCalls, 1)
	assert.Len(t, decode[[]kendo.TeamMatch](t, do(t, s.Server, "GET", "/team-matches", nil)), 1)

	rr = do(t, s.Server, "GET", "/stats/team-matches", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, s.Server, "GET", "/stats/team", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Alice")
}

func TestSettingsHandlers(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s.Server, "PUT", "/settings", map[string]any{"defaultMatchFormat": "ippon"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	settings := decode[kendo.Settings](t, rr)
	assert.Equal(t, kendo.FormatIppon, settings.DefaultFormat)
	assert.True(t, settings.AutoSave, "fields missing from the body keep their value")

	rr = do(t, s.Server, "PUT", "/settings", map[string]any{"defaultMatchFormat": "nihon"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, kendo.FormatIppon, decode[kendo.Settings](t, do(t, s.Server, "GET", "/settings", nil)).DefaultFormat)
}

func TestExportImportHandlers(t *testing.T) {
	s := newTestServer(t)
	addPlayer(t, s.Server, "Alice")

	rr := do(t, s.Server, "GET", "/export", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "kendo_export_")
	snapshot := rr.Body.Bytes()

	rr = do(t, s.Server, "GET", "/export/csv", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusPreconditionRequired, do(t, s.Server, "DELETE", "/data", nil).Code)
	assert.Equal(t, http.StatusNoContent, do(t, s.Server, "DELETE", "/data?confirm=true", nil).Code)
	assert.Empty(t, decode[[]kendo.Player](t, do(t, s.Server, "GET", "/players", nil)))

	req := httptest.NewRequest("POST", "/import", bytes.NewReader(snapshot))
	rr = httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, importResponse{Players: 1}, decode[importResponse](t, rr))

	req = httptest.NewRequest("POST", "/import", strings.NewReader(`{"players": "lots"}`))
	rr = httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Len(t, decode[[]kendo.Player](t, do(t, s.Server, "GET", "/players", nil)), 1)

	assert.Equal(t, http.StatusNoContent, do(t, s.Server, "POST", "/save", nil).Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", kendo.ErrConfirmationRequired), http.StatusPreconditionRequired},
		{processor.ErrNoSession, http.StatusConflict},
		{fmt.Errorf("%w: eof", errBadRequest), http.StatusBadRequest},
		{processor.ErrPersist, http.StatusInternalServerError},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

type fakeSlackAPI struct{}

func (fakeSlackAPI) PostMessageContext(context.Context, string, ...slack.MsgOption) (string, string, error) {
	return "C1", "1", nil
}

func TestPlayerStatsCommandHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	slackNotif := slacknotifier.NewNotifierWithAPI(fakeSlackAPI{}, "C1", metrics.NewService(reg))
	s := setupTestServer(t, slackNotif, testSlackSigningSecret)
	addPlayer(t, s, "Alice Sato")

	t.Run("signed request gets the report", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/kendo-stats", url.Values{"text": {"alice"}}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var msg slack.Message
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
		assert.Equal(t, responseInChannel, msg.ResponseType)
		assert.Contains(t, rr.Body.String(), "Alice Sato")
	})

	t.Run("unknown player is ephemeral", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/kendo-stats", url.Values{"text": {"zzzzzzzz"}}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var msg slack.Message
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
		assert.Equal(t, responseEphemeral, msg.ResponseType)
	})

	t.Run("bad signature is rejected", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/kendo-stats", url.Values{"text": {"alice"}}, "wrong-secret")
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func pushBody(t *testing.T, event pubsub.EventType, payload any) *bytes.Reader {
	t.Helper()
	data, err := msgpack.Marshal(payload)
	require.NoError(t, err)
	var push pushRequest
	push.Subscription = "projects/test/subscriptions/records"
	push.Message.Data = base64.StdEncoding.EncodeToString(data)
	push.Message.Attributes = map[string]string{"event": string(event)}
	body, err := json.Marshal(push)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestRecordFeedHandler(t *testing.T) {
	s := newTestServer(t)

	t.Run("match record", func(t *testing.T) {
		body := pushBody(t, pubsub.EventMatchRecorded, pubsub.MatchRecorded{Match: kendo.Match{ID: "m1", OpponentName: "Kim", Result: kendo.ResultWin}})
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/pubsub/push", body))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "OK", rr.Body.String())
		assert.Equal(t, 1, s.ps.Decoded())
	})

	t.Run("unknown event", func(t *testing.T) {
		body := pushBody(t, "member-joined", map[string]string{})
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/pubsub/push", body))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad envelope", func(t *testing.T) {
		rr := httptest.NewRecorder()
		s.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/pubsub/push", strings.NewReader("{")))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
