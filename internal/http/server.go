package http

import (
	"net/http"

	"github.com/mauv0809/kendo-tally/internal/config"
	"github.com/mauv0809/kendo-tally/internal/metrics"
	"github.com/mauv0809/kendo-tally/internal/notifier"
	"github.com/mauv0809/kendo-tally/internal/processor"
	"github.com/mauv0809/kendo-tally/internal/pubsub"
)

func NewServer(processor *processor.Processor, notifier notifier.Notifier, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Processor:      processor,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) handle(pattern string, h http.Handler, middlewares ...Middleware) {
	s.Router.Handle(pattern, Chain(h, append([]Middleware{paramsMiddleware}, middlewares...)...))
}

func (s *Server) routes() {
	// All handlers are wrapped with paramsMiddleware using the Chain helper.
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.handle("GET /health", s.HealthCheckHandler())
	s.handle("GET /usage", s.UsageHandler())

	s.handle("GET /players", s.ListPlayersHandler())
	s.handle("POST /players", s.AddPlayerHandler())
	s.handle("GET /players/search", s.SearchPlayersHandler())
	s.handle("GET /players/{id}", s.GetPlayerHandler())
	s.handle("PUT /players/{id}", s.UpdatePlayerHandler())
	s.handle("DELETE /players/{id}", s.DeletePlayerHandler())

	s.handle("GET /matches", s.ListMatchesHandler())
	s.handle("GET /matches/{id}", s.GetMatchHandler())
	s.handle("DELETE /matches/{id}", s.DeleteMatchHandler())
	s.handle("GET /team-matches", s.ListTeamMatchesHandler())
	s.handle("GET /team-matches/{id}", s.GetTeamMatchHandler())
	s.handle("DELETE /team-matches/{id}", s.DeleteTeamMatchHandler())

	s.handle("GET /settings", s.GetSettingsHandler())
	s.handle("PUT /settings", s.UpdateSettingsHandler())

	s.handle("GET /session", s.SessionHandler())
	s.handle("DELETE /session", s.DiscardSessionHandler())
	s.handle("POST /session/match", s.StartMatchHandler())
	s.handle("POST /session/team", s.StartTeamMatchHandler())
	s.handle("POST /session/target", s.SelectTargetHandler())
	s.handle("POST /session/scorer", s.SelectScorerHandler())
	s.handle("POST /session/technique", s.SelectTechniqueHandler())
	s.handle("POST /session/technique/skip", s.sessionCommand(s.Processor.SkipTechnique))
	s.handle("POST /session/entry/cancel", s.sessionCommand(s.Processor.CancelEntry))
	s.handle("POST /session/undo", s.sessionCommand(s.Processor.Undo))
	s.handle("POST /session/timer/start", s.sessionCommand(s.Processor.StartTimer))
	s.handle("POST /session/timer/pause", s.sessionCommand(s.Processor.PauseTimer))
	s.handle("POST /session/timer/reset", s.ResetTimerHandler())
	s.handle("POST /session/end", s.EndMatchHandler())
	s.handle("POST /session/bout/end", s.BoutHandler(s.Processor.EndBout))
	s.handle("POST /session/bout/skip", s.BoutHandler(s.Processor.SkipBout))

	s.handle("GET /stats/players/{id}", s.PlayerStatsHandler())
	s.handle("POST /stats/players/{id}/share", s.SharePlayerStatsHandler())
	s.handle("GET /stats/team", s.TeamStatsHandler())
	s.handle("POST /stats/team/share", s.ShareTeamStatsHandler())
	s.handle("GET /stats/team-matches", s.TeamMatchStatsHandler())

	s.handle("GET /export", s.ExportHandler())
	s.handle("GET /export/csv", s.ExportCSVHandler())
	s.handle("POST /import", s.ImportHandler())
	s.handle("POST /save", s.SaveHandler())
	s.handle("DELETE /data", s.ClearDataHandler())

	s.handle("POST /slack/command/kendo-stats", s.PlayerStatsCommandHandler(), slackVerifyMiddleware(s.Cfg.SlackSigningSecret))
	s.handle("POST /pubsub/push", s.RecordFeedHandler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
