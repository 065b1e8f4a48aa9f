package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kendo_matches_recorded_total",
			Help: "Individual matches saved, including those derived from team bouts.",
		}),
		TeamMatchesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kendo_team_matches_recorded_total",
			Help: "Team matches saved.",
		}),
		ScoreEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kendo_score_events_total",
			Help: "Ippons committed to a live score log.",
		}),
		Undos: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kendo_undos_total",
			Help: "Ippons removed with undo.",
		}),
		RejectedCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kendo_rejected_commands_total",
			Help: "Session commands rejected by validation.",
		}, []string{"command"}),
		Imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kendo_imports_total",
			Help: "Snapshot imports by outcome.",
		}, []string{"outcome"}),
		StatsDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kendo_stats_duration_seconds",
			Help:    "Time spent computing statistics.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kendo_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kendo_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kendo_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesRecorded,
		s.TeamMatchesRecorded,
		s.ScoreEvents,
		s.Undos,
		s.RejectedCommands,
		s.Imports,
		s.StatsDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesRecorded() {
	s.MatchesRecorded.Inc()
}

func (s *Service) IncTeamMatchesRecorded() {
	s.TeamMatchesRecorded.Inc()
}

func (s *Service) IncScoreEvents() {
	s.ScoreEvents.Inc()
}

func (s *Service) IncUndos() {
	s.Undos.Inc()
}

func (s *Service) IncRejectedCommands(command string) {
	s.RejectedCommands.WithLabelValues(command).Inc()
}

func (s *Service) IncImports() {
	s.Imports.WithLabelValues("ok").Inc()
}

func (s *Service) IncImportFailures() {
	s.Imports.WithLabelValues("failed").Inc()
}

func (s *Service) ObserveStatsDuration(seconds float64) {
	s.StatsDuration.Observe(seconds)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
