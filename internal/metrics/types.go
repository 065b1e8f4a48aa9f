package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	MatchesRecorded     prometheus.Counter
	TeamMatchesRecorded prometheus.Counter
	ScoreEvents         prometheus.Counter
	Undos               prometheus.Counter
	RejectedCommands    *prometheus.CounterVec
	Imports             *prometheus.CounterVec
	StatsDuration       prometheus.Histogram
	SlackNotifSent      prometheus.Counter
	SlackNotifFailed    prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}
