package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesRecorded()
	IncTeamMatchesRecorded()
	IncScoreEvents()
	IncUndos()
	IncRejectedCommands(command string)
	IncImports()
	IncImportFailures()
	ObserveStatsDuration(seconds float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(seconds float64)
}

// MetricsStore keeps lifetime counters that survive restarts.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}

// Keys of the persisted counters.
const (
	KeyMatchesRecorded     = "matches_recorded"
	KeyTeamMatchesRecorded = "team_matches_recorded"
	KeyImports             = "imports"
	KeySlackNotifSent      = "slack_notifications_sent"
)
