package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	matchesRecorded     int
	teamMatchesRecorded int
	scoreEvents         int
	undos               int
	rejected            map[string]int
	imports             int
	importFailures      int
	statsDurations      []float64
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		rejected:       map[string]int{},
		statsDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) IncTeamMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teamMatchesRecorded++
}

func (m *Mock) IncScoreEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scoreEvents++
}

func (m *Mock) IncUndos() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undos++
}

func (m *Mock) IncRejectedCommands(command string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[command]++
}

func (m *Mock) IncImports() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imports++
}

func (m *Mock) IncImportFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.importFailures++
}

func (m *Mock) ObserveStatsDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsDurations = append(m.statsDurations, seconds)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = seconds
}

// MatchesRecorded returns the number of times IncMatchesRecorded was called.
func (m *Mock) MatchesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded
}

func (m *Mock) TeamMatchesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.teamMatchesRecorded
}

func (m *Mock) ScoreEvents() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scoreEvents
}

func (m *Mock) Undos() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.undos
}

// Rejected returns how often command was rejected.
func (m *Mock) Rejected(command string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rejected[command]
}

func (m *Mock) Imports() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.imports
}

func (m *Mock) ImportFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.importFailures
}

func (m *Mock) StatsObservations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.statsDurations)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
