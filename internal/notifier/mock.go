package notifier

import (
	"sync"

	"github.com/mauv0809/kendo-tally/internal/kendo"
	"github.com/mauv0809/kendo-tally/internal/stats"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendMatchResultFunc     func(match kendo.Match, dryRun bool) error
	SendTeamMatchResultFunc func(teamMatch kendo.TeamMatch, dryRun bool) error
	SendPlayerReportFunc    func(report stats.PlayerReport, dryRun bool) error
	SendTeamStatsFunc       func(teamStats stats.TeamStats, dryRun bool) error

	// Call records
	SendMatchResultCalls []struct {
		Match  kendo.Match
		DryRun bool
	}
	SendTeamMatchResultCalls []struct {
		TeamMatch kendo.TeamMatch
		DryRun    bool
	}
	SendPlayerReportCalls []stats.PlayerReport
	SendTeamStatsCalls    []stats.TeamStats
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.SendTeamMatchResultCalls = nil
	m.SendPlayerReportCalls = nil
	m.SendTeamStatsCalls = nil
}

func (m *Mock) SendMatchResult(match kendo.Match, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, struct {
		Match  kendo.Match
		DryRun bool
	}{match, dryRun})
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(match, dryRun)
	}
	return nil
}

func (m *Mock) SendTeamMatchResult(teamMatch kendo.TeamMatch, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendTeamMatchResultCalls = append(m.SendTeamMatchResultCalls, struct {
		TeamMatch kendo.TeamMatch
		DryRun    bool
	}{teamMatch, dryRun})
	if m.SendTeamMatchResultFunc != nil {
		return m.SendTeamMatchResultFunc(teamMatch, dryRun)
	}
	return nil
}

func (m *Mock) SendPlayerReport(report stats.PlayerReport, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerReportCalls = append(m.SendPlayerReportCalls, report)
	if m.SendPlayerReportFunc != nil {
		return m.SendPlayerReportFunc(report, dryRun)
	}
	return nil
}

func (m *Mock) SendTeamStats(teamStats stats.TeamStats, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendTeamStatsCalls = append(m.SendTeamStatsCalls, teamStats)
	if m.SendTeamStatsFunc != nil {
		return m.SendTeamStatsFunc(teamStats, dryRun)
	}
	return nil
}

func (m *Mock) FormatPlayerReportResponse(report stats.PlayerReport) (any, error) {
	return report, nil
}

func (m *Mock) FormatTeamStatsResponse(teamStats stats.TeamStats) (any, error) {
	return teamStats, nil
}
