package notifier

import (
	"github.com/charmbracelet/log"
	"github.com/mauv0809/kendo-tally/internal/kendo"
	"github.com/mauv0809/kendo-tally/internal/stats"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For finished records
	SendMatchResult(match kendo.Match, dryRun bool) error
	SendTeamMatchResult(teamMatch kendo.TeamMatch, dryRun bool) error
	// For shared statistics
	SendPlayerReport(report stats.PlayerReport, dryRun bool) error
	SendTeamStats(teamStats stats.TeamStats, dryRun bool) error

	// For formatting responses without posting them
	FormatPlayerReportResponse(report stats.PlayerReport) (any, error)
	FormatTeamStatsResponse(teamStats stats.TeamStats) (any, error)
}

// Noop logs instead of notifying. It is used when no Slack token is configured.
type Noop struct{}

var _ Notifier = Noop{}

func (Noop) SendMatchResult(match kendo.Match, _ bool) error {
	log.Debug("Notifications disabled, skipping match result", "matchID", match.ID)
	return nil
}

func (Noop) SendTeamMatchResult(teamMatch kendo.TeamMatch, _ bool) error {
	log.Debug("Notifications disabled, skipping team match result", "teamMatchID", teamMatch.ID)
	return nil
}

func (Noop) SendPlayerReport(report stats.PlayerReport, _ bool) error {
	log.Debug("Notifications disabled, skipping player report", "playerID", report.Player.ID)
	return nil
}

func (Noop) SendTeamStats(stats.TeamStats, bool) error {
	log.Debug("Notifications disabled, skipping team stats")
	return nil
}

func (Noop) FormatPlayerReportResponse(report stats.PlayerReport) (any, error) {
	return report, nil
}

func (Noop) FormatTeamStatsResponse(teamStats stats.TeamStats) (any, error) {
	return teamStats, nil
}
