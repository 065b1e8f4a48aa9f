package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/kendo-tally/internal/kendo"
	"github.com/mauv0809/kendo-tally/internal/metrics"
	"github.com/mauv0809/kendo-tally/internal/notifier"
	"github.com/mauv0809/kendo-tally/internal/stats"
	"github.com/mauv0809/kendo-tally/internal/timer"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts records and statistics to a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       slack.New(token),
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific client.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendMatchResult(match kendo.Match, dryRun bool) error {
	_, _, err := s.sendMessage(formatMatchResult(match), dryRun)
	return err
}

func (s *Notifier) SendTeamMatchResult(teamMatch kendo.TeamMatch, dryRun bool) error {
	_, _, err := s.sendMessage(formatTeamMatchResult(teamMatch), dryRun)
	return err
}

func (s *Notifier) SendPlayerReport(report stats.PlayerReport, dryRun bool) error {
	_, _, err := s.sendMessage(formatPlayerReport(report), dryRun)
	return err
}

func (s *Notifier) SendTeamStats(teamStats stats.TeamStats, dryRun bool) error {
	_, _, err := s.sendMessage(formatTeamStats(teamStats), dryRun)
	return err
}

// FormatPlayerReportResponse formats a player report for a command response.
func (s *Notifier) FormatPlayerReportResponse(report stats.PlayerReport) (any, error) {
	return formatPlayerReport(report), nil
}

// FormatTeamStatsResponse formats team statistics for a command response.
func (s *Notifier) FormatTeamStatsResponse(teamStats stats.TeamStats) (any, error) {
	return formatTeamStats(teamStats), nil
}

func text(s string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("plain_text", s, true, false)
}

func header(s string) slack.Block {
	return slack.NewHeaderBlock(text(s))
}

func section(s string, fields ...*slack.TextBlockObject) slack.Block {
	return slack.NewSectionBlock(text(s), fields, nil)
}

func playerName(ref *kendo.PlayerRef) string {
	if ref == nil || strings.TrimSpace(ref.Name) == "" {
		return "Unknown"
	}
	return ref.Name
}

func scoreLine(score kendo.ScoreEvent, home, away string) string {
	who := home
	if score.Scorer == kendo.ScorerOpponent {
		who = away
	}
	line := fmt.Sprintf("• %s %s %s", timer.FormatElapsed(time.Duration(score.TimestampMs)*time.Millisecond), who, strings.ToUpper(string(score.Target)))
	if score.Technique != kendo.TechniqueNone {
		line += fmt.Sprintf(" (%s)", score.Technique)
	}
	return line
}

// formatMatchResult creates the Slack message for a finished individual match.
func formatMatchResult(match kendo.Match) slack.Message {
	home := playerName(match.Player)
	tally := kendo.TallyOf(match.Scores)

	blocks := []slack.Block{header("🥋 Match recorded")}

	opponent := match.OpponentName
	if match.OpponentTeam != "" {
		opponent = fmt.Sprintf("%s (%s)", opponent, match.OpponentTeam)
	}
	details := fmt.Sprintf("%s vs %s\nResult: %s %d-%d", home, opponent, strings.ToUpper(string(match.Result)), tally.Self, tally.Opponent)
	blocks = append(blocks, section(details))

	if len(match.Scores) > 0 {
		lines := make([]string, len(match.Scores))
		for i, sc := range match.Scores {
			lines[i] = scoreLine(sc, home, match.OpponentName)
		}
		blocks = append(blocks, section("Ippons:\n"+strings.Join(lines, "\n")))
	}

	ctx := fmt.Sprintf("%s · %s · %s", match.Format, match.Context, timer.FormatElapsed(time.Duration(match.DurationMs)*time.Millisecond))
	if match.PartOfTeamMatch {
		ctx += " · " + match.Position.Label()
	}
	blocks = append(blocks, slack.NewContextBlock("", text(ctx)))
	return slack.NewBlockMessage(blocks...)
}

// formatTeamMatchResult creates the Slack message for a finished team match,
// one field per position.
func formatTeamMatchResult(teamMatch kendo.TeamMatch) slack.Message {
	var wins, losses int
	fields := make([]*slack.TextBlockObject, 0, len(teamMatch.Bouts))
	for _, b := range teamMatch.Bouts {
		switch b.Result {
		case kendo.ResultWin:
			wins++
		case kendo.ResultLoss:
			losses++
		}
		var line string
		if b.Skipped {
			line = "skipped"
		} else {
			tally := kendo.TallyOf(b.Scores)
			opponent := b.OpponentName
			if opponent == "" {
				opponent = "Opponent"
			}
			line = fmt.Sprintf("%s vs %s: %s %d-%d", playerName(b.Player), opponent, strings.ToUpper(string(b.Result)), tally.Self, tally.Opponent)
		}
		fields = append(fields, text(b.Position.Label()+"\n"+line))
	}

	opponent := teamMatch.OpponentTeamName
	if opponent == "" {
		opponent = "Opponent"
	}
	summary := fmt.Sprintf("vs %s\nResult: %s (%d-%d)", opponent, strings.ToUpper(string(teamMatch.Result)), wins, losses)
	return slack.NewBlockMessage(
		header("🥋 Team match recorded"),
		section(summary, fields...),
		slack.NewContextBlock("", text(string(teamMatch.Context))),
	)
}

func distributionLine(d stats.Distribution) string {
	parts := make([]string, len(kendo.Targets))
	for i, t := range kendo.Targets {
		parts[i] = fmt.Sprintf("%s %d%%", strings.ToUpper(string(t)), d.Of(t))
	}
	return strings.Join(parts, " · ")
}

// formatPlayerReport creates a Slack message with a player's statistics.
func formatPlayerReport(report stats.PlayerReport) slack.Message {
	blocks := []slack.Block{header(fmt.Sprintf("📊 Stats for %s", report.Player.Name))}

	s := report.Stats
	if s.TotalMatches == 0 {
		blocks = append(blocks, section("No matches recorded yet."))
		return slack.NewBlockMessage(blocks...)
	}

	summary := fmt.Sprintf("Record: %dW %dL %dD (%d%% win rate)\nIppons: %d scored / %d conceded\nAverage scoring time: %s",
		s.Wins, s.Losses, s.Draws, s.WinRate,
		s.IpponsScored.Total, s.IpponsConceded.Total,
		timer.FormatElapsed(time.Duration(s.AverageScoreTimeMs)*time.Millisecond),
	)
	blocks = append(blocks, section(summary))
	if s.IpponsScored.Total > 0 {
		blocks = append(blocks, section("Scoring: "+distributionLine(report.Distribution)))
	}
	if len(report.Insights) > 0 {
		lines := make([]string, len(report.Insights))
		for i, in := range report.Insights {
			lines[i] = "• " + in.Message
		}
		blocks = append(blocks, section("Insights:\n"+strings.Join(lines, "\n")))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatTeamStats creates a Slack message with the team record and top scorers.
func formatTeamStats(s stats.TeamStats) slack.Message {
	blocks := []slack.Block{header("🏆 Team stats")}

	if s.TotalMatches == 0 {
		blocks = append(blocks, section("No stats available yet. Go fight some matches!"))
		return slack.NewBlockMessage(blocks...)
	}

	summary := fmt.Sprintf("Record: %dW %dL %dD (%d%% win rate)\nIppons: %d scored / %d conceded",
		s.Wins, s.Losses, s.Draws, s.WinRate, s.IpponsScored.Total, s.IpponsConceded.Total)
	blocks = append(blocks, section(summary))

	if len(s.TopScorers) > 0 {
		medals := []string{"🥇", "🥈", "🥉"}
		lines := make([]string, len(s.TopScorers))
		for i, sc := range s.TopScorers {
			medal := ""
			if i < len(medals) {
				medal = medals[i] + " "
			}
			lines[i] = fmt.Sprintf("%d. %s%s: %d ippons", i+1, medal, sc.Name, sc.Ippons)
		}
		blocks = append(blocks, section("Top scorers:\n"+strings.Join(lines, "\n")))
	}
	return slack.NewBlockMessage(blocks...)
}
