package processor

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/kendo-tally/internal/app"
	"github.com/mauv0809/kendo-tally/internal/export"
	"github.com/mauv0809/kendo-tally/internal/metrics"
	"github.com/mauv0809/kendo-tally/internal/stats"
	"github.com/mauv0809/kendo-tally/internal/timer"
)

func (p *Processor) observe(start time.Time) {
	p.metrics.ObserveStatsDuration(time.Since(start).Seconds())
}

// PlayerReport computes a player's statistics and insights.
func (p *Processor) PlayerReport(id string) (stats.PlayerReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.observe(time.Now())
	player, ok := p.state.Player(id)
	if !ok {
		return stats.PlayerReport{}, fmt.Errorf("player %s: %w", id, app.ErrNotFound)
	}
	return stats.Report(player, p.state.PlayerMatches(id)), nil
}

// TeamStats aggregates every individual match.
func (p *Processor) TeamStats() stats.TeamStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.observe(time.Now())
	return stats.CalculateTeamStats(p.state.Matches)
}

// TeamMatchStats aggregates team matches and their positions.
func (p *Processor) TeamMatchStats() stats.TeamMatchStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.observe(time.Now())
	return stats.CalculateTeamMatchStats(p.state.TeamMatches)
}

// SharePlayerStats posts a player's report to the notification channel.
func (p *Processor) SharePlayerStats(id string, dryRun bool) (stats.PlayerReport, error) {
	report, err := p.PlayerReport(id)
	if err != nil {
		return stats.PlayerReport{}, err
	}
	if err := p.notifier.SendPlayerReport(report, dryRun); err != nil {
		return stats.PlayerReport{}, fmt.Errorf("failed to share player stats: %w", err)
	}
	return report, nil
}

// ShareTeamStats posts the team aggregate to the notification channel.
func (p *Processor) ShareTeamStats(dryRun bool) (stats.TeamStats, error) {
	s := p.TeamStats()
	if err := p.notifier.SendTeamStats(s, dryRun); err != nil {
		return stats.TeamStats{}, fmt.Errorf("failed to share team stats: %w", err)
	}
	return s, nil
}

// Export snapshots all data.
func (p *Processor) Export() export.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return export.Export(p.state, timer.Stamp(p.clock))
}

// ExportCSV writes every individual match as CSV.
func (p *Processor) ExportCSV(w io.Writer) error {
	p.mu.Lock()
	matches := p.state.Matches
	p.mu.Unlock()
	return export.WriteMatchesCSV(w, matches)
}

// Now is the processor clock, used for export file names.
func (p *Processor) Now() time.Time {
	return p.clock.Now()
}

// Import replaces the collections present in the snapshot. Nothing changes
// when the payload is invalid or cannot be stored.
func (p *Processor) Import(r io.Reader) (app.State, error) {
	snap, err := export.ReadJSON(r)
	if err != nil {
		p.metrics.IncImportFailures()
		log.Warn("Rejected import", "error", err)
		return app.State{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	next := export.Apply(p.state, snap)
	if err := p.store.ReplaceAll(next); err != nil {
		p.metrics.IncImportFailures()
		log.Error("Failed to store import", "error", err)
		return app.State{}, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	p.state = next
	p.metrics.IncImports()
	p.usage.Increment(metrics.KeyImports)
	log.Info("Imported data", "players", len(next.Players), "matches", len(next.Matches), "teamMatches", len(next.TeamMatches), "version", snap.Version)
	return next, nil
}

// ClearData wipes every collection and restores default settings.
func (p *Processor) ClearData(confirmed bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	next, err := p.state.Clear(confirmed)
	if err != nil {
		return err
	}
	if err := p.store.ReplaceAll(next); err != nil {
		log.Error("Failed to clear stored data", "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	p.state = next
	log.Info("Cleared all data")
	return nil
}
