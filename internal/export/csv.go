package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mauv0809/kendo-tally/internal/kendo"
)

// CSVHeader is the first row of a match export.
var CSVHeader = []string{
	"Date",
	"Type",
	"Context",
	"Player",
	"Opponent",
	"Opponent Team",
	"Result",
	"Player Score",
	"Opponent Score",
	"Duration (s)",
	"Scores Detail",
}

const unknownName = "Unknown"

// CSVFileName is the suggested download name for a CSV export taken at t.
func CSVFileName(t time.Time) string {
	return "kendo_matches_" + t.UTC().Format(time.DateOnly) + ".csv"
}

// ScoresDetail renders a log as "<offset>ms:<scorer>:<target>[:<technique>]"
// entries joined by "; ".
func ScoresDetail(scores []kendo.ScoreEvent) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = fmt.Sprintf("%dms:%s:%s", s.TimestampMs, s.Scorer, s.Target)
		if s.Technique != kendo.TechniqueNone {
			parts[i] += ":" + string(s.Technique)
		}
	}
	return strings.Join(parts, "; ")
}

func matchType(m kendo.Match) string {
	if m.PartOfTeamMatch {
		return "team"
	}
	return "individual"
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknownName
	}
	return s
}

// WriteMatchesCSV writes one row per individual match.
func WriteMatchesCSV(w io.Writer, matches []kendo.Match) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, m := range matches {
		player := ""
		if m.Player != nil {
			player = m.Player.Name
		}
		tally := kendo.TallyOf(m.Scores)
		row := []string{
			m.Date.UTC().Format(time.RFC3339),
			matchType(m),
			string(m.Context),
			orUnknown(player),
			orUnknown(m.OpponentName),
			m.OpponentTeam,
			string(m.Result),
			strconv.Itoa(tally.Self),
			strconv.Itoa(tally.Opponent),
			strconv.FormatInt(m.DurationMs/1000, 10),
			ScoresDetail(m.Scores),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
