// Package stats aggregates recorded matches into player and team analytics.
// Every function is pure and degrades to zero values on empty input.
package stats

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/mauv0809/kendo-tally/internal/kendo"
)

// TrendLength is how many recent matches the team trend covers.
const TrendLength = 10

// TopScorerCount is the length of the top scorer list.
const TopScorerCount = 5

// UnknownPlayerName labels a scorer whose record carries no name.
const UnknownPlayerName = "Unknown"

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func record(results []kendo.Result) Record {
	r := Record{TotalMatches: len(results)}
	for _, res := range results {
		switch res {
		case kendo.ResultWin:
			r.Wins++
		case kendo.ResultLoss:
			r.Losses++
		case kendo.ResultDraw:
			r.Draws++
		}
	}
	r.WinRate = percent(r.Wins, r.TotalMatches)
	return r
}

func matchResults(matches []kendo.Match) []kendo.Result {
	out := make([]kendo.Result, len(matches))
	for i, m := range matches {
		out[i] = m.Result
	}
	return out
}

// CalculatePlayerStats aggregates every match whose home player is playerID.
func CalculatePlayerStats(matches []kendo.Match, playerID string) PlayerStats {
	var own []kendo.Match
	for _, m := range matches {
		if playerID != "" && m.PlayerID() == playerID {
			own = append(own, m)
		}
	}

	s := PlayerStats{
		Record:         record(matchResults(own)),
		TechniqueStats: map[kendo.Technique]TechniqueCount{},
	}
	var timeSum int64
	var timed int64
	for _, m := range own {
		for _, ev := range m.Scores {
			if !ev.Target.Valid() {
				continue
			}
			switch ev.Scorer {
			case kendo.ScorerSelf:
				s.IpponsScored.add(ev.Target)
				if ev.Technique != kendo.TechniqueNone {
					tc := s.TechniqueStats[ev.Technique]
					tc.Successful++
					tc.Total++
					s.TechniqueStats[ev.Technique] = tc
				}
				ts := max(ev.TimestampMs, 0)
				timeSum += ts
				timed++
				s.ScoringByMinute[min(MinuteBuckets-1, int(ts/60000))]++
			case kendo.ScorerOpponent:
				s.IpponsConceded.add(ev.Target)
			}
		}
	}
	if timed > 0 {
		s.AverageScoreTimeMs = int64(math.Round(float64(timeSum) / float64(timed)))
	}
	return s
}

// CalculateTeamStats aggregates all individual matches.
func CalculateTeamStats(matches []kendo.Match) TeamStats {
	s := TeamStats{
		Record:       record(matchResults(matches)),
		ScoringTrend: []TrendPoint{},
		TopScorers:   []Scorer{},
	}

	scorers := map[string]*Scorer{}
	for _, m := range matches {
		id := m.PlayerID()
		if id != "" && scorers[id] == nil {
			name := UnknownPlayerName
			if n := strings.TrimSpace(m.Player.Name); n != "" {
				name = n
			}
			scorers[id] = &Scorer{ID: id, Name: name}
		}
		for _, ev := range m.Scores {
			if !ev.Target.Valid() {
				continue
			}
			switch ev.Scorer {
			case kendo.ScorerSelf:
				s.IpponsScored.add(ev.Target)
				if id != "" {
					scorers[id].Ippons++
				}
			case kendo.ScorerOpponent:
				s.IpponsConceded.add(ev.Target)
			}
		}
	}

	// Newest first, keep the last TrendLength, then oldest first.
	recent := slices.Clone(matches)
	slices.SortStableFunc(recent, func(a, b kendo.Match) int { return b.Date.Compare(a.Date) })
	recent = recent[:min(TrendLength, len(recent))]
	slices.Reverse(recent)
	for i, m := range recent {
		tally := kendo.TallyOf(m.Scores)
		s.ScoringTrend = append(s.ScoringTrend, TrendPoint{
			Match:    i + 1,
			Scored:   tally.Self,
			Conceded: tally.Opponent,
			Date:     m.Date,
		})
	}

	for _, sc := range scorers {
		s.TopScorers = append(s.TopScorers, *sc)
	}
	slices.SortFunc(s.TopScorers, func(a, b Scorer) int {
		return cmp.Or(
			cmp.Compare(b.Ippons, a.Ippons),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.ID, b.ID),
		)
	})
	s.TopScorers = s.TopScorers[:min(TopScorerCount, len(s.TopScorers))]
	return s
}

// CalculateTeamMatchStats aggregates team match results and tallies every bout
// by position.
func CalculateTeamMatchStats(teamMatches []kendo.TeamMatch) TeamMatchStats {
	results := make([]kendo.Result, len(teamMatches))
	s := TeamMatchStats{PositionStats: map[kendo.Position]PositionRecord{}}
	for i, tm := range teamMatches {
		results[i] = tm.Result
		for _, b := range tm.Bouts {
			if !b.Position.Valid() {
				continue
			}
			pr := s.PositionStats[b.Position]
			pr.Total++
			switch b.Result {
			case kendo.ResultWin:
				pr.Wins++
			case kendo.ResultLoss:
				pr.Losses++
			default:
				pr.Draws++
			}
			s.PositionStats[b.Position] = pr
		}
	}
	s.Record = record(results)
	return s
}

// ScoringDistribution returns each target's share of counts.Total. A zero
// total yields all zeros.
func ScoringDistribution(counts TargetCounts) Distribution {
	return Distribution{
		Men:   percent(counts.Men, counts.Total),
		Kote:  percent(counts.Kote, counts.Total),
		Do:    percent(counts.Do, counts.Total),
		Tsuki: percent(counts.Tsuki, counts.Total),
	}
}

// Report computes the full player report.
func Report(player kendo.Player, matches []kendo.Match) PlayerReport {
	s := CalculatePlayerStats(matches, player.ID)
	return PlayerReport{
		Player:       player,
		Stats:        s,
		Distribution: ScoringDistribution(s.IpponsScored),
		Insights:     PlayerInsights(s),
	}
}
