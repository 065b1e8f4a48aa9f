package stats

import (
	"fmt"
	"strings"

	"github.com/mauv0809/kendo-tally/internal/kendo"
)

const (
	strengthShare      = 40
	vulnerabilityShare = 50
	timingRatio        = 1.5
	minRatedMatches    = 5
	strongWinRate      = 70
	weakWinRate        = 30
)

// dominant returns the target with the highest share. Ties go to the earlier
// target in display order.
func dominant(d Distribution) (kendo.Target, int) {
	best, share := kendo.Targets[0], d.Of(kendo.Targets[0])
	for _, t := range kendo.Targets[1:] {
		if v := d.Of(t); v > share {
			best, share = t, v
		}
	}
	return best, share
}

// PlayerInsights derives coaching hints from a player's aggregate. Each rule
// fires independently.
func PlayerInsights(s PlayerStats) []Insight {
	insights := []Insight{}

	if s.IpponsScored.Total > 0 {
		target, share := dominant(ScoringDistribution(s.IpponsScored))
		if share > strengthShare {
			insights = append(insights, Insight{
				Type:    InsightStrength,
				Message: fmt.Sprintf("Strong %s player - %d%% of ippons", strings.ToUpper(string(target)), share),
			})
		}
	}

	if s.IpponsConceded.Total > 0 {
		target, share := dominant(ScoringDistribution(s.IpponsConceded))
		if share > vulnerabilityShare {
			insights = append(insights, Insight{
				Type:    InsightVulnerability,
				Message: fmt.Sprintf("Vulnerable to %s - %d%% of ippons conceded", strings.ToUpper(string(target)), share),
			})
		}
	}

	var early, late int
	for i, n := range s.ScoringByMinute {
		if i < MinuteBuckets/2 {
			early += n
		} else {
			late += n
		}
	}
	switch {
	case early+late == 0:
	case float64(early) > float64(late)*timingRatio:
		insights = append(insights, Insight{
			Type:    InsightTiming,
			Message: "Fast starter - scores more in first half of matches",
		})
	case float64(late) > float64(early)*timingRatio:
		insights = append(insights, Insight{
			Type:    InsightTiming,
			Message: "Strong finisher - scores more in second half of matches",
		})
	}

	if s.TotalMatches >= minRatedMatches {
		switch {
		case s.WinRate >= strongWinRate:
			insights = append(insights, Insight{
				Type:    InsightPerformance,
				Message: fmt.Sprintf("Excellent record with %d%% win rate", s.WinRate),
			})
		case s.WinRate <= weakWinRate:
			insights = append(insights, Insight{
				Type:    InsightAttention,
				Message: fmt.Sprintf("Needs improvement - %d%% win rate", s.WinRate),
			})
		}
	}
	return insights
}
