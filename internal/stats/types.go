package stats

import (
	"time"

	"github.com/mauv0809/kendo-tally/internal/kendo"
)

// MinuteBuckets is the length of the scoring-by-minute histogram. The last
// bucket absorbs everything from minute five on.
const MinuteBuckets = 6

// TargetCounts counts ippons per target.
type TargetCounts struct {
	Men   int `json:"men"`
	Kote  int `json:"kote"`
	Do    int `json:"do"`
	Tsuki int `json:"tsuki"`
	Total int `json:"total"`
}

// Of returns the count for target.
func (c TargetCounts) Of(target kendo.Target) int {
	switch target {
	case kendo.TargetMen:
		return c.Men
	case kendo.TargetKote:
		return c.Kote
	case kendo.TargetDo:
		return c.Do
	case kendo.TargetTsuki:
		return c.Tsuki
	}
	return 0
}

// add counts one ippon on target. Unknown targets are ignored.
func (c *TargetCounts) add(target kendo.Target) {
	switch target {
	case kendo.TargetMen:
		c.Men++
	case kendo.TargetKote:
		c.Kote++
	case kendo.TargetDo:
		c.Do++
	case kendo.TargetTsuki:
		c.Tsuki++
	default:
		return
	}
	c.Total++
}

// Distribution is each target's rounded share of the total, in percent.
type Distribution struct {
	Men   int `json:"men"`
	Kote  int `json:"kote"`
	Do    int `json:"do"`
	Tsuki int `json:"tsuki"`
}

func (d Distribution) Of(target kendo.Target) int {
	return TargetCounts{Men: d.Men, Kote: d.Kote, Do: d.Do, Tsuki: d.Tsuki}.Of(target)
}

// TechniqueCount tracks how often a technique produced an ippon.
type TechniqueCount struct {
	Successful int `json:"successful"`
	Total      int `json:"total"`
}

// Record is the shared win/loss shape of every aggregate.
type Record struct {
	TotalMatches int `json:"totalMatches"`
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	Draws        int `json:"draws"`
	WinRate      int `json:"winRate"`
}

type PlayerStats struct {
	Record
	IpponsScored       TargetCounts                       `json:"ipponsScored"`
	IpponsConceded     TargetCounts                       `json:"ipponsConceded"`
	TechniqueStats     map[kendo.Technique]TechniqueCount `json:"techniqueStats"`
	ScoringByMinute    [MinuteBuckets]int                 `json:"scoringByMinute"`
	AverageScoreTimeMs int64                              `json:"averageScoreTimeMs"`
}

type InsightType string

const (
	InsightStrength      InsightType = "strength"
	InsightVulnerability InsightType = "vulnerability"
	InsightTiming        InsightType = "timing"
	InsightPerformance   InsightType = "performance"
	InsightAttention     InsightType = "attention"
)

type Insight struct {
	Type    InsightType `json:"type"`
	Message string      `json:"message"`
}

// TrendPoint is one match in the recent scoring trend. Match is 1-based,
// oldest first.
type TrendPoint struct {
	Match    int       `json:"match"`
	Scored   int       `json:"scored"`
	Conceded int       `json:"conceded"`
	Date     time.Time `json:"date"`
}

type Scorer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Ippons int    `json:"ippons"`
}

type TeamStats struct {
	Record
	IpponsScored   TargetCounts `json:"ipponsScored"`
	IpponsConceded TargetCounts `json:"ipponsConceded"`
	ScoringTrend   []TrendPoint `json:"scoringTrend"`
	TopScorers     []Scorer     `json:"topScorers"`
}

// PositionRecord tallies bouts fought at one team position. Anything that is
// not a win or a loss counts as a draw.
type PositionRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
	Total  int `json:"total"`
}

type TeamMatchStats struct {
	Record
	PositionStats map[kendo.Position]PositionRecord `json:"positionStats"`
}

// PlayerReport bundles a player's aggregate with the insights derived from it.
type PlayerReport struct {
	Player       kendo.Player `json:"player"`
	Stats        PlayerStats  `json:"stats"`
	Distribution Distribution `json:"distribution"`
	Insights     []Insight    `json:"insights"`
}
