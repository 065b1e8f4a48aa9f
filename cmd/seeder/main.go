package main

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/kendo-tally/internal/app"
	"github.com/mauv0809/kendo-tally/internal/club"
	"github.com/mauv0809/kendo-tally/internal/config"
	"github.com/mauv0809/kendo-tally/internal/database"
	"github.com/mauv0809/kendo-tally/internal/kendo"
)

const (
	numMatches     = 200
	numTeamMatches = 20
)

var (
	dojoNames     = []string{"Alice Sato", "Ben Kimura", "Chloe Park", "Daniel Ito", "Eva Mori"}
	opponentNames = []string{"Tanaka", "Suzuki", "Kim", "Lee", "Nakamura", "Yamada", "Watanabe"}
	opponentTeams = []string{"Kyoto Kenyukai", "Seoul Kumdo", "Osaka Budokan", "London Kendo Club"}
)

// bout simulates one encounter: points are awarded until the result is
// decided or time runs out. Undecided encounters stay in progress, as they do
// when recorded live.
func bout(rng *rand.Rand, format kendo.Format) ([]kendo.ScoreEvent, int64) {
	duration := kendo.DefaultMatchDuration.Milliseconds()
	scores := []kendo.ScoreEvent{}
	at := int64(0)
	for kendo.DetermineResult(scores, format) == kendo.ResultInProgress {
		at += int64(rng.Intn(120_000))
		if at >= duration {
			return scores, duration
		}
		scorer := kendo.ScorerSelf
		if rng.Intn(2) == 0 {
			scorer = kendo.ScorerOpponent
		}
		technique := kendo.TechniqueNone
		if rng.Intn(3) > 0 {
			technique = kendo.Techniques[rng.Intn(len(kendo.Techniques))]
		}
		scores = append(scores, kendo.ScoreEvent{
			ID:          uuid.NewString(),
			TimestampMs: at,
			Target:      kendo.Targets[rng.Intn(len(kendo.Targets))],
			Scorer:      scorer,
			Technique:   technique,
		})
	}
	return scores, at
}

func main() {
	log.Info("Starting database seeder...")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}
	db, teardown, err := database.InitDB(cfg.DBName, cfg.TursoPrimaryURL, cfg.TursoAuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()
	state := app.New()

	for i, name := range dojoNames {
		state.Players = append(state.Players, kendo.Player{
			ID:        uuid.NewString(),
			Name:      "Seeder " + name,
			Position:  kendo.PositionOrder[i%len(kendo.PositionOrder)],
			CreatedAt: now.Add(-400 * 24 * time.Hour),
		})
	}
	log.Info("Prepared dummy players", "count", len(state.Players))

	contexts := []kendo.MatchContext{kendo.ContextPractice, kendo.ContextTournament, kendo.ContextFriendly}
	for i := 0; i < numMatches; i++ {
		format := kendo.FormatSanbon
		if rng.Intn(5) == 0 {
			format = kendo.FormatIppon
		}
		date := now.Add(-time.Duration(rng.Intn(365*24)) * time.Hour)
		scores, duration := bout(rng, format)
		player := state.Players[rng.Intn(len(state.Players))]
		state.Matches = append(state.Matches, kendo.Match{
			ID:           uuid.NewString(),
			Date:         date,
			Context:      contexts[rng.Intn(len(contexts))],
			Format:       format,
			Player:       player.Ref(),
			OpponentName: opponentNames[rng.Intn(len(opponentNames))],
			Scores:       scores,
			DurationMs:   duration,
			Result:       kendo.DetermineResult(scores, format),
			CreatedAt:    date,
		})
	}

	for i := 0; i < numTeamMatches; i++ {
		date := now.Add(-time.Duration(rng.Intn(365*24)) * time.Hour)
		tm := kendo.TeamMatch{
			ID:               uuid.NewString(),
			Date:             date,
			Context:          kendo.ContextTournament,
			OpponentTeamName: opponentTeams[rng.Intn(len(opponentTeams))],
			CreatedAt:        date,
		}
		for j, pos := range kendo.PositionOrder {
			player := state.Players[j%len(state.Players)]
			scores, duration := bout(rng, kendo.FormatSanbon)
			b := kendo.Bout{
				ID:           uuid.NewString(),
				Position:     pos,
				Player:       player.Ref(),
				OpponentName: opponentNames[rng.Intn(len(opponentNames))],
				Scores:       scores,
				DurationMs:   duration,
				Result:       kendo.DetermineResult(scores, kendo.FormatSanbon),
			}
			tm.Bouts = append(tm.Bouts, b)
			state.Matches = append(state.Matches, kendo.Match{
				ID:              uuid.NewString(),
				Date:            date,
				Context:         tm.Context,
				Format:          kendo.FormatSanbon,
				Player:          b.Player,
				OpponentName:    b.OpponentName,
				OpponentTeam:    tm.OpponentTeamName,
				Scores:          b.Scores,
				DurationMs:      b.DurationMs,
				Result:          b.Result,
				PartOfTeamMatch: true,
				TeamMatchID:     tm.ID,
				Position:        pos,
				CreatedAt:       date,
			})
		}
		tm.Result = kendo.TeamResult(tm.Bouts)
		state.TeamMatches = append(state.TeamMatches, tm)
	}

	log.Info("Writing seeded state...", "matches", len(state.Matches), "teamMatches", len(state.TeamMatches))
	startTime := time.Now()
	if err := club.New(db).ReplaceAll(state); err != nil {
		log.Fatalf("Failed to write seeded state: %s", err)
	}
	log.Info("Successfully seeded the database.", "duration", time.Since(startTime))
}
