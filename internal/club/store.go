package club

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/kendo-tally/internal/app"
	"github.com/mauv0809/kendo-tally/internal/kendo"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

// inTx runs fn in a transaction and commits when it succeeds.
func (s *store) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("Failed to roll back transaction", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *store) LoadPlayers() ([]kendo.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, position, notes, created_at FROM players ORDER BY seq")
	if err != nil {
		log.Error("Failed to query players", "error", err)
		return nil, err
	}
	defer rows.Close()

	players := []kendo.Player{}
	for rows.Next() {
		var p kendo.Player
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.Name, &p.Position, &p.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		p.CreatedAt = fromUnix(createdAt)
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) ReplacePlayers(players []kendo.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx(func(tx *sql.Tx) error { return replacePlayers(tx, players) })
}

func replacePlayers(tx execer, players []kendo.Player) error {
	if _, err := tx.Exec("DELETE FROM players"); err != nil {
		return fmt.Errorf("failed to clear players: %w", err)
	}
	stmt, err := tx.Prepare("INSERT INTO players (id, seq, name, position, notes, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, p := range players {
		if _, err := stmt.Exec(p.ID, i, p.Name, p.Position, p.Notes, toUnix(p.CreatedAt)); err != nil {
			return fmt.Errorf("failed to insert player %s: %w", p.ID, err)
		}
	}
	log.Debug("Replaced players", "count", len(players))
	return nil
}

func (s *store) LoadMatches() ([]kendo.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, date, context, format, player_id, player_name, opponent_name, opponent_team, scores,
		       duration_ms, result, video_url, notes, part_of_team_match, team_match_id, position, created_at
		FROM matches ORDER BY seq`)
	if err != nil {
		log.Error("Failed to query matches", "error", err)
		return nil, err
	}
	defer rows.Close()

	matches := []kendo.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// scanMatch is a helper function to scan a single match row.
func scanMatch(scanner interface{ Scan(...any) error }) (kendo.Match, error) {
	var (
		m                    kendo.Match
		date, createdAt      int64
		playerID, playerName sql.NullString
		scores               []byte
	)
	err := scanner.Scan(&m.ID, &date, &m.Context, &m.Format, &playerID, &playerName, &m.OpponentName, &m.OpponentTeam,
		&scores, &m.DurationMs, &m.Result, &m.VideoURL, &m.Notes, &m.PartOfTeamMatch, &m.TeamMatchID, &m.Position, &createdAt)
	if err != nil {
		return m, fmt.Errorf("failed to scan match row: %w", err)
	}
	m.Date = fromUnix(date)
	m.CreatedAt = fromUnix(createdAt)
	if playerID.Valid {
		m.Player = &kendo.PlayerRef{ID: playerID.String, Name: playerName.String}
	}
	m.Scores = []kendo.ScoreEvent{}
	if err := decodeBlob(scores, &m.Scores); err != nil {
		return m, fmt.Errorf("failed to decode scores of match %s: %w", m.ID, err)
	}
	return m, nil
}

func (s *store) ReplaceMatches(matches []kendo.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx(func(tx *sql.Tx) error { return replaceMatches(tx, matches) })
}

func replaceMatches(tx execer, matches []kendo.Match) error {
	if _, err := tx.Exec("DELETE FROM matches"); err != nil {
		return fmt.Errorf("failed to clear matches: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO matches (id, seq, date, context, format, player_id, player_name, opponent_name, opponent_team, scores,
		                     duration_ms, result, video_url, notes, part_of_team_match, team_match_id, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, m := range matches {
		scores, err := encodeBlob(m.Scores)
		if err != nil {
			return fmt.Errorf("failed to encode scores of match %s: %w", m.ID, err)
		}
		var playerID, playerName sql.NullString
		if m.Player != nil {
			playerID = sql.NullString{String: m.Player.ID, Valid: true}
			playerName = sql.NullString{String: m.Player.Name, Valid: true}
		}
		_, err = stmt.Exec(m.ID, i, toUnix(m.Date), m.Context, m.Format, playerID, playerName, m.OpponentName, m.OpponentTeam,
			scores, m.DurationMs, m.Result, m.VideoURL, m.Notes, m.PartOfTeamMatch, m.TeamMatchID, m.Position, toUnix(m.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert match %s: %w", m.ID, err)
		}
	}
	log.Debug("Replaced matches", "count", len(matches))
	return nil
}

func (s *store) LoadTeamMatches() ([]kendo.TeamMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, date, context, opponent_team_name, bouts, result, video_url, created_at
		FROM team_matches ORDER BY seq`)
	if err != nil {
		log.Error("Failed to query team matches", "error", err)
		return nil, err
	}
	defer rows.Close()

	teamMatches := []kendo.TeamMatch{}
	for rows.Next() {
		var (
			tm              kendo.TeamMatch
			date, createdAt int64
			bouts           []byte
		)
		if err := rows.Scan(&tm.ID, &date, &tm.Context, &tm.OpponentTeamName, &bouts, &tm.Result, &tm.VideoURL, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan team match row: %w", err)
		}
		tm.Date = fromUnix(date)
		tm.CreatedAt = fromUnix(createdAt)
		tm.Bouts = []kendo.Bout{}
		if err := decodeBlob(bouts, &tm.Bouts); err != nil {
			return nil, fmt.Errorf("failed to decode bouts of team match %s: %w", tm.ID, err)
		}
		teamMatches = append(teamMatches, tm)
	}
	return teamMatches, rows.Err()
}

func (s *store) ReplaceTeamMatches(teamMatches []kendo.TeamMatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx(func(tx *sql.Tx) error { return replaceTeamMatches(tx, teamMatches) })
}

func replaceTeamMatches(tx execer, teamMatches []kendo.TeamMatch) error {
	if _, err := tx.Exec("DELETE FROM team_matches"); err != nil {
		return fmt.Errorf("failed to clear team matches: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO team_matches (id, seq, date, context, opponent_team_name, bouts, result, video_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, tm := range teamMatches {
		bouts, err := encodeBlob(tm.Bouts)
		if err != nil {
			return fmt.Errorf("failed to encode bouts of team match %s: %w", tm.ID, err)
		}
		_, err = stmt.Exec(tm.ID, i, toUnix(tm.Date), tm.Context, tm.OpponentTeamName, bouts, tm.Result, tm.VideoURL, toUnix(tm.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert team match %s: %w", tm.ID, err)
		}
	}
	log.Debug("Replaced team matches", "count", len(teamMatches))
	return nil
}

func (s *store) LoadSettings() (kendo.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st kendo.Settings
	err := s.db.QueryRow(`
		SELECT default_format, default_match_duration_ms, prompt_technique, auto_save
		FROM settings WHERE id = 1`).Scan(&st.DefaultFormat, &st.DefaultMatchDurationMs, &st.PromptTechnique, &st.AutoSave)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("No settings stored, using defaults")
		return kendo.DefaultSettings(), nil
	}
	if err != nil {
		log.Error("Failed to query settings", "error", err)
		return kendo.Settings{}, err
	}
	return st, nil
}

func (s *store) ReplaceSettings(settings kendo.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(upsertSettings, settings.DefaultFormat, settings.DefaultMatchDurationMs, settings.PromptTechnique, settings.AutoSave)
	return err
}

func (s *store) SettingsSaved() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var saved bool
	if err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM settings WHERE id = 1)`).Scan(&saved); err != nil {
		log.Error("Failed to check for stored settings", "error", err)
		return false, err
	}
	return saved, nil
}

const upsertSettings = `
	INSERT INTO settings (id, default_format, default_match_duration_ms, prompt_technique, auto_save)
	VALUES (1, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		default_format = excluded.default_format,
		default_match_duration_ms = excluded.default_match_duration_ms,
		prompt_technique = excluded.prompt_technique,
		auto_save = excluded.auto_save;`

func (s *store) Load() (app.State, error) {
	players, err := s.LoadPlayers()
	if err != nil {
		return app.State{}, err
	}
	matches, err := s.LoadMatches()
	if err != nil {
		return app.State{}, err
	}
	teamMatches, err := s.LoadTeamMatches()
	if err != nil {
		return app.State{}, err
	}
	settings, err := s.LoadSettings()
	if err != nil {
		return app.State{}, err
	}
	return app.State{Players: players, Matches: matches, TeamMatches: teamMatches, Settings: settings}, nil
}

func (s *store) ReplaceAll(state app.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.inTx(func(tx *sql.Tx) error {
		if err := replacePlayers(tx, state.Players); err != nil {
			return err
		}
		if err := replaceMatches(tx, state.Matches); err != nil {
			return err
		}
		if err := replaceTeamMatches(tx, state.TeamMatches); err != nil {
			return err
		}
		_, err := tx.Exec(upsertSettings, state.Settings.DefaultFormat, state.Settings.DefaultMatchDurationMs,
			state.Settings.PromptTechnique, state.Settings.AutoSave)
		return err
	})
	if err != nil {
		log.Error("Failed to replace all collections", "error", err)
		return err
	}
	log.Info("Replaced all collections", "players", len(state.Players), "matches", len(state.Matches), "teamMatches", len(state.TeamMatches))
	return nil
}
