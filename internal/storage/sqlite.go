// Package storage persists match results in SQLite. Uses the pure-Go
// modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/tuigames/tui-bomber/internal/multiplayer"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// MatchEntry is one finished local match.
type MatchEntry struct {
	ID         int64
	MapName    string
	Players    int
	Rounds     int
	WinnerTeam int  // -1 when nobody survived the last round
	Won        bool // the human team took the match
	Kills      int  // human kills over the whole match
	Duration   int  // seconds
	CreatedAt  time.Time
}

// OnlineMatchResult is one finished online PvP match.
type OnlineMatchResult struct {
	ID             int64
	MatchID        string
	MapName        string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	Rounds         int
	WinnerSession  string // empty on draw or disconnect
	EndReason      string
	Duration       int // seconds
	CreatedAt      time.Time
}

// MapStats aggregates local results per map.
type MapStats struct {
	MapName    string
	Played     int
	Wins       int
	Kills      int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path. A leading
// ~ expands to the home directory; parent directories are created.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			map_name TEXT NOT NULL,
			players INTEGER NOT NULL,
			rounds INTEGER NOT NULL,
			winner_team INTEGER NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			kills INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_map ON matches(map_name);
		CREATE INDEX IF NOT EXISTS idx_matches_recent ON matches(created_at DESC);

		CREATE TABLE IF NOT EXISTS online_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			map_name TEXT NOT NULL,
			player1_session TEXT NOT NULL,
			player2_session TEXT NOT NULL,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			rounds INTEGER NOT NULL DEFAULT 0,
			winner_session TEXT,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_online_matches_map ON online_matches(map_name);
		CREATE INDEX IF NOT EXISTS idx_online_matches_player1 ON online_matches(player1_session);
		CREATE INDEX IF NOT EXISTS idx_online_matches_player2 ON online_matches(player2_session);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTimestamp handles the driver returning DATETIME columns as
// either time.Time or string.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveMatch records a finished local match and returns its row ID.
func (s *Store) SaveMatch(m MatchEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO matches (map_name, players, rounds, winner_team, won, kills, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.MapName, m.Players, m.Rounds, m.WinnerTeam, boolToInt(m.Won), m.Kills, m.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentMatches retrieves the most recent local matches.
func (s *Store) RecentMatches(limit int) ([]MatchEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, map_name, players, rounds, winner_team, won, kills, duration_secs, created_at
		 FROM matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var entries []MatchEntry
	for rows.Next() {
		var e MatchEntry
		var won int
		var createdAt any
		if err := rows.Scan(&e.ID, &e.MapName, &e.Players, &e.Rounds,
			&e.WinnerTeam, &won, &e.Kills, &e.Duration, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Won = won != 0
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// WinCount returns how many local matches the human team has won.
func (s *Store) WinCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM matches WHERE won = 1").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query win count: %w", err)
	}
	return count, nil
}

// TotalKills returns the human kill total over all local matches.
func (s *Store) TotalKills() (int, error) {
	var kills sql.NullInt64
	err := s.db.QueryRow("SELECT SUM(kills) FROM matches").Scan(&kills)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query kill total: %w", err)
	}
	if !kills.Valid {
		return 0, nil
	}
	return int(kills.Int64), nil
}

// ClearMatches deletes the local match history.
func (s *Store) ClearMatches() error {
	if _, err := s.db.Exec("DELETE FROM matches"); err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	return nil
}

// GetMapStats aggregates local results for one map.
func (s *Store) GetMapStats(mapName string) (*MapStats, error) {
	stats := &MapStats{MapName: mapName}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(won), 0), COALESCE(SUM(kills), 0)
		 FROM matches WHERE map_name = ?`,
		mapName,
	).Scan(&stats.Played, &stats.Wins, &stats.Kills)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get map stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM matches WHERE map_name = ? ORDER BY created_at DESC LIMIT 1`,
		mapName,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// GetAllMapStats aggregates local results for every map that has been
// played.
func (s *Store) GetAllMapStats() (map[string]*MapStats, error) {
	rows, err := s.db.Query(
		`SELECT map_name, COUNT(*), SUM(won), SUM(kills), MAX(created_at)
		 FROM matches
		 GROUP BY map_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get map stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*MapStats)
	for rows.Next() {
		var m MapStats
		var lastPlayed any
		if err := rows.Scan(&m.MapName, &m.Played, &m.Wins, &m.Kills, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		m.LastPlayed = parseTimestamp(lastPlayed)
		stats[m.MapName] = &m
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// SaveOnlineMatch records the result of an online PvP match.
func (s *Store) SaveOnlineMatch(result OnlineMatchResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO online_matches
		 (match_id, map_name, player1_session, player2_session, score1, score2, rounds, winner_session, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.MatchID,
		result.MapName,
		result.Player1Session,
		result.Player2Session,
		result.Score1,
		result.Score2,
		result.Rounds,
		result.WinnerSession,
		result.EndReason,
		result.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save online match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

func (s *Store) scanOnlineMatch(scan func(dest ...any) error) (OnlineMatchResult, error) {
	var result OnlineMatchResult
	var createdAt any
	var winnerSession sql.NullString

	err := scan(
		&result.ID,
		&result.MatchID,
		&result.MapName,
		&result.Player1Session,
		&result.Player2Session,
		&result.Score1,
		&result.Score2,
		&result.Rounds,
		&winnerSession,
		&result.EndReason,
		&result.Duration,
		&createdAt,
	)
	if err != nil {
		return result, err
	}

	if winnerSession.Valid {
		result.WinnerSession = winnerSession.String
	}
	result.CreatedAt = parseTimestamp(createdAt)
	return result, nil
}

const onlineMatchColumns = `id, match_id, map_name, player1_session, player2_session,
	score1, score2, rounds, winner_session, end_reason, duration_secs, created_at`

// OnlineMatchByID retrieves an online match by its match ID. Returns
// nil without error when the match does not exist.
func (s *Store) OnlineMatchByID(matchID string) (*OnlineMatchResult, error) {
	row := s.db.QueryRow(
		`SELECT `+onlineMatchColumns+` FROM online_matches WHERE match_id = ?`,
		matchID,
	)

	result, err := s.scanOnlineMatch(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online match: %w", err)
	}
	return &result, nil
}

// RecentOnlineMatches retrieves the most recent online matches.
func (s *Store) RecentOnlineMatches(limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+onlineMatchColumns+`
		 FROM online_matches
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online matches: %w", err)
	}
	defer rows.Close()

	var results []OnlineMatchResult
	for rows.Next() {
		result, err := s.scanOnlineMatch(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// PlayerMatchHistory retrieves the online matches one session played.
func (s *Store) PlayerMatchHistory(sessionID string, limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+onlineMatchColumns+`
		 FROM online_matches
		 WHERE player1_session = ? OR player2_session = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		sessionID, sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player matches: %w", err)
	}
	defer rows.Close()

	var results []OnlineMatchResult
	for rows.Next() {
		result, err := s.scanOnlineMatch(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver so the
// coordinator can persist results without importing this package.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	result := OnlineMatchResult{
		MatchID:        data.MatchID,
		MapName:        data.MapName,
		Player1Session: data.Player1Session,
		Player2Session: data.Player2Session,
		Score1:         data.Score1,
		Score2:         data.Score2,
		Rounds:         data.Rounds,
		WinnerSession:  data.WinnerSession,
		EndReason:      data.EndReason,
		Duration:       data.DurationSecs,
	}
	_, err := s.SaveOnlineMatch(result)
	return err
}

var _ multiplayer.MatchResultSaver = (*Store)(nil)

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
