// Package storage provides SQLite-based persistence for finished games.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/snakes-foxes/internal/multiplayer"
)

// NoWinner is the Winner value of a game nobody won.
const NoWinner = -1

// DefaultFile is where Open puts the database when given no path, relative
// to the XDG data directory.
const DefaultFile = "snakes-foxes/results.db"

// Store manages the SQLite database connection for result persistence.
type Store struct {
	db *sql.DB
}

// Result is one finished game.
type Result struct {
	ID           int64
	Variant      string
	Mode         string
	Rings        int
	NodesPerRing int
	Winner       int // seat, or NoWinner
	Reason       string
	Turns        int
	Pieces1      int
	Pieces2      int

	// Online games only.
	Online         bool
	MatchID        string
	Player1Session string
	Player2Session string
	DurationSecs   int

	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path. An empty path
// means DefaultFile under the XDG data directory and a leading ~ is the home
// directory. It creates the parent directories if needed and runs
// migrations.
func Open(dbPath string) (*Store, error) {
	switch {
	case dbPath == "":
		p, err := xdg.DataFile(DefaultFile)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot resolve data directory: %w", err)
		}
		dbPath = p
	case dbPath[0] == '~':
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

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			variant TEXT NOT NULL,
			mode TEXT NOT NULL DEFAULT '',
			rings INTEGER NOT NULL DEFAULT 0,
			nodes_per_ring INTEGER NOT NULL DEFAULT 0,
			winner INTEGER NOT NULL DEFAULT -1,
			reason TEXT NOT NULL,
			turns INTEGER NOT NULL DEFAULT 0,
			pieces1 INTEGER NOT NULL DEFAULT 0,
			pieces2 INTEGER NOT NULL DEFAULT 0,
			online INTEGER NOT NULL DEFAULT 0,
			match_id TEXT,
			player1_session TEXT,
			player2_session TEXT,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_variant ON results(variant);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_results_match_id ON results(match_id) WHERE match_id IS NOT NULL;
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

// SaveResult records a finished game and returns its row ID.
func (s *Store) SaveResult(r Result) (int64, error) {
	var matchID, p1, p2 sql.NullString
	if r.MatchID != "" {
		matchID = sql.NullString{String: r.MatchID, Valid: true}
	}
	if r.Player1Session != "" {
		p1 = sql.NullString{String: r.Player1Session, Valid: true}
	}
	if r.Player2Session != "" {
		p2 = sql.NullString{String: r.Player2Session, Valid: true}
	}

	res, err := s.db.Exec(
		`INSERT INTO results
		 (variant, mode, rings, nodes_per_ring, winner, reason, turns, pieces1, pieces2,
		  online, match_id, player1_session, player2_session, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Variant, r.Mode, r.Rings, r.NodesPerRing, r.Winner, r.Reason, r.Turns, r.Pieces1, r.Pieces2,
		r.Online, matchID, p1, p2, r.DurationSecs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const resultColumns = `id, variant, mode, rings, nodes_per_ring, winner, reason, turns, pieces1, pieces2,
	online, match_id, player1_session, player2_session, duration_secs, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (Result, error) {
	var r Result
	var matchID, p1, p2 sql.NullString
	var createdAt any
	err := row.Scan(
		&r.ID, &r.Variant, &r.Mode, &r.Rings, &r.NodesPerRing, &r.Winner, &r.Reason, &r.Turns,
		&r.Pieces1, &r.Pieces2, &r.Online, &matchID, &p1, &p2, &r.DurationSecs, &createdAt,
	)
	if err != nil {
		return Result{}, err
	}
	r.MatchID = matchID.String
	r.Player1Session = p1.String
	r.Player2Session = p2.String
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and the string form SQLite may hand back.
func parseTime(v any) time.Time {
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

// RecentResults returns the most recent results, newest first. An empty
// variant matches every variant.
func (s *Store) RecentResults(variant string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE ? = '' OR variant = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		variant, variant, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// ResultByMatch retrieves an online result by its match ID. It returns
// (nil, nil) when there is none.
func (s *Store) ResultByMatch(matchID string) (*Result, error) {
	row := s.db.QueryRow(`SELECT `+resultColumns+` FROM results WHERE match_id = ?`, matchID)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match result: %w", err)
	}
	return &r, nil
}

// ClearResults deletes every result of a variant.
func (s *Store) ClearResults(variant string) error {
	if _, err := s.db.Exec("DELETE FROM results WHERE variant = ?", variant); err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	_, err := s.SaveResult(Result{
		Variant:        data.Variant,
		Mode:           data.Mode,
		Rings:          data.Rings,
		NodesPerRing:   data.NodesPerRing,
		Winner:         data.Winner,
		Reason:         data.EndReason,
		Turns:          data.Turns,
		Pieces1:        data.Pieces1,
		Pieces2:        data.Pieces2,
		Online:         true,
		MatchID:        data.MatchID,
		Player1Session: data.Player1Session,
		Player2Session: data.Player2Session,
		DurationSecs:   data.DurationSecs,
	})
	return err
}

// Ensure Store implements MatchResultSaver
var _ multiplayer.MatchResultSaver = (*Store)(nil)

// Stats contains aggregated results of one variant.
type Stats struct {
	Variant    string
	Games      int
	Wins       [2]int // by seat
	NoWinner   int
	AvgTurns   float64
	LastPlayed time.Time
}

// Stats aggregates the results of one variant.
func (s *Store) Stats(variant string) (*Stats, error) {
	all, err := s.AllStats()
	if err != nil {
		return nil, err
	}
	if st, ok := all[variant]; ok {
		return st, nil
	}
	return &Stats{Variant: variant}, nil
}

// AllStats aggregates results for every variant that has been played.
func (s *Store) AllStats() (map[string]*Stats, error) {
	rows, err := s.db.Query(
		`SELECT variant,
		        COUNT(*),
		        SUM(CASE WHEN winner = 0 THEN 1 ELSE 0 END),
		        SUM(CASE WHEN winner = 1 THEN 1 ELSE 0 END),
		        SUM(CASE WHEN winner < 0 THEN 1 ELSE 0 END),
		        AVG(turns),
		        MAX(created_at)
		 FROM results
		 GROUP BY variant`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*Stats)
	for rows.Next() {
		var st Stats
		var lastPlayed any
		if err := rows.Scan(&st.Variant, &st.Games, &st.Wins[0], &st.Wins[1], &st.NoWinner, &st.AvgTurns, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Variant] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
