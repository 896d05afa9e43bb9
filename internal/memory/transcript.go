package memory

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Transcript is a SQLite-backed log of conversation turns. It exists
// so a session's exchanges survive restarts; the router itself only
// reads the in-memory [Store].
type Transcript struct {
	db *sql.DB
}

// OpenTranscript opens (creating if needed) the transcript database.
func OpenTranscript(dbPath string) (*Transcript, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open transcript database: %w", err)
	}

	t := &Transcript{db: db}
	if err := t.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate transcript: %w", err)
	}
	return t, nil
}

func (t *Transcript) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS turns (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, timestamp);
	`
	_, err := t.db.Exec(schema)
	return err
}

// Record appends a turn to the transcript.
func (t *Transcript) Record(sessionID string, turn Turn) error {
	_, err := t.db.Exec(
		`INSERT INTO turns (id, session_id, role, content, timestamp) VALUES (?, ?, ?, ?, ?)`,
		turn.ID, sessionID, turn.Role, turn.Content, turn.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("record turn: %w", err)
	}
	return nil
}

// RecentTurns returns up to limit turns for a session, oldest first.
func (t *Transcript) RecentTurns(sessionID string, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := t.db.Query(
		`SELECT id, role, content, timestamp FROM (
			SELECT id, role, content, timestamp FROM turns
			WHERE session_id = ? ORDER BY timestamp DESC LIMIT ?
		) ORDER BY timestamp ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var turn Turn
		var ts time.Time
		if err := rows.Scan(&turn.ID, &turn.Role, &turn.Content, &ts); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turn.Timestamp = ts
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// Close closes the underlying database.
func (t *Transcript) Close() error {
	return t.db.Close()
}
