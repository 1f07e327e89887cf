package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/neilberkman/quickchat/internal/core/models"
)

// Fixed-width UTC timestamps so text ordering matches time ordering
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Session is a session row returned from ListSessions
type Session struct {
	SessionID    string
	Provider     string
	Title        string
	MessageCount int
	CreatedAt    time.Time
	LastModified time.Time
}

// ArchiveStats reports what an Archive call changed
type ArchiveStats struct {
	SessionsWritten int
	MessagesWritten int
	SessionsRemoved int
}

// Archive makes the database mirror sessions: every session is upserted with
// its messages replaced, and sessions absent from the list are removed.
func (db *DB) Archive(sessions []models.Session) (ArchiveStats, error) {
	return db.ArchiveWithProgress(sessions, nil)
}

// ArchiveWithProgress is Archive reporting each written session to progress.
// Finish is called only when the transaction commits.
func (db *DB) ArchiveWithProgress(sessions []models.Session, progress ProgressCallback) (ArchiveStats, error) {
	var stats ArchiveStats

	tx, err := db.conn.Begin()
	if err != nil {
		return stats, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	keep := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		keep[s.ID] = true

		var rowID int64
		err := tx.QueryRow(`
			INSERT INTO sessions (session_id, provider, title, created_at, last_modified, message_count)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(session_id) DO UPDATE SET
				provider = excluded.provider,
				title = excluded.title,
				created_at = excluded.created_at,
				last_modified = excluded.last_modified,
				message_count = excluded.message_count,
				archived_at = CURRENT_TIMESTAMP
			RETURNING id
		`, s.ID, s.Provider, s.Title(), s.CreatedAt.UTC().Format(timeFormat),
			s.LastModified.UTC().Format(timeFormat), len(s.Messages)).Scan(&rowID)
		if err != nil {
			return stats, fmt.Errorf("upsert session %s: %w", s.ID, err)
		}

		if _, err := tx.Exec(`DELETE FROM messages WHERE session_id = ?`, rowID); err != nil {
			return stats, fmt.Errorf("clear messages for %s: %w", s.ID, err)
		}

		for i, m := range s.Messages {
			_, err := tx.Exec(`
				INSERT INTO messages (uuid, session_id, role, content, timestamp, sequence)
				VALUES (?, ?, ?, ?, ?, ?)
			`, m.ID, rowID, string(m.Role), m.Content, m.Timestamp.UTC().Format(timeFormat), i)
			if err != nil {
				return stats, fmt.Errorf("insert message %s: %w", m.ID, err)
			}
			stats.MessagesWritten++
		}
		stats.SessionsWritten++

		if progress != nil {
			progress.Update(s.Title())
		}
	}

	rows, err := tx.Query(`SELECT id, session_id FROM sessions`)
	if err != nil {
		return stats, fmt.Errorf("list archived sessions: %w", err)
	}
	var stale []int64
	for rows.Next() {
		var id int64
		var sid string
		if err := rows.Scan(&id, &sid); err != nil {
			_ = rows.Close()
			return stats, err
		}
		if !keep[sid] {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return stats, fmt.Errorf("list archived sessions: %w", err)
	}
	_ = rows.Close()

	for _, id := range stale {
		if _, err := tx.Exec(`DELETE FROM messages WHERE session_id = ?`, id); err != nil {
			return stats, fmt.Errorf("remove messages: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
			return stats, fmt.Errorf("remove session: %w", err)
		}
		stats.SessionsRemoved++
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit: %w", err)
	}
	if progress != nil {
		progress.Finish()
	}
	return stats, nil
}

// ListSessions returns archived sessions, newest first, optionally filtered by provider
func (db *DB) ListSessions(provider string) ([]Session, error) {
	query := `
		SELECT session_id, provider, title, message_count, created_at, last_modified
		FROM sessions`

	args := []interface{}{}
	if provider != "" {
		query += " WHERE provider = ?"
		args = append(args, provider)
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var created, modified string
		if err := rows.Scan(&s.SessionID, &s.Provider, &s.Title, &s.MessageCount, &created, &modified); err != nil {
			return nil, err
		}
		s.CreatedAt, _ = time.Parse(timeFormat, created)
		s.LastModified, _ = time.Parse(timeFormat, modified)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// SearchResult is a message matched by full-text search
type SearchResult struct {
	SessionID string
	Title     string
	Role      string
	Snippet   string
	Sequence  int
}

// Search runs an FTS5 query over message content, best match first
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if limit <= 0 {
		limit = 50
	}

	// Quote each term so punctuation is not read as FTS syntax
	terms := strings.Fields(query)
	for i, term := range terms {
		terms[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
	}

	rows, err := db.Query(`
		SELECT s.session_id, s.title, m.role,
			snippet(messages_fts, 0, '[', ']', '...', 16), m.sequence
		FROM messages_fts
		JOIN messages m ON m.id = messages_fts.rowid
		JOIN sessions s ON s.id = m.session_id
		WHERE messages_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, strings.Join(terms, " "), limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.SessionID, &r.Title, &r.Role, &r.Snippet, &r.Sequence); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
