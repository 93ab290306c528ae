package db

import (
	"database/sql"
	"fmt"

	"github.com/kksharma1618/svncherrypicker/internal/core/models"
)

// LoadSession returns the current session, or (nil, nil) if none was set up
func (db *DB) LoadSession() (*models.Session, error) {
	var s models.Session
	var baseURL sql.NullString
	err := db.conn.QueryRow(`
		SELECT source, destination, base_url FROM session WHERE id = 1
	`).Scan(&s.Source, &s.Destination, &baseURL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	s.BaseURL = baseURL.String
	return &s, nil
}

// SaveSession replaces the current session
func (db *DB) SaveSession(s *models.Session) error {
	_, err := db.conn.Exec(`
		INSERT INTO session (id, source, destination, base_url, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			destination = excluded.destination,
			base_url = excluded.base_url,
			updated_at = CURRENT_TIMESTAMP
	`, s.Source, s.Destination, s.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
