package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kksharma1618/svncherrypicker/internal/core/models"
)

const (
	kindPicked       = "picked"
	kindLastFiltered = "last_filtered"
)

// LoadCache returns the cache with the given fingerprint, or (nil, nil) if absent
func (db *DB) LoadCache(fingerprint string) (*models.Cache, error) {
	c := &models.Cache{Revisions: make(map[int64]models.Revision)}
	var populatedAt sql.NullString
	err := db.conn.QueryRow(`
		SELECT source, destination, populated_at FROM caches WHERE fingerprint = ?
	`, fingerprint).Scan(&c.Source, &c.Destination, &populatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	if populatedAt.Valid && populatedAt.String != "" {
		if c.PopulatedAt, err = time.Parse(time.RFC3339Nano, populatedAt.String); err != nil {
			return nil, fmt.Errorf("invalid populated_at %q: %w", populatedAt.String, err)
		}
	}

	if err := db.loadRevisions(fingerprint, c); err != nil {
		return nil, err
	}

	if c.PickedRevisions, err = db.loadSelection(fingerprint, kindPicked); err != nil {
		return nil, err
	}
	if c.LastFilteredRevisions, err = db.loadSelection(fingerprint, kindLastFiltered); err != nil {
		return nil, err
	}

	return c, nil
}

func (db *DB) loadRevisions(fingerprint string, c *models.Cache) error {
	rows, err := db.conn.Query(`
		SELECT rev, author, date, paths, message
		FROM revisions WHERE cache_fingerprint = ?
	`, fingerprint)
	if err != nil {
		return fmt.Errorf("failed to query revisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var r models.Revision
		var author, date, paths, message sql.NullString
		if err := rows.Scan(&r.Rev, &author, &date, &paths, &message); err != nil {
			return fmt.Errorf("failed to scan revision: %w", err)
		}
		r.Author = author.String
		r.Message = message.String

		if date.String != "" {
			if r.Date, err = time.Parse(time.RFC3339Nano, date.String); err != nil {
				return fmt.Errorf("r%d: invalid date %q: %w", r.Rev, date.String, err)
			}
		}

		r.Paths = []string{}
		if paths.String != "" {
			if err := json.Unmarshal([]byte(paths.String), &r.Paths); err != nil {
				return fmt.Errorf("r%d: invalid paths: %w", r.Rev, err)
			}
		}

		c.Revisions[r.Rev] = r
	}
	return rows.Err()
}

// loadSelection returns nil when no rows of the kind are stored
func (db *DB) loadSelection(fingerprint, kind string) ([]int64, error) {
	rows, err := db.conn.Query(`
		SELECT rev FROM selections
		WHERE cache_fingerprint = ? AND kind = ?
		ORDER BY position
	`, fingerprint, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s revisions: %w", kind, err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SaveCache replaces the whole cache in one transaction
func (db *DB) SaveCache(fingerprint string, c *models.Cache) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Cascades to revisions and selections
	if _, err := tx.Exec(`DELETE FROM caches WHERE fingerprint = ?`, fingerprint); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	var populatedAt sql.NullString
	if !c.PopulatedAt.IsZero() {
		populatedAt = sql.NullString{String: c.PopulatedAt.Format(time.RFC3339Nano), Valid: true}
	}
	_, err = tx.Exec(`
		INSERT INTO caches (fingerprint, source, destination, populated_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, fingerprint, c.Source, c.Destination, populatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cache: %w", err)
	}

	for _, id := range c.SortedIDs() {
		r := c.Revisions[id]
		paths := r.Paths
		if paths == nil {
			paths = []string{}
		}
		pathsJSON, err := json.Marshal(paths)
		if err != nil {
			return fmt.Errorf("r%d: failed to encode paths: %w", id, err)
		}

		var date string
		if !r.Date.IsZero() {
			date = r.Date.Format(time.RFC3339Nano)
		}

		_, err = tx.Exec(`
			INSERT INTO revisions (cache_fingerprint, rev, author, date, paths, message)
			VALUES (?, ?, ?, ?, ?, ?)
		`, fingerprint, id, r.Author, date, string(pathsJSON), r.Message)
		if err != nil {
			return fmt.Errorf("failed to insert revision r%d: %w", id, err)
		}
	}

	if err := insertSelection(tx, fingerprint, kindPicked, c.PickedRevisions); err != nil {
		return err
	}
	if err := insertSelection(tx, fingerprint, kindLastFiltered, c.LastFilteredRevisions); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	slog.Debug("cache saved", "fingerprint", fingerprint, "revisions", len(c.Revisions))
	return nil
}

func insertSelection(tx *sql.Tx, fingerprint, kind string, ids []int64) error {
	for pos, id := range ids {
		_, err := tx.Exec(`
			INSERT INTO selections (cache_fingerprint, kind, position, rev)
			VALUES (?, ?, ?, ?)
		`, fingerprint, kind, pos, id)
		if err != nil {
			return fmt.Errorf("failed to insert %s revision r%d: %w", kind, id, err)
		}
	}
	return nil
}
