package db

import (
	"database/sql"
	"time"
)

// Stats represents database statistics
type Stats struct {
	TotalCaches           int
	TotalRevisions        int
	TotalPicked           int
	OldestRevision        time.Time
	NewestRevision        time.Time
	MostActiveAuthor      string
	MostActiveAuthorCount int
}

// GetStats returns statistics across every stored cache
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	err := db.QueryRow("SELECT COUNT(*) FROM caches").Scan(&stats.TotalCaches)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow("SELECT COUNT(*) FROM revisions").Scan(&stats.TotalRevisions)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow("SELECT COUNT(*) FROM selections WHERE kind = ?", kindPicked).Scan(&stats.TotalPicked)
	if err != nil {
		return nil, err
	}

	// Date range (only if we have revisions)
	if stats.TotalRevisions > 0 {
		var minDate, maxDate sql.NullString
		err = db.QueryRow("SELECT MIN(date), MAX(date) FROM revisions WHERE date != ''").Scan(&minDate, &maxDate)
		if err != nil {
			return nil, err
		}

		// RFC3339 strings with a common offset sort chronologically
		if minDate.Valid {
			if t, parseErr := time.Parse(time.RFC3339Nano, minDate.String); parseErr == nil {
				stats.OldestRevision = t
			}
		}
		if maxDate.Valid {
			if t, parseErr := time.Parse(time.RFC3339Nano, maxDate.String); parseErr == nil {
				stats.NewestRevision = t
			}
		}

		var author sql.NullString
		err = db.QueryRow(`
			SELECT author, COUNT(*) as count
			FROM revisions
			GROUP BY author
			ORDER BY count DESC, author
			LIMIT 1
		`).Scan(&author, &stats.MostActiveAuthorCount)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}

		if author.Valid {
			stats.MostActiveAuthor = author.String
		}
	}

	return stats, nil
}
