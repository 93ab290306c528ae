package db

func (db *DB) initSchema() error {
	schema := `
	-- Current session, at most one row
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		source TEXT NOT NULL,
		destination TEXT NOT NULL,
		base_url TEXT,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- One revision cache per source/destination fingerprint
	CREATE TABLE IF NOT EXISTS caches (
		fingerprint TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		destination TEXT NOT NULL,
		populated_at TEXT,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Eligible revisions of a cache
	CREATE TABLE IF NOT EXISTS revisions (
		cache_fingerprint TEXT NOT NULL,
		rev INTEGER NOT NULL,
		author TEXT,
		date TEXT,
		paths TEXT,
		message TEXT,
		PRIMARY KEY (cache_fingerprint, rev),
		FOREIGN KEY (cache_fingerprint) REFERENCES caches(fingerprint) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_revisions_author ON revisions(author);
	CREATE INDEX IF NOT EXISTS idx_revisions_date ON revisions(date);

	-- Ordered id lists derived from a cache (pick list, last filter result)
	CREATE TABLE IF NOT EXISTS selections (
		cache_fingerprint TEXT NOT NULL,
		kind TEXT NOT NULL CHECK(kind IN ('picked', 'last_filtered')),
		position INTEGER NOT NULL,
		rev INTEGER NOT NULL,
		PRIMARY KEY (cache_fingerprint, kind, position),
		FOREIGN KEY (cache_fingerprint) REFERENCES caches(fingerprint) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_selections_kind ON selections(cache_fingerprint, kind);
	`

	_, err := db.conn.Exec(schema)
	return err
}
