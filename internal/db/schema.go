package db

import "fmt"

const schema = `
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_info (
    version INTEGER NOT NULL
);
`

// migrations are applied in order after the base schema. Index i moves the
// database from version i to i+1.
var migrations = []string{
	`CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_title ON posts(title COLLATE NOCASE)`,
}

// SchemaVersion is the version a fully migrated database reports.
var SchemaVersion = len(migrations)

// RunMigrations creates the base schema and applies pending migrations.
// Returns the number of migrations applied.
func (db *DB) RunMigrations() (int, error) {
	if _, err := db.conn.Exec(schema); err != nil {
		return 0, fmt.Errorf("create schema: %w", err)
	}

	version, err := db.schemaVersion()
	if err != nil {
		return 0, err
	}

	applied := 0
	for v := version; v < len(migrations); v++ {
		tx, err := db.conn.Begin()
		if err != nil {
			return applied, err
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("migration %d: %w", v+1, err)
		}
		if _, err := tx.Exec(`DELETE FROM schema_info`); err != nil {
			tx.Rollback()
			return applied, err
		}
		if _, err := tx.Exec(`INSERT INTO schema_info (version) VALUES (?)`, v+1); err != nil {
			tx.Rollback()
			return applied, err
		}
		if err := tx.Commit(); err != nil {
			return applied, err
		}
		applied++
	}

	return applied, nil
}

func (db *DB) schemaVersion() (int, error) {
	var version int
	err := db.conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_info`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}
