package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

func Initialize(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" && !strings.Contains(dsn, "?") {
			dsn += "?_foreign_keys=on&_busy_timeout=5000"
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == DriverSQLite {
		// One writer at a time; also keeps every :memory: query on the same database.
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

func Migrate(db *sql.DB, driver string) error {
	ts := timestampType(driver)

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS scanned_items (
			id TEXT PRIMARY KEY,
			qr_code TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			price DOUBLE PRECISION NOT NULL DEFAULT 0,
			co2 DOUBLE PRECISION,
			status TEXT NOT NULL DEFAULT 'pending',
			scanned_at ` + ts + ` NOT NULL,
			approved_at ` + ts + `,
			store_name TEXT NOT NULL,
			created_at ` + ts + ` DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS badges (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			stores TEXT NOT NULL DEFAULT '[]',
			discount TEXT NOT NULL DEFAULT '',
			prizes TEXT NOT NULL DEFAULT '[]',
			earned_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS active_badges (
			badge_id TEXT PRIMARY KEY,
			started_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS milestones (
			id TEXT PRIMARY KEY,
			current DOUBLE PRECISION NOT NULL DEFAULT 0,
			progress DOUBLE PRECISION NOT NULL DEFAULT 0,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			started_at ` + ts + `,
			updated_at ` + ts + ` DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scanned_items_scanned_at ON scanned_items(scanned_at)`,
		`CREATE INDEX IF NOT EXISTS idx_scanned_items_status ON scanned_items(status)`,
	}

	// sqlite keeps insertion order in rowid; postgres needs its own sequence
	if driver == DriverPostgres {
		migrations = append(migrations, `ALTER TABLE scanned_items ADD COLUMN IF NOT EXISTS seq BIGSERIAL`)
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// insertionOrder is the ORDER BY expression that lists scanned items in the
// order they were written.
func insertionOrder(driver string) string {
	if driver == DriverPostgres {
		return "seq"
	}
	return "rowid"
}

func timestampType(driver string) string {
	if driver == DriverPostgres {
		return "TIMESTAMPTZ"
	}
	return "DATETIME"
}

// rebind rewrites ? placeholders as $1..$n for postgres.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
