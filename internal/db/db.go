// Package db stores perception runs and their per-cycle summaries in
// SQLite. The schema is owned by the embedded migrations.
package db

import (
	"database/sql"
	"embed"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"

	"github.com/fieldsense/perception/internal/timeutil"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// pragmas are applied to every pooled connection through the DSN.
var pragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"temp_store(MEMORY)",
	"foreign_keys(ON)",
}

type DB struct {
	*sql.DB
	clock timeutil.Clock
}

// OpenDB opens (or creates) the database at path and migrates it to the
// latest schema version.
func OpenDB(path string) (*DB, error) {
	return OpenDBWithClock(path, timeutil.RealClock{})
}

// OpenDBWithClock is OpenDB with an injected clock for row timestamps.
func OpenDBWithClock(path string, clock timeutil.Clock) (*DB, error) {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	sqlDB, err := sql.Open("sqlite", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}

	db := &DB{DB: sqlDB, clock: clock}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}
