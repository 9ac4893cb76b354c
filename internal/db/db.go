package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

// FileName is the database file inside the data directory.
const FileName = "freeflow.db"

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		path,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := EnsureStyleColumns(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func migrate(db *sql.DB) error {
	b, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := db.Exec(string(b)); err != nil {
		return errors.Join(fmt.Errorf("schema apply failed"), err)
	}
	return nil
}

// EnsureStyleColumns upgrades databases created before entries carried a
// display style or an encryption marker.
func EnsureStyleColumns(db *sql.DB) error {
	have := map[string]bool{}

	rows, err := db.Query(`PRAGMA table_info(entries)`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		have[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	upgrades := []struct{ column, ddl string }{
		{"font", `ALTER TABLE entries ADD COLUMN font TEXT`},
		{"size", `ALTER TABLE entries ADD COLUMN size INTEGER`},
		{"encrypted", `ALTER TABLE entries ADD COLUMN encrypted INTEGER NOT NULL DEFAULT 0`},
	}
	for _, u := range upgrades {
		if have[u.column] {
			continue
		}
		if _, err := tx.Exec(u.ddl); err != nil {
			return fmt.Errorf("add %s: %w", u.column, err)
		}
	}
	return tx.Commit()
}
