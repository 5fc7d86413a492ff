package dbx

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect names the SQL flavour behind a *sql.DB. The values double as goose
// dialect names.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

const sqlitePrefix = "sqlite:"

// ParseDSN picks the driver for dsn. DSNs starting with "sqlite:" or "file:"
// go to the embedded SQLite driver (the "sqlite:" prefix is stripped and
// foreign keys are switched on), everything else is handed to pgx.
func ParseDSN(dsn string) (driver string, dialect Dialect, source string) {
	switch {
	case strings.HasPrefix(dsn, sqlitePrefix):
		return "sqlite", SQLite, withForeignKeys(strings.TrimPrefix(dsn, sqlitePrefix))
	case strings.HasPrefix(dsn, "file:"):
		return "sqlite", SQLite, withForeignKeys(dsn)
	default:
		return "pgx", Postgres, dsn
	}
}

// withForeignKeys makes every SQLite connection enforce REFERENCES clauses,
// which the engine ignores by default. An explicit foreign_keys pragma in
// source wins.
func withForeignKeys(source string) string {
	if strings.Contains(source, "foreign_keys") {
		return source
	}
	sep := "?"
	if strings.Contains(source, "?") {
		sep = "&"
	}
	return source + sep + "_pragma=foreign_keys(1)"
}

// Open opens and pings the database named by dsn.
func Open(dsn string) (*sql.DB, Dialect, error) {
	driver, dialect, source := ParseDSN(dsn)

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, "", fmt.Errorf("db open error: %w", err)
	}

	if dialect == SQLite {
		// one writer at a time; also keeps in-memory databases on a single connection
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("db ping error: %w", err)
	}

	return db, dialect, nil
}

// IsUniqueViolation reports whether err (or anything it wraps) is a unique or
// primary-key constraint violation on either supported engine.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}
