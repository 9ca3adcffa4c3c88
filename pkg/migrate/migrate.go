// Package migrate applies the goose SQL migrations for both supported
// databases. Postgres files live in DefaultDir and their SQLite versions in
// its sqlite/ subdirectory under the same filenames.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/pressly/goose/v3"
)

const (
	DefaultDir = "pkg/migrate/migrations"

	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"

	sqliteSubdir = "sqlite"
)

// Target returns the goose dialect and directory for a database backend.
func Target(dir string, useSQLite bool) (dialect string, migrationsDir string) {
	if useSQLite {
		return DialectSQLite, filepath.Join(dir, sqliteSubdir)
	}
	return DialectPostgres, dir
}

// Migrator runs goose commands against one database.
type Migrator struct {
	db      *sql.DB
	dialect string
	dir     string
}

// NewMigrator picks the dialect and directory for db from dir and useSQLite.
func NewMigrator(db *sql.DB, dir string, useSQLite bool) (*Migrator, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if dir == "" {
		return nil, errors.New("dir is required")
	}
	dialect, migrationsDir := Target(dir, useSQLite)
	return &Migrator{db: db, dialect: dialect, dir: migrationsDir}, nil
}

func (m *Migrator) Dialect() string { return m.dialect }

func (m *Migrator) Dir() string { return m.dir }

// Run executes a goose command such as up, down, status or reset. goose
// writes status output to stdout itself.
func (m *Migrator) Run(ctx context.Context, command string, args ...string) error {
	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, m.db, m.dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Version reports the latest applied migration version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	if err := goose.SetDialect(m.dialect); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}
	current, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("get db version: %w", err)
	}
	return current, nil
}

// To migrates up or down until version is the latest applied migration.
func (m *Migrator) To(ctx context.Context, version string) error {
	target, err := strconv.ParseInt(version, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", version, err)
	}
	current, err := m.Version(ctx)
	if err != nil {
		return err
	}

	switch {
	case target > current:
		err = goose.UpToContext(ctx, m.db, m.dir, target)
	case target < current:
		err = goose.DownToContext(ctx, m.db, m.dir, target)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("goose migrate %d -> %d: %w", current, target, err)
	}
	return nil
}
