// Package migrations applies versioned schema changes to a SQL database.
//
// SQL migrations are read from an fs.FS as pairs of files named
// "<version>_<name>.up.sql" and "<version>_<name>.down.sql". Go migrations
// are registered on a Runner for data fixes that SQL cannot express.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
)

// Dialect holds the SQL differences between supported databases.
type Dialect struct {
	Name        string
	CreateTable string
	Placeholder func(n int) string
}

// SQLite is the dialect of modernc.org/sqlite.
var SQLite = Dialect{
	Name: "sqlite",
	CreateTable: `
	CREATE TABLE IF NOT EXISTS migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	Placeholder: func(int) string { return "?" },
}

// Postgres is the dialect of github.com/lib/pq.
var Postgres = Dialect{
	Name: "postgres",
	CreateTable: `
	CREATE TABLE IF NOT EXISTS migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
}

// GoFunc runs a Go migration step inside the migration transaction.
type GoFunc func(ctx context.Context, tx *sql.Tx) error

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
	UpFn    GoFunc
	DownFn  GoFunc
}

// Runner applies the migrations found in an fs.FS plus any registered Go
// migrations.
type Runner struct {
	fsys    fs.FS
	dialect Dialect
	goSteps []Migration
}

// NewRunner creates a Runner reading SQL files from the root of fsys.
func NewRunner(fsys fs.FS, dialect Dialect) *Runner {
	return &Runner{fsys: fsys, dialect: dialect}
}

// RegisterGo adds a Go migration. Its version must not collide with a SQL
// migration.
func (r *Runner) RegisterGo(version int, name string, up, down GoFunc) *Runner {
	r.goSteps = append(r.goSteps, Migration{Version: version, Name: name, UpFn: up, DownFn: down})
	return r
}

// Run executes all pending migrations in version order
func (r *Runner) Run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, r.dialect.CreateTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := r.Load()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	applied, err := r.Applied(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := r.apply(ctx, db, m); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}

// Rollback reverts the most recently applied migration. It returns the
// reverted version, or 0 when nothing was applied.
func (r *Runner) Rollback(ctx context.Context, db *sql.DB) (int, error) {
	migrations, err := r.Load()
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}
	applied, err := r.Applied(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		m := migrations[i]
		if !applied[m.Version] {
			continue
		}
		if err := r.revert(ctx, db, m); err != nil {
			return 0, fmt.Errorf("failed to revert migration %d (%s): %w", m.Version, m.Name, err)
		}
		return m.Version, nil
	}
	return 0, nil
}

// Load returns every migration sorted by version.
func (r *Runner) Load() ([]Migration, error) {
	entries, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		return nil, err
	}

	seen := make(map[int]string)
	var migrations []Migration
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		version, name := parseFilename(entry.Name())
		if version == 0 {
			continue
		}

		upSQL, err := fs.ReadFile(r.fsys, entry.Name())
		if err != nil {
			return nil, err
		}

		downFile := strings.Replace(entry.Name(), ".up.sql", ".down.sql", 1)
		downSQL, err := fs.ReadFile(r.fsys, downFile)
		if err != nil {
			return nil, err
		}

		seen[version] = entry.Name()
		migrations = append(migrations, Migration{
			Version: version,
			Name:    name,
			Up:      string(upSQL),
			Down:    string(downSQL),
		})
	}

	for _, m := range r.goSteps {
		if other, dup := seen[m.Version]; dup {
			return nil, fmt.Errorf("go migration %d (%s) collides with %s", m.Version, m.Name, other)
		}
		seen[m.Version] = m.Name
		migrations = append(migrations, m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// Applied returns the set of applied versions.
func (r *Runner) Applied(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (r *Runner) apply(ctx context.Context, db *sql.DB, m Migration) error {
	return r.inTx(ctx, db, func(tx *sql.Tx) error {
		if err := step(ctx, tx, m.Up, m.UpFn); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO migrations (version) VALUES ("+r.dialect.Placeholder(1)+")", m.Version)
		return err
	})
}

func (r *Runner) revert(ctx context.Context, db *sql.DB, m Migration) error {
	return r.inTx(ctx, db, func(tx *sql.Tx) error {
		if err := step(ctx, tx, m.Down, m.DownFn); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			"DELETE FROM migrations WHERE version = "+r.dialect.Placeholder(1), m.Version)
		return err
	})
}

func (r *Runner) inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func step(ctx context.Context, tx *sql.Tx, query string, fn GoFunc) error {
	if fn != nil {
		return fn(ctx, tx)
	}
	if strings.TrimSpace(query) == "" {
		return nil
	}
	_, err := tx.ExecContext(ctx, query)
	return err
}

// parseFilename splits "000001_create_kv.up.sql" into 1 and "create_kv".
func parseFilename(filename string) (int, string) {
	base := strings.TrimSuffix(filename, ".up.sql")
	prefix, name, found := strings.Cut(base, "_")
	if !found {
		return 0, ""
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, ""
	}
	return version, name
}
