// Package sqlite implements the local task backend: two JSON arrays stored
// under fixed keys of a key-value table in a SQLite file.
//
// Records use the display encoding ("10 de abril", status labels). Every
// write bumps the key's revision and records the writing Store's id, which
// is how Watch tells writes made by other processes apart from its own.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	apperrors "task-viewer/internal/errors"
	"task-viewer/internal/repository"
	"task-viewer/internal/repository/migrations"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Options configures a Store.
type Options struct {
	Path           string
	QueryTimeout   time.Duration
	WriteTimeout   time.Duration
	WatchInterval  time.Duration
	DirPermissions os.FileMode
	// Now is the clock used for timestamps and legacy year backfill.
	Now func() time.Time
}

// Store is the local backend.
type Store struct {
	db     *sql.DB
	writer string
	opts   Options
	now    func() time.Time
}

var (
	_ repository.Backend      = (*Store)(nil)
	_ repository.TaskImporter = (*Store)(nil)
)

// New opens (creating if needed) the database at path with default options
func New(path string) (*Store, error) {
	return NewWithOptions(Options{Path: path})
}

// NewWithOptions opens the database described by opts and applies pending
// migrations.
func NewWithOptions(opts Options) (*Store, error) {
	if opts.Path == "" {
		opts.Path = MemoryPath
	}
	if opts.WatchInterval <= 0 {
		opts.WatchInterval = time.Second
	}
	if opts.DirPermissions == 0 {
		opts.DirPermissions = 0755
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	dsn := opts.Path
	if !IsMemoryPath(opts.Path) {
		if err := os.MkdirAll(filepath.Dir(opts.Path), opts.DirPermissions); err != nil {
			return nil, apperrors.NewDatabaseError("create database directory", err)
		}
		dsn = opts.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperrors.NewDatabaseError("open database", err)
	}
	// An in-memory database lives and dies with its only connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, writer: uuid.NewString(), opts: opts, now: opts.Now}

	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, apperrors.NewDatabaseError("run migrations", err)
	}

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	return migrations.NewRunner(sub, migrations.SQLite).
		RegisterGo(2, "backfill_due_year", s.backfillDueYear, nil).
		Run(ctx, s.db)
}

// Encoding reports the display encoding used by this backend.
func (s *Store) Encoding() repository.Encoding {
	return repository.Encoding{Date: repository.DateDisplay, Status: repository.StatusLabel}
}

// WriterID identifies this Store in the writer column.
func (s *Store) WriterID() string {
	return s.writer
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.opts.Path
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// IsMemoryPath reports whether path names an in-memory database.
func IsMemoryPath(path string) bool {
	return path == MemoryPath || strings.HasPrefix(path, "file::memory:")
}
