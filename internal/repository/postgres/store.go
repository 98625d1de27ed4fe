// Package postgres implements the remote task backend on PostgreSQL.
//
// Tasks and disciplines live in their own tables. Dates are stored as DATE
// and statuses as storage tokens. Row triggers publish every write on the
// task_viewer_changes channel, which Watch consumes.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	apperrors "task-viewer/internal/errors"
	"task-viewer/internal/repository"
	"task-viewer/internal/repository/migrations"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Options configures a Store.
type Options struct {
	DSN          string
	QueryTimeout time.Duration
	WriteTimeout time.Duration
	// PingAttempts bounds the wait for the server; attempt n sleeps n*100ms.
	PingAttempts int
	// MinReconnect and MaxReconnect bound the change listener's backoff.
	MinReconnect time.Duration
	MaxReconnect time.Duration
}

// Store is the remote backend.
type Store struct {
	db     *sqlx.DB
	writer string
	opts   Options
}

var (
	_ repository.Backend      = (*Store)(nil)
	_ repository.TaskImporter = (*Store)(nil)
)

// New connects to the database at dsn, waits for it to answer and applies
// pending migrations.
func New(opts Options) (*Store, error) {
	if opts.PingAttempts < 1 {
		opts.PingAttempts = 10
	}
	if opts.MinReconnect <= 0 {
		opts.MinReconnect = 10 * time.Second
	}
	if opts.MaxReconnect <= 0 {
		opts.MaxReconnect = time.Minute
	}

	db, err := sqlx.Open("postgres", opts.DSN)
	if err != nil {
		return nil, apperrors.NewDatabaseError("open database", errors.Wrap(err, "opening database"))
	}

	if err := ping(db.DB, opts.PingAttempts); err != nil {
		db.Close()
		return nil, apperrors.NewDatabaseError("connect", err)
	}

	s := &Store{db: db, writer: uuid.NewString(), opts: opts}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, apperrors.NewDatabaseError("run migrations", errors.Wrap(err, "migrating database"))
	}
	return s, nil
}

// ping waits for the database to be ready, waiting 100ms longer between
// each attempt.
func ping(db *sql.DB, maxAttempts int) error {
	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			return nil
		}
		if attempts < maxAttempts {
			time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
		}
	}
	return errors.Wrap(err, "DB ping timeout")
}

func (s *Store) migrate(ctx context.Context) error {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	return migrations.NewRunner(sub, migrations.Postgres).Run(ctx, s.db.DB)
}

// Encoding reports the storage encoding used by this backend.
func (s *Store) Encoding() repository.Encoding {
	return repository.Encoding{Date: repository.DateISO, Status: repository.StatusToken}
}

// WriterID identifies this Store in change notifications.
func (s *Store) WriterID() string {
	return s.writer
}

// Close closes the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn in a transaction tagged with the store's writer id so the
// change triggers can name it.
func (s *Store) withTx(ctx context.Context, operation string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.NewDatabaseError(operation, errors.Wrap(err, "beginning transaction"))
	}
	if _, err := tx.ExecContext(ctx, `SELECT set_config('task_viewer.writer', $1, true)`, s.writer); err != nil {
		_ = tx.Rollback()
		return apperrors.NewDatabaseError(operation, errors.Wrap(err, "tagging transaction"))
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, repository.ErrDisciplineExists) {
			return err
		}
		return apperrors.NewDatabaseError(operation, err)
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewDatabaseError(operation, errors.Wrap(err, "committing"))
	}
	return nil
}

func (s *Store) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, s.opts.QueryTimeout)
}

func (s *Store) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, s.opts.WriteTimeout)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
