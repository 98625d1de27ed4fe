package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	apperrors "task-viewer/internal/errors"
	"task-viewer/internal/repository"
)

// HandleDatabaseError converts database errors to structured app errors
func HandleDatabaseError(operation string, err error) error {
	return apperrors.NewDatabaseError(operation, err)
}

// withTx runs fn in a transaction, committing when it returns nil.
func (s *Store) withTx(ctx context.Context, operation string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError(operation, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		if apperrors.IsAppError(err) || errors.Is(err, repository.ErrDisciplineExists) {
			return err
		}
		return HandleDatabaseError(operation, err)
	}
	if err := tx.Commit(); err != nil {
		return HandleDatabaseError(operation, err)
	}
	return nil
}

// loadKey decodes the JSON array stored under key into dest. A missing or
// empty value leaves dest untouched.
func loadKey(ctx context.Context, q queryer, key string, dest interface{}) error {
	var raw sql.NullString
	err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	if !raw.Valid || raw.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw.String), dest)
}

// saveKey encodes value under key and bumps the key's revision.
func (s *Store) saveKey(ctx context.Context, tx *sql.Tx, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
	INSERT INTO kv (key, value, revision, writer, updated_at)
	VALUES (?, ?, 1, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		revision = kv.revision + 1,
		writer = excluded.writer,
		updated_at = excluded.updated_at`,
		key, string(data), s.writer, FormatTimeForDB(s.now()))
	return err
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
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
