package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	apperrors "task-viewer/internal/errors"
	"task-viewer/internal/repository"
)

type taskRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Discipline  string    `db:"discipline"`
	Status      string    `db:"status"`
	DueDate     string    `db:"due_date"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r taskRow) toRecord() repository.TaskRecord {
	return repository.TaskRecord{
		ID:          r.ID,
		Owner:       r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Discipline:  r.Discipline,
		Status:      r.Status,
		DueDate:     r.DueDate,
		CreatedAt:   r.CreatedAt,
	}
}

const selectTasks = `
SELECT id::text AS id, user_id, title, description, discipline, status,
	COALESCE(to_char(due_date, 'YYYY-MM-DD'), '') AS due_date, created_at
FROM tasks`

// ListTasks returns the owner's tasks, newest first
func (s *Store) ListTasks(ctx context.Context, owner string) ([]repository.TaskRecord, error) {
	ctx, cancel := s.readContext(ctx)
	defer cancel()

	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows, selectTasks+` WHERE user_id = $1 ORDER BY created_at DESC, id`, owner)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list tasks", errors.Wrap(err, "selecting tasks"))
	}

	records := make([]repository.TaskRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toRecord())
	}
	return records, nil
}

// CreateTask inserts a task row
func (s *Store) CreateTask(ctx context.Context, rec repository.TaskRecord) error {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	return s.withTx(ctx, "create task", func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, description, discipline, status, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::date, $8)`,
			rec.ID, rec.Owner, rec.Title, rec.Description, rec.Discipline, rec.Status, rec.DueDate, created.UTC())
		return errors.Wrap(err, "inserting task")
	})
}

// ImportTasks inserts the records whose ids are not taken, in one
// transaction
func (s *Store) ImportTasks(ctx context.Context, owner string, recs []repository.TaskRecord) (int, error) {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	imported := 0
	err := s.withTx(ctx, "import tasks", func(tx *sqlx.Tx) error {
		for _, rec := range recs {
			created := rec.CreatedAt
			if created.IsZero() {
				created = time.Now()
			}
			res, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, user_id, title, description, discipline, status, due_date, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::date, $8)
			ON CONFLICT (id) DO NOTHING`,
				rec.ID, owner, rec.Title, rec.Description, rec.Discipline, rec.Status, rec.DueDate, created.UTC())
			if err != nil {
				return errors.Wrapf(err, "inserting task %s", rec.ID)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return errors.Wrap(err, "counting inserted tasks")
			}
			imported += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}

// UpdateTask applies changes to the owner's task with the given id
func (s *Store) UpdateTask(ctx context.Context, owner, id string, changes repository.TaskChanges) (bool, error) {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	set, args := updateClause(changes)
	if set == "" {
		var exists bool
		err := s.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM tasks WHERE id::text = $1 AND user_id = $2)`, id, owner)
		if err != nil {
			return false, apperrors.NewDatabaseError("update task", errors.Wrap(err, "checking task"))
		}
		return exists, nil
	}

	found := false
	err := s.withTx(ctx, "update task", func(tx *sqlx.Tx) error {
		n := len(args)
		query := `UPDATE tasks SET ` + set +
			` WHERE id::text = $` + strconv.Itoa(n+1) + ` AND user_id = $` + strconv.Itoa(n+2)
		res, err := tx.ExecContext(ctx, query, append(args, id, owner)...)
		if err != nil {
			return errors.Wrap(err, "updating task")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "updating task")
		}
		found = affected > 0
		return nil
	})
	return found, err
}

// updateClause renders the SET list for changes. DueYear is ignored: ISO
// dates carry their own year.
func updateClause(changes repository.TaskChanges) (string, []interface{}) {
	var parts []string
	var args []interface{}
	add := func(column string, value string) {
		args = append(args, value)
		placeholder := "$" + strconv.Itoa(len(args))
		if column == "due_date" {
			placeholder = "NULLIF(" + placeholder + ", '')::date"
		}
		parts = append(parts, column+" = "+placeholder)
	}

	if changes.Title != nil {
		add("title", *changes.Title)
	}
	if changes.Description != nil {
		add("description", *changes.Description)
	}
	if changes.Discipline != nil {
		add("discipline", *changes.Discipline)
	}
	if changes.Status != nil {
		add("status", *changes.Status)
	}
	if changes.DueDate != nil {
		add("due_date", *changes.DueDate)
	}
	return strings.Join(parts, ", "), args
}

// DeleteTask removes the owner's task with the given id
func (s *Store) DeleteTask(ctx context.Context, owner, id string) (bool, error) {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	found := false
	err := s.withTx(ctx, "delete task", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id::text = $1 AND user_id = $2`, id, owner)
		if err != nil {
			return errors.Wrap(err, "deleting task")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "deleting task")
		}
		found = affected > 0
		return nil
	})
	return found, err
}
