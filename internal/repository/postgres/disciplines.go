package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	apperrors "task-viewer/internal/errors"
	"task-viewer/internal/repository"
)

const uniqueViolation = "23505"

// ListDisciplines returns the owner's disciplines in creation order
func (s *Store) ListDisciplines(ctx context.Context, owner string) ([]repository.DisciplineRecord, error) {
	ctx, cancel := s.readContext(ctx)
	defer cancel()

	var names []string
	err := s.db.SelectContext(ctx, &names, `SELECT name FROM disciplines WHERE user_id = $1 ORDER BY id`, owner)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list disciplines", errors.Wrap(err, "selecting disciplines"))
	}

	records := make([]repository.DisciplineRecord, 0, len(names))
	for _, name := range names {
		records = append(records, repository.DisciplineRecord{Owner: owner, Name: name})
	}
	return records, nil
}

// CreateDiscipline inserts a discipline unless the owner already has it
func (s *Store) CreateDiscipline(ctx context.Context, owner, name string) (bool, error) {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	created := false
	err := s.withTx(ctx, "create discipline", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO disciplines (user_id, name) VALUES ($1, $2) ON CONFLICT (user_id, name) DO NOTHING`,
			owner, name)
		if err != nil {
			return errors.Wrap(err, "inserting discipline")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "inserting discipline")
		}
		created = affected > 0
		return nil
	})
	return created, err
}

// RenameDiscipline renames a discipline and moves its tasks in one transaction
func (s *Store) RenameDiscipline(ctx context.Context, owner, oldName, newName string) (int, error) {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	moved := 0
	err := s.withTx(ctx, "rename discipline", func(tx *sqlx.Tx) error {
		var taken bool
		err := tx.GetContext(ctx, &taken,
			`SELECT EXISTS (SELECT 1 FROM disciplines WHERE user_id = $1 AND name = $2)`, owner, newName)
		if err != nil {
			return errors.Wrap(err, "checking discipline")
		}
		if taken {
			return repository.ErrDisciplineExists
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE disciplines SET name = $1 WHERE user_id = $2 AND name = $3`, newName, owner, oldName)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrDisciplineExists
			}
			return errors.Wrap(err, "renaming discipline")
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE tasks SET discipline = $1 WHERE user_id = $2 AND discipline = $3`, newName, owner, oldName)
		if err != nil {
			return errors.Wrap(err, "moving tasks")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "moving tasks")
		}
		moved = int(affected)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}

// DeleteDiscipline removes a discipline. Tasks keep the name.
func (s *Store) DeleteDiscipline(ctx context.Context, owner, name string) (bool, error) {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	found := false
	err := s.withTx(ctx, "delete discipline", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM disciplines WHERE user_id = $1 AND name = $2`, owner, name)
		if err != nil {
			return errors.Wrap(err, "deleting discipline")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "deleting discipline")
		}
		found = affected > 0
		return nil
	})
	return found, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
