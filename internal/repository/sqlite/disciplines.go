package sqlite

import (
	"context"
	"database/sql"

	"task-viewer/internal/repository"
)

// ListDisciplines returns the owner's disciplines in stored order
func (s *Store) ListDisciplines(ctx context.Context, owner string) ([]repository.DisciplineRecord, error) {
	ctx, cancel := s.readContext(ctx)
	defer cancel()

	var stored []storedDiscipline
	if err := loadKey(ctx, s.db, DisciplinesKey, &stored); err != nil {
		return nil, HandleDatabaseError("list disciplines", err)
	}

	records := make([]repository.DisciplineRecord, 0, len(stored))
	for _, d := range stored {
		if d.Owner == owner {
			records = append(records, repository.DisciplineRecord{Owner: d.Owner, Name: d.Name})
		}
	}
	return records, nil
}

// CreateDiscipline adds a discipline unless the owner already has one with that name
func (s *Store) CreateDiscipline(ctx context.Context, owner, name string) (bool, error) {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	created := false
	err := s.withTx(ctx, "create discipline", func(tx *sql.Tx) error {
		var stored []storedDiscipline
		if err := loadKey(ctx, tx, DisciplinesKey, &stored); err != nil {
			return err
		}
		if indexOfDiscipline(stored, owner, name) >= 0 {
			return nil
		}
		stored = append(stored, storedDiscipline{Owner: owner, Name: name})
		created = true
		return s.saveKey(ctx, tx, DisciplinesKey, stored)
	})
	return created, err
}

// RenameDiscipline renames a discipline and moves its tasks in one transaction
func (s *Store) RenameDiscipline(ctx context.Context, owner, oldName, newName string) (int, error) {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	moved := 0
	err := s.withTx(ctx, "rename discipline", func(tx *sql.Tx) error {
		var disciplines []storedDiscipline
		if err := loadKey(ctx, tx, DisciplinesKey, &disciplines); err != nil {
			return err
		}
		if indexOfDiscipline(disciplines, owner, newName) >= 0 {
			return repository.ErrDisciplineExists
		}

		var tasks []storedTask
		if err := loadKey(ctx, tx, TasksKey, &tasks); err != nil {
			return err
		}

		if i := indexOfDiscipline(disciplines, owner, oldName); i >= 0 {
			disciplines[i].Name = newName
			if err := s.saveKey(ctx, tx, DisciplinesKey, disciplines); err != nil {
				return err
			}
		}

		for i := range tasks {
			if tasks[i].Owner == owner && tasks[i].Discipline == oldName {
				tasks[i].Discipline = newName
				moved++
			}
		}
		if moved == 0 {
			return nil
		}
		return s.saveKey(ctx, tx, TasksKey, tasks)
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
	err := s.withTx(ctx, "delete discipline", func(tx *sql.Tx) error {
		var stored []storedDiscipline
		if err := loadKey(ctx, tx, DisciplinesKey, &stored); err != nil {
			return err
		}
		i := indexOfDiscipline(stored, owner, name)
		if i < 0 {
			return nil
		}
		found = true
		stored = append(stored[:i], stored[i+1:]...)
		return s.saveKey(ctx, tx, DisciplinesKey, stored)
	})
	return found, err
}

func indexOfDiscipline(stored []storedDiscipline, owner, name string) int {
	for i, d := range stored {
		if d.Owner == owner && d.Name == name {
			return i
		}
	}
	return -1
}
