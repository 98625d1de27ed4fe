package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"task-viewer/internal/repository"
)

// ListTasks returns the owner's tasks, newest first. Tasks without a
// creation time keep their stored order after the dated ones.
func (s *Store) ListTasks(ctx context.Context, owner string) ([]repository.TaskRecord, error) {
	ctx, cancel := s.readContext(ctx)
	defer cancel()

	var stored []storedTask
	if err := loadKey(ctx, s.db, TasksKey, &stored); err != nil {
		return nil, HandleDatabaseError("list tasks", err)
	}

	records := make([]repository.TaskRecord, 0, len(stored))
	for _, t := range stored {
		if t.Owner == owner {
			records = append(records, t.toRecord())
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// CreateTask appends a task to the stored list
func (s *Store) CreateTask(ctx context.Context, rec repository.TaskRecord) error {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	return s.withTx(ctx, "create task", func(tx *sql.Tx) error {
		var stored []storedTask
		if err := loadKey(ctx, tx, TasksKey, &stored); err != nil {
			return err
		}
		for _, t := range stored {
			if string(t.ID) == rec.ID {
				return fmt.Errorf("task id %s already stored", rec.ID)
			}
		}
		stored = append(stored, fromRecord(rec))
		return s.saveKey(ctx, tx, TasksKey, stored)
	})
}

// UpdateTask merges changes into the owner's task with the given id
func (s *Store) UpdateTask(ctx context.Context, owner, id string, changes repository.TaskChanges) (bool, error) {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	found := false
	err := s.withTx(ctx, "update task", func(tx *sql.Tx) error {
		var stored []storedTask
		if err := loadKey(ctx, tx, TasksKey, &stored); err != nil {
			return err
		}
		for i, t := range stored {
			if string(t.ID) != id || t.Owner != owner {
				continue
			}
			rec := t.toRecord()
			changes.Apply(&rec)
			stored[i] = fromRecord(rec)
			found = true
			break
		}
		if !found {
			return nil
		}
		return s.saveKey(ctx, tx, TasksKey, stored)
	})
	return found, err
}

// DeleteTask removes the owner's task with the given id
func (s *Store) DeleteTask(ctx context.Context, owner, id string) (bool, error) {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	found := false
	err := s.withTx(ctx, "delete task", func(tx *sql.Tx) error {
		var stored []storedTask
		if err := loadKey(ctx, tx, TasksKey, &stored); err != nil {
			return err
		}
		kept := stored[:0]
		for _, t := range stored {
			if string(t.ID) == id && t.Owner == owner {
				found = true
				continue
			}
			kept = append(kept, t)
		}
		if !found {
			return nil
		}
		return s.saveKey(ctx, tx, TasksKey, kept)
	})
	return found, err
}

// ImportTasks appends, under owner and in one transaction, the records
// whose ids are not stored yet. Records are stored as given: callers
// validate and encode them first.
func (s *Store) ImportTasks(ctx context.Context, owner string, recs []repository.TaskRecord) (int, error) {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	imported := 0
	err := s.withTx(ctx, "import tasks", func(tx *sql.Tx) error {
		var stored []storedTask
		if err := loadKey(ctx, tx, TasksKey, &stored); err != nil {
			return err
		}
		existing := make(map[storedID]bool, len(stored))
		for _, t := range stored {
			existing[t.ID] = true
		}
		for _, rec := range recs {
			t := fromRecord(rec)
			if t.ID == "" || existing[t.ID] {
				continue
			}
			t.Owner = owner
			stored = append(stored, t)
			existing[t.ID] = true
			imported++
		}
		if imported == 0 {
			return nil
		}
		return s.saveKey(ctx, tx, TasksKey, stored)
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}
