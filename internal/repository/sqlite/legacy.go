package sqlite

import (
	"context"
	"database/sql"
	"time"

	"task-viewer/internal/codec"
)

// backfillDueYear rewrites task lists written before due years were stored:
// ISO due dates become display dates with their year, display dates without
// a year get the current one, and storage status tokens become labels.
func (s *Store) backfillDueYear(ctx context.Context, tx *sql.Tx) error {
	var tasks []storedTask
	if err := loadKey(ctx, tx, TasksKey, &tasks); err != nil {
		return err
	}

	changed := false
	for i := range tasks {
		if normalizeLegacyTask(&tasks[i], s.now().Year()) {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.saveKey(ctx, tx, TasksKey, tasks)
}

func normalizeLegacyTask(t *storedTask, currentYear int) bool {
	changed := false

	if codec.IsISO(t.DueDate) {
		day, _ := time.Parse(codec.ISOLayout, t.DueDate)
		t.DueDate = codec.FormatDisplay(day)
		t.DueYear = day.Year()
		changed = true
	} else if t.DueDate != "" && t.DueYear == 0 {
		t.DueYear = currentYear
		changed = true
	}

	if codec.IsKnownToken(t.Status) && string(codec.StatusFromStorage(t.Status)) != t.Status {
		t.Status = string(codec.StatusFromStorage(t.Status))
		changed = true
	}

	return changed
}
