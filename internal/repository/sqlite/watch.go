package sqlite

import (
	"context"
	"log/slog"
	"time"

	"task-viewer/internal/repository"
)

var keyResources = map[string]repository.Resource{
	TasksKey:       repository.ResourceTasks,
	DisciplinesKey: repository.ResourceDisciplines,
}

// Watch polls key revisions every WatchInterval and reports writes made by
// other Stores on the same file. Its own writes are skipped; callers are
// notified of those in-process.
func (s *Store) Watch(ctx context.Context, fn func(repository.Change)) error {
	seen, err := s.revisions(ctx)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(s.opts.WatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		current, err := s.revisions(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Warn("poll revisions failed", "path", s.opts.Path, "error", err)
			continue
		}

		for key, rev := range current {
			prev, ok := seen[key]
			if ok && prev.Revision == rev.Revision {
				continue
			}
			seen[key] = rev
			if rev.Writer == s.writer {
				continue
			}
			resource, known := keyResources[key]
			if !known {
				continue
			}
			fn(repository.Change{Resource: resource, Kind: repository.ChangeUnknown})
		}
	}
}

func (s *Store) revisions(ctx context.Context) (map[string]*revision, error) {
	ctx, cancel := s.readContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT key, revision, writer FROM kv`)
	if err != nil {
		return nil, HandleDatabaseError("poll revisions", err)
	}
	defer rows.Close()

	list, err := ScanRevisions(rows)
	if err != nil {
		return nil, HandleDatabaseError("poll revisions", err)
	}

	byKey := make(map[string]*revision, len(list))
	for _, r := range list {
		byKey[r.Key] = r
	}
	return byKey, nil
}
