package services

import (
	"context"
	"log/slog"

	"task-viewer/internal/notify"
	"task-viewer/internal/repository"
)

// Sync forwards changes reported by a backend watcher to the store
// registries, so subscribers also hear about writes made elsewhere.
type Sync struct {
	watcher     repository.Watcher
	tasks       *notify.Registry
	disciplines *notify.Registry
	owner       string
}

// NewSync creates a Sync delivering every change
func NewSync(watcher repository.Watcher, tasks, disciplines *notify.Registry) *Sync {
	return &Sync{watcher: watcher, tasks: tasks, disciplines: disciplines}
}

// ForOwner returns a copy that drops changes known to belong to other owners.
// Without it every change is forwarded, tagged with its owner, and the
// registries deliver it to the matching subscribers.
func (s *Sync) ForOwner(owner string) *Sync {
	c := *s
	c.owner = owner
	return &c
}

// Run blocks until ctx is done
func (s *Sync) Run(ctx context.Context) error {
	slog.Debug("change sync started", "owner", s.owner)
	defer slog.Debug("change sync stopped", "owner", s.owner)
	return s.watcher.Watch(ctx, s.Dispatch)
}

// Dispatch routes one change to the registry of its resource
func (s *Sync) Dispatch(change repository.Change) {
	if !change.Affects(s.owner) {
		return
	}
	switch change.Resource {
	case repository.ResourceTasks:
		s.tasks.NotifyOwner(change.Owner)
	case repository.ResourceDisciplines:
		s.disciplines.NotifyOwner(change.Owner)
	default:
		slog.Debug("change for unknown resource ignored", "resource", change.Resource)
	}
}
