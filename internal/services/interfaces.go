package services

import (
	"context"

	"task-viewer/internal/domain"
	"task-viewer/internal/notify"
)

// TaskService handles the task lifecycle of one owner at a time
type TaskService interface {
	// List returns the owner's tasks newest first. Backend failures are
	// logged and yield an empty list.
	List(ctx context.Context, owner string) []*domain.Task
	// Add validates the input, checks the discipline exists and stores a
	// pending task.
	Add(ctx context.Context, owner string, in domain.NewTask) (*domain.Task, error)
	// Update merges the provided fields. An unknown id is a no-op.
	Update(ctx context.Context, owner, id string, patch domain.TaskPatch) error
	ChangeStatus(ctx context.Context, owner, id string, status domain.TaskStatus) error
	// Delete removes a task. An unknown id is a no-op.
	Delete(ctx context.Context, owner, id string) error
	// Import validates exported tasks like Add does and stores the valid
	// ones, reporting the rows it skipped.
	Import(ctx context.Context, owner string, tasks []domain.ExportedTask) (*domain.ImportResult, error)
	// Subscribe hears every owner's changes.
	Subscribe(fn notify.Listener) (unsubscribe func())
	// SubscribeOwner hears owner's changes and changes of unknown owner.
	SubscribeOwner(owner string, fn notify.Listener) (unsubscribe func())
}

// DisciplineService handles the discipline set of one owner at a time
type DisciplineService interface {
	// List returns the owner's discipline names sorted and unique.
	List(ctx context.Context, owner string) []string
	// Add is rate limited per owner. Adding an existing name is a no-op.
	Add(ctx context.Context, owner, name string) error
	// Rename renames a discipline and every task that references it.
	Rename(ctx context.Context, owner, oldName, newName string) error
	// Delete removes a discipline and leaves its tasks untouched.
	Delete(ctx context.Context, owner, name string) error
	Subscribe(fn notify.Listener) (unsubscribe func())
	SubscribeOwner(owner string, fn notify.Listener) (unsubscribe func())
}

// SearchService filters an owner's tasks
type SearchService interface {
	Search(ctx context.Context, owner string, opts domain.SearchOptions) ([]*domain.Task, error)
	// DueOn returns the tasks due on an ISO date.
	DueOn(ctx context.Context, owner, isoDate string) ([]*domain.Task, error)
}

// ReportingService summarises an owner's tasks
type ReportingService interface {
	Statistics(ctx context.Context, owner string) *domain.Statistics
}
