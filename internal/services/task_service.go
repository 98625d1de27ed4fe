package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"task-viewer/internal/domain"
	"task-viewer/internal/errors"
	"task-viewer/internal/logging"
	"task-viewer/internal/notify"
	"task-viewer/internal/repository"
	"task-viewer/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	backend       repository.Backend
	mapper        *TaskMapper
	taskValidator *validation.TaskValidator
	registry      *notify.Registry
	now           func() time.Time
}

// NewTaskService creates a new TaskService instance. Subscribers of
// registry are notified after every write.
func NewTaskService(backend repository.Backend, v *validation.Validator, registry *notify.Registry) TaskService {
	if v == nil {
		v = validation.NewValidator()
	}
	if registry == nil {
		registry = notify.NewRegistry()
	}
	return &taskServiceImpl{
		backend:       backend,
		mapper:        NewTaskMapper(backend.Encoding(), v.Dates()),
		taskValidator: validation.NewTaskValidator(v),
		registry:      registry,
		now:           v.Dates().Now,
	}
}

// List returns the owner's tasks, newest first
func (t *taskServiceImpl) List(ctx context.Context, owner string) []*domain.Task {
	records, err := t.backend.ListTasks(ctx, owner)
	if err != nil {
		slog.Error("failed to list tasks", "owner", owner, "error", err)
		return []*domain.Task{}
	}
	return t.mapper.FromRecords(records)
}

// Add creates a pending task
func (t *taskServiceImpl) Add(ctx context.Context, owner string, in domain.NewTask) (*domain.Task, error) {
	valid, err := t.taskValidator.ValidateNewTask(in)
	if err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}

	exists, err := t.disciplineExists(ctx, owner, valid.Discipline)
	if err != nil {
		return nil, err
	}
	if !exists {
		ve := validation.NewValidationError()
		ve.AddInvalidValueError(validation.FieldDiscipline, valid.Discipline, "discipline does not exist")
		return nil, errors.NewValidationError("invalid task", ve)
	}

	task := &domain.Task{
		ID:          uuid.NewString(),
		Owner:       owner,
		Title:       valid.Title,
		Description: valid.Description,
		Discipline:  valid.Discipline,
		Status:      domain.StatusPending,
		DueOn:       valid.DueDate,
		CreatedAt:   t.now().UTC(),
	}
	rec := t.mapper.ToRecord(task)

	if err := t.backend.CreateTask(ctx, rec); err != nil {
		logging.Report("failed to create task", err, "owner", owner)
		return nil, err
	}

	t.registry.NotifyOwner(owner)
	return t.mapper.FromRecord(rec), nil
}

func (t *taskServiceImpl) disciplineExists(ctx context.Context, owner, name string) (bool, error) {
	disciplines, err := t.backend.ListDisciplines(ctx, owner)
	if err != nil {
		return false, err
	}
	for _, d := range disciplines {
		if d.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// Update merges the patch into the task
func (t *taskServiceImpl) Update(ctx context.Context, owner, id string, patch domain.TaskPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	changes, err := t.changesFromPatch(patch)
	if err != nil {
		return errors.NewValidationError("invalid task update", err)
	}

	found, err := t.backend.UpdateTask(ctx, owner, id, changes)
	if err != nil {
		logging.Report("failed to update task", err, "owner", owner, "task", id)
		return err
	}
	if !found {
		slog.Debug("update of unknown task ignored", "owner", owner, "task", id)
		return nil
	}

	t.registry.NotifyOwner(owner)
	return nil
}

func (t *taskServiceImpl) changesFromPatch(patch domain.TaskPatch) (repository.TaskChanges, error) {
	ve := validation.NewValidationError()
	var changes repository.TaskChanges

	if patch.Title != nil {
		title, err := t.taskValidator.ValidateTitle(*patch.Title)
		ve.Merge(err)
		changes.Title = &title
	}
	if patch.Description != nil {
		description, err := t.taskValidator.ValidateDescription(*patch.Description)
		ve.Merge(err)
		changes.Description = &description
	}
	if patch.Discipline != nil {
		discipline, err := t.taskValidator.ValidateDiscipline(*patch.Discipline)
		ve.Merge(err)
		changes.Discipline = &discipline
	}
	if patch.Status != nil {
		status, err := t.taskValidator.ValidateStatus(*patch.Status)
		ve.Merge(err)
		value := t.mapper.StatusValue(status)
		changes.Status = &value
	}
	if patch.DueDate != nil {
		iso, err := t.taskValidator.ValidateDueDate(*patch.DueDate)
		ve.Merge(err)
		due, year := t.mapper.DueValue(iso)
		changes.DueDate = &due
		if year != 0 {
			changes.DueYear = &year
		}
	}

	if ve.HasErrors() {
		return repository.TaskChanges{}, ve
	}
	return changes, nil
}

// ChangeStatus moves a task to another status
func (t *taskServiceImpl) ChangeStatus(ctx context.Context, owner, id string, status domain.TaskStatus) error {
	return t.Update(ctx, owner, id, domain.StatusPatch(status))
}

// Delete removes a task
func (t *taskServiceImpl) Delete(ctx context.Context, owner, id string) error {
	found, err := t.backend.DeleteTask(ctx, owner, id)
	if err != nil {
		logging.Report("failed to delete task", err, "owner", owner, "task", id)
		return err
	}
	if !found {
		slog.Debug("delete of unknown task ignored", "owner", owner, "task", id)
	}

	t.registry.NotifyOwner(owner)
	return nil
}

// Subscribe registers a listener called after task changes
func (t *taskServiceImpl) Subscribe(fn notify.Listener) func() {
	return t.registry.Subscribe(fn)
}

// SubscribeOwner registers a listener called after changes to owner's tasks
func (t *taskServiceImpl) SubscribeOwner(owner string, fn notify.Listener) func() {
	return t.registry.SubscribeOwner(owner, fn)
}
