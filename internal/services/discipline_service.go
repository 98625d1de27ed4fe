package services

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sort"

	"golang.org/x/text/cases"

	"task-viewer/internal/errors"
	"task-viewer/internal/logging"
	"task-viewer/internal/notify"
	"task-viewer/internal/ratelimit"
	"task-viewer/internal/repository"
	"task-viewer/internal/validation"
)

// AddDisciplineKeyPrefix prefixes the rate limit key of discipline creation.
const AddDisciplineKeyPrefix = "addDiscipline_"

// disciplineServiceImpl implements the DisciplineService interface
type disciplineServiceImpl struct {
	backend    repository.Backend
	validator  *validation.DisciplineValidator
	limiter    *ratelimit.Limiter
	policy     ratelimit.Policy
	registry   *notify.Registry
	taskEvents *notify.Registry
}

// NewDisciplineService creates a new DisciplineService. registry is notified
// after discipline writes and taskEvents after renames that move tasks.
func NewDisciplineService(backend repository.Backend, v *validation.Validator, limiter *ratelimit.Limiter,
	policy ratelimit.Policy, registry, taskEvents *notify.Registry) DisciplineService {
	if v == nil {
		v = validation.NewValidator()
	}
	if registry == nil {
		registry = notify.NewRegistry()
	}
	if taskEvents == nil {
		taskEvents = notify.NewRegistry()
	}
	return &disciplineServiceImpl{
		backend:    backend,
		validator:  validation.NewDisciplineValidator(v),
		limiter:    limiter,
		policy:     policy,
		registry:   registry,
		taskEvents: taskEvents,
	}
}

// List returns the owner's discipline names
func (d *disciplineServiceImpl) List(ctx context.Context, owner string) []string {
	records, err := d.backend.ListDisciplines(ctx, owner)
	if err != nil {
		slog.Error("failed to list disciplines", "owner", owner, "error", err)
		return []string{}
	}

	seen := make(map[string]bool, len(records))
	names := make([]string, 0, len(records))
	for _, r := range records {
		if !seen[r.Name] {
			seen[r.Name] = true
			names = append(names, r.Name)
		}
	}
	SortNames(names)
	return names
}

// SortNames orders names case-insensitively, breaking ties by byte order.
func SortNames(names []string) {
	fold := cases.Fold()
	keys := make(map[string]string, len(names))
	for _, n := range names {
		keys[n] = fold.String(n)
	}
	sort.SliceStable(names, func(i, j int) bool {
		a, b := keys[names[i]], keys[names[j]]
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
}

// Add creates a discipline
func (d *disciplineServiceImpl) Add(ctx context.Context, owner, name string) error {
	key := AddDisciplineKeyPrefix + owner
	if d.limiter != nil && !d.limiter.AllowPolicy(key, d.policy) {
		return errors.NewRateLimitError(key)
	}

	valid, err := d.validator.ValidateName(name)
	if err != nil {
		return errors.NewValidationError("invalid discipline", err)
	}

	created, err := d.backend.CreateDiscipline(ctx, owner, valid)
	if err != nil {
		logging.Report("failed to create discipline", err, "owner", owner)
		return err
	}
	if created {
		d.registry.NotifyOwner(owner)
	}
	return nil
}

// Rename renames a discipline and moves its tasks
func (d *disciplineServiceImpl) Rename(ctx context.Context, owner, oldName, newName string) error {
	valid, err := d.validator.ValidateName(newName)
	if err != nil {
		return errors.NewValidationError("invalid discipline", err)
	}
	if valid == oldName {
		return nil
	}

	moved, err := d.backend.RenameDiscipline(ctx, owner, oldName, valid)
	if stderrors.Is(err, repository.ErrDisciplineExists) {
		ve := validation.NewValidationError()
		ve.AddDuplicateError(validation.FieldName, valid)
		return errors.NewValidationError("invalid discipline", ve)
	}
	if err != nil {
		logging.Report("failed to rename discipline", err, "owner", owner)
		return err
	}

	d.registry.NotifyOwner(owner)
	if moved > 0 {
		d.taskEvents.NotifyOwner(owner)
	}
	return nil
}

// Delete removes a discipline without touching its tasks
func (d *disciplineServiceImpl) Delete(ctx context.Context, owner, name string) error {
	found, err := d.backend.DeleteDiscipline(ctx, owner, name)
	if err != nil {
		logging.Report("failed to delete discipline", err, "owner", owner)
		return err
	}
	if found {
		d.registry.NotifyOwner(owner)
	}
	return nil
}

// Subscribe registers a listener called after discipline changes
func (d *disciplineServiceImpl) Subscribe(fn notify.Listener) func() {
	return d.registry.Subscribe(fn)
}

// SubscribeOwner registers a listener called after changes to owner's
// disciplines
func (d *disciplineServiceImpl) SubscribeOwner(owner string, fn notify.Listener) func() {
	return d.registry.SubscribeOwner(owner, fn)
}
