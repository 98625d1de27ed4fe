package services

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"task-viewer/internal/codec"
	"task-viewer/internal/domain"
	"task-viewer/internal/errors"
	"task-viewer/internal/validation"
)

// searchServiceImpl implements the SearchService interface
type searchServiceImpl struct {
	taskService TaskService
}

// NewSearchService creates a new SearchService instance
func NewSearchService(taskService TaskService) SearchService {
	return &searchServiceImpl{taskService: taskService}
}

// Search returns the owner's tasks matching every set filter, newest first
func (s *searchServiceImpl) Search(ctx context.Context, owner string, opts domain.SearchOptions) ([]*domain.Task, error) {
	if opts.DueOn != "" && !codec.IsISO(opts.DueOn) {
		ve := validation.NewValidationError()
		ve.AddInvalidFormatError(validation.FieldDueDate, opts.DueOn, "YYYY-MM-DD")
		return nil, errors.NewValidationError("invalid search", ve)
	}
	if opts.Status != nil && !opts.Status.IsValid() {
		ve := validation.NewValidationError()
		ve.AddInvalidValueError(validation.FieldStatus, *opts.Status, "unknown status")
		return nil, errors.NewValidationError("invalid search", ve)
	}

	tasks := s.taskService.List(ctx, owner)
	if opts.IsEmpty() {
		return tasks, nil
	}

	text := cases.Fold().String(strings.TrimSpace(opts.Text))
	matched := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if matchesTask(task, opts, text) {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

// DueOn returns the tasks due on isoDate
func (s *searchServiceImpl) DueOn(ctx context.Context, owner, isoDate string) ([]*domain.Task, error) {
	if isoDate == "" {
		ve := validation.NewValidationError()
		ve.AddRequiredError(validation.FieldDueDate)
		return nil, errors.NewValidationError("invalid search", ve)
	}
	return s.Search(ctx, owner, domain.SearchOptions{DueOn: isoDate})
}

func matchesTask(task *domain.Task, opts domain.SearchOptions, foldedText string) bool {
	if opts.DueOn != "" && task.DueOn != opts.DueOn {
		return false
	}
	if opts.Discipline != "" && task.Discipline != opts.Discipline {
		return false
	}
	if opts.Status != nil && task.Status != *opts.Status {
		return false
	}
	if foldedText == "" {
		return true
	}

	fold := cases.Fold()
	for _, field := range []string{task.Title, task.Description, task.Discipline} {
		if strings.Contains(fold.String(field), foldedText) {
			return true
		}
	}
	return false
}
