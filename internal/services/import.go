package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"task-viewer/internal/domain"
	"task-viewer/internal/logging"
	"task-viewer/internal/repository"
	"task-viewer/internal/validation"
)

// importNamespace derives task ids from export ids that are not UUIDs, so
// importing the same export twice finds the first copy.
var importNamespace = uuid.MustParse("5b0c4f4e-7f0d-4c43-9d43-8a54d8e0c2a1")

// ImportID returns the task id an exported task is stored under.
func ImportID(owner, exportID string) string {
	if id, err := uuid.Parse(exportID); err == nil {
		return id.String()
	}
	return uuid.NewSHA1(importNamespace, []byte(owner+"/"+exportID)).String()
}

// Import stores the exported tasks that pass the same checks as Add. Rows
// without an id, failing validation, naming an unknown discipline or
// already stored are skipped. Subscribers are notified once.
func (t *taskServiceImpl) Import(ctx context.Context, owner string, tasks []domain.ExportedTask) (*domain.ImportResult, error) {
	disciplines, err := t.backend.ListDisciplines(ctx, owner)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(disciplines))
	for _, d := range disciplines {
		known[d.Name] = true
	}

	stored, err := t.backend.ListTasks(ctx, owner)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(stored))
	for _, rec := range stored {
		taken[rec.ID] = true
	}

	result := &domain.ImportResult{Skipped: []domain.ImportSkip{}}
	records := make([]repository.TaskRecord, 0, len(tasks))
	for _, in := range tasks {
		rec, reason := t.importRecord(owner, in, known)
		if reason == "" && taken[rec.ID] {
			reason = "already imported"
		}
		if reason != "" {
			result.Skipped = append(result.Skipped, domain.ImportSkip{ID: string(in.ID), Reason: reason})
			continue
		}
		taken[rec.ID] = true
		records = append(records, rec)
	}

	if len(records) == 0 {
		return result, nil
	}
	imported, err := t.storeBatch(ctx, owner, records)
	if imported > 0 {
		t.registry.NotifyOwner(owner)
	}
	if err != nil {
		logging.Report("failed to import tasks", err, "owner", owner, "imported", imported)
		return nil, err
	}
	result.Imported = imported
	return result, nil
}

// importRecord returns the record for in, or the reason it is skipped.
func (t *taskServiceImpl) importRecord(owner string, in domain.ExportedTask, known map[string]bool) (repository.TaskRecord, string) {
	if in.ID == "" {
		return repository.TaskRecord{}, "missing id"
	}

	valid, err := t.taskValidator.ValidateNewTask(domain.NewTask{
		Title:       in.Title,
		Description: in.Description,
		Discipline:  in.Discipline,
		DueDate:     in.DueDate,
	})
	if err != nil {
		return repository.TaskRecord{}, reasonOf(err)
	}
	if !known[valid.Discipline] {
		return repository.TaskRecord{}, fmt.Sprintf("discipline %s does not exist", valid.Discipline)
	}

	status := domain.StatusPending
	if in.Status != "" {
		if status, err = t.taskValidator.ValidateStatus(in.Status); err != nil {
			return repository.TaskRecord{}, reasonOf(err)
		}
	}

	return t.mapper.ToRecord(&domain.Task{
		ID:          ImportID(owner, string(in.ID)),
		Owner:       owner,
		Title:       valid.Title,
		Description: valid.Description,
		Discipline:  valid.Discipline,
		Status:      status,
		DueOn:       valid.DueDate,
		CreatedAt:   t.now().UTC(),
	}), ""
}

// storeBatch writes records in one transaction when the backend supports it
// and one by one otherwise.
func (t *taskServiceImpl) storeBatch(ctx context.Context, owner string, records []repository.TaskRecord) (int, error) {
	if importer, ok := t.backend.(repository.TaskImporter); ok {
		return importer.ImportTasks(ctx, owner, records)
	}
	for i, rec := range records {
		if err := t.backend.CreateTask(ctx, rec); err != nil {
			return i, err
		}
	}
	return len(records), nil
}

func reasonOf(err error) string {
	if ve, ok := validation.AsValidationError(err); ok {
		return ve.Summary()
	}
	return err.Error()
}
