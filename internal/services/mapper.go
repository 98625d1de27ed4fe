package services

import (
	"log/slog"
	"time"

	"task-viewer/internal/codec"
	"task-viewer/internal/domain"
	"task-viewer/internal/repository"
)

// TaskMapper converts between domain tasks and backend records using the
// backend's encoding.
type TaskMapper struct {
	encoding repository.Encoding
	dates    *codec.DateCodec
}

// NewTaskMapper creates a mapper for a backend encoding
func NewTaskMapper(encoding repository.Encoding, dates *codec.DateCodec) *TaskMapper {
	if dates == nil {
		dates = codec.NewDateCodec()
	}
	return &TaskMapper{encoding: encoding, dates: dates}
}

// FromRecord converts a backend record to a domain task
func (m *TaskMapper) FromRecord(rec repository.TaskRecord) *domain.Task {
	task := &domain.Task{
		ID:          rec.ID,
		Owner:       rec.Owner,
		Title:       rec.Title,
		Description: rec.Description,
		Discipline:  rec.Discipline,
		Status:      m.statusFromRecord(rec),
		CreatedAt:   rec.CreatedAt,
	}

	switch m.encoding.Date {
	case repository.DateISO:
		task.DueDate = m.dates.ToDisplay(rec.DueDate)
		if codec.IsISO(rec.DueDate) {
			task.DueOn = rec.DueDate
		}
	case repository.DateDisplay:
		task.DueDate = rec.DueDate
		if rec.DueYear > 0 {
			task.DueOn, _ = m.dates.ToISOInYear(rec.DueDate, rec.DueYear)
		} else {
			task.DueOn, _ = m.dates.ToISO(rec.DueDate)
		}
	}

	return task
}

// FromRecords converts a slice of records
func (m *TaskMapper) FromRecords(recs []repository.TaskRecord) []*domain.Task {
	tasks := make([]*domain.Task, len(recs))
	for i, rec := range recs {
		tasks[i] = m.FromRecord(rec)
	}
	return tasks
}

func (m *TaskMapper) statusFromRecord(rec repository.TaskRecord) domain.TaskStatus {
	if m.encoding.Status == repository.StatusLabel {
		if label := domain.TaskStatus(rec.Status); label.IsValid() {
			return label
		}
	}
	if !codec.IsKnownToken(rec.Status) {
		slog.Debug("unknown stored status read as pending", "task", rec.ID, "status", rec.Status)
	}
	return codec.StatusFromStorage(rec.Status)
}

// StatusValue encodes a status for the backend
func (m *TaskMapper) StatusValue(status domain.TaskStatus) string {
	if m.encoding.Status == repository.StatusToken {
		return codec.StatusToStorage(status)
	}
	return status.String()
}

// DueValue encodes an ISO due date for the backend. The year is 0 for
// backends that store ISO dates.
func (m *TaskMapper) DueValue(iso string) (string, int) {
	if iso == "" || m.encoding.Date == repository.DateISO {
		return iso, 0
	}
	day, err := time.Parse(codec.ISOLayout, iso)
	if err != nil {
		return iso, 0
	}
	return codec.FormatDisplay(day), day.Year()
}

// ToRecord encodes a new task for the backend
func (m *TaskMapper) ToRecord(task *domain.Task) repository.TaskRecord {
	due, year := m.DueValue(task.DueOn)
	return repository.TaskRecord{
		ID:          task.ID,
		Owner:       task.Owner,
		Title:       task.Title,
		Description: task.Description,
		Discipline:  task.Discipline,
		Status:      m.StatusValue(task.Status),
		DueDate:     due,
		DueYear:     year,
		CreatedAt:   task.CreatedAt,
	}
}
