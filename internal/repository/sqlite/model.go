package sqlite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"task-viewer/internal/repository"
)

// Keys of the two stored collections.
const (
	TasksKey       = "task-viewer-tasks"
	DisciplinesKey = "task-viewer-disciplines"
)

// storedID accepts both the string ids written by this package and the
// numeric millisecond ids of older task lists.
type storedID string

func (id *storedID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = storedID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("task id must be a string or number: %w", err)
	}
	*id = storedID(n.String())
	return nil
}

// storedTask is one element of the JSON array under TasksKey.
type storedTask struct {
	ID          storedID `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Discipline  string   `json:"discipline"`
	Status      string   `json:"status"`
	DueDate     string   `json:"dueDate"`
	Owner       string   `json:"owner,omitempty"`
	DueYear     int      `json:"dueYear,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

// storedDiscipline is one element of the JSON array under DisciplinesKey.
type storedDiscipline struct {
	Owner string `json:"owner,omitempty"`
	Name  string `json:"name"`
}

func (t storedTask) toRecord() repository.TaskRecord {
	rec := repository.TaskRecord{
		ID:          string(t.ID),
		Owner:       t.Owner,
		Title:       t.Title,
		Description: t.Description,
		Discipline:  t.Discipline,
		Status:      t.Status,
		DueDate:     t.DueDate,
		DueYear:     t.DueYear,
	}
	if created, err := ParseTimeFromDB(t.CreatedAt); err == nil {
		rec.CreatedAt = created
	}
	return rec
}

func fromRecord(rec repository.TaskRecord) storedTask {
	t := storedTask{
		ID:          storedID(rec.ID),
		Title:       rec.Title,
		Description: rec.Description,
		Discipline:  rec.Discipline,
		Status:      rec.Status,
		DueDate:     rec.DueDate,
		Owner:       rec.Owner,
		DueYear:     rec.DueYear,
	}
	if !rec.CreatedAt.IsZero() {
		t.CreatedAt = FormatTimeForDB(rec.CreatedAt)
	}
	return t
}
