package domain

import "time"

// TaskStatus is the status label shown to users.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pendente"
	StatusInProgress TaskStatus = "em-andamento"
	StatusCompleted  TaskStatus = "concluída"
)

// AllStatuses returns every status label in workflow order.
func AllStatuses() []TaskStatus {
	return []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}
}

// IsValid reports whether s is one of the known status labels.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// String returns the status label.
func (s TaskStatus) String() string {
	return string(s)
}

// Task represents a student task in the domain model.
// DueDate is the display form ("10 de abril"); DueOn carries the same day as
// an ISO date with its year, empty when no date was asserted.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Owner       string     `json:"owner" yaml:"owner"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Discipline  string     `json:"discipline" yaml:"discipline"`
	Status      TaskStatus `json:"status" yaml:"status"`
	DueDate     string     `json:"dueDate" yaml:"due_date"`
	DueOn       string     `json:"dueOn,omitempty" yaml:"due_on,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"created_at"`
}

// IsValid checks if the task has the fields every stored task must carry.
func (t Task) IsValid() bool {
	return t.ID != "" && t.Title != "" && t.Status.IsValid()
}

// IsDone reports whether the task is completed.
func (t Task) IsDone() bool {
	return t.Status == StatusCompleted
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}

// NewTask is the input for creating a task. The status is not part of it:
// every new task starts pending.
type NewTask struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description"`
	Discipline  string `json:"discipline" validate:"notblank"`
	DueDate     string `json:"dueDate" validate:"notblank"`
}

// TaskPatch carries the fields of a partial task update. Nil fields are left
// untouched.
type TaskPatch struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,notblank"`
	Description *string `json:"description,omitempty"`
	Discipline  *string `json:"discipline,omitempty" validate:"omitempty,notblank"`
	Status      *string `json:"status,omitempty" validate:"omitempty,status"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Discipline == nil &&
		p.Status == nil && p.DueDate == nil
}

// StatusPatch builds a patch that only changes the status.
func StatusPatch(status TaskStatus) TaskPatch {
	s := string(status)
	return TaskPatch{Status: &s}
}
