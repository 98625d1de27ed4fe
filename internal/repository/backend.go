// Package repository defines the storage contract shared by the task and
// discipline backends.
package repository

import (
	"context"
	"errors"
	"time"
)

// ErrDisciplineExists is returned by RenameDiscipline when the new name is
// already taken by the same owner.
var ErrDisciplineExists = errors.New("discipline already exists")

// DateEncoding tells how a backend persists due dates.
type DateEncoding int

const (
	// DateISO stores "2025-04-10".
	DateISO DateEncoding = iota
	// DateDisplay stores "10 de abril" together with a separate year.
	DateDisplay
)

// StatusEncoding tells how a backend persists task statuses.
type StatusEncoding int

const (
	// StatusToken stores "em_andamento".
	StatusToken StatusEncoding = iota
	// StatusLabel stores "em-andamento".
	StatusLabel
)

// Encoding describes the wire forms a backend expects in records.
type Encoding struct {
	Date   DateEncoding
	Status StatusEncoding
}

// TaskRecord is a task in its backend encoding.
type TaskRecord struct {
	ID          string
	Owner       string
	Title       string
	Description string
	Discipline  string
	Status      string
	DueDate     string
	// DueYear accompanies display dates; 0 when unknown.
	DueYear   int
	CreatedAt time.Time
}

// TaskChanges lists the record fields an update replaces. Nil fields are
// kept.
type TaskChanges struct {
	Title       *string
	Description *string
	Discipline  *string
	Status      *string
	DueDate     *string
	DueYear     *int
}

// IsEmpty reports whether the changes replace nothing.
func (c TaskChanges) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Discipline == nil &&
		c.Status == nil && c.DueDate == nil && c.DueYear == nil
}

// Apply merges the changes into rec.
func (c TaskChanges) Apply(rec *TaskRecord) {
	if c.Title != nil {
		rec.Title = *c.Title
	}
	if c.Description != nil {
		rec.Description = *c.Description
	}
	if c.Discipline != nil {
		rec.Discipline = *c.Discipline
	}
	if c.Status != nil {
		rec.Status = *c.Status
	}
	if c.DueDate != nil {
		rec.DueDate = *c.DueDate
	}
	if c.DueYear != nil {
		rec.DueYear = *c.DueYear
	}
}

// DisciplineRecord is a discipline as stored.
type DisciplineRecord struct {
	Owner string
	Name  string
}

// TaskBackend persists tasks. Every method is scoped to one owner; ids of
// other owners behave as missing.
type TaskBackend interface {
	// ListTasks returns the owner's tasks, newest first.
	ListTasks(ctx context.Context, owner string) ([]TaskRecord, error)
	CreateTask(ctx context.Context, rec TaskRecord) error
	// UpdateTask reports false without error when id does not exist.
	UpdateTask(ctx context.Context, owner, id string, changes TaskChanges) (bool, error)
	// DeleteTask reports false without error when id does not exist.
	DeleteTask(ctx context.Context, owner, id string) (bool, error)
}

// TaskImporter is implemented by backends that store a batch of tasks in one
// transaction.
type TaskImporter interface {
	// ImportTasks stores, under owner, the records whose ids are not taken
	// yet and returns how many were stored.
	ImportTasks(ctx context.Context, owner string, recs []TaskRecord) (int, error)
}

// DisciplineBackend persists disciplines.
type DisciplineBackend interface {
	ListDisciplines(ctx context.Context, owner string) ([]DisciplineRecord, error)
	// CreateDiscipline reports false without error when the name exists.
	CreateDiscipline(ctx context.Context, owner, name string) (bool, error)
	// RenameDiscipline renames the discipline and every task referencing
	// it in one transaction, returning the number of tasks moved.
	RenameDiscipline(ctx context.Context, owner, oldName, newName string) (int, error)
	// DeleteDiscipline never touches tasks.
	DeleteDiscipline(ctx context.Context, owner, name string) (bool, error)
}

// Watcher delivers changes made outside the current process.
type Watcher interface {
	// Watch blocks, calling fn for each change, until ctx is done.
	Watch(ctx context.Context, fn func(Change)) error
}

// Backend is a complete storage adapter.
type Backend interface {
	TaskBackend
	DisciplineBackend
	Watcher
	Encoding() Encoding
	Close() error
}
