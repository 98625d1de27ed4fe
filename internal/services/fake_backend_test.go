package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"task-viewer/internal/repository"
)

// memoryBackend is an in-process Backend using the remote encoding. Setting
// err makes every call fail.
type memoryBackend struct {
	mu          sync.Mutex
	tasks       []repository.TaskRecord
	disciplines []repository.DisciplineRecord
	encoding    repository.Encoding
	err         error
	changes     chan repository.Change
}

var errBackendDown = errors.New("backend down")

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{
		encoding: repository.Encoding{Date: repository.DateISO, Status: repository.StatusToken},
		changes:  make(chan repository.Change, 16),
	}
}

func (b *memoryBackend) ListTasks(ctx context.Context, owner string) ([]repository.TaskRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	var out []repository.TaskRecord
	for _, t := range b.tasks {
		if t.Owner == owner {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (b *memoryBackend) CreateTask(ctx context.Context, rec repository.TaskRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.tasks = append(b.tasks, rec)
	return nil
}

func (b *memoryBackend) UpdateTask(ctx context.Context, owner, id string, changes repository.TaskChanges) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return false, b.err
	}
	for i := range b.tasks {
		if b.tasks[i].ID == id && b.tasks[i].Owner == owner {
			changes.Apply(&b.tasks[i])
			return true, nil
		}
	}
	return false, nil
}

func (b *memoryBackend) DeleteTask(ctx context.Context, owner, id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return false, b.err
	}
	for i, t := range b.tasks {
		if t.ID == id && t.Owner == owner {
			b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (b *memoryBackend) ListDisciplines(ctx context.Context, owner string) ([]repository.DisciplineRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	var out []repository.DisciplineRecord
	for _, d := range b.disciplines {
		if d.Owner == owner {
			out = append(out, d)
		}
	}
	return out, nil
}

func (b *memoryBackend) CreateDiscipline(ctx context.Context, owner, name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return false, b.err
	}
	for _, d := range b.disciplines {
		if d.Owner == owner && d.Name == name {
			return false, nil
		}
	}
	b.disciplines = append(b.disciplines, repository.DisciplineRecord{Owner: owner, Name: name})
	return true, nil
}

func (b *memoryBackend) RenameDiscipline(ctx context.Context, owner, oldName, newName string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return 0, b.err
	}
	for _, d := range b.disciplines {
		if d.Owner == owner && d.Name == newName {
			return 0, repository.ErrDisciplineExists
		}
	}
	for i := range b.disciplines {
		if b.disciplines[i].Owner == owner && b.disciplines[i].Name == oldName {
			b.disciplines[i].Name = newName
		}
	}
	moved := 0
	for i := range b.tasks {
		if b.tasks[i].Owner == owner && b.tasks[i].Discipline == oldName {
			b.tasks[i].Discipline = newName
			moved++
		}
	}
	return moved, nil
}

func (b *memoryBackend) DeleteDiscipline(ctx context.Context, owner, name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return false, b.err
	}
	for i, d := range b.disciplines {
		if d.Owner == owner && d.Name == name {
			b.disciplines = append(b.disciplines[:i], b.disciplines[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (b *memoryBackend) Watch(ctx context.Context, fn func(repository.Change)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-b.changes:
			fn(c)
		}
	}
}

func (b *memoryBackend) Encoding() repository.Encoding { return b.encoding }

func (b *memoryBackend) Close() error { return nil }

func (b *memoryBackend) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}
