package repository

// Resource names a stored collection.
type Resource string

const (
	ResourceTasks       Resource = "tasks"
	ResourceDisciplines Resource = "disciplines"
)

// ChangeKind names the kind of write behind a Change.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
	// ChangeUnknown is used when a backend only knows that data moved.
	ChangeUnknown ChangeKind = "unknown"
)

// Change describes one write observed by a Watcher. Owner is empty when the
// backend cannot tell.
type Change struct {
	Resource Resource   `json:"resource"`
	Kind     ChangeKind `json:"kind"`
	Owner    string     `json:"owner,omitempty"`
}

// Affects reports whether the change may concern owner.
func (c Change) Affects(owner string) bool {
	return c.Owner == "" || owner == "" || c.Owner == owner
}
