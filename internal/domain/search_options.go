package domain

// SearchOptions represents the filters applied to an owner's task list.
// Empty fields do not filter.
type SearchOptions struct {
	// Text matches title, description or discipline, case-insensitively.
	Text string
	// DueOn selects tasks due on an ISO date (YYYY-MM-DD).
	DueOn string
	// Discipline selects tasks of one discipline, exact match.
	Discipline string
	Status     *TaskStatus
}

// IsEmpty reports whether no filter is set.
func (o SearchOptions) IsEmpty() bool {
	return o.Text == "" && o.DueOn == "" && o.Discipline == "" && o.Status == nil
}
