package domain

// Statistics summarises an owner's tasks.
type Statistics struct {
	Total             int            `json:"total" yaml:"total"`
	Pending           int            `json:"pending" yaml:"pending"`
	InProgress        int            `json:"inProgress" yaml:"in_progress"`
	Completed         int            `json:"completed" yaml:"completed"`
	Disciplines       int            `json:"disciplines" yaml:"disciplines"`
	CompletedPercent  int            `json:"completedPercent" yaml:"completed_percent"`
	InProgressPercent int            `json:"inProgressPercent" yaml:"in_progress_percent"`
	ByDiscipline      map[string]int `json:"byDiscipline" yaml:"by_discipline"`
	DueByWeekday      map[string]int `json:"dueByWeekday" yaml:"due_by_weekday"`
}
