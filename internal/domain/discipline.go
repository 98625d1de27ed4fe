package domain

// Discipline is a named subject grouping tasks. The name is its identity
// within an owner's scope.
type Discipline struct {
	Owner string `json:"owner" yaml:"owner"`
	Name  string `json:"name" yaml:"name"`
}

// NewDiscipline is the input for creating a discipline.
type NewDiscipline struct {
	Name string `json:"name" validate:"notblank"`
}

// DisciplineRename is the input for renaming a discipline.
type DisciplineRename struct {
	NewName string `json:"newName" validate:"notblank"`
}
