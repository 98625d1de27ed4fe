package validation

import (
	"task-viewer/internal/codec"
	"task-viewer/internal/domain"
)

// Field names reported in task validation errors.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDiscipline  = "discipline"
	FieldDueDate     = "dueDate"
	FieldStatus      = "status"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator  *Validator
	discipline *DisciplineValidator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator(v *Validator) *TaskValidator {
	if v == nil {
		v = NewValidator()
	}
	return &TaskValidator{
		validator:  v,
		discipline: NewDisciplineValidator(v),
	}
}

// ValidateTitle sanitizes a title and checks it is present and short enough.
// On a length error the returned string is the sanitized title truncated to
// the limit.
func (tv *TaskValidator) ValidateTitle(title string) (string, error) {
	sanitized := Sanitize(title)
	ve := NewValidationError()

	if sanitized == "" {
		ve.AddRequiredError(FieldTitle)
		return "", ve
	}

	max := tv.validator.getTitleMaxLength()
	if !tv.validator.IsValidStringLength(sanitized, max) {
		truncated := Truncate(sanitized, max)
		ve.AddInvalidLengthError(FieldTitle, truncated, 0, max)
		return truncated, ve
	}

	return sanitized, nil
}

// ValidateDescription sanitizes a description. Empty is allowed.
func (tv *TaskValidator) ValidateDescription(description string) (string, error) {
	sanitized := Sanitize(description)

	max := tv.validator.getDescriptionMaxLength()
	if !tv.validator.IsValidStringLength(sanitized, max) {
		truncated := Truncate(sanitized, max)
		ve := NewValidationError()
		ve.AddInvalidLengthError(FieldDescription, truncated, 0, max)
		return truncated, ve
	}

	return sanitized, nil
}

// ValidateDate checks a due date is present, parseable and inside the
// accepted window.
func (tv *TaskValidator) ValidateDate(date string) error {
	_, err := tv.ValidateDueDate(date)
	return err
}

// ValidateDueDate validates a due date and returns it as an ISO date.
func (tv *TaskValidator) ValidateDueDate(date string) (string, error) {
	ve := NewValidationError()

	if !tv.validator.IsNonEmptyString(date) {
		ve.AddRequiredError(FieldDueDate)
		return "", ve
	}

	day, ok := tv.validator.ParseDate(date)
	if !ok {
		ve.AddInvalidFormatError(FieldDueDate, date, "YYYY-MM-DD or \"<day> de <month>\"")
		return "", ve
	}

	if !tv.validator.IsWithinDateWindow(day) {
		first, last := tv.validator.DateWindow()
		ve.AddInvalidRangeError(FieldDueDate, date,
			"must be between "+first.Format(codec.ISOLayout)+" and "+last.Format(codec.ISOLayout))
		return "", ve
	}

	return day.Format(codec.ISOLayout), nil
}

// ValidateDiscipline validates the discipline name of a task, reporting
// errors on the discipline field.
func (tv *TaskValidator) ValidateDiscipline(name string) (string, error) {
	out, err := tv.discipline.ValidateName(name)
	if err != nil {
		return out, relabel(err, FieldDiscipline)
	}
	return out, nil
}

// ValidateStatus accepts a status label or storage token.
func (tv *TaskValidator) ValidateStatus(status string) (domain.TaskStatus, error) {
	parsed, err := codec.ParseStatus(status)
	if err != nil {
		ve := NewValidationError()
		ve.AddInvalidValueError(FieldStatus, status, "must be one of pendente, em-andamento, concluída")
		return "", ve
	}
	return parsed, nil
}

// ValidateNewTask validates every field of a task creation request and
// returns the sanitized input with DueDate normalized to ISO.
func (tv *TaskValidator) ValidateNewTask(in domain.NewTask) (domain.NewTask, error) {
	ve := NewValidationError()
	var out domain.NewTask
	var err error

	out.Title, err = tv.ValidateTitle(in.Title)
	ve.Merge(err)

	out.Description, err = tv.ValidateDescription(in.Description)
	ve.Merge(err)

	out.Discipline, err = tv.ValidateDiscipline(in.Discipline)
	ve.Merge(err)

	out.DueDate, err = tv.ValidateDueDate(in.DueDate)
	ve.Merge(err)

	if ve.HasErrors() {
		return domain.NewTask{}, ve
	}
	return out, nil
}

// relabel moves the field errors of err onto field.
func relabel(err error, field string) error {
	src, ok := AsValidationError(err)
	if !ok {
		return err
	}
	out := NewValidationError()
	for _, fe := range src.Errors {
		fe.Message = field + fe.Message[len(fe.Field):]
		fe.Field = field
		out.Errors = append(out.Errors, fe)
	}
	return out
}
