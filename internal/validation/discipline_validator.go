package validation

// FieldName is the field reported in discipline validation errors.
const FieldName = "name"

// DisciplineValidator provides validation for Discipline-related operations
type DisciplineValidator struct {
	validator *Validator
}

// NewDisciplineValidator creates a new discipline validator
func NewDisciplineValidator(v *Validator) *DisciplineValidator {
	if v == nil {
		v = NewValidator()
	}
	return &DisciplineValidator{validator: v}
}

// ValidateName sanitizes and normalizes a discipline name, then checks it is
// present, short enough and made of allowed characters.
func (dv *DisciplineValidator) ValidateName(name string) (string, error) {
	sanitized := dv.validator.NormalizeName(Sanitize(name))
	ve := NewValidationError()

	if sanitized == "" {
		ve.AddRequiredError(FieldName)
		return "", ve
	}

	max := dv.validator.getDisciplineNameMaxLength()
	if !dv.validator.IsValidStringLength(sanitized, max) {
		truncated := Truncate(sanitized, max)
		ve.AddInvalidLengthError(FieldName, truncated, 0, max)
		return truncated, ve
	}

	if !dv.validator.IsValidDisciplineName(sanitized) {
		ve.AddInvalidCharacterError(FieldName, sanitized)
		return sanitized, ve
	}

	return sanitized, nil
}
