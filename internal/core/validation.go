// internal/core/validation.go
package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks input rejected before it reaches the database.
var ErrValidation = errors.New("validation failed")

// Regular expression for valid table/column names (alphanumeric + underscore)
var nameValidationRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// IsValidIdentifier checks if a string can be interpolated into SQL as a table or column name.
func IsValidIdentifier(name string) bool {
	return len(name) > 0 && len(name) <= 64 && nameValidationRegex.MatchString(name)
}

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct runs the `validate` tags of s. Failures are returned wrapping
// ErrValidation with one "Field: tag" entry per failed field.
func ValidateStruct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, ", "))
}

// ValidateVar checks a single value against tag, reporting failures under field.
func ValidateVar(field string, value any, tag string) error {
	if err := Validator().Var(value, tag); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			return fmt.Errorf("%w: %s: %s", ErrValidation, field, validationErrs[0].Tag())
		}
		return fmt.Errorf("%w: %s: %v", ErrValidation, field, err)
	}
	return nil
}
