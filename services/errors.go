package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrInvalidDuration is returned for a non-positive rental duration.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidInput is matched by every *InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a quotation or template record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTemplate is returned when a template cannot be turned into markup.
	ErrInvalidTemplate = errors.New("invalid template")
)

// InvalidInputError reports a structurally invalid pricing input such as a
// negative quantity or charge. Fields carries per-field messages when more
// than one field failed validation.
type InvalidInputError struct {
	Field  string
	Reason string
	Fields map[string]string
}

func (e *InvalidInputError) Error() string {
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
		}
		return "invalid input: " + strings.Join(parts, "; ")
	}
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// fromValidation converts ozzo-validation errors into an InvalidInputError.
// Internal validator failures are returned unchanged.
func fromValidation(prefix string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		if ferr == nil {
			continue
		}
		fields[prefix+field] = ferr.Error()
	}
	if len(fields) == 1 {
		for field, reason := range fields {
			return &InvalidInputError{Field: field, Reason: reason}
		}
	}
	return &InvalidInputError{Fields: fields}
}

// durationError matches both ErrInvalidDuration and ErrInvalidInput.
type durationError struct {
	days int
}

func (e *durationError) Error() string {
	return fmt.Sprintf("invalid duration: %d days, must be at least 1", e.days)
}

func (e *durationError) Is(target error) bool {
	return target == ErrInvalidDuration || target == ErrInvalidInput
}

func lineFieldPrefix(i int) string {
	return fmt.Sprintf("lines[%d].", i)
}
