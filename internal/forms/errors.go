package forms

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoFields is returned for a schema without any field.
	ErrNoFields = errors.New("invalid configuration: no fields provided")

	// ErrSchemaNotFound is returned when a schema source does not exist.
	ErrSchemaNotFound = errors.New("form schema not found")

	// ErrUnknownField is returned when a value targets a key with no control.
	ErrUnknownField = errors.New("unknown form field")
)

// SchemaError describes a descriptor that cannot be normalized.
type SchemaError struct {
	Index  int
	Key    string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("field %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("field %d (%s): %s", e.Index, e.Key, e.Reason)
}

// FieldError is a failed validation rule on one control.
type FieldError struct {
	Key     string    `json:"key"`
	Label   string    `json:"fieldLabel"`
	Type    FieldType `json:"fieldType"`
	Value   any       `json:"value"`
	Rule    string    `json:"rule"`
	Message string    `json:"errorMessage"`
}

// ValidationError is returned by Submit when any visible field is invalid.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	keys := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		keys[i] = fe.Key
	}
	return fmt.Sprintf("form has %d invalid field(s): %s", len(e.Errors), strings.Join(keys, ", "))
}

// Message is the user-facing summary shown when submission is refused.
func (e *ValidationError) Message() string {
	n := len(e.Errors)
	if n == 1 {
		return "Please fix 1 validation error before submitting."
	}
	return fmt.Sprintf("Please fix %d validation errors before submitting.", n)
}

// Fields maps each invalid key to its message.
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		out[fe.Key] = fe.Message
	}
	return out
}
