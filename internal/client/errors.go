package client

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when no client has the requested id.
	ErrNotFound = errors.New("client not found")

	// ErrDuplicateEmail is returned when another client already uses the email.
	ErrDuplicateEmail = errors.New("client with this email already exists")
)

// ValidationError lists every problem found in an Input.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid client: " + strings.Join(e.Problems, "; ")
}
