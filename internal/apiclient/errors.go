package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// NetworkErrorMessage is reported when the server cannot be reached.
const NetworkErrorMessage = "Network Error: Unable to reach the server"

// Error is a failed API call. Status is 0 when no response arrived.
type Error struct {
	Status  int
	Message string
	// Details holds the reasons the server gave, if any.
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + " (" + strings.Join(e.Details, "; ") + ")"
}

func (e *Error) Unwrap() error { return e.Err }

// MessageForStatus is the user-facing text for an HTTP error status.
func MessageForStatus(status int) string {
	switch status {
	case 0:
		return NetworkErrorMessage
	case http.StatusBadRequest:
		return "Bad Request: Invalid client data provided"
	case http.StatusUnauthorized:
		return "Unauthorized: Please log in to continue"
	case http.StatusForbidden:
		return "Forbidden: You do not have permission to perform this action"
	case http.StatusNotFound:
		return "Not Found: Client not found"
	case http.StatusConflict:
		return "Conflict: Client with this email already exists"
	case http.StatusUnprocessableEntity:
		return "Validation Error: Please check your input data"
	case http.StatusInternalServerError:
		return "Internal Server Error: Please try again later"
	}
	return fmt.Sprintf("Server Error: %d - %s", status, http.StatusText(status))
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

// IsConflict reports whether err is a 409 from the API.
func IsConflict(err error) bool { return StatusOf(err) == http.StatusConflict }
