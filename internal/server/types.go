package server

import (
	"time"

	"clientdesk/internal/forms"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
	Uptime      float64   `json:"uptime"`
	Clients     int       `json:"clients"`
	DB          string    `json:"db"`
}

// ErrorResponse is the body of a single-message error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationResponse is the body of a rejected client write.
type ValidationResponse struct {
	Errors []string `json:"errors"`
}

// RouteNotFoundResponse is the body returned for unknown routes.
type RouteNotFoundResponse struct {
	Error              string   `json:"error"`
	Message            string   `json:"message"`
	AvailableEndpoints []string `json:"availableEndpoints"`
}

// FormListResponse is the body of GET /forms.
type FormListResponse struct {
	Forms []string `json:"forms"`
}

// FormResponse is the processed schema returned by GET /forms/:name.
type FormResponse struct {
	Name        string         `json:"name"`
	Title       string         `json:"formTitle,omitempty"`
	Description string         `json:"formDescription,omitempty"`
	SubmitText  string         `json:"submitButtonText,omitempty"`
	ResetText   string         `json:"resetButtonText,omitempty"`
	Fields      []forms.Field  `json:"fields"`
	Values      map[string]any `json:"formData"`
}

// FormSubmitResponse is the body of an accepted form submission.
type FormSubmitResponse struct {
	Data map[string]any `json:"data"`
}

// FormErrorResponse is the body of a rejected form submission.
type FormErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

var availableEndpoints = []string{
	"GET /clients",
	"GET /clients/:id",
	"POST /clients",
	"PUT /clients/:id",
	"DELETE /clients/:id",
	"GET /health",
	"GET /metrics",
	"GET /forms",
	"GET /forms/:name",
	"POST /forms/:name/submit",
}
