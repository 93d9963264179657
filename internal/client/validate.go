package client

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has the shape local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Validate checks required fields, the email shape and the status enum.
// It returns a *ValidationError or nil.
func (in Input) Validate() error {
	var problems []string

	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "Name is required")
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		problems = append(problems, "Email is required")
	} else if !ValidEmail(email) {
		problems = append(problems, "Email format is invalid")
	}
	if strings.TrimSpace(in.Phone) == "" {
		problems = append(problems, "Phone is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		problems = append(problems, `Status must be either "active" or "inactive"`)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Sanitized trims every text field and strips any markup from it.
func (in Input) Sanitized() Input {
	return Input{
		Name:    sanitizeText(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   sanitizeText(in.Phone),
		Company: sanitizeText(in.Company),
		Address: sanitizeText(in.Address),
		Status:  Status(strings.ToLower(strings.TrimSpace(string(in.Status)))),
	}
}

func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	// StrictPolicy escapes entities in the text it keeps; records store plain text.
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(trimmed)))
}
