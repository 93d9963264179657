// Package filter narrows a client list by search term and status.
package filter

import (
	"fmt"
	"strings"

	"clientdesk/internal/client"
)

// StatusFilter selects clients by status. StatusAll disables the filter.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

// ParseStatus maps s to a StatusFilter; "" means StatusAll.
func ParseStatus(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	}
	return "", fmt.Errorf("unknown status filter %q", s)
}

// Filters is the filter criteria.
type Filters struct {
	SearchTerm string       `json:"searchTerm"`
	Status     StatusFilter `json:"statusFilter"`
}

// Defaults is the unfiltered criteria.
func Defaults() Filters {
	return Filters{Status: StatusAll}
}

func (f Filters) status() StatusFilter {
	if f.Status == "" {
		return StatusAll
	}
	return f.Status
}

// Active reports whether f narrows the list at all.
func (f Filters) Active() bool {
	return strings.TrimSpace(f.SearchTerm) != "" || f.status() != StatusAll
}

// Summary describes f for display.
func (f Filters) Summary() string {
	var parts []string
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", term))
	}
	switch f.status() {
	case StatusActive:
		parts = append(parts, "Status: Active only")
	case StatusInactive:
		parts = append(parts, "Status: Inactive only")
	}
	if len(parts) == 0 {
		return "No filters applied"
	}
	return strings.Join(parts, ", ")
}

// Apply returns the clients matching f in their original order. The search
// term is trimmed and matched case-insensitively against name, email,
// company and phone.
func Apply(clients []client.Client, f Filters) []client.Client {
	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))
	status := f.status()

	out := make([]client.Client, 0, len(clients))
	for _, c := range clients {
		if term != "" && !matches(c, term) {
			continue
		}
		if status != StatusAll && string(c.Status) != string(status) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matches(c client.Client, term string) bool {
	for _, field := range []string{c.Name, c.Email, c.Company, c.Phone} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
