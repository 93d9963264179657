// Package client defines the client record managed by the CRM API together
// with the input validation shared by every server path.
package client

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a client.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Client is the full client record returned by the API.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Address   string    `json:"address"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Input is the request body for create and update.
type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company,omitempty"`
	Address string `json:"address,omitempty"`
	Status  Status `json:"status,omitempty"`
}

// New builds a client from in. The id is left for the store to assign.
func New(in Input, now time.Time) Client {
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	return Client{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		Address:   in.Address,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply returns c with every input field replaced. An empty status keeps
// the current one; id and creation time never change.
func (c Client) Apply(in Input, now time.Time) Client {
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.Company = in.Company
	c.Address = in.Address
	if in.Status != "" {
		c.Status = in.Status
	}
	c.UpdatedAt = now
	return c
}

// SameEmail compares two addresses the way the duplicate check does.
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
